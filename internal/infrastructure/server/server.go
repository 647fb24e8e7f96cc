package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"inventory-api/internal/infrastructure/config"
	"inventory-api/internal/infrastructure/database"
	"inventory-api/internal/infrastructure/persistence/cache"
	"inventory-api/internal/infrastructure/persistence/mysql"
	"inventory-api/internal/usecase"
)

type Server struct {
	cfg *config.Config
}

func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run connects to the backing stores, serves HTTP and shuts down
// gracefully once ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log.SetLevel(parseLevel(s.cfg.Server.LogLevel))

	db, err := database.Open(ctx, s.cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Infof("connected to mysql %s:%s", s.cfg.Database.Host, s.cfg.Database.Port)

	if s.cfg.Database.MigrateOnRun {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	rdb := s.openRedis(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	e := NewRouter(buildUsecases(db, rdb, s.cfg.Redis))
	e.Logger.SetLevel(parseLevel(s.cfg.Server.LogLevel))

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on :%s", s.cfg.Server.Port)
		if err := e.Start(":" + s.cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("HTTP server stopped")

	return nil
}

// openRedis returns nil when the cache is disabled or unreachable.
func (s *Server) openRedis(ctx context.Context) *redis.Client {
	if s.cfg.Redis.Addr == "" {
		log.Info("redis cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.cfg.Redis.Addr,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("redis %s unreachable, running without cache: %v", s.cfg.Redis.Addr, err)
		rdb.Close()
		return nil
	}
	log.Infof("connected to redis %s", s.cfg.Redis.Addr)
	return rdb
}

// buildUsecases wires repositories into usecases. The cache decorator is
// only added when rdb is non-nil.
func buildUsecases(db *sql.DB, rdb *redis.Client, cfg config.RedisConfig) (usecase.ItemUsecase, usecase.CategoryUsecase, Pinger) {
	var itemRepo usecase.ItemRepository = mysql.NewItemRepository(db)
	if rdb != nil {
		itemRepo = cache.NewItemRepository(itemRepo, rdb, cfg.TTL)
	}
	categoryUsecase := usecase.NewCategoryUsecase(mysql.NewCategoryRepository(db))
	itemUsecase := usecase.NewItemUsecase(itemRepo, categoryUsecase)

	return itemUsecase, categoryUsecase, db
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
