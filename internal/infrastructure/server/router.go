package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	categoriesController "inventory-api/internal/interfaces/controller/categories"
	itemsController "inventory-api/internal/interfaces/controller/items"
	"inventory-api/internal/interfaces/controller/response"
	"inventory-api/internal/usecase"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter builds the echo instance with middleware and all routes.
func NewRouter(itemUsecase usecase.ItemUsecase, categoryUsecase usecase.CategoryUsecase, db Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// "/items/1/" と "/items/1" を同じルートとして扱う
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := log.JSON{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				c.Logger().Errorj(fields)
				return nil
			}
			c.Logger().Infoj(fields)
			return nil
		},
	}))

	e.GET("/health", healthHandler(db))

	g := e.Group("")
	itemsController.NewItemHandler(itemUsecase, categoryUsecase).Register(g)
	categoriesController.NewCategoryHandler(categoryUsecase, itemUsecase).Register(g)

	return e
}

func healthHandler(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.Logger().Warnf("health: %v", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// errorHandler renders errors that escape handlers (unknown routes, wrong
// methods, panics) with the same body shape as handler errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = response.Error(c, code, message)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
