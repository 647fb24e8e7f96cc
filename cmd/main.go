package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"inventory-api/internal/infrastructure/config"
	"inventory-api/internal/infrastructure/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server := server.NewServer(cfg)

	if err := server.Run(ctx); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
