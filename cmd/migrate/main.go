// Command migrate prepares the configured todo store (SQLite schema or
// MongoDB indexes) and exits, so deployments can run it before the API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/todoapp/todo-api/internal/config"
	"github.com/todoapp/todo-api/internal/todo"
	"github.com/todoapp/todo-api/internal/todo/repository"
	"github.com/todoapp/todo-api/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("migrate %s store: %v", cfg.Store.Driver, err)
	}
	defer closeStore()

	_, total, err := repo.List(ctx, todo.ListOptions{Limit: 1})
	if err != nil {
		logger.Errorf("store prepared but listing failed: %v", err)
		return
	}
	logger.Infof("%s store ready, %d todos", cfg.Store.Driver, total)
}
