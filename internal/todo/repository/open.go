package repository

import (
	"context"
	"fmt"

	"github.com/todoapp/todo-api/internal/config"
	"github.com/todoapp/todo-api/internal/database"
	"github.com/todoapp/todo-api/pkg/logger"
)

const mongoConnectAttempts = 5

// Open connects the repository selected by cfg.Store.Driver and prepares its
// schema or indexes. The returned close function releases the connection.
func Open(ctx context.Context, cfg *config.Config) (Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory todo store; data is lost on restart")
		return NewMemoryRepo(), func() {}, nil

	case config.DriverSQLite:
		db, err := database.ConnectSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using SQLite todo store at %s", cfg.Store.SQLitePath)
		return NewSQLiteRepo(db), func() { _ = db.Close() }, nil

	case config.DriverMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts,
			func(attempt int, err error) {
				logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, mongoConnectAttempts, err)
			})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		repo := NewMongoRepo(client.Database(cfg.MongoDB.Database))
		ictx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
		defer cancel()
		if err := repo.EnsureIndexes(ictx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		logger.Infof("using MongoDB todo store (database %s)", cfg.MongoDB.Database)
		return repo, closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
