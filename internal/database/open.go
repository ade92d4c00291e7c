// Package database selects and opens the document store named by STORAGE_DRIVER.
package database

import (
	"context"
	"fmt"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/database/memory"
	"github.com/evohome/evohome-cms/internal/database/postgres"
	"github.com/evohome/evohome-cms/internal/database/redis"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/db"
	"github.com/evohome/evohome-cms/pkg/logger"
	"go.uber.org/zap"
)

// Open connects to the configured backend. The returned func releases it.
func Open(ctx context.Context, cfg *config.Config) (repository.DocumentStore, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := db.NewPool(ctx, PoolConfig(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres pool: %w", err)
		}
		return postgres.NewClient(pool), func() { db.Close(pool) }, nil

	case "redis":
		store, err := redis.NewStore(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close() //nolint:errcheck
			return nil, nil, fmt.Errorf("redis unreachable: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close redis store", zap.Error(err))
			}
		}, nil

	case "memory":
		logger.Warn("Using in-memory document store; content is lost on restart")
		return memory.NewStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// PoolConfig maps database settings onto the pool configuration
func PoolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
		CACertPath: cfg.Database.CACertPath,
	}
}
