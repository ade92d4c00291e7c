package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/database"
	"github.com/evohome/evohome-cms/pkg/db"
	"github.com/evohome/evohome-cms/pkg/logger"
	"go.uber.org/zap"
)

// Usage: migrate [up|down]
func main() {
	direction := db.Up
	if len(os.Args) > 1 {
		direction = db.Direction(os.Args[1])
	}
	if direction != db.Up && direction != db.Down {
		fmt.Fprintf(os.Stderr, "usage: %s [up|down]\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "evohome-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Storage.Driver != "postgres" {
		logger.Info("Nothing to migrate", zap.String("storage", cfg.Storage.Driver))
		return
	}

	logger.Info("Running database migrations",
		zap.String("direction", string(direction)),
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	if err := db.RunMigrations(database.PoolConfig(cfg), "file://migrations", direction); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides the password in the connection string
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
