package services_test

import (
	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/database/memory"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// newMemoryRepository returns a repository over a fresh in-memory store
func newMemoryRepository() *repository.ContentRepository {
	return repository.NewContentRepository(memory.NewStore(), config.DefaultContentSlots)
}
