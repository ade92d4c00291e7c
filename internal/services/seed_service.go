package services

import (
	"context"
	"sync"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
)

// Seeder runs one seed pass
type Seeder interface {
	Run(ctx context.Context) models.SeedReport
}

// SeedService runs the seeder, one run at a time
type SeedService struct {
	seeder Seeder
	mu     sync.Mutex
}

// NewSeedService creates a new seed service instance
func NewSeedService(seeder Seeder) *SeedService {
	return &SeedService{seeder: seeder}
}

// Run seeds unless another run is in progress, in which case it returns Conflict
func (s *SeedService) Run(ctx context.Context) (*models.SeedReport, error) {
	if !s.mu.TryLock() {
		return nil, errors.ConflictError("a seed run is already in progress")
	}
	defer s.mu.Unlock()

	report := s.seeder.Run(ctx)
	return &report, nil
}
