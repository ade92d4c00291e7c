package services

import (
	"context"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"go.uber.org/zap"
)

// ContentService reads and edits singleton content slots
type ContentService struct {
	repo repository.ContentRepositoryInterface
}

// NewContentService creates a new content service instance
func NewContentService(repo repository.ContentRepositoryInterface) *ContentService {
	return &ContentService{repo: repo}
}

func (s *ContentService) ListSlots(ctx context.Context) (*models.SlotListResponse, error) {
	slots, err := s.repo.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	return &models.SlotListResponse{
		Slots:      slots,
		Configured: s.repo.ConfiguredSlots(),
	}, nil
}

func (s *ContentService) GetSlot(ctx context.Context, name string) (*models.SlotResponse, error) {
	v, err := s.repo.GetSlot(ctx, name)
	if err != nil {
		return nil, err
	}
	return &models.SlotResponse{Slot: name, Data: v}, nil
}

// PutSlot replaces the slot value wholesale
func (s *ContentService) PutSlot(ctx context.Context, name string, value jsonvalue.Value) (*models.SlotResponse, error) {
	if err := s.repo.PutSlot(ctx, name, value); err != nil {
		recordWrite("slot", err)
		return nil, err
	}
	recordWrite("slot", nil)
	logger.Info("Content slot replaced", zap.String("slot", name))
	return &models.SlotResponse{Slot: name, Data: value}, nil
}

// MergeSlot deep-merges patch into the stored value
func (s *ContentService) MergeSlot(ctx context.Context, name string, patch jsonvalue.Value) (*models.SlotResponse, error) {
	merged, err := s.repo.MergeSlot(ctx, name, patch)
	recordWrite("slot_merge", err)
	if err != nil {
		return nil, err
	}
	logger.Info("Content slot merged", zap.String("slot", name), zap.Strings("keys", patch.Keys()))
	return &models.SlotResponse{Slot: name, Data: merged}, nil
}

// SetSlotField sets one nested field by dot path
func (s *ContentService) SetSlotField(ctx context.Context, name string, req *models.SetSlotFieldRequest) (*models.SlotResponse, error) {
	updated, err := s.repo.SetSlotField(ctx, name, req.Path, req.Value)
	recordWrite("slot_field", err)
	if err != nil {
		return nil, err
	}
	logger.Info("Content slot field set", zap.String("slot", name), zap.String("path", req.Path))
	return &models.SlotResponse{Slot: name, Data: updated}, nil
}

// recordWrite counts a write by kind and whether it succeeded
func recordWrite(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ContentWrites.WithLabelValues(kind, outcome).Inc()
}
