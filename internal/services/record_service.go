package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"go.uber.org/zap"
)

// RecordService manages ordered record collections (services, blogs, gallery)
type RecordService struct {
	repo repository.ContentRepositoryInterface
}

// NewRecordService creates a new record service instance
func NewRecordService(repo repository.ContentRepositoryInterface) *RecordService {
	return &RecordService{repo: repo}
}

func (s *RecordService) List(ctx context.Context, collection string) (*models.RecordListResponse, error) {
	items, err := s.repo.ListRecords(ctx, collection)
	if err != nil {
		return nil, err
	}
	return &models.RecordListResponse{Collection: collection, Items: items, Total: len(items)}, nil
}

func (s *RecordService) Get(ctx context.Context, collection, id string) (jsonvalue.Value, error) {
	return s.repo.GetRecord(ctx, collection, id)
}

// Upsert replaces the record with the same identifier or appends a new one
func (s *RecordService) Upsert(ctx context.Context, collection string, record jsonvalue.Value) (*models.RecordResponse, error) {
	stored, outcome, err := s.repo.UpsertRecord(ctx, collection, record)
	if err != nil {
		metrics.ContentWrites.WithLabelValues("record", "error").Inc()
		return nil, err
	}
	metrics.ContentWrites.WithLabelValues("record", string(outcome)).Inc()
	logger.Info("Record upserted",
		zap.String("collection", collection),
		zap.String("outcome", string(outcome)))
	return &models.RecordResponse{Record: stored, Outcome: outcome}, nil
}

// Replace upserts record under id. A body identifier that disagrees with id is rejected.
func (s *RecordService) Replace(ctx context.Context, collection, id string, record jsonvalue.Value) (*models.RecordResponse, error) {
	spec, ok := models.LookupCollection(collection)
	if !ok {
		return nil, errors.NotFoundError("collection " + collection)
	}
	if !record.IsObject() {
		return nil, errors.InvalidInputError("record", "record must be a JSON object")
	}
	if v, ok := record.Field(spec.KeyField); ok && !v.IsNull() {
		if bodyID := literalID(v); bodyID != id {
			return nil, errors.InvalidInputError(spec.KeyField, fmt.Sprintf("%s in body does not match %q", spec.KeyField, id))
		}
	}
	return s.Upsert(ctx, collection, record.With(spec.KeyField, jsonvalue.StringValue(id)))
}

// Delete removes a record; deleting a missing record succeeds
func (s *RecordService) Delete(ctx context.Context, collection, id string) error {
	err := s.repo.DeleteRecord(ctx, collection, id)
	recordWrite("record_delete", err)
	return err
}

// Reorder moves the record at from to position to
func (s *RecordService) Reorder(ctx context.Context, collection string, from, to int) (*models.RecordListResponse, error) {
	items, err := s.repo.ReorderRecord(ctx, collection, from, to)
	recordWrite("record_reorder", err)
	if err != nil {
		return nil, err
	}
	return &models.RecordListResponse{Collection: collection, Items: items, Total: len(items)}, nil
}

func literalID(v jsonvalue.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if f, ok := v.AsNumber(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
