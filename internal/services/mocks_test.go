package services_test

import (
	"context"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/stretchr/testify/mock"
)

// MockContentRepository is a mock implementation of ContentRepositoryInterface
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) ConfiguredSlots() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockContentRepository) IsSlot(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockContentRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockContentRepository) GetSlot(ctx context.Context, name string) (jsonvalue.Value, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(jsonvalue.Value), args.Error(1)
}

func (m *MockContentRepository) PutSlot(ctx context.Context, name string, value jsonvalue.Value) error {
	return m.Called(ctx, name, value).Error(0)
}

func (m *MockContentRepository) MergeSlot(ctx context.Context, name string, patch jsonvalue.Value) (jsonvalue.Value, error) {
	args := m.Called(ctx, name, patch)
	return args.Get(0).(jsonvalue.Value), args.Error(1)
}

func (m *MockContentRepository) SetSlotField(ctx context.Context, name, path string, value jsonvalue.Value) (jsonvalue.Value, error) {
	args := m.Called(ctx, name, path, value)
	return args.Get(0).(jsonvalue.Value), args.Error(1)
}

func (m *MockContentRepository) ListSlots(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentRepository) ListRecords(ctx context.Context, collection string) ([]jsonvalue.Value, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]jsonvalue.Value), args.Error(1)
}

func (m *MockContentRepository) GetRecord(ctx context.Context, collection, id string) (jsonvalue.Value, error) {
	args := m.Called(ctx, collection, id)
	return args.Get(0).(jsonvalue.Value), args.Error(1)
}

func (m *MockContentRepository) UpsertRecord(ctx context.Context, collection string, record jsonvalue.Value) (jsonvalue.Value, models.UpsertOutcome, error) {
	args := m.Called(ctx, collection, record)
	return args.Get(0).(jsonvalue.Value), args.Get(1).(models.UpsertOutcome), args.Error(2)
}

func (m *MockContentRepository) DeleteRecord(ctx context.Context, collection, id string) error {
	return m.Called(ctx, collection, id).Error(0)
}

func (m *MockContentRepository) ReorderRecord(ctx context.Context, collection string, from, to int) ([]jsonvalue.Value, error) {
	args := m.Called(ctx, collection, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]jsonvalue.Value), args.Error(1)
}

func (m *MockContentRepository) GetPage(ctx context.Context, slug string) (models.Page, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Page), args.Error(1)
}

func (m *MockContentRepository) SavePage(ctx context.Context, page models.Page, expectedVersion int64) (models.Page, error) {
	args := m.Called(ctx, page, expectedVersion)
	return args.Get(0).(models.Page), args.Error(1)
}

func (m *MockContentRepository) DeletePage(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *MockContentRepository) ListPages(ctx context.Context) ([]models.PageSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PageSummary), args.Error(1)
}

func (m *MockContentRepository) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(models.Lead), args.Error(1)
}

func (m *MockContentRepository) ListLeads(ctx context.Context, page, pageSize int) ([]models.Lead, int, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Lead), args.Int(1), args.Error(2)
}

// MockObjectStore is a mock implementation of objectstore.Store
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Driver() string {
	return "mock"
}

// MockSeeder is a mock implementation of services.Seeder
type MockSeeder struct {
	mock.Mock
}

func (m *MockSeeder) Run(ctx context.Context) models.SeedReport {
	return m.Called(ctx).Get(0).(models.SeedReport)
}
