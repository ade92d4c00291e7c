package repository

import (
	"context"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// DocumentStore is the storage contract beneath the content model.
// Implementations live in internal/database and internal/cache.
type DocumentStore interface {
	// Read returns the document and whether it exists
	Read(ctx context.Context, collection, key string) (jsonvalue.Value, bool, error)

	// Write creates or replaces a document
	Write(ctx context.Context, collection, key string, value jsonvalue.Value) error

	// Delete removes a document; deleting an absent key is not an error
	Delete(ctx context.Context, collection, key string) error

	// ListKeys returns every key in a collection in ascending byte order
	ListKeys(ctx context.Context, collection string) ([]string, error)

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and metrics
	Name() string
}

// ContentRepositoryInterface is the content model the services depend on
type ContentRepositoryInterface interface {
	ConfiguredSlots() []string
	IsSlot(name string) bool
	Ping(ctx context.Context) error

	GetSlot(ctx context.Context, name string) (jsonvalue.Value, error)
	PutSlot(ctx context.Context, name string, value jsonvalue.Value) error
	MergeSlot(ctx context.Context, name string, patch jsonvalue.Value) (jsonvalue.Value, error)
	SetSlotField(ctx context.Context, name, path string, value jsonvalue.Value) (jsonvalue.Value, error)
	ListSlots(ctx context.Context) ([]string, error)

	ListRecords(ctx context.Context, collection string) ([]jsonvalue.Value, error)
	GetRecord(ctx context.Context, collection, id string) (jsonvalue.Value, error)
	UpsertRecord(ctx context.Context, collection string, record jsonvalue.Value) (jsonvalue.Value, models.UpsertOutcome, error)
	DeleteRecord(ctx context.Context, collection, id string) error
	ReorderRecord(ctx context.Context, collection string, from, to int) ([]jsonvalue.Value, error)

	GetPage(ctx context.Context, slug string) (models.Page, error)
	SavePage(ctx context.Context, page models.Page, expectedVersion int64) (models.Page, error)
	DeletePage(ctx context.Context, slug string) error
	ListPages(ctx context.Context) ([]models.PageSummary, error)

	CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error)
	ListLeads(ctx context.Context, page, pageSize int) ([]models.Lead, int, error)
}

var _ ContentRepositoryInterface = (*ContentRepository)(nil)
