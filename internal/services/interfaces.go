package services

import (
	"context"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// ContentServiceInterface defines the interface for content slot operations
type ContentServiceInterface interface {
	ListSlots(ctx context.Context) (*models.SlotListResponse, error)
	GetSlot(ctx context.Context, name string) (*models.SlotResponse, error)
	PutSlot(ctx context.Context, name string, value jsonvalue.Value) (*models.SlotResponse, error)
	MergeSlot(ctx context.Context, name string, patch jsonvalue.Value) (*models.SlotResponse, error)
	SetSlotField(ctx context.Context, name string, req *models.SetSlotFieldRequest) (*models.SlotResponse, error)
}

// RecordServiceInterface defines the interface for record collection operations
type RecordServiceInterface interface {
	List(ctx context.Context, collection string) (*models.RecordListResponse, error)
	Get(ctx context.Context, collection, id string) (jsonvalue.Value, error)
	Upsert(ctx context.Context, collection string, record jsonvalue.Value) (*models.RecordResponse, error)
	Replace(ctx context.Context, collection, id string, record jsonvalue.Value) (*models.RecordResponse, error)
	Delete(ctx context.Context, collection, id string) error
	Reorder(ctx context.Context, collection string, from, to int) (*models.RecordListResponse, error)
}

// PageServiceInterface defines the interface for page-builder operations
type PageServiceInterface interface {
	BlockTypes() []models.BlockTypeDefinition
	ListPages(ctx context.Context) ([]models.PageSummary, error)
	GetPage(ctx context.Context, slug string) (*models.Page, error)
	SavePage(ctx context.Context, slug string, raw jsonvalue.Value) (*models.Page, error)
	DeletePage(ctx context.Context, slug string) error
	InsertBlock(ctx context.Context, slug string, req *models.InsertBlockRequest) (*models.Page, error)
	RemoveBlock(ctx context.Context, slug string, index int) (*models.Page, error)
	ReorderBlocks(ctx context.Context, slug string, from, to int) (*models.Page, error)
}

// LeadServiceInterface defines the interface for lead operations
type LeadServiceInterface interface {
	SubmitLead(ctx context.Context, req *models.CreateLeadRequest) (*models.CreateLeadResponse, error)
	ListLeads(ctx context.Context, page, pageSize int) (*models.LeadListResponse, error)
}

// UploadServiceInterface defines the interface for image uploads
type UploadServiceInterface interface {
	Store(ctx context.Context, data []byte, filename, contentType string) (*models.UploadResponse, error)
}

// SeedServiceInterface defines the interface for seeding
type SeedServiceInterface interface {
	Run(ctx context.Context) (*models.SeedReport, error)
}

// AdminAuthServiceInterface defines admin authentication against configured secrets
type AdminAuthServiceInterface interface {
	PasswordLoginEnabled() bool
	Authenticate(ctx context.Context, email, password string) (*models.AdminLoginResponse, *models.AdminSession, error)
	Verify(token string) (*models.AdminSession, error)
	VerifyKey(key string) (*models.AdminSession, error)
	Check(token string) models.Verification
}

// Ensure services implement their interfaces
var _ ContentServiceInterface = (*ContentService)(nil)
var _ RecordServiceInterface = (*RecordService)(nil)
var _ PageServiceInterface = (*PageService)(nil)
var _ LeadServiceInterface = (*LeadService)(nil)
var _ UploadServiceInterface = (*UploadService)(nil)
var _ SeedServiceInterface = (*SeedService)(nil)
var _ AdminAuthServiceInterface = (*AdminAuthService)(nil)
