package services

import (
	"context"

	"github.com/evohome/evohome-cms/internal/builder"
	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"go.uber.org/zap"
)

// PageService manages page-builder pages and their blocks
type PageService struct {
	repo     repository.ContentRepositoryInterface
	registry *builder.Registry
}

// NewPageService creates a new page service instance
func NewPageService(repo repository.ContentRepositoryInterface, registry *builder.Registry) *PageService {
	return &PageService{repo: repo, registry: registry}
}

func (s *PageService) BlockTypes() []models.BlockTypeDefinition {
	return s.registry.Definitions()
}

func (s *PageService) ListPages(ctx context.Context) ([]models.PageSummary, error) {
	return s.repo.ListPages(ctx)
}

// GetPage returns a page with any unregistered block types flagged
func (s *PageService) GetPage(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.repo.GetPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	page.UnknownTypes = s.registry.UnknownTypes(page)
	return &page, nil
}

// SavePage validates raw and stores it under slug. A version in the body is the
// version the editor started from; a stale one is rejected with Conflict.
func (s *PageService) SavePage(ctx context.Context, slug string, raw jsonvalue.Value) (*models.Page, error) {
	page, err := s.registry.ValidatePage(raw)
	if err != nil {
		recordWrite("page", err)
		return nil, err
	}
	page.Slug = slug

	saved, err := s.repo.SavePage(ctx, page, page.Version)
	recordWrite("page", err)
	if err != nil {
		return nil, err
	}
	if len(saved.UnknownTypes) > 0 {
		logger.Warn("Page saved with unregistered block types",
			zap.String("slug", slug),
			zap.Strings("types", saved.UnknownTypes))
	}
	return &saved, nil
}

func (s *PageService) DeletePage(ctx context.Context, slug string) error {
	err := s.repo.DeletePage(ctx, slug)
	recordWrite("page_delete", err)
	return err
}

// InsertBlock adds a block with default props; a nil index appends
func (s *PageService) InsertBlock(ctx context.Context, slug string, req *models.InsertBlockRequest) (*models.Page, error) {
	return s.editBlocks(ctx, slug, func(page models.Page) (models.Page, error) {
		index := len(page.Blocks)
		if req.Index != nil {
			index = *req.Index
		}
		return s.registry.InsertBlock(page, index, req.Type)
	})
}

func (s *PageService) RemoveBlock(ctx context.Context, slug string, index int) (*models.Page, error) {
	return s.editBlocks(ctx, slug, func(page models.Page) (models.Page, error) {
		return builder.RemoveBlock(page, index)
	})
}

func (s *PageService) ReorderBlocks(ctx context.Context, slug string, from, to int) (*models.Page, error) {
	return s.editBlocks(ctx, slug, func(page models.Page) (models.Page, error) {
		return builder.ReorderBlocks(page, from, to)
	})
}

// editBlocks applies edit to the stored page and saves it against the version it read
func (s *PageService) editBlocks(ctx context.Context, slug string, edit func(models.Page) (models.Page, error)) (*models.Page, error) {
	page, err := s.repo.GetPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	edited, err := edit(page)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.SavePage(ctx, edited, page.Version)
	recordWrite("page_blocks", err)
	if err != nil {
		return nil, err
	}
	saved.UnknownTypes = s.registry.UnknownTypes(saved)
	return &saved, nil
}
