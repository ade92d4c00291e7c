package repository

import (
	"context"
	"fmt"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/slug"
)

func (r *ContentRepository) readPage(ctx context.Context, pageSlug string) (models.Page, bool, error) {
	v, ok, err := r.store.Read(ctx, pagesCollection, pageSlug)
	if err != nil {
		return models.Page{}, false, storageErr("read page", err)
	}
	if !ok {
		return models.Page{}, false, nil
	}

	var page models.Page
	if err := fromValue(v, &page); err != nil {
		return models.Page{}, false, errors.StorageError("decode page", err)
	}
	if page.Blocks == nil {
		page.Blocks = []models.Block{}
	}
	for i := range page.Blocks {
		if page.Blocks[i].Props.IsNull() {
			page.Blocks[i].Props = jsonvalue.EmptyObject()
		}
	}
	page.Slug = pageSlug
	return page, true, nil
}

// GetPage returns a page by slug
func (r *ContentRepository) GetPage(ctx context.Context, pageSlug string) (models.Page, error) {
	page, ok, err := r.readPage(ctx, pageSlug)
	if err != nil {
		return models.Page{}, err
	}
	if !ok {
		return models.Page{}, errors.NotFoundError("page " + pageSlug)
	}
	return page, nil
}

// SavePage stores page under its slug and bumps its version. When expectedVersion
// is positive it must match the stored version, otherwise Conflict is returned.
func (r *ContentRepository) SavePage(ctx context.Context, page models.Page, expectedVersion int64) (models.Page, error) {
	if !slug.IsValid(page.Slug) {
		return models.Page{}, errors.InvalidInputError("slug", "slug must be lowercase letters, digits and dashes")
	}

	unlock := r.locks.Lock(pagesCollection + "/" + page.Slug)
	defer unlock()

	current, exists, err := r.readPage(ctx, page.Slug)
	if err != nil {
		return models.Page{}, err
	}
	if expectedVersion > 0 && (!exists || current.Version != expectedVersion) {
		return models.Page{}, errors.ConflictError(fmt.Sprintf("page %s is at version %d, not %d", page.Slug, current.Version, expectedVersion))
	}

	if page.Blocks == nil {
		page.Blocks = []models.Block{}
	}
	page.Version = current.Version + 1
	page.UpdatedAt = r.now().UTC()

	stored := page
	stored.UnknownTypes = nil
	doc, err := toValue(stored)
	if err != nil {
		return models.Page{}, errors.InternalError("encode page: " + err.Error())
	}
	if err := r.store.Write(ctx, pagesCollection, page.Slug, doc); err != nil {
		return models.Page{}, storageErr("write page", err)
	}
	return page, nil
}

// DeletePage removes a page; deleting an absent page succeeds
func (r *ContentRepository) DeletePage(ctx context.Context, pageSlug string) error {
	if err := r.store.Delete(ctx, pagesCollection, pageSlug); err != nil {
		return storageErr("delete page", err)
	}
	return nil
}

// ListPages returns summaries of every page ordered by slug
func (r *ContentRepository) ListPages(ctx context.Context) ([]models.PageSummary, error) {
	keys, err := r.store.ListKeys(ctx, pagesCollection)
	if err != nil {
		return nil, storageErr("list pages", err)
	}

	out := make([]models.PageSummary, 0, len(keys))
	for _, key := range keys {
		page, ok, err := r.readPage(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, models.PageSummary{
			Slug:       page.Slug,
			Title:      page.Title,
			BlockCount: len(page.Blocks),
			Version:    page.Version,
			UpdatedAt:  page.UpdatedAt,
		})
	}
	return out, nil
}
