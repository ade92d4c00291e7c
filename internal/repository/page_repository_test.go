package repository_test

import (
	"context"
	"testing"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage() models.Page {
	return models.Page{
		Slug:  "landing",
		Title: "Landing",
		Blocks: []models.Block{
			{Type: "hero", Props: jsonvalue.MustParse(`{"title":"Warm homes"}`)},
			{Type: "legacy-carousel", Props: jsonvalue.MustParse(`{"speed":3,"extra":{"x":true}}`)},
		},
		UnknownTypes: []string{"legacy-carousel"},
	}
}

func TestSavePage_RoundTripsUnknownBlocks(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	saved, err := repo.SavePage(ctx, testPage(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.GetPage(ctx, "landing")
	require.NoError(t, err)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "legacy-carousel", got.Blocks[1].Type)
	assert.True(t, jsonvalue.Equal(testPage().Blocks[1].Props, got.Blocks[1].Props))
	assert.Empty(t, got.UnknownTypes)
}

func TestSavePage_VersionConflict(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	_, err := repo.SavePage(ctx, testPage(), 0)
	require.NoError(t, err)

	second, err := repo.SavePage(ctx, testPage(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)

	_, err = repo.SavePage(ctx, testPage(), 1)
	assert.ErrorIs(t, err, errors.ErrConflict)

	missing := testPage()
	missing.Slug = "missing"
	_, err = repo.SavePage(ctx, missing, 3)
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestSavePage_InvalidSlug(t *testing.T) {
	repo, _ := newRepo()

	page := testPage()
	page.Slug = "Bad Slug"
	_, err := repo.SavePage(context.Background(), page, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestGetPage_NormalizesMissingProps(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo()
	require.NoError(t, store.Write(ctx, "pages", "bare", jsonvalue.MustParse(`{"blocks":[{"type":"spacer"}]}`)))

	page, err := repo.GetPage(ctx, "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", page.Slug)
	require.Len(t, page.Blocks, 1)
	assert.True(t, page.Blocks[0].Props.IsObject())
}

func TestListAndDeletePages(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()

	_, err := repo.SavePage(ctx, testPage(), 0)
	require.NoError(t, err)
	about := models.Page{Slug: "about", Title: "About"}
	_, err = repo.SavePage(ctx, about, 0)
	require.NoError(t, err)

	pages, err := repo.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "about", pages[0].Slug)
	assert.Equal(t, 0, pages[0].BlockCount)
	assert.Equal(t, 2, pages[1].BlockCount)

	require.NoError(t, repo.DeletePage(ctx, "about"))
	require.NoError(t, repo.DeletePage(ctx, "about"))

	_, err = repo.GetPage(ctx, "about")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
