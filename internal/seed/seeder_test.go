package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/database/memory"
	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo() *repository.ContentRepository {
	return repository.NewContentRepository(memory.NewStore(), config.DefaultContentSlots)
}

func TestBundledFixtures_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	fixtures, err := Fixtures("")
	require.NoError(t, err)
	seeder := NewSeeder(repo, fixtures)

	first := seeder.Run(ctx)
	require.False(t, first.Failed(), "%+v", first)
	created, updated, _ := first.Totals()
	assert.Greater(t, created, 0)
	assert.Zero(t, updated)

	second := seeder.Run(ctx)
	require.False(t, second.Failed())
	created, updated, unchanged := second.Totals()
	assert.Zero(t, created)
	assert.Zero(t, updated)
	assert.Greater(t, unchanged, 0)

	services, err := repo.ListRecords(ctx, "services")
	require.NoError(t, err)
	assert.Equal(t, "air-source-heat-pumps", services[0].StringField("slug"))

	home, err := repo.GetSlot(ctx, "homepage")
	require.NoError(t, err)
	title, ok := home.Get("hero.title")
	require.True(t, ok)
	assert.True(t, jsonvalue.Equal(jsonvalue.StringValue("Warm homes, lower bills"), title))
}

func TestRun_PartialFailure(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	fixtures := fstest.MapFS{
		"content.json":  {Data: []byte(`{"homepage":{"hero":{"title":"X"}},"pricing":{}}`)},
		"services.json": {Data: []byte(`[{"slug":"a","title":"A"},{"slug":"b","title":"B"}]`)},
		"gallery.json":  {Data: []byte(`[{"id":"g1"}, `)},
	}

	report := NewSeeder(repo, fixtures).Run(ctx)
	assert.True(t, report.Failed())

	services, ok := report.Entry("services")
	require.True(t, ok)
	assert.Equal(t, models.SeedStatusOK, services.Status)
	assert.Equal(t, 2, services.Created)

	blogs, ok := report.Entry("blogs")
	require.True(t, ok)
	assert.Equal(t, models.SeedStatusFailed, blogs.Status)
	assert.NotEmpty(t, blogs.Error)

	gallery, ok := report.Entry("gallery")
	require.True(t, ok)
	assert.Equal(t, models.SeedStatusFailed, gallery.Status)

	homepage, ok := report.Entry("homepage")
	require.True(t, ok)
	assert.Equal(t, 1, homepage.Created)
	_, ok = report.Entry("pricing")
	assert.False(t, ok)

	items, err := repo.ListRecords(ctx, "services")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRun_ChangedFixtureUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	fixtures := fstest.MapFS{
		"content.json":  {Data: []byte(`{"footer":{"text":"v1"}}`)},
		"services.json": {Data: []byte(`[{"slug":"a","title":"A"}]`)},
	}
	NewSeeder(repo, fixtures).Run(ctx)

	fixtures["content.json"] = &fstest.MapFile{Data: []byte(`{"footer":{"text":"v2"}}`)}
	fixtures["services.json"] = &fstest.MapFile{Data: []byte(`[{"slug":"a","title":"A2"},{"title":"New one"}]`)}
	report := NewSeeder(repo, fixtures).Run(ctx)

	footer, _ := report.Entry("footer")
	assert.Equal(t, 1, footer.Updated)

	services, _ := report.Entry("services")
	assert.Equal(t, 1, services.Updated)
	assert.Equal(t, 1, services.Created)

	items, err := repo.ListRecords(ctx, "services")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new-one", items[1].StringField("slug"))
}

func TestRun_InvalidRecordDoesNotStopCollection(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	fixtures := fstest.MapFS{
		"content.json": {Data: []byte(`{}`)},
		"blogs.json":   {Data: []byte(`["oops", {"slug":"ok","title":"OK"}]`)},
	}

	report := NewSeeder(repo, fixtures).Run(ctx)
	blogs, _ := report.Entry("blogs")
	assert.Equal(t, models.SeedStatusFailed, blogs.Status)
	assert.Equal(t, 1, blogs.Created)
	assert.Contains(t, blogs.Error, "record 0")
}

func TestFixtures_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.json"), []byte(`{"seo":{"title":"T"}}`), 0o600))

	fixtures, err := Fixtures(dir)
	require.NoError(t, err)

	report := NewSeeder(newRepo(), fixtures).Run(context.Background())
	seo, ok := report.Entry("seo")
	require.True(t, ok)
	assert.Equal(t, 1, seo.Created)

	_, err = Fixtures(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRun_KeylessFixturesAreIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	fixtures := fstest.MapFS{
		"content.json":  {Data: []byte(`{}`)},
		"services.json": {Data: []byte(`[{"title":"Solar Power"},{"slug":"solar-power-2","title":"Other"},{"title":"Solar Power","summary":"again"}]`)},
		"gallery.json":  {Data: []byte(`[{"url":"/a.jpg"},{"url":"/b.jpg"}]`)},
	}
	seeder := NewSeeder(repo, fixtures)

	first := seeder.Run(ctx)
	services, _ := first.Entry("services")
	assert.Equal(t, 3, services.Created)

	second := seeder.Run(ctx)
	created, updated, _ := second.Totals()
	assert.Zero(t, created)
	assert.Zero(t, updated)

	items, err := repo.ListRecords(ctx, "services")
	require.NoError(t, err)
	assert.Equal(t, []string{"solar-power", "solar-power-2", "solar-power-3"}, []string{
		items[0].StringField("slug"), items[1].StringField("slug"), items[2].StringField("slug"),
	})

	gallery, err := repo.ListRecords(ctx, "gallery")
	require.NoError(t, err)
	require.Len(t, gallery, 2)
	assert.Equal(t, "gallery-1", gallery[0].StringField("id"))
	assert.Equal(t, "gallery-2", gallery[1].StringField("id"))
}
