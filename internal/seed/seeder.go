// Package seed loads bundled or on-disk fixtures into the content repository.
// Seeding is idempotent: a second run over the same fixtures changes nothing.
package seed

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/evohome/evohome-cms/pkg/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const contentFixture = "content.json"

//go:embed fixtures/*.json
var bundled embed.FS

// Repository is the part of the content repository the seeder writes through
type Repository interface {
	ConfiguredSlots() []string
	GetSlot(ctx context.Context, name string) (jsonvalue.Value, error)
	PutSlot(ctx context.Context, name string, value jsonvalue.Value) error
	UpsertRecord(ctx context.Context, collection string, record jsonvalue.Value) (jsonvalue.Value, models.UpsertOutcome, error)
}

// Fixtures returns the fixture source: dir when set, the bundled fixtures otherwise
func Fixtures(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("seed fixtures dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("seed fixtures dir %s is not a directory", dir)
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(bundled, "fixtures")
}

// Seeder applies fixtures through a Repository
type Seeder struct {
	repo        Repository
	fixtures    fs.FS
	collections []string
	now         func() time.Time
}

// NewSeeder creates a seeder for every known record collection
func NewSeeder(repo Repository, fixtures fs.FS) *Seeder {
	return &Seeder{
		repo:        repo,
		fixtures:    fixtures,
		collections: models.CollectionNames(),
		now:         time.Now,
	}
}

// Run seeds slots first, then every collection concurrently. A missing or
// malformed fixture fails only its own entry.
func (s *Seeder) Run(ctx context.Context) models.SeedReport {
	start := s.now()
	report := models.SeedReport{StartedAt: start.UTC()}

	report.Slots = s.seedSlots(ctx)

	entries := make([]models.SeedEntry, len(s.collections))
	var g errgroup.Group
	for i, name := range s.collections {
		i, name := i, name
		g.Go(func() error {
			entries[i] = s.seedCollection(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	report.Collections = entries
	report.Duration = s.now().Sub(start).String()

	created, updated, unchanged := report.Totals()
	status := "success"
	if report.Failed() {
		status = "partial"
	}
	metrics.SeedRuns.WithLabelValues(status).Inc()
	logger.Info("Seed run finished",
		zap.String("status", status),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("unchanged", unchanged),
		zap.String("duration", report.Duration))

	return report
}

func (s *Seeder) seedSlots(ctx context.Context) []models.SeedEntry {
	doc, err := readFixture(s.fixtures, contentFixture)
	if err != nil {
		logger.Warn("Skipping slot fixtures", zap.String("file", contentFixture), zap.Error(err))
		return []models.SeedEntry{failed("content", err)}
	}
	if !doc.IsObject() {
		err := fmt.Errorf("%s must be a JSON object keyed by slot name", contentFixture)
		return []models.SeedEntry{failed("content", err)}
	}

	var entries []models.SeedEntry
	for _, slot := range s.repo.ConfiguredSlots() {
		value, ok := doc.Field(slot)
		if !ok {
			continue
		}
		entries = append(entries, s.seedSlot(ctx, slot, value))
	}
	for _, key := range doc.Keys() {
		if !contains(s.repo.ConfiguredSlots(), key) {
			logger.Warn("Fixture names an unconfigured slot", zap.String("slot", key))
		}
	}
	return entries
}

func (s *Seeder) seedSlot(ctx context.Context, slot string, value jsonvalue.Value) models.SeedEntry {
	entry := models.SeedEntry{Name: slot, Status: models.SeedStatusOK}

	current, err := s.repo.GetSlot(ctx, slot)
	exists := err == nil
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return failed(slot, err)
	}
	if exists && jsonvalue.Equal(current, value) {
		entry.Unchanged = 1
		return entry
	}
	if err := s.repo.PutSlot(ctx, slot, value); err != nil {
		return failed(slot, err)
	}
	if exists {
		entry.Updated = 1
	} else {
		entry.Created = 1
	}
	return entry
}

func (s *Seeder) seedCollection(ctx context.Context, name string) models.SeedEntry {
	file := name + ".json"
	doc, err := readFixture(s.fixtures, file)
	if err != nil {
		logger.Warn("Skipping collection fixture", zap.String("file", file), zap.Error(err))
		return failed(name, err)
	}
	if !doc.IsArray() {
		return failed(name, fmt.Errorf("%s must be a JSON array", file))
	}

	entry := models.SeedEntry{Name: name, Status: models.SeedStatusOK}
	records := withFixtureKeys(name, doc.Items())
	for i, record := range records {
		_, outcome, err := s.repo.UpsertRecord(ctx, name, record)
		if err != nil {
			metrics.SeedRecords.WithLabelValues(name, "error").Inc()
			entry.Status = models.SeedStatusFailed
			entry.Error = fmt.Sprintf("record %d: %v", i, err)
			if errors.Is(err, errors.ErrInvalidInput) {
				continue
			}
			return entry
		}
		metrics.SeedRecords.WithLabelValues(name, string(outcome)).Inc()
		switch outcome {
		case models.OutcomeCreated:
			entry.Created++
		case models.OutcomeUpdated:
			entry.Updated++
		default:
			entry.Unchanged++
		}
	}
	return entry
}

// withFixtureKeys gives keyless object records a key that is stable across runs:
// the slug of title or name, else <collection>-<position>. Keys repeated within
// the file get -2, -3, ... in file order.
func withFixtureKeys(collection string, records []jsonvalue.Value) []jsonvalue.Value {
	spec, ok := models.LookupCollection(collection)
	if !ok {
		return records
	}

	used := make(map[string]bool, len(records))
	for _, record := range records {
		if key := fixtureKey(record, spec.KeyField); key != "" {
			used[key] = true
		}
	}

	out := make([]jsonvalue.Value, len(records))
	for i, record := range records {
		out[i] = record
		if !record.IsObject() || fixtureKey(record, spec.KeyField) != "" {
			continue
		}
		base := slug.Make(record.StringField("title"))
		if base == "" {
			base = slug.Make(record.StringField("name"))
		}
		if base == "" {
			base = fmt.Sprintf("%s-%d", collection, i+1)
		}
		key := base
		for n := 2; used[key]; n++ {
			key = fmt.Sprintf("%s-%d", base, n)
		}
		used[key] = true
		out[i] = record.With(spec.KeyField, jsonvalue.StringValue(key))
	}
	return out
}

func fixtureKey(record jsonvalue.Value, keyField string) string {
	v, ok := record.Field(keyField)
	if !ok {
		return ""
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	lit, _ := v.NumberLiteral()
	return lit
}

func readFixture(fsys fs.FS, name string) (jsonvalue.Value, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	v, err := jsonvalue.Parse(raw)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

func failed(name string, err error) models.SeedEntry {
	return models.SeedEntry{Name: name, Status: models.SeedStatusFailed, Error: err.Error()}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
