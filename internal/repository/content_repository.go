package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// Storage layout on the document store
const (
	slotsCollection   = "content"
	recordsCollection = "collections"
	pagesCollection   = "pages"
	leadsCollection   = "leads"
)

// ContentRepository is the single read/write path for slots, record collections,
// pages and leads. It never checks credentials.
type ContentRepository struct {
	store DocumentStore
	slots []string
	known map[string]bool
	locks keyedMutex
	now   func() time.Time
}

// NewContentRepository creates a repository over store. slots is the set of
// slot names that may be written.
func NewContentRepository(store DocumentStore, slots []string) *ContentRepository {
	known := make(map[string]bool, len(slots))
	ordered := make([]string, 0, len(slots))
	for _, s := range slots {
		if s == "" || known[s] {
			continue
		}
		known[s] = true
		ordered = append(ordered, s)
	}
	return &ContentRepository{
		store: store,
		slots: ordered,
		known: known,
		now:   time.Now,
	}
}

// ConfiguredSlots returns the slot names that may be written
func (r *ContentRepository) ConfiguredSlots() []string {
	out := make([]string, len(r.slots))
	copy(out, r.slots)
	return out
}

// IsSlot reports whether name is a configured slot
func (r *ContentRepository) IsSlot(name string) bool {
	return r.known[name]
}

// Ping checks the underlying store
func (r *ContentRepository) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// GetSlot returns the current value of a slot. Unconfigured names are treated
// as unseeded and return NotFound without reaching the store.
func (r *ContentRepository) GetSlot(ctx context.Context, name string) (jsonvalue.Value, error) {
	if !r.IsSlot(name) {
		return jsonvalue.Value{}, errors.NotFoundError("slot " + name)
	}

	v, ok, err := r.store.Read(ctx, slotsCollection, name)
	if err != nil {
		return jsonvalue.Value{}, storageErr("read slot", err)
	}
	if !ok {
		return jsonvalue.Value{}, errors.NotFoundError("slot " + name)
	}
	return v, nil
}

// PutSlot replaces the slot value wholesale
func (r *ContentRepository) PutSlot(ctx context.Context, name string, value jsonvalue.Value) error {
	if !r.IsSlot(name) {
		return errors.InvalidInputError("slot", fmt.Sprintf("unknown slot %q", name))
	}
	if !value.IsObject() {
		return errors.InvalidInputError("data", "slot value must be a JSON object")
	}

	if err := r.store.Write(ctx, slotsCollection, name, value); err != nil {
		return storageErr("write slot", err)
	}
	return nil
}

// MergeSlot deep-merges patch onto the current value (an absent slot counts as {})
// and returns the stored result.
func (r *ContentRepository) MergeSlot(ctx context.Context, name string, patch jsonvalue.Value) (jsonvalue.Value, error) {
	if !patch.IsObject() {
		return jsonvalue.Value{}, errors.InvalidInputError("data", "merge patch must be a JSON object")
	}
	return r.editSlot(ctx, name, func(cur jsonvalue.Value) (jsonvalue.Value, error) {
		return jsonvalue.Merge(cur, patch), nil
	})
}

// SetSlotField sets one nested field of a slot by dot path and returns the stored result
func (r *ContentRepository) SetSlotField(ctx context.Context, name, path string, value jsonvalue.Value) (jsonvalue.Value, error) {
	if path == "" {
		return jsonvalue.Value{}, errors.InvalidInputError("path", "path is required")
	}
	return r.editSlot(ctx, name, func(cur jsonvalue.Value) (jsonvalue.Value, error) {
		next, err := cur.Set(path, value)
		if err != nil {
			return jsonvalue.Value{}, errors.InvalidInputError("path", err.Error())
		}
		return next, nil
	})
}

func (r *ContentRepository) editSlot(ctx context.Context, name string, edit func(jsonvalue.Value) (jsonvalue.Value, error)) (jsonvalue.Value, error) {
	if !r.IsSlot(name) {
		return jsonvalue.Value{}, errors.InvalidInputError("slot", fmt.Sprintf("unknown slot %q", name))
	}

	unlock := r.locks.Lock(slotsCollection + "/" + name)
	defer unlock()

	cur, ok, err := r.store.Read(ctx, slotsCollection, name)
	if err != nil {
		return jsonvalue.Value{}, storageErr("read slot", err)
	}
	if !ok || !cur.IsObject() {
		cur = jsonvalue.EmptyObject()
	}

	next, err := edit(cur)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if err := r.PutSlot(ctx, name, next); err != nil {
		return jsonvalue.Value{}, err
	}
	return next, nil
}

// ListSlots returns configured slots that currently hold a value, sorted
func (r *ContentRepository) ListSlots(ctx context.Context) ([]string, error) {
	keys, err := r.store.ListKeys(ctx, slotsCollection)
	if err != nil {
		return nil, storageErr("list slots", err)
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if r.IsSlot(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, errors.ErrStorageUnavailable) {
		return err
	}
	return errors.StorageError(op, err)
}

// toValue converts a struct into a document
func toValue(v any) (jsonvalue.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.Parse(raw)
}

// fromValue decodes a document into out
func fromValue(v jsonvalue.Value, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// keyedMutex serializes read-modify-write cycles per document within this process
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// Lock acquires the mutex for key and returns its release func
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
