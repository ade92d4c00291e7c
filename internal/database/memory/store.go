// Package memory is a process-local document store for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/patrickmn/go-cache"
)

const separator = "\x00"

// Store keeps documents in a go-cache instance with no expiry
type Store struct {
	items *cache.Cache
}

var _ repository.DocumentStore = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{items: cache.New(cache.NoExpiration, 0)}
}

func itemKey(collection, key string) string {
	return collection + separator + key
}

// Name returns "memory"
func (s *Store) Name() string { return "memory" }

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error { return nil }

// Read returns the document stored under collection/key
func (s *Store) Read(ctx context.Context, collection, key string) (jsonvalue.Value, bool, error) {
	if err := ctx.Err(); err != nil {
		return jsonvalue.Value{}, false, err
	}
	v, ok := s.items.Get(itemKey(collection, key))
	if !ok {
		return jsonvalue.Value{}, false, nil
	}
	return v.(jsonvalue.Value), true, nil
}

// Write stores value under collection/key
func (s *Store) Write(ctx context.Context, collection, key string, value jsonvalue.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.items.Set(itemKey(collection, key), value, cache.NoExpiration)
	return nil
}

// Delete removes collection/key
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.items.Delete(itemKey(collection, key))
	return nil
}

// ListKeys returns the keys of a collection in ascending order
func (s *Store) ListKeys(ctx context.Context, collection string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := collection + separator
	keys := []string{}
	for k := range s.items.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(keys)
	return keys, nil
}
