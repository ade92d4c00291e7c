package repository_test

import (
	"context"
	"errors"

	"github.com/evohome/evohome-cms/internal/database/memory"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

var testSlots = []string{"homepage", "about", "footer"}

func newRepo() (*repository.ContentRepository, *memory.Store) {
	store := memory.NewStore()
	return repository.NewContentRepository(store, testSlots), store
}

// brokenStore fails every call as an unreachable backend would
type brokenStore struct{}

var errBackendDown = errors.New("connection refused")

func (brokenStore) Read(context.Context, string, string) (jsonvalue.Value, bool, error) {
	return jsonvalue.Value{}, false, errBackendDown
}
func (brokenStore) Write(context.Context, string, string, jsonvalue.Value) error {
	return errBackendDown
}
func (brokenStore) Delete(context.Context, string, string) error { return errBackendDown }
func (brokenStore) ListKeys(context.Context, string) ([]string, error) {
	return nil, errBackendDown
}
func (brokenStore) Ping(context.Context) error { return errBackendDown }
func (brokenStore) Name() string                { return "broken" }

func slugsOf(items []jsonvalue.Value, field string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.StringField(field))
	}
	return out
}
