package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/slug"
)

// identifier sources tried in order when a record arrives without its key field
var humanReadableFields = []string{"title", "name"}

func lookupCollection(collection string) (models.CollectionSpec, error) {
	spec, ok := models.LookupCollection(collection)
	if !ok {
		return models.CollectionSpec{}, errors.NotFoundError("collection " + collection)
	}
	return spec, nil
}

func (r *ContentRepository) loadRecords(ctx context.Context, spec models.CollectionSpec) ([]jsonvalue.Value, error) {
	v, ok, err := r.store.Read(ctx, recordsCollection, spec.Name)
	if err != nil {
		return nil, storageErr("read collection", err)
	}
	if !ok || v.IsNull() {
		return []jsonvalue.Value{}, nil
	}
	if !v.IsArray() {
		return nil, errors.StorageError("read collection", fmt.Errorf("collection %s is stored as %s, not an array", spec.Name, v.Kind()))
	}
	return v.Items(), nil
}

func (r *ContentRepository) saveRecords(ctx context.Context, spec models.CollectionSpec, items []jsonvalue.Value) error {
	if err := r.store.Write(ctx, recordsCollection, spec.Name, jsonvalue.ArrayValue(items...)); err != nil {
		return storageErr("write collection", err)
	}
	return nil
}

// ListRecords returns a collection in display order. A collection that was
// never written is empty, not an error.
func (r *ContentRepository) ListRecords(ctx context.Context, collection string) ([]jsonvalue.Value, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return nil, err
	}
	return r.loadRecords(ctx, spec)
}

// GetRecord returns one record by identifier
func (r *ContentRepository) GetRecord(ctx context.Context, collection, id string) (jsonvalue.Value, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	items, err := r.loadRecords(ctx, spec)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if i := indexOf(items, spec.KeyField, id); i >= 0 {
		return items[i], nil
	}
	return jsonvalue.Value{}, errors.NotFoundError(fmt.Sprintf("%s record %q", collection, id))
}

// UpsertRecord replaces the record with the same identifier in place, or appends
// it. A record without an identifier gets one generated. An identical record is
// reported unchanged and nothing is written.
func (r *ContentRepository) UpsertRecord(ctx context.Context, collection string, record jsonvalue.Value) (jsonvalue.Value, models.UpsertOutcome, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return jsonvalue.Value{}, "", err
	}
	if !record.IsObject() {
		return jsonvalue.Value{}, "", errors.InvalidInputError("record", "record must be a JSON object")
	}

	unlock := r.locks.Lock(recordsCollection + "/" + spec.Name)
	defer unlock()

	items, err := r.loadRecords(ctx, spec)
	if err != nil {
		return jsonvalue.Value{}, "", err
	}

	id := identifierOf(record, spec.KeyField)
	if id == "" {
		id, err = generateIdentifier(record, items, spec.KeyField)
		if err != nil {
			return jsonvalue.Value{}, "", errors.InternalError("generate identifier: " + err.Error())
		}
		record = record.With(spec.KeyField, jsonvalue.StringValue(id))
	}

	outcome := models.OutcomeCreated
	if i := indexOf(items, spec.KeyField, id); i >= 0 {
		if jsonvalue.Equal(items[i], record) {
			return items[i], models.OutcomeUnchanged, nil
		}
		items[i] = record
		outcome = models.OutcomeUpdated
	} else {
		items = append(items, record)
	}

	if err := r.saveRecords(ctx, spec, items); err != nil {
		return jsonvalue.Value{}, "", err
	}
	return record, outcome, nil
}

// DeleteRecord removes a record by identifier. Deleting an absent record succeeds
// and writes nothing.
func (r *ContentRepository) DeleteRecord(ctx context.Context, collection, id string) error {
	spec, err := lookupCollection(collection)
	if err != nil {
		return err
	}

	unlock := r.locks.Lock(recordsCollection + "/" + spec.Name)
	defer unlock()

	items, err := r.loadRecords(ctx, spec)
	if err != nil {
		return err
	}
	i := indexOf(items, spec.KeyField, id)
	if i < 0 {
		return nil
	}
	return r.saveRecords(ctx, spec, slices.Delete(items, i, i+1))
}

// ReorderRecord moves the record at from to position to and returns the new order
func (r *ContentRepository) ReorderRecord(ctx context.Context, collection string, from, to int) ([]jsonvalue.Value, error) {
	spec, err := lookupCollection(collection)
	if err != nil {
		return nil, err
	}

	unlock := r.locks.Lock(recordsCollection + "/" + spec.Name)
	defer unlock()

	items, err := r.loadRecords(ctx, spec)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(items) {
		return nil, errors.InvalidInputError("from", fmt.Sprintf("index %d out of range [0,%d)", from, len(items)))
	}
	if to < 0 || to >= len(items) {
		return nil, errors.InvalidInputError("to", fmt.Sprintf("index %d out of range [0,%d)", to, len(items)))
	}
	if from == to {
		return items, nil
	}

	items = move(items, from, to)
	if err := r.saveRecords(ctx, spec, items); err != nil {
		return nil, err
	}
	return items, nil
}

// move relocates items[from] to index to, shifting the elements in between
func move[T any](items []T, from, to int) []T {
	item := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, item)
}

// identifierOf reads the key field; numeric ids are accepted as their literal
func identifierOf(record jsonvalue.Value, keyField string) string {
	v, ok := record.Field(keyField)
	if !ok {
		return ""
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	if lit, ok := v.NumberLiteral(); ok {
		return lit
	}
	return ""
}

func indexOf(items []jsonvalue.Value, keyField, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if identifierOf(item, keyField) == id {
			return i
		}
	}
	return -1
}

// generateIdentifier slugifies the first usable human-readable field, falling back
// to a random token, and suffixes -2, -3, ... until it is unused in items.
func generateIdentifier(record jsonvalue.Value, items []jsonvalue.Value, keyField string) (string, error) {
	base := ""
	for _, field := range humanReadableFields {
		if base = slug.Make(record.StringField(field)); base != "" {
			break
		}
	}
	if base == "" {
		token, err := randomToken(4)
		if err != nil {
			return "", err
		}
		base = token
	}

	candidate := base
	for n := 2; indexOf(items, keyField, candidate) >= 0; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate, nil
}

// randomToken returns 2*n lowercase hex characters
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
