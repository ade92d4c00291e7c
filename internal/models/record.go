package models

import (
	"sort"

	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// CollectionSpec describes an ordered record collection
type CollectionSpec struct {
	Name     string
	KeyField string
}

// Collections are the record collections the site knows about
var Collections = map[string]CollectionSpec{
	"services": {Name: "services", KeyField: "slug"},
	"blogs":    {Name: "blogs", KeyField: "slug"},
	"gallery":  {Name: "gallery", KeyField: "id"},
}

// LookupCollection returns the definition of a named collection
func LookupCollection(name string) (CollectionSpec, bool) {
	spec, ok := Collections[name]
	return spec, ok
}

// CollectionNames returns collection names in sorted order
func CollectionNames() []string {
	names := make([]string, 0, len(Collections))
	for name := range Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpsertOutcome reports what an upsert did
type UpsertOutcome string

const (
	OutcomeCreated   UpsertOutcome = "created"
	OutcomeUpdated   UpsertOutcome = "updated"
	OutcomeUnchanged UpsertOutcome = "unchanged"
)

// RecordListResponse is the payload for listing a collection
type RecordListResponse struct {
	Collection string            `json:"collection"`
	Items      []jsonvalue.Value `json:"items"`
	Total      int               `json:"total"`
}

// RecordResponse is returned after an upsert
type RecordResponse struct {
	Record  jsonvalue.Value `json:"record"`
	Outcome UpsertOutcome   `json:"outcome"`
}

// ReorderRequest moves the element at From to To
type ReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}
