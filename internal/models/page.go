package models

import (
	"time"

	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// Block is one typed unit of page layout. Props are kept as-is, including keys
// the block type does not declare.
type Block struct {
	Type  string          `json:"type"`
	Props jsonvalue.Value `json:"props"`
}

// Page is an ordered sequence of blocks under a slug
type Page struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title,omitempty"`
	Blocks    []Block   `json:"blocks"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	// UnknownTypes lists block types missing from the registry; never persisted
	UnknownTypes []string `json:"unknownTypes,omitempty"`
}

// PageSummary is a page without its blocks
type PageSummary struct {
	Slug       string    `json:"slug"`
	Title      string    `json:"title,omitempty"`
	BlockCount int       `json:"blockCount"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// InsertBlockRequest adds a new block of Type at Index (append when nil)
type InsertBlockRequest struct {
	Type  string `json:"type" binding:"required,max=100"`
	Index *int   `json:"index"`
}

// FieldKind is the declared kind of a block property
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldRichText FieldKind = "richtext"
	FieldURL      FieldKind = "url"
	FieldImage    FieldKind = "image"
	FieldNumber   FieldKind = "number"
	FieldBoolean  FieldKind = "boolean"
	FieldImages   FieldKind = "images"
	FieldList     FieldKind = "list"
)

// FieldDefinition declares one property of a block type
type FieldDefinition struct {
	Name  string    `json:"name"`
	Kind  FieldKind `json:"kind"`
	Label string    `json:"label"`
}

// BlockTypeDefinition describes a block type in the authoring palette
type BlockTypeDefinition struct {
	Type   string            `json:"type"`
	Label  string            `json:"label"`
	Fields []FieldDefinition `json:"fields"`
}
