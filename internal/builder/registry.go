// Package builder holds the page-builder block registry and the block-level
// edits applied to pages.
package builder

import (
	"fmt"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// Registry maps block type names to their definitions. It is built once at
// startup and only read afterwards, so it needs no locking.
type Registry struct {
	order []string
	defs  map[string]models.BlockTypeDefinition
}

// NewRegistry builds a registry from defs, keeping their order for the palette
func NewRegistry(defs ...models.BlockTypeDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]models.BlockTypeDefinition, len(defs))}
	for _, def := range defs {
		if def.Type == "" {
			return nil, fmt.Errorf("block type name is required")
		}
		if _, dup := r.defs[def.Type]; dup {
			return nil, fmt.Errorf("block type %q registered twice", def.Type)
		}
		seen := make(map[string]bool, len(def.Fields))
		for _, f := range def.Fields {
			if f.Name == "" || seen[f.Name] {
				return nil, fmt.Errorf("block type %q has an empty or duplicate field %q", def.Type, f.Name)
			}
			if !validKind(f.Kind) {
				return nil, fmt.Errorf("block type %q field %q has unknown kind %q", def.Type, f.Name, f.Kind)
			}
			seen[f.Name] = true
		}
		r.defs[def.Type] = def
		r.order = append(r.order, def.Type)
	}
	return r, nil
}

// DefaultRegistry returns the registry with the standard palette
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultBlockTypes()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the definition for a block type
func (r *Registry) Lookup(blockType string) (models.BlockTypeDefinition, bool) {
	def, ok := r.defs[blockType]
	return def, ok
}

// Has reports whether blockType is registered
func (r *Registry) Has(blockType string) bool {
	_, ok := r.defs[blockType]
	return ok
}

// Definitions returns every block type in palette order
func (r *Registry) Definitions() []models.BlockTypeDefinition {
	out := make([]models.BlockTypeDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

func validKind(kind models.FieldKind) bool {
	switch kind {
	case models.FieldText, models.FieldTextarea, models.FieldRichText, models.FieldURL,
		models.FieldImage, models.FieldNumber, models.FieldBoolean, models.FieldImages, models.FieldList:
		return true
	}
	return false
}

// DefaultPropsFor returns the initial props for a new block of def
func DefaultPropsFor(def models.BlockTypeDefinition) jsonvalue.Value {
	props := jsonvalue.EmptyObject()
	for _, f := range def.Fields {
		props = props.With(f.Name, zeroFor(f.Kind))
	}
	return props
}

func zeroFor(kind models.FieldKind) jsonvalue.Value {
	switch kind {
	case models.FieldNumber:
		return jsonvalue.IntValue(0)
	case models.FieldBoolean:
		return jsonvalue.BoolValue(false)
	case models.FieldImages, models.FieldList:
		return jsonvalue.ArrayValue()
	default:
		return jsonvalue.StringValue("")
	}
}

func field(name string, kind models.FieldKind, label string) models.FieldDefinition {
	return models.FieldDefinition{Name: name, Kind: kind, Label: label}
}

// DefaultBlockTypes is the standard authoring palette
func DefaultBlockTypes() []models.BlockTypeDefinition {
	return []models.BlockTypeDefinition{
		{Type: "hero", Label: "Hero", Fields: []models.FieldDefinition{
			field("title", models.FieldText, "Title"),
			field("subtitle", models.FieldTextarea, "Subtitle"),
			field("image", models.FieldImage, "Background image"),
			field("ctaText", models.FieldText, "Button text"),
			field("ctaLink", models.FieldURL, "Button link"),
		}},
		{Type: "text", Label: "Text", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("body", models.FieldRichText, "Body"),
		}},
		{Type: "image", Label: "Image", Fields: []models.FieldDefinition{
			field("src", models.FieldImage, "Image"),
			field("alt", models.FieldText, "Alt text"),
			field("caption", models.FieldText, "Caption"),
		}},
		{Type: "columns", Label: "Columns", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("columns", models.FieldList, "Columns"),
			field("count", models.FieldNumber, "Column count"),
		}},
		{Type: "faq", Label: "FAQ", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("items", models.FieldList, "Questions"),
		}},
		{Type: "testimonials", Label: "Testimonials", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("items", models.FieldList, "Testimonials"),
			field("autoplay", models.FieldBoolean, "Autoplay"),
		}},
		{Type: "cta", Label: "Call to action", Fields: []models.FieldDefinition{
			field("title", models.FieldText, "Title"),
			field("text", models.FieldTextarea, "Text"),
			field("buttonText", models.FieldText, "Button text"),
			field("buttonLink", models.FieldURL, "Button link"),
		}},
		{Type: "gallery", Label: "Gallery", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("images", models.FieldImages, "Images"),
		}},
		{Type: "services", Label: "Services", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("limit", models.FieldNumber, "Number of services"),
		}},
		{Type: "form", Label: "Lead form", Fields: []models.FieldDefinition{
			field("heading", models.FieldText, "Heading"),
			field("submitText", models.FieldText, "Submit text"),
			field("source", models.FieldText, "Lead source"),
			field("showPhone", models.FieldBoolean, "Ask for phone"),
		}},
		{Type: "spacer", Label: "Spacer", Fields: []models.FieldDefinition{
			field("height", models.FieldNumber, "Height (px)"),
		}},
	}
}
