package builder

import (
	"testing"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Palette(t *testing.T) {
	r := DefaultRegistry()

	var names []string
	for _, def := range r.Definitions() {
		names = append(names, def.Type)
	}
	assert.Equal(t, []string{"hero", "text", "image", "columns", "faq", "testimonials", "cta", "gallery", "services", "form", "spacer"}, names)
	assert.True(t, r.Has("hero"))
	assert.False(t, r.Has("carousel"))
}

func TestNewRegistry_Rejects(t *testing.T) {
	_, err := NewRegistry(models.BlockTypeDefinition{Type: "a"}, models.BlockTypeDefinition{Type: "a"})
	assert.Error(t, err)

	_, err = NewRegistry(models.BlockTypeDefinition{Type: ""})
	assert.Error(t, err)

	_, err = NewRegistry(models.BlockTypeDefinition{Type: "a", Fields: []models.FieldDefinition{{Name: "x", Kind: "video"}}})
	assert.Error(t, err)

	_, err = NewRegistry(models.BlockTypeDefinition{Type: "a", Fields: []models.FieldDefinition{
		{Name: "x", Kind: models.FieldText},
		{Name: "x", Kind: models.FieldText},
	}})
	assert.Error(t, err)
}

func TestDefaultPropsFor(t *testing.T) {
	def := models.BlockTypeDefinition{Type: "demo", Fields: []models.FieldDefinition{
		{Name: "title", Kind: models.FieldText},
		{Name: "body", Kind: models.FieldRichText},
		{Name: "link", Kind: models.FieldURL},
		{Name: "count", Kind: models.FieldNumber},
		{Name: "on", Kind: models.FieldBoolean},
		{Name: "pics", Kind: models.FieldImages},
		{Name: "rows", Kind: models.FieldList},
	}}

	got := DefaultPropsFor(def)
	want := jsonvalue.MustParse(`{"title":"","body":"","link":"","count":0,"on":false,"pics":[],"rows":[]}`)
	assert.True(t, jsonvalue.Equal(want, got))
}

func TestDefaultPropsFor_EveryDefaultType(t *testing.T) {
	for _, def := range DefaultBlockTypes() {
		props := DefaultPropsFor(def)
		require.True(t, props.IsObject(), def.Type)
		assert.Len(t, props.Keys(), len(def.Fields), def.Type)
	}
}
