package builder

import (
	"fmt"
	"slices"
	"sort"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
)

// ValidatePage turns a raw page document into a Page. Block types missing from
// the registry are kept as-is and listed in UnknownTypes.
func (r *Registry) ValidatePage(raw jsonvalue.Value) (models.Page, error) {
	if !raw.IsObject() {
		return models.Page{}, errors.InvalidInputError("page", "page must be a JSON object")
	}

	page := models.Page{Blocks: []models.Block{}}
	if v, ok := raw.Field("slug"); ok && !v.IsNull() {
		s, ok := v.AsString()
		if !ok {
			return models.Page{}, errors.InvalidInputError("slug", "slug must be a string")
		}
		page.Slug = s
	}
	if v, ok := raw.Field("title"); ok && !v.IsNull() {
		s, ok := v.AsString()
		if !ok {
			return models.Page{}, errors.InvalidInputError("title", "title must be a string")
		}
		page.Title = s
	}
	if v, ok := raw.Field("version"); ok && !v.IsNull() {
		n, ok := v.AsNumber()
		if !ok || n < 0 || n != float64(int64(n)) {
			return models.Page{}, errors.InvalidInputError("version", "version must be a non-negative integer")
		}
		page.Version = int64(n)
	}

	blocks, ok := raw.Field("blocks")
	if !ok || blocks.IsNull() {
		return page, nil
	}
	if !blocks.IsArray() {
		return models.Page{}, errors.InvalidInputError("blocks", "blocks must be an array")
	}

	unknown := map[string]bool{}
	for i, item := range blocks.Items() {
		block, err := validateBlock(i, item)
		if err != nil {
			return models.Page{}, err
		}
		if !r.Has(block.Type) {
			unknown[block.Type] = true
		}
		page.Blocks = append(page.Blocks, block)
	}

	for t := range unknown {
		page.UnknownTypes = append(page.UnknownTypes, t)
	}
	sort.Strings(page.UnknownTypes)
	return page, nil
}

func validateBlock(i int, item jsonvalue.Value) (models.Block, error) {
	if !item.IsObject() {
		return models.Block{}, errors.InvalidInputError(fmt.Sprintf("blocks[%d]", i), "block must be an object")
	}
	tv, _ := item.Field("type")
	blockType, ok := tv.AsString()
	if !ok || blockType == "" {
		return models.Block{}, errors.InvalidInputError(fmt.Sprintf("blocks[%d].type", i), "type must be a non-empty string")
	}

	props, ok := item.Field("props")
	switch {
	case !ok || props.IsNull():
		props = jsonvalue.EmptyObject()
	case !props.IsObject():
		return models.Block{}, errors.InvalidInputError(fmt.Sprintf("blocks[%d].props", i), "props must be an object")
	}
	return models.Block{Type: blockType, Props: props}, nil
}

// UnknownTypes lists block types on page that the registry does not define
func (r *Registry) UnknownTypes(page models.Page) []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range page.Blocks {
		if !r.Has(b.Type) && !seen[b.Type] {
			seen[b.Type] = true
			out = append(out, b.Type)
		}
	}
	sort.Strings(out)
	return out
}

// InsertBlock adds a new block of blockType with default props at index.
// index == len(blocks) appends. Unregistered types are rejected.
func (r *Registry) InsertBlock(page models.Page, index int, blockType string) (models.Page, error) {
	def, ok := r.Lookup(blockType)
	if !ok {
		return models.Page{}, errors.InvalidInputError("type", fmt.Sprintf("unknown block type %q", blockType))
	}
	if index < 0 || index > len(page.Blocks) {
		return models.Page{}, errors.InvalidInputError("index", fmt.Sprintf("index %d out of range [0,%d]", index, len(page.Blocks)))
	}

	page.Blocks = slices.Insert(slices.Clone(page.Blocks), index, models.Block{
		Type:  def.Type,
		Props: DefaultPropsFor(def),
	})
	return page, nil
}

// RemoveBlock deletes the block at index
func RemoveBlock(page models.Page, index int) (models.Page, error) {
	if index < 0 || index >= len(page.Blocks) {
		return models.Page{}, errors.InvalidInputError("index", fmt.Sprintf("index %d out of range [0,%d)", index, len(page.Blocks)))
	}
	page.Blocks = slices.Delete(slices.Clone(page.Blocks), index, index+1)
	return page, nil
}

// ReorderBlocks moves the block at from to position to, shifting the rest
func ReorderBlocks(page models.Page, from, to int) (models.Page, error) {
	n := len(page.Blocks)
	if from < 0 || from >= n {
		return models.Page{}, errors.InvalidInputError("from", fmt.Sprintf("index %d out of range [0,%d)", from, n))
	}
	if to < 0 || to >= n {
		return models.Page{}, errors.InvalidInputError("to", fmt.Sprintf("index %d out of range [0,%d)", to, n))
	}

	blocks := slices.Clone(page.Blocks)
	block := blocks[from]
	blocks = slices.Delete(blocks, from, from+1)
	page.Blocks = slices.Insert(blocks, to, block)
	return page, nil
}
