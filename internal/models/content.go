package models

import "github.com/evohome/evohome-cms/pkg/jsonvalue"

// SlotResponse is the payload for a single content slot
type SlotResponse struct {
	Slot string          `json:"slot"`
	Data jsonvalue.Value `json:"data"`
}

// SlotListResponse lists which slots hold a value and which may be written
type SlotListResponse struct {
	Slots      []string `json:"slots"`
	Configured []string `json:"configured"`
}

// SetSlotFieldRequest edits one nested field of a slot, e.g. path "hero.buttons.0.label"
type SetSlotFieldRequest struct {
	Path  string          `json:"path" binding:"required,max=500"`
	Value jsonvalue.Value `json:"value"`
}
