package models

import "time"

// SeedStatus is the outcome of seeding one slot or collection
type SeedStatus string

const (
	SeedStatusOK     SeedStatus = "ok"
	SeedStatusFailed SeedStatus = "failed"
)

// SeedEntry reports counts for one slot or collection
type SeedEntry struct {
	Name      string     `json:"name"`
	Status    SeedStatus `json:"status"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Unchanged int        `json:"unchanged"`
	Error     string     `json:"error,omitempty"`
}

// SeedReport is the result of one seed run
type SeedReport struct {
	Slots       []SeedEntry `json:"slots"`
	Collections []SeedEntry `json:"collections"`
	StartedAt   time.Time   `json:"startedAt"`
	Duration    string      `json:"duration"`
}

func (r SeedReport) entries() []SeedEntry {
	all := make([]SeedEntry, 0, len(r.Slots)+len(r.Collections))
	all = append(all, r.Slots...)
	return append(all, r.Collections...)
}

// Failed reports whether any entry failed
func (r SeedReport) Failed() bool {
	for _, e := range r.entries() {
		if e.Status == SeedStatusFailed {
			return true
		}
	}
	return false
}

// Totals sums created, updated and unchanged across all entries
func (r SeedReport) Totals() (created, updated, unchanged int) {
	for _, e := range r.entries() {
		created += e.Created
		updated += e.Updated
		unchanged += e.Unchanged
	}
	return created, updated, unchanged
}

// Entry finds a collection or slot entry by name
func (r SeedReport) Entry(name string) (SeedEntry, bool) {
	for _, e := range r.entries() {
		if e.Name == name {
			return e, true
		}
	}
	return SeedEntry{}, false
}
