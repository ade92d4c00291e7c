package repository

import (
	"context"
	"fmt"

	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/errors"
)

// CreateLead appends a lead. Its id sorts by submission time so key order is
// submission order.
func (r *ContentRepository) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = r.now().UTC()
	}
	token, err := randomToken(4)
	if err != nil {
		return models.Lead{}, errors.InternalError("generate lead id: " + err.Error())
	}
	lead.ID = fmt.Sprintf("%020d-%s", lead.CreatedAt.UnixNano(), token)

	doc, err := toValue(lead)
	if err != nil {
		return models.Lead{}, errors.InternalError("encode lead: " + err.Error())
	}
	if err := r.store.Write(ctx, leadsCollection, lead.ID, doc); err != nil {
		return models.Lead{}, storageErr("write lead", err)
	}
	return lead, nil
}

// ListLeads returns one page of leads, newest first, and the total count.
// page starts at 1; pageSize defaults to 20 and is capped at 100.
func (r *ContentRepository) ListLeads(ctx context.Context, page, pageSize int) ([]models.Lead, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = models.DefaultLeadPageSize
	}
	if pageSize > models.MaxLeadPageSize {
		pageSize = models.MaxLeadPageSize
	}

	keys, err := r.store.ListKeys(ctx, leadsCollection)
	if err != nil {
		return nil, 0, storageErr("list leads", err)
	}
	total := len(keys)

	start := (page - 1) * pageSize
	if start >= total {
		return []models.Lead{}, total, nil
	}
	end := min(start+pageSize, total)

	leads := make([]models.Lead, 0, end-start)
	for i := start; i < end; i++ {
		key := keys[total-1-i]
		v, ok, err := r.store.Read(ctx, leadsCollection, key)
		if err != nil {
			return nil, 0, storageErr("read lead", err)
		}
		if !ok {
			continue
		}
		var lead models.Lead
		if err := fromValue(v, &lead); err != nil {
			return nil, 0, errors.StorageError("decode lead", err)
		}
		leads = append(leads, lead)
	}
	return leads, total, nil
}
