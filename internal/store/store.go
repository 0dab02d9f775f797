// Package store persists leads behind a backend-neutral interface with
// SQLite and Postgres implementations.
package store

import (
	"context"

	"github.com/sells-group/venue-scout/internal/model"
)

// ListFilter specifies criteria for listing leads.
type ListFilter struct {
	Status   model.LeadStatus `json:"status,omitempty"`
	MinScore *int             `json:"min_score,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	Offset   int              `json:"offset,omitempty"`
}

// LeadUpdate is a partial write-back for one lead. Zero-valued fields are
// left untouched; Address is special-cased and only lands when the stored
// address is empty, so hand-curated addresses survive enrichment.
type LeadUpdate struct {
	Status       model.LeadStatus
	Enrichment   *model.EnrichmentData
	ContactName  string
	ContactEmail string
	ContactPhone string
	Address      string
	Score        *int
	ScoreLabel   string
	SalesforceID string
}

// IsZero reports whether the update would change nothing.
func (u LeadUpdate) IsZero() bool {
	return u.Status == "" && u.Enrichment == nil && u.ContactName == "" &&
		u.ContactEmail == "" && u.ContactPhone == "" && u.Address == "" &&
		u.Score == nil && u.ScoreLabel == "" && u.SalesforceID == ""
}

// Store defines the persistence interface for the enrichment pipeline.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	CreateLeads(ctx context.Context, leads []model.Lead) (int, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	GetLeadsByIDs(ctx context.Context, ids []string) ([]model.Lead, error)
	ListLeads(ctx context.Context, filter ListFilter) ([]model.Lead, error)
	UpdateLead(ctx context.Context, id string, upd LeadUpdate) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
