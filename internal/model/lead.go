// Package model defines the lead domain types shared across the pipeline,
// stores, and CLI.
package model

import "time"

// LeadStatus represents the lifecycle state of a lead.
type LeadStatus string

const (
	LeadStatusNew      LeadStatus = "new"
	LeadStatusEnriched LeadStatus = "enriched"
	LeadStatusSkipped  LeadStatus = "skipped"
	LeadStatusFailed   LeadStatus = "failed"
)

// Lead is a candidate venue that may receive outreach. The pipeline reads
// leads and proposes updates; the datastore owns them.
type Lead struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Website      string          `json:"website,omitempty"`
	Address      string          `json:"address,omitempty"`
	ContactName  string          `json:"contact_name,omitempty"`
	ContactEmail string          `json:"contact_email,omitempty"`
	ContactPhone string          `json:"contact_phone,omitempty"`
	Status       LeadStatus      `json:"status"`
	Enrichment   *EnrichmentData `json:"enrichment_data,omitempty"`
	Score        *int            `json:"lead_score,omitempty"`
	ScoreLabel   string          `json:"lead_score_label,omitempty"`
	SalesforceID string          `json:"salesforce_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HasWebsite reports whether the lead carries a non-empty website address.
func (l Lead) HasWebsite() bool {
	return l.Website != ""
}
