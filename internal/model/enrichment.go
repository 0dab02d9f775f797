package model

import "time"

// Potential buckets assigned by the scoring engine.
const (
	PotentialHigh   = "high"
	PotentialMedium = "medium"
	PotentialLow    = "low"
)

// LeadScore is the deterministic outcome of scoring one EnrichmentData
// record. Score is clamped to [0,100]; Potential is a pure function of
// Score; Reasons are appended in rubric evaluation order.
type LeadScore struct {
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
	Potential string    `json:"potential"`
	ScoredAt  time.Time `json:"scored_at"`
}

// EnrichmentData holds the venue facts mined from a lead's website.
// InHouseCatering is tri-state: nil means the page gave no signal either way.
type EnrichmentData struct {
	VenueName         string     `json:"venue_name"`
	Description       string     `json:"description,omitempty"`
	Address           string     `json:"address,omitempty"`
	ContactName       string     `json:"contact_name,omitempty"`
	ContactEmail      string     `json:"contact_email,omitempty"`
	ContactPhone      string     `json:"contact_phone,omitempty"`
	Capacity          int        `json:"capacity,omitempty"`
	EventTypes        []string   `json:"event_types,omitempty"`
	InHouseCatering   *bool      `json:"in_house_catering,omitempty"`
	Amenities         []string   `json:"amenities,omitempty"`
	PricingInfo       string     `json:"pricing_info,omitempty"`
	PreferredCaterers []string   `json:"preferred_caterers,omitempty"`
	Website           string     `json:"website,omitempty"`
	ExtractionFailed  bool       `json:"extraction_failed,omitempty"`
	LastUpdated       time.Time  `json:"last_updated"`
	Score             *LeadScore `json:"lead_score,omitempty"`
}

// Merge layers d over prior: non-empty fields of d win, empty fields retain
// the prior value. Returns a new record; neither input is mutated. A nil
// prior returns d unchanged.
func (d EnrichmentData) Merge(prior *EnrichmentData) EnrichmentData {
	if prior == nil {
		return d
	}
	out := d
	if out.VenueName == "" {
		out.VenueName = prior.VenueName
	}
	if out.Description == "" {
		out.Description = prior.Description
	}
	if out.Address == "" {
		out.Address = prior.Address
	}
	if out.ContactName == "" {
		out.ContactName = prior.ContactName
	}
	if out.ContactEmail == "" {
		out.ContactEmail = prior.ContactEmail
	}
	if out.ContactPhone == "" {
		out.ContactPhone = prior.ContactPhone
	}
	if out.Capacity == 0 {
		out.Capacity = prior.Capacity
	}
	if len(out.EventTypes) == 0 {
		out.EventTypes = prior.EventTypes
	}
	if out.InHouseCatering == nil {
		out.InHouseCatering = prior.InHouseCatering
	}
	if len(out.Amenities) == 0 {
		out.Amenities = prior.Amenities
	}
	if out.PricingInfo == "" {
		out.PricingInfo = prior.PricingInfo
	}
	if len(out.PreferredCaterers) == 0 {
		out.PreferredCaterers = prior.PreferredCaterers
	}
	if out.Website == "" {
		out.Website = prior.Website
	}
	if out.Score == nil {
		out.Score = prior.Score
	}
	return out
}
