package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/venue-scout/internal/model"
)

// Scorer evaluates enrichment records against a fixed rubric. Scoring is
// deterministic: the same record and clock always yield the same LeadScore,
// so callers own the clock.
type Scorer struct {
	weights Weights
}

// New builds a Scorer, rejecting inconsistent rubrics up front so Score
// itself stays total.
func New(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

// Score evaluates one record. Every satisfied rubric condition adds its
// weight and appends a reason; conditions are evaluated in rubric order so
// the reasons list is stable. The total is clamped to [0,100].
func (s *Scorer) Score(data model.EnrichmentData, now time.Time) model.LeadScore {
	w := s.weights
	total := 0
	var reasons []string

	add := func(points int, reason string) {
		total += points
		reasons = append(reasons, fmt.Sprintf("%s (+%d)", reason, points))
	}

	if data.ContactEmail != "" {
		add(w.ContactEmail, "contact email found")
	}
	if data.ContactPhone != "" {
		add(w.ContactPhone, "contact phone found")
	}
	if data.ContactName != "" {
		add(w.ContactName, "contact name found")
	}
	if data.Capacity >= w.CapacityThreshold {
		add(w.Capacity, fmt.Sprintf("capacity %d meets the %d-guest threshold", data.Capacity, w.CapacityThreshold))
	}
	if len(data.EventTypes) > 0 {
		add(w.EventTypes, fmt.Sprintf("hosts %d event type(s)", len(data.EventTypes)))
	}
	if strings.TrimSpace(data.PricingInfo) != "" {
		add(w.Pricing, "pricing information published")
	}
	switch {
	case data.InHouseCatering != nil && !*data.InHouseCatering:
		add(w.NoInHouseCatering, "no in-house catering, needs outside caterers")
	case data.InHouseCatering != nil && *data.InHouseCatering:
		add(w.InHouseCatering, "operates in-house catering")
	}
	if n := len(data.PreferredCaterers); n > 0 && n < w.MaxPreferredCaterers {
		add(w.PreferredCaterers, fmt.Sprintf("short preferred-caterer list (%d vendors)", n))
	}
	if !data.ExtractionFailed {
		add(w.WebsiteReachable, "website reachable")
	}
	if len(strings.TrimSpace(data.Description)) >= w.MinOverviewLen {
		add(w.Overview, "substantive venue overview")
	}
	if len(data.Amenities) > 0 {
		add(w.Amenities, fmt.Sprintf("%d amenities listed", len(data.Amenities)))
	}

	return model.LeadScore{
		Score:     clamp(total),
		Reasons:   reasons,
		Potential: BucketFor(clamp(total)),
		ScoredAt:  now,
	}
}

// BucketFor maps a clamped score to its potential bucket.
func BucketFor(score int) string {
	switch {
	case score >= 70:
		return model.PotentialHigh
	case score >= 40:
		return model.PotentialMedium
	default:
		return model.PotentialLow
	}
}

func clamp(n int) int {
	return min(max(n, 0), 100)
}
