// Package scoring assigns lead-potential scores to enriched venue records.
package scoring

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Weights is the scoring rubric: one additive weight per signal plus the
// thresholds that gate the capacity and overview signals. All weights are
// points on a 0-100 scale; the raw sum may exceed 100 and is clamped.
type Weights struct {
	ContactEmail      int `yaml:"contact_email"`
	ContactPhone      int `yaml:"contact_phone"`
	ContactName       int `yaml:"contact_name"`
	Capacity          int `yaml:"capacity"`
	EventTypes        int `yaml:"event_types"`
	Pricing           int `yaml:"pricing"`
	NoInHouseCatering int `yaml:"no_in_house_catering"`
	InHouseCatering   int `yaml:"in_house_catering"`
	PreferredCaterers int `yaml:"preferred_caterers"`
	WebsiteReachable  int `yaml:"website_reachable"`
	Overview          int `yaml:"overview"`
	Amenities         int `yaml:"amenities"`

	// CapacityThreshold is the minimum guest count that earns the
	// capacity weight.
	CapacityThreshold int `yaml:"capacity_threshold"`
	// MinOverviewLen is the minimum description length that earns the
	// overview weight.
	MinOverviewLen int `yaml:"min_overview_len"`
	// MaxPreferredCaterers caps the preferred-list size that still earns
	// points; a longer list means an entrenched vendor roster.
	MaxPreferredCaterers int `yaml:"max_preferred_caterers"`
}

// DefaultWeights returns the compiled-in rubric. A venue needing an outside
// caterer carries the largest single weight.
func DefaultWeights() Weights {
	return Weights{
		ContactEmail:      15,
		ContactPhone:      10,
		ContactName:       5,
		Capacity:          15,
		EventTypes:        10,
		Pricing:           5,
		NoInHouseCatering: 20,
		InHouseCatering:   5,
		PreferredCaterers: 10,
		WebsiteReachable:  10,
		Overview:          5,
		Amenities:         5,

		CapacityThreshold:    100,
		MinOverviewLen:       50,
		MaxPreferredCaterers: 5,
	}
}

// Validate checks that a rubric is internally consistent.
func (w Weights) Validate() error {
	var errs []string

	fields := []struct {
		name  string
		value int
	}{
		{"contact_email", w.ContactEmail},
		{"contact_phone", w.ContactPhone},
		{"contact_name", w.ContactName},
		{"capacity", w.Capacity},
		{"event_types", w.EventTypes},
		{"pricing", w.Pricing},
		{"no_in_house_catering", w.NoInHouseCatering},
		{"in_house_catering", w.InHouseCatering},
		{"preferred_caterers", w.PreferredCaterers},
		{"website_reachable", w.WebsiteReachable},
		{"overview", w.Overview},
		{"amenities", w.Amenities},
	}
	sum := 0
	for _, f := range fields {
		if f.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", f.name))
		}
		if f.name != "no_in_house_catering" && f.value > w.NoInHouseCatering {
			errs = append(errs, fmt.Sprintf("%s exceeds no_in_house_catering, which must stay the largest weight", f.name))
		}
		sum += f.value
	}
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}

	if w.CapacityThreshold <= 0 {
		errs = append(errs, "capacity_threshold must be > 0")
	}
	if w.MinOverviewLen <= 0 {
		errs = append(errs, "min_overview_len must be > 0")
	}
	if w.MaxPreferredCaterers <= 0 {
		errs = append(errs, "max_preferred_caterers must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: rubric validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
