// Package extract mines structured venue facts from lead websites. A ladder
// of escalating strategies is tried in order until one produces a record
// satisfying the minimal-data predicate; the final stub strategy always
// succeeds, so extraction as a whole never fails.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Extraction is the raw record one strategy mines from a site. Fields map
// one-to-one onto model.EnrichmentData's raw counterparts.
type Extraction struct {
	VenueName         string   `json:"venue_name"`
	Description       string   `json:"description,omitempty"`
	Address           string   `json:"address,omitempty"`
	ContactName       string   `json:"contact_name,omitempty"`
	ContactEmail      string   `json:"contact_email,omitempty"`
	ContactPhone      string   `json:"contact_phone,omitempty"`
	Capacity          int      `json:"capacity,omitempty"`
	EventTypes        []string `json:"event_types,omitempty"`
	InHouseCatering   *bool    `json:"in_house_catering,omitempty"`
	Amenities         []string `json:"amenities,omitempty"`
	PricingInfo       string   `json:"pricing_info,omitempty"`
	PreferredCaterers []string `json:"preferred_caterers,omitempty"`
	SourceURL         string   `json:"source_url"`
	Failed            bool     `json:"extraction_failed,omitempty"`
}

// Result is the outcome of running the ladder against one URL. Data is
// non-nil whenever any strategy produced an acceptable record; with the
// default ladder that is always. Success is false when the record came from
// the stub strategy, in which case Err carries the last fetch failure.
type Result struct {
	Success  bool        `json:"success"`
	Strategy string      `json:"strategy"`
	Data     *Extraction `json:"data,omitempty"`
	Err      string      `json:"error,omitempty"`
}

// Strategy is one rung of the extraction ladder. Extract returns a record
// or an error; an error hands the URL to the next strategy.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, site string) (*Extraction, error)
}

// Extractor runs an ordered strategy ladder. Reordering or adding tiers is
// a construction change, not a control-flow change.
type Extractor struct {
	strategies []Strategy
}

// New builds an Extractor with the default three-tier ladder:
// primary fetch+parse, permissive re-fetch, domain-derived stub.
func New(opts Options) *Extractor {
	o := opts.withDefaults()
	f := newFetcher(o.Client, o.MaxBodyBytes, o.RequestsPerSecond)
	return &Extractor{strategies: []Strategy{
		&primaryStrategy{fetch: f, userAgent: o.UserAgent, timeout: o.Timeout, minBody: o.MinBodyBytes},
		&fallbackStrategy{fetch: f, userAgent: o.FallbackUserAgent, timeout: o.Timeout},
		stubStrategy{},
	}}
}

// NewWithStrategies builds an Extractor from an explicit ladder.
func NewWithStrategies(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Extract runs the ladder against rawURL. Strategies are tried in order;
// a record is accepted once it satisfies the minimal-data predicate.
func (e *Extractor) Extract(ctx context.Context, rawURL string) *Result {
	log := zap.L().With(zap.String("url", rawURL))

	var lastErr error
	for _, s := range e.strategies {
		data, err := s.Extract(ctx, rawURL)
		if err != nil {
			lastErr = err
			log.Debug("extract: strategy failed",
				zap.String("strategy", s.Name()),
				zap.Error(err),
			)
			continue
		}
		if !minimalData(data) {
			log.Debug("extract: strategy returned insufficient data",
				zap.String("strategy", s.Name()),
			)
			continue
		}

		res := &Result{Success: !data.Failed, Strategy: s.Name(), Data: data}
		if data.Failed && lastErr != nil {
			res.Err = lastErr.Error()
		}
		log.Debug("extract: strategy accepted",
			zap.String("strategy", s.Name()),
			zap.Bool("success", res.Success),
		)
		return res
	}

	// Only reachable with a custom ladder that lacks a total final tier.
	res := &Result{Success: false, Strategy: "none"}
	if lastErr != nil {
		res.Err = lastErr.Error()
	}
	return res
}

// minimalData reports whether a record carries enough signal to stop the
// ladder: a venue name plus at least one substantive fact.
func minimalData(e *Extraction) bool {
	if e == nil || strings.TrimSpace(e.VenueName) == "" {
		return false
	}
	return e.Description != "" || e.Address != "" || e.ContactEmail != "" || e.ContactPhone != ""
}
