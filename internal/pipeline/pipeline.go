// Package pipeline assembles the four-step lead-enrichment workflow:
// fetch the requested leads, extract venue data from their websites,
// transform and score the extractions, and persist the results.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-scout/internal/extract"
	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/scoring"
	"github.com/sells-group/venue-scout/internal/store"
	"github.com/sells-group/venue-scout/internal/workflow"
)

// Step ids, in execution order.
const (
	StepFetchLeads = "fetch-leads"
	StepExtract    = "extract-venue-data"
	StepTransform  = "transform-and-score"
	StepPersist    = "persist-results"
)

// WorkflowName identifies the enrichment workflow in run events.
const WorkflowName = "lead-enrichment"

const defaultConcurrency = 5

// Trigger is the enrichment workflow's input payload.
type Trigger struct {
	LeadIDs []string `json:"leadIds"`
}

// Options configures a Pipeline. Store, Extractor, and Scorer are required.
type Options struct {
	Store     store.Store
	Extractor *extract.Extractor
	Scorer    *scoring.Scorer

	// Concurrency bounds the fan-out of the extraction and persistence
	// steps. Zero means defaultConcurrency.
	Concurrency int

	// Now supplies scoring and write-back timestamps.
	Now func() time.Time
}

// Pipeline wires the datastore, the extraction ladder, and the scorer into
// the lead-enrichment workflow.
type Pipeline struct {
	store       store.Store
	extractor   *extract.Extractor
	scorer      *scoring.Scorer
	concurrency int
	now         func() time.Time
	wf          *workflow.Workflow
}

// New builds the enrichment pipeline and its underlying workflow.
func New(opts Options) (*Pipeline, error) {
	if opts.Store == nil {
		return nil, eris.New("pipeline: store is required")
	}
	if opts.Extractor == nil {
		return nil, eris.New("pipeline: extractor is required")
	}
	if opts.Scorer == nil {
		return nil, eris.New("pipeline: scorer is required")
	}

	p := &Pipeline{
		store:       opts.Store,
		extractor:   opts.Extractor,
		scorer:      opts.Scorer,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
	if p.concurrency <= 0 {
		p.concurrency = defaultConcurrency
	}
	if p.now == nil {
		p.now = time.Now
	}

	wf, err := workflow.New(WorkflowName, []workflow.Step{
		workflow.StepFunc(StepFetchLeads, p.fetchLeads),
		workflow.StepFunc(StepExtract, p.extractVenueData),
		workflow.StepFunc(StepTransform, p.transformAndScore),
		workflow.StepFunc(StepPersist, p.persistResults),
	}, workflow.WithTriggerValidator(validateTrigger))
	if err != nil {
		return nil, err
	}
	p.wf = wf
	return p, nil
}

func validateTrigger(trigger any) error {
	t, ok := trigger.(Trigger)
	if !ok {
		return eris.Errorf("pipeline: trigger is %T, want pipeline.Trigger", trigger)
	}
	if len(t.LeadIDs) == 0 {
		return eris.New("pipeline: at least one lead id is required")
	}
	return nil
}

// Run enriches the given leads and returns the run id and the aggregate
// report. Per-lead failures land in the report; the returned error is
// non-nil only when a whole step failed, in which case the run id of the
// aborted run is still returned when one was issued.
func (p *Pipeline) Run(ctx context.Context, leadIDs []string, opts ...workflow.RunOption) (string, *model.Report, error) {
	res, err := p.wf.Run(ctx, Trigger{LeadIDs: leadIDs}, opts...)
	if err != nil {
		var stepErr *workflow.StepError
		if errors.As(err, &stepErr) {
			return stepErr.RunID, nil, err
		}
		return "", nil, err
	}

	report, ok := res.Results[StepPersist].Data.(*model.Report)
	if !ok {
		return res.RunID, nil, eris.New("pipeline: persist step produced no report")
	}
	return res.RunID, report, nil
}
