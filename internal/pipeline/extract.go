package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/venue-scout/internal/extract"
	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/workflow"
)

// extractionOutcome pairs one fetched lead with its ladder result, in fetch
// order. Result stays nil for leads without a website; those never reach
// the extractor.
type extractionOutcome struct {
	Lead   model.Lead
	Result *extract.Result
}

// extractVenueData runs the extraction ladder against every lead that has a
// website, bounded by the pipeline's concurrency limit. Each goroutine owns
// exactly one slot of the outcome slice.
func (p *Pipeline) extractVenueData(ctx context.Context, wc *workflow.Context) (any, error) {
	leads, err := workflow.StepData[[]model.Lead](wc, StepFetchLeads)
	if err != nil {
		return nil, err
	}

	outcomes := make([]extractionOutcome, len(leads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	attempted := 0
	for i, lead := range leads {
		outcomes[i].Lead = lead
		if !lead.HasWebsite() {
			zap.L().Info("pipeline: lead has no website, skipping extraction",
				zap.String("lead_id", lead.ID),
				zap.String("name", lead.Name),
			)
			continue
		}
		attempted++
		g.Go(func() error {
			outcomes[i].Result = p.extractor.Extract(gctx, lead.Website)
			return nil
		})
	}
	// The ladder never returns an error; Wait only propagates a canceled
	// group context.
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: extraction pool")
	}

	zap.L().Info("pipeline: extraction finished",
		zap.Int("attempted", attempted),
		zap.Int("skipped", len(leads)-attempted),
	)
	return outcomes, nil
}
