package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/store"
	"github.com/sells-group/venue-scout/internal/workflow"
)

// leadOutcome is one lead's final disposition, folded into the run report.
type leadOutcome struct {
	LeadID string
	Status model.LeadStatus
	Errs   []string
}

// persistResults writes each lead's enrichment and status back to the
// store with a bounded fan-out. A failed write marks that one lead failed
// and is recorded in the report; it never aborts the step. The step's
// output is the aggregate report.
func (p *Pipeline) persistResults(ctx context.Context, wc *workflow.Context) (any, error) {
	enriched, err := workflow.StepData[[]enrichedLead](wc, StepTransform)
	if err != nil {
		return nil, err
	}

	outcomes := make([]leadOutcome, len(enriched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, el := range enriched {
		outcomes[i] = leadOutcome{LeadID: el.Lead.ID, Status: el.Status}
		if el.ExtractErr != "" {
			outcomes[i].Errs = append(outcomes[i].Errs,
				fmt.Sprintf("%s: extract: %s", el.Lead.ID, el.ExtractErr))
		}

		upd := buildUpdate(el)
		g.Go(func() error {
			if err := p.store.UpdateLead(gctx, el.Lead.ID, upd); err != nil {
				// Each goroutine owns slot i; no two touch the same index.
				outcomes[i].Errs = append(outcomes[i].Errs,
					fmt.Sprintf("%s: persist: %v", el.Lead.ID, err))
				if outcomes[i].Status != model.LeadStatusSkipped {
					outcomes[i].Status = model.LeadStatusFailed
				}
				zap.L().Error("pipeline: persist failed",
					zap.String("lead_id", el.Lead.ID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: persistence pool")
	}

	report := buildReport(outcomes)
	zap.L().Info("pipeline: run finished",
		zap.Int("processed", report.Processed),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// buildUpdate shapes the write-back for one lead. Contact fields from the
// merged enrichment are promoted to the lead's top-level columns; the store
// itself refuses to overwrite a curated address.
func buildUpdate(el enrichedLead) store.LeadUpdate {
	upd := store.LeadUpdate{Status: el.Status}
	if el.Enrichment == nil {
		return upd
	}

	upd.Enrichment = el.Enrichment
	upd.ContactName = el.Enrichment.ContactName
	upd.ContactEmail = el.Enrichment.ContactEmail
	upd.ContactPhone = el.Enrichment.ContactPhone
	upd.Address = el.Enrichment.Address
	if el.Score != nil {
		score := el.Score.Score
		upd.Score = &score
		upd.ScoreLabel = el.Score.Potential
	}
	return upd
}
