package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/workflow"
)

// fetchLeads reads the trigger's lead records in one batch. Ids with no
// matching record are dropped silently; the step fails only when the read
// errors or nothing at all was found.
func (p *Pipeline) fetchLeads(ctx context.Context, wc *workflow.Context) (any, error) {
	trigger, err := workflow.TriggerData[Trigger](wc)
	if err != nil {
		return nil, err
	}

	leads, err := p.store.GetLeadsByIDs(ctx, trigger.LeadIDs)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch leads")
	}
	if len(leads) == 0 {
		return nil, eris.Errorf("pipeline: none of the %d requested leads were found", len(trigger.LeadIDs))
	}

	zap.L().Info("pipeline: leads fetched",
		zap.Int("requested", len(trigger.LeadIDs)),
		zap.Int("found", len(leads)),
	)
	return leads, nil
}
