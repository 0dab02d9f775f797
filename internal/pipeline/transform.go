package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/venue-scout/internal/extract"
	"github.com/sells-group/venue-scout/internal/model"
	"github.com/sells-group/venue-scout/internal/workflow"
)

// enrichedLead is one lead's merged, scored record headed for write-back.
// Status is the disposition the report will count: skipped when the lead
// had no website, failed when only a stub record (or nothing) came back,
// enriched otherwise. Enrichment is nil when there is nothing to write.
type enrichedLead struct {
	Lead       model.Lead
	Status     model.LeadStatus
	Enrichment *model.EnrichmentData
	Score      *model.LeadScore
	ExtractErr string
}

// transformAndScore maps each raw extraction onto the enrichment shape,
// scores it, and layers it over whatever enrichment the lead already had.
// Field-by-field, a non-empty fresh value wins; prior values survive gaps
// in the new extraction.
func (p *Pipeline) transformAndScore(ctx context.Context, wc *workflow.Context) (any, error) {
	outcomes, err := workflow.StepData[[]extractionOutcome](wc, StepExtract)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	enriched := make([]enrichedLead, len(outcomes))
	for i, oc := range outcomes {
		enriched[i] = p.classify(oc, now)
	}

	zap.L().Info("pipeline: transform finished", zap.Int("leads", len(enriched)))
	return enriched, nil
}

func (p *Pipeline) classify(oc extractionOutcome, now time.Time) enrichedLead {
	el := enrichedLead{Lead: oc.Lead}

	switch {
	case oc.Result == nil:
		el.Status = model.LeadStatusSkipped
		return el
	case oc.Result.Data == nil:
		// Every ladder tier failed outright. The default ladder cannot
		// get here; a trimmed-down one can.
		el.Status = model.LeadStatusFailed
		el.ExtractErr = oc.Result.Err
		return el
	}

	data := ToEnrichmentData(*oc.Result.Data)
	score := p.scorer.Score(data, now)
	data.Score = &score

	merged := data.Merge(oc.Lead.Enrichment)
	merged.LastUpdated = now

	el.Enrichment = &merged
	el.Score = &score
	el.ExtractErr = oc.Result.Err
	if oc.Result.Success {
		el.Status = model.LeadStatusEnriched
	} else {
		el.Status = model.LeadStatusFailed
	}
	return el
}

// ToEnrichmentData maps a raw extraction onto the persisted enrichment
// shape. The mapping is one-to-one; scoring and merge metadata are layered
// on afterwards.
func ToEnrichmentData(e extract.Extraction) model.EnrichmentData {
	return model.EnrichmentData{
		VenueName:         e.VenueName,
		Description:       e.Description,
		Address:           e.Address,
		ContactName:       e.ContactName,
		ContactEmail:      e.ContactEmail,
		ContactPhone:      e.ContactPhone,
		Capacity:          e.Capacity,
		EventTypes:        e.EventTypes,
		InHouseCatering:   e.InHouseCatering,
		Amenities:         e.Amenities,
		PricingInfo:       e.PricingInfo,
		PreferredCaterers: e.PreferredCaterers,
		Website:           e.SourceURL,
		ExtractionFailed:  e.Failed,
	}
}
