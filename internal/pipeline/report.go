package pipeline

import "github.com/sells-group/venue-scout/internal/model"

// buildReport folds per-lead outcomes into the aggregate run report.
// Error strings keep lead order, with each lead's extraction error ahead
// of its persistence error.
func buildReport(outcomes []leadOutcome) *model.Report {
	r := &model.Report{Processed: len(outcomes)}
	for _, oc := range outcomes {
		switch oc.Status {
		case model.LeadStatusEnriched:
			r.Successful++
		case model.LeadStatusSkipped:
			r.Skipped++
		default:
			r.Failed++
		}
		r.Errors = append(r.Errors, oc.Errs...)
	}
	return r
}
