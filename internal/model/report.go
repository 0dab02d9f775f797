package model

// Report aggregates the outcome of one enrichment run. Per-lead failures
// are recovered locally and land in Errors; they never abort the run.
type Report struct {
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
}
