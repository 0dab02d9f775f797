package workflow

// Event is one progress notification: a step changed state within a run.
// Events are observational; dropping them never affects the run.
type Event struct {
	RunID   string `json:"run_id"`
	Step    string `json:"step"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Err     string `json:"error,omitempty"`
}

// EventSink receives a run's progress events. Sinks must be fast or buffer
// internally; the engine calls them inline between step transitions.
type EventSink func(Event)
