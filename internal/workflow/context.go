package workflow

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// Status is the lifecycle state of a step within a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StepResult records one step's settled state. It is created when the step
// begins and finalized exactly once when the step settles.
type StepResult struct {
	Status    Status    `json:"status"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
}

// Duration returns how long the step ran, zero if it has not settled.
func (r StepResult) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Context is the shared per-run state: step results keyed by step id, a
// variables bag, the original trigger payload, and the optional event sink.
// It lives for one run and is never persisted.
type Context struct {
	RunID   string
	Trigger any

	mu      sync.RWMutex
	results map[string]*StepResult
	vars    map[string]any
	sink    EventSink
}

func newContext(runID string, trigger any, sink EventSink) *Context {
	return &Context{
		RunID:   runID,
		Trigger: trigger,
		results: make(map[string]*StepResult),
		vars:    make(map[string]any),
		sink:    sink,
	}
}

// StepResult returns a copy of the named step's result and whether the step
// has begun at all.
func (c *Context) StepResult(stepID string) (StepResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[stepID]
	if !ok {
		return StepResult{}, false
	}
	return *r, true
}

// Results snapshots every step result recorded so far.
func (c *Context) Results() map[string]StepResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]StepResult, len(c.results))
	for id, r := range c.results {
		out[id] = *r
	}
	return out
}

// SetVar stores an arbitrary run-scoped value.
func (c *Context) SetVar(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[key] = value
}

// Var reads a run-scoped value set by an earlier step.
func (c *Context) Var(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[key]
	return v, ok
}

func (c *Context) begin(stepID string) {
	c.mu.Lock()
	c.results[stepID] = &StepResult{
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	c.mu.Unlock()
	c.emit(Event{RunID: c.RunID, Step: stepID, Status: StatusRunning, Message: "step started"})
}

func (c *Context) complete(stepID string, data any) {
	c.finalize(stepID, StatusCompleted, data, "")
	c.emit(Event{RunID: c.RunID, Step: stepID, Status: StatusCompleted, Message: "step completed"})
}

func (c *Context) fail(stepID string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.finalize(stepID, StatusFailed, nil, msg)
	c.emit(Event{RunID: c.RunID, Step: stepID, Status: StatusFailed, Message: "step failed", Err: msg})
}

func (c *Context) skip(stepID string) {
	c.finalize(stepID, StatusSkipped, nil, "")
	c.emit(Event{RunID: c.RunID, Step: stepID, Status: StatusSkipped, Message: "step skipped"})
}

// finalize settles a step at most once; later calls are ignored.
func (c *Context) finalize(stepID string, status Status, data any, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[stepID]
	if !ok || (r.Status != StatusRunning && r.Status != StatusPending) {
		return
	}
	r.Status = status
	r.Data = data
	r.Error = errMsg
	r.EndedAt = time.Now()
}

func (c *Context) emit(ev Event) {
	if c.sink == nil {
		return
	}
	c.sink(ev)
}

// StepData reads the completed output of stepID as T. It fails when the
// step has not settled, did not complete, or holds a different type, so a
// step can never silently read stale or absent upstream data.
func StepData[T any](c *Context, stepID string) (T, error) {
	var zero T
	r, ok := c.StepResult(stepID)
	if !ok {
		return zero, eris.Errorf("workflow: step %q has not run", stepID)
	}
	if r.Status != StatusCompleted {
		return zero, eris.Errorf("workflow: step %q is %s, not completed", stepID, r.Status)
	}
	data, ok := r.Data.(T)
	if !ok {
		return zero, eris.Errorf("workflow: step %q output is %T, want %T", stepID, r.Data, zero)
	}
	return data, nil
}

// TriggerData reads the run's trigger payload as T.
func TriggerData[T any](c *Context) (T, error) {
	var zero T
	data, ok := c.Trigger.(T)
	if !ok {
		return zero, eris.Errorf("workflow: trigger is %T, want %T", c.Trigger, zero)
	}
	return data, nil
}
