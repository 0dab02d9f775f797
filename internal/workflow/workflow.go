// Package workflow implements a minimal sequential step engine: named steps
// run in declared order against a shared per-run context, with per-step
// status, timing, and progress events. Fan-out inside a step is the step's
// own business; the engine never runs two steps at once.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrSkipStep is the sentinel a step returns to settle as skipped without
// aborting the run.
var ErrSkipStep = errors.New("workflow: skip step")

// Step is one named unit of work. Run receives the engine context and the
// shared run context; whatever it returns is stored as the step's output
// and becomes readable by later steps via StepData.
type Step interface {
	ID() string
	Run(ctx context.Context, wc *Context) (any, error)
}

// StepFunc adapts a plain function to the Step interface.
func StepFunc(id string, fn func(ctx context.Context, wc *Context) (any, error)) Step {
	return funcStep{id: id, fn: fn}
}

type funcStep struct {
	id string
	fn func(ctx context.Context, wc *Context) (any, error)
}

func (s funcStep) ID() string { return s.id }

func (s funcStep) Run(ctx context.Context, wc *Context) (any, error) {
	return s.fn(ctx, wc)
}

// TriggerValidator vets the trigger payload before any step runs.
type TriggerValidator func(trigger any) error

// Workflow is a named, ordered list of steps.
type Workflow struct {
	name     string
	steps    []Step
	validate TriggerValidator
}

// Option configures a Workflow at construction.
type Option func(*Workflow)

// WithTriggerValidator installs a validator run before step execution.
// A validation failure fails the run fast with a *ValidationError.
func WithTriggerValidator(v TriggerValidator) Option {
	return func(w *Workflow) {
		w.validate = v
	}
}

// New builds a workflow from steps. Step ids must be unique and non-empty.
func New(name string, steps []Step, opts ...Option) (*Workflow, error) {
	if name == "" {
		return nil, eris.New("workflow: name is required")
	}
	if len(steps) == 0 {
		return nil, eris.New("workflow: at least one step is required")
	}
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		id := s.ID()
		if id == "" {
			return nil, eris.New("workflow: step with empty id")
		}
		if _, dup := seen[id]; dup {
			return nil, eris.Errorf("workflow: duplicate step id %q", id)
		}
		seen[id] = struct{}{}
	}

	w := &Workflow{name: name, steps: steps}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name returns the workflow's name.
func (w *Workflow) Name() string { return w.name }

// Result is the outcome of one run: the generated run id and the settled
// StepResult per step. Steps never started have no entry.
type Result struct {
	RunID   string                `json:"run_id"`
	Results map[string]StepResult `json:"results"`
}

type runConfig struct {
	sink EventSink
}

// RunOption configures a single run.
type RunOption func(*runConfig)

// WithEventSink delivers this run's progress events to sink. The sink is
// observational only and scoped to the run; there is no global emitter.
func WithEventSink(sink EventSink) RunOption {
	return func(rc *runConfig) {
		rc.sink = sink
	}
}

// Run validates the trigger, then executes every step strictly in order.
// The first step failure finalizes that step as failed, aborts all
// remaining steps, and returns the partial Result alongside a *StepError
// naming the failed step. Once started, a run is never cancelled between
// steps; per-step timeouts are the steps' concern.
func (w *Workflow) Run(ctx context.Context, trigger any, opts ...RunOption) (*Result, error) {
	if w.validate != nil {
		if err := w.validate(trigger); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				verr = &ValidationError{Reason: err.Error()}
			}
			return nil, verr
		}
	}

	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}

	runID := uuid.New().String()
	wc := newContext(runID, trigger, rc.sink)
	log := zap.L().With(zap.String("workflow", w.name), zap.String("run_id", runID))
	log.Info("workflow: run started", zap.Int("steps", len(w.steps)))

	for _, step := range w.steps {
		id := step.ID()
		wc.begin(id)

		start := time.Now()
		data, err := step.Run(ctx, wc)
		elapsed := time.Since(start)

		switch {
		case errors.Is(err, ErrSkipStep):
			wc.skip(id)
			log.Info("workflow: step skipped",
				zap.String("step", id),
				zap.Duration("elapsed", elapsed),
			)
		case err != nil:
			wc.fail(id, err)
			log.Error("workflow: step failed",
				zap.String("step", id),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			partial := &Result{RunID: runID, Results: wc.Results()}
			return partial, &StepError{
				RunID:   runID,
				StepID:  id,
				Results: partial.Results,
				Cause:   err,
			}
		default:
			wc.complete(id, data)
			log.Info("workflow: step completed",
				zap.String("step", id),
				zap.Duration("elapsed", elapsed),
			)
		}
	}

	log.Info("workflow: run completed")
	return &Result{RunID: runID, Results: wc.Results()}, nil
}
