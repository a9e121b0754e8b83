package step

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
)

// Step is a unit of work with two phases. Initializing prepares the step and
// Processing does the work, reporting progress on the given tracker.
type Step interface {
	Initializing(ctx context.Context) error
	Processing(ctx context.Context, t Tracker) error
}

// Action is work with no typed input or output.
type Action func(ctx context.Context) error

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTracker sets the tracker Processing reports on.
func WithTracker(t *StackTracker) RunnerOption {
	return func(r *Runner) { r.tracker = t }
}

// WithRunnerLogger sets the runner's logger.
func WithRunnerLogger(l *logger.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithMetrics records run counts, durations and released pieces.
func WithMetrics(m *observability.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// RunObserver is told when a Runner starts and finishes a run.
type RunObserver interface {
	RunStarted(step, runID string)
	RunFinished(step, runID string, err error)
}

// WithObserver registers an observer for every run.
func WithObserver(o RunObserver) RunnerOption {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// WithTracer sets the tracer used for run and phase spans.
func WithTracer(t trace.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = t }
}

// Runner executes a Step. Initializing runs until it succeeds once; every
// Run after that goes straight to Processing.
type Runner struct {
	name    string
	step    Step
	tracker *StackTracker
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer

	observers []RunObserver

	mu          sync.Mutex
	initialized bool
}

// NewRunner creates a runner for s.
func NewRunner(name string, s Step, opts ...RunnerOption) *Runner {
	r := &Runner{name: name, step: s}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracker == nil {
		r.tracker = NewTracker(name)
	}
	if r.log == nil {
		r.log = logger.Get("step")
	}
	if r.tracer == nil {
		r.tracer = observability.Tracer("github.com/kbukum/pipekit/step")
	}
	if r.metrics != nil {
		r.tracker.AddListener(MetricsListener(r.metrics))
	}
	return r
}

// Name returns the step name.
func (r *Runner) Name() string { return r.name }

// Tracker returns the tracker Processing reports on.
func (r *Runner) Tracker() *StackTracker { return r.tracker }

// Run executes the step. An error from either phase is returned unchanged.
// Scopes left open by a failed or careless Processing are released before
// Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	ctx, span := r.tracer.Start(ctx, observability.SpanStepRun, trace.WithAttributes(
		attribute.String(observability.AttrStepName, r.name),
		attribute.String(observability.AttrRunID, runID),
	))
	log := r.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldStep, r.name))
	start := time.Now()
	for _, o := range r.observers {
		o.RunStarted(r.name, runID)
	}

	err := r.run(ctx, log)

	for _, o := range r.observers {
		o.RunFinished(r.name, runID, err)
	}
	if r.metrics != nil {
		r.metrics.RecordStep(ctx, r.name, time.Since(start), err)
	}
	observability.EndSpan(span, err)
	return err
}

func (r *Runner) run(ctx context.Context, log *logger.Logger) error {
	if !r.initialized {
		if err := r.phase(ctx, log, observability.SpanStepInitialize, r.step.Initializing); err != nil {
			return err
		}
		r.initialized = true
	}

	mark := r.tracker.Depth()
	defer r.tracker.releaseTo(mark)
	return r.phase(ctx, log, observability.SpanStepProcess, func(ctx context.Context) error {
		return r.step.Processing(ctx, r.tracker)
	})
}

func (r *Runner) phase(ctx context.Context, log *logger.Logger, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String(observability.AttrPhase, name),
	))
	log = log.WithFields(logger.Fields(logger.FieldPhase, name))
	log.Info("phase started")
	start := time.Now()

	err := fn(ctx)
	observability.EndSpan(span, err)
	if err != nil {
		log.Error("phase failed", logger.MergeWithError(logger.DurationFields(name, time.Since(start)), err))
		return err
	}
	log.Info("phase completed", logger.DurationFields(name, time.Since(start)))
	return nil
}

// MetricsListener counts released pieces on m.
func MetricsListener(m *observability.Metrics) Listener {
	return ListenerFunc(func(p Progress) {
		if p.Event == EventPieceDone {
			m.RecordPiece(context.Background(), p.Tracker)
		}
	})
}

// LogListener logs every progress change at debug level.
func LogListener(l *logger.Logger) Listener {
	return ListenerFunc(func(p Progress) {
		l.Debug("progress", logger.Fields(
			logger.FieldTracker, p.Tracker,
			logger.FieldOperation, string(p.Event),
			logger.FieldDone, p.Done,
			logger.FieldTotal, p.Total,
		))
	})
}
