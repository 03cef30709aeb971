package cellflow

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/cellflow-dev/cellflow/pkg/log"
)

// DefaultQueue is the queue that invocations land on when neither the
// listener nor the source actor names one. It always flushes first.
const DefaultQueue = "default"

// FlowEvent is the inspector tap record emitted for every enqueued
// invocation.
type FlowEvent struct {
	Queue  string `json:"queue"`
	Target string `json:"target"`
	Depth  int    `json:"depth"`
	Args   int    `json:"args"`
}

// Flow is the scheduler: it owns the named queue-set of the currently open
// run, opens and closes runs, and flushes queued invocations in global
// queue order.
//
// Dispatch is cooperative and run-to-completion: a run executes to a
// fixpoint before Run returns. Nested Run calls execute their body inline
// in the outer run, so all side effects of reentrant propagation
// accumulate into the single outer run's queues. Flows are not safe for
// concurrent use from multiple goroutines; propagation is single-threaded
// by design.
type Flow struct {
	depth    int
	flushing bool

	// queues and order hold the current run's queue-set. The default
	// queue is always first; named queues follow in first-use order.
	queues map[string]*Queue
	order  []string

	runErrs []error

	logger   log.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	onError  func(err error)
	observer func(ev FlowEvent)

	runsOpened uint64
	flushes    uint64
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the logger used for isolated listener failures.
func WithLogger(l log.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

// WithMetrics attaches a metrics collector to the flow.
func WithMetrics(m *Metrics) Option {
	return func(f *Flow) { f.metrics = m }
}

// WithTracer enables one span per outermost run on the given tracer.
func WithTracer(t trace.Tracer) Option {
	return func(f *Flow) { f.tracer = t }
}

// WithErrorHook installs a process-wide error channel for listener
// failures. The hook receives the aggregate of all failures in a run,
// after the run's queues have flushed to completion.
func WithErrorHook(fn func(err error)) Option {
	return func(f *Flow) { f.onError = fn }
}

// WithObserver taps every enqueued invocation. Used by the inspector's
// live feed; must not itself mutate reactive state.
func WithObserver(fn func(ev FlowEvent)) Option {
	return func(f *Flow) { f.observer = fn }
}

// New creates a Flow. The zero configuration is silent: failures are
// isolated and counted but not logged anywhere.
func New(opts ...Option) *Flow {
	f := &Flow{
		queues: make(map[string]*Queue),
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// defaultFlow is the process-wide flow that actors bind to unless they
// are constructed with an explicit one.
var defaultFlow = New()

// Default returns the process-wide flow.
func Default() *Flow { return defaultFlow }

// Run opens a run if none is open, executes body, then flushes every
// queue in global order (default queue first, then named queues in
// first-use order) until all are empty, and closes the run. If a run is
// already open, body executes inline and Run returns without flushing:
// reentrant propagation lands in the outer run.
func Run(body func()) { defaultFlow.Run(body) }

// Run implements the run lifecycle described on the package-level Run.
func (f *Flow) Run(body func()) {
	f.depth++
	if f.depth > 1 {
		defer func() { f.depth-- }()
		body()
		return
	}

	f.runsOpened++
	if f.metrics != nil {
		f.metrics.runs.Inc()
	}

	var span trace.Span
	if f.tracer != nil {
		_, span = f.tracer.Start(context.Background(), "cellflow.run")
	}

	defer func() {
		f.closeRun(span)
		f.depth--
	}()

	body()
	f.flushAll()
}

// Defer routes an invocation of l to the queue named by the listener,
// else sourceQueue, else the default queue, appending unconditionally.
// When no run is open, an implicit run wraps the push and flush.
func (f *Flow) Defer(l Listener, sourceQueue string, ev *Event) {
	f.enqueue(l, sourceQueue, ev, false)
}

// DeferOnce is Defer with push-once semantics: a listener already pending
// on the target queue is not enqueued again; its event is replaced in
// place. This is the glitch-avoidance primitive.
func (f *Flow) DeferOnce(l Listener, sourceQueue string, ev *Event) {
	f.enqueue(l, sourceQueue, ev, true)
}

func (f *Flow) enqueue(l Listener, sourceQueue string, ev *Event, once bool) {
	if l == nil {
		return
	}
	if f.depth == 0 {
		f.Run(func() { f.enqueue(l, sourceQueue, ev, once) })
		return
	}

	name := l.QueueName()
	if name == "" {
		name = sourceQueue
	}
	if name == "" {
		name = DefaultQueue
	}

	q := f.queue(name)
	if once {
		q.PushOnce(l, ev)
	} else {
		q.Push(l, ev)
	}

	if f.metrics != nil {
		f.metrics.queued.WithLabelValues(name).Inc()
	}
	if f.observer != nil {
		fe := FlowEvent{Queue: name}
		if ev != nil {
			fe.Target = ev.Target
			fe.Depth = ev.Depth()
			fe.Args = len(ev.Args)
		}
		f.observer(fe)
	}
}

// queue returns the named queue, registering it in flush order on first
// use. The default queue is pinned to position zero.
func (f *Flow) queue(name string) *Queue {
	if q, ok := f.queues[name]; ok {
		return q
	}
	q := NewQueue(name)
	q.onError = f.noteFailure
	f.queues[name] = q
	if name == DefaultQueue {
		f.order = append([]string{name}, f.order...)
	} else {
		f.order = append(f.order, name)
	}
	return f.queues[name]
}

// flushAll drains every queue in global order. Flushing one queue may
// enqueue into another (or register a new one); the pass repeats until no
// queue holds pending entries.
func (f *Flow) flushAll() {
	if f.flushing {
		return
	}
	f.flushing = true
	defer func() { f.flushing = false }()

	for {
		progressed := false
		for i := 0; i < len(f.order); i++ {
			q := f.queues[f.order[i]]
			if q.Len() == 0 {
				continue
			}
			q.Flush()
			f.flushes++
			if f.metrics != nil {
				f.metrics.flushes.Inc()
			}
			progressed = true
		}
		if !progressed {
			return
		}
	}
}

// closeRun surfaces the run's aggregated failures and finishes the span.
func (f *Flow) closeRun(span trace.Span) {
	err := multierr.Combine(f.runErrs...)
	f.runErrs = nil

	if span != nil {
		span.SetAttributes(
			attribute.Int("cellflow.queue_count", len(f.order)),
			attribute.Int("cellflow.error_count", len(multierr.Errors(err))),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "listener failures during flush")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	if err != nil && f.onError != nil {
		f.onError(err)
	}
}

// noteFailure records one isolated listener failure.
func (f *Flow) noteFailure(err error) {
	f.runErrs = append(f.runErrs, err)
	f.logger.Errorf("listener failure isolated: %v", err)
	if f.metrics != nil {
		f.metrics.failures.Inc()
	}
}

// FlowStats is a point-in-time snapshot of a flow's counters.
type FlowStats struct {
	RunsOpened uint64       `json:"runs_opened"`
	Flushes    uint64       `json:"flushes"`
	RunOpen    bool         `json:"run_open"`
	Queues     []QueueStats `json:"queues"`
}

// Stats snapshots the flow for the inspector.
func (f *Flow) Stats() FlowStats {
	st := FlowStats{
		RunsOpened: f.runsOpened,
		Flushes:    f.flushes,
		RunOpen:    f.depth > 0,
	}
	for _, name := range f.order {
		st.Queues = append(st.Queues, f.queues[name].Stats())
	}
	return st
}
