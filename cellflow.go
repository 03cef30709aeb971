// Package cellflow provides the public API for the cellflow reactive
// dataflow engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/cellflow-dev/cellflow"
//
// Usage:
//
//	price := cellflow.NewProperty(10)
//	total := cellflow.NewAutoProperty(func() any {
//	    return price.Get().(int) * 2
//	})
//	price.Set(15) // total recomputes to 30 before Set returns
package cellflow

import (
	core "github.com/cellflow-dev/cellflow/pkg/cellflow"
)

// =============================================================================
// Scheduling (Flow, Queue, runs)
// =============================================================================

// Flow is the scheduler: batched, run-to-fixpoint propagation.
type Flow = core.Flow

// FlowStats is a point-in-time snapshot of a flow's counters.
type FlowStats = core.FlowStats

// FlowEvent is the inspector tap record for one enqueued invocation.
type FlowEvent = core.FlowEvent

// Queue is an ordered, deduplicable buffer of pending invocations.
type Queue = core.Queue

// QueueStats is a point-in-time snapshot of one queue's counters.
type QueueStats = core.QueueStats

// Option configures a Flow.
type Option = core.Option

// DefaultQueue is the queue invocations land on when none is named.
const DefaultQueue = core.DefaultQueue

var (
	// NewFlow creates a Flow.
	NewFlow = core.New

	// Default returns the process-wide flow.
	Default = core.Default

	// Run opens a run on the process-wide flow, executes body, and
	// flushes to a fixpoint. Reentrant calls execute inline.
	Run = core.Run

	// WithLogger sets the flow's logger.
	WithLogger = core.WithLogger

	// WithMetrics attaches a prometheus collector to the flow.
	WithMetrics = core.WithMetrics

	// WithTracer enables one span per outermost run.
	WithTracer = core.WithTracer

	// WithErrorHook installs the flow's aggregated error channel.
	WithErrorHook = core.WithErrorHook

	// WithObserver taps every enqueued invocation.
	WithObserver = core.WithObserver
)

// =============================================================================
// Core reactive types
// =============================================================================

// Actor is the base reactive unit.
type Actor = core.Actor

// Property is a scalar reactive cell with implicit dependency capture.
type Property = core.Property

// Sequence is a reactive ordered collection with diff-based notification.
type Sequence = core.Sequence

// IndexCell is the scalar cell exposed at one sequence position.
type IndexCell = core.IndexCell

// Core is the hidden reactive envelope of one host field table.
type Core = core.Core

// Event is one propagation step, chained to its cause through Source.
type Event = core.Event

// Splice describes one contiguous structural change to a sequence.
type Splice = core.Splice

// Listener is anything that can be notified when an actor publishes.
type Listener = core.Listener

// FuncListener adapts a plain function to the Listener interface.
type FuncListener = core.FuncListener

// Transform is one stage of an actor's transform pipeline.
type Transform = core.Transform

// State is the lifecycle state of an actor.
type State = core.State

// Category is the value category of a property.
type Category = core.Category

// ActorOption configures an Actor under construction.
type ActorOption = core.ActorOption

// CellConfig is the options record for declarative cell construction.
type CellConfig = core.CellConfig

var (
	// NewActor creates a ready standalone actor.
	NewActor = core.NewActor

	// NewProperty creates a free-standing scalar cell.
	NewProperty = core.NewProperty

	// NewAutoProperty creates a derived cell with implicit dependency
	// discovery.
	NewAutoProperty = core.NewAutoProperty

	// NewSequence creates a reactive ordered collection.
	NewSequence = core.NewSequence

	// MakeReactive builds the reactive envelope for a plain field table.
	MakeReactive = core.MakeReactive

	// LazyValue builds a single-field reactive cell from a raw value and
	// an options record.
	LazyValue = core.LazyValue

	// NewListener wraps a function as a Listener.
	NewListener = core.NewListener

	// NewEvent creates an event caused by source.
	NewEvent = core.NewEvent

	// OnFlow binds an actor to a specific flow.
	OnFlow = core.OnFlow

	// InQueue routes an actor's deferred invocations to a named queue.
	InQueue = core.InQueue

	// WithTransform appends a transform stage at construction.
	WithTransform = core.WithTransform

	// WithStatics declares fields exempt from type-driven rebuild.
	WithStatics = core.WithStatics

	// Reject is the sentinel a transform returns to veto a value.
	Reject = core.Reject

	// IsRejected reports whether a value is the rejection sentinel.
	IsRejected = core.IsRejected

	// WithReader runs a tracked evaluation with an explicit reader.
	WithReader = core.WithReader

	// Untracked runs body with dependency tracking disabled.
	Untracked = core.Untracked

	// ErrListenerFailure matches isolated listener failures surfaced by
	// the flow's error hook.
	ErrListenerFailure = core.ErrListenerFailure
)

// Lifecycle states.
const (
	StateInit      = core.StateInit
	StateReady     = core.StateReady
	StateDestroyed = core.StateDestroyed
)

// Value categories.
const (
	CategoryNil      = core.CategoryNil
	CategorySimple   = core.CategorySimple
	CategoryAuto     = core.CategoryAuto
	CategoryObject   = core.CategoryObject
	CategorySequence = core.CategorySequence
)
