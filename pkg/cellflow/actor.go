package cellflow

import (
	ierrors "github.com/cellflow-dev/cellflow/internal/errors"
)

// State is the lifecycle state of an actor.
type State uint8

const (
	// StateInit is the state during construction. Init actors exist only
	// inside their own constructor.
	StateInit State = iota

	// StateReady actors accept listeners and publish updates.
	StateReady

	// StateDestroyed is terminal. Destroyed actors no-op on every
	// operation and never reanimate.
	StateDestroyed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Transform is one stage of an actor's transform pipeline. Returning
// Reject vetoes the value: the rest of the pipeline is skipped and no
// update is published.
type Transform func(v any) any

// Reject is the sentinel a Transform returns to veto a prospective value.
var Reject any = rejected{}

type rejected struct{}

// IsRejected reports whether v is the rejection sentinel.
func IsRejected(v any) bool {
	_, ok := v.(rejected)
	return ok
}

// ownedListener is implemented by listeners that belong to an actor.
// Used to detect self-listening, which is a structural misuse.
type ownedListener interface {
	ownerActor() *Actor
}

// Actor is the base reactive unit: a listener graph, a transform
// pipeline, a lifecycle state, and the primitives to publish, defer to a
// queue, and destroy. Property and Sequence build on it.
type Actor struct {
	id        uint64
	state     State
	flow      *Flow
	queueName string

	// listeners is insertion-ordered and deduplicated by listener ID.
	listeners    []Listener
	errListeners []Listener
	transforms   []Transform
}

// ActorOption configures an Actor under construction.
type ActorOption func(*Actor)

// OnFlow binds the actor to a specific flow instead of the default.
func OnFlow(f *Flow) ActorOption {
	return func(a *Actor) { a.flow = f }
}

// InQueue routes the actor's deferred invocations to the named queue.
func InQueue(name string) ActorOption {
	return func(a *Actor) { a.queueName = name }
}

// WithTransform appends a stage to the actor's transform pipeline.
func WithTransform(t Transform) ActorOption {
	return func(a *Actor) { a.transforms = append(a.transforms, t) }
}

// newActor allocates an actor in init state. Concrete cell constructors
// call makeReady once their own setup is complete.
func newActor(opts ...ActorOption) *Actor {
	a := &Actor{
		id:    nextID(),
		state: StateInit,
		flow:  defaultFlow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewActor creates a ready standalone actor.
func NewActor(opts ...ActorOption) *Actor {
	a := newActor(opts...)
	a.makeReady()
	return a
}

func (a *Actor) makeReady() {
	if a.state == StateInit {
		a.state = StateReady
	}
}

// ID returns the actor's unique identity.
func (a *Actor) ID() uint64 { return a.id }

// State returns the actor's lifecycle state.
func (a *Actor) State() State { return a.state }

// Flow returns the flow this actor defers invocations to.
func (a *Actor) Flow() *Flow { return a.flow }

// QueueName returns the actor's queue routing, empty for the default.
func (a *Actor) QueueName() string { return a.queueName }

// On subscribes l to the actor's updates and returns the actor for
// chaining. Subscribing an already-subscribed listener or subscribing to
// a destroyed actor is a no-op. Self-listening is a structural misuse and
// panics synchronously.
func (a *Actor) On(l Listener) *Actor {
	if a.state == StateDestroyed || l == nil {
		return a
	}
	a.checkNotSelf(l)
	for _, existing := range a.listeners {
		if existing.ID() == l.ID() {
			return a
		}
	}
	a.listeners = append(a.listeners, l)
	return a
}

// Off unsubscribes l; no-op if absent.
func (a *Actor) Off(l Listener) *Actor {
	if l == nil {
		return a
	}
	a.listeners = removeListener(a.listeners, l.ID())
	return a
}

// OnError subscribes l to the actor's error channel.
func (a *Actor) OnError(l Listener) *Actor {
	if a.state == StateDestroyed || l == nil {
		return a
	}
	a.checkNotSelf(l)
	for _, existing := range a.errListeners {
		if existing.ID() == l.ID() {
			return a
		}
	}
	a.errListeners = append(a.errListeners, l)
	return a
}

// OffError unsubscribes l from the error channel; no-op if absent.
func (a *Actor) OffError(l Listener) *Actor {
	if l == nil {
		return a
	}
	a.errListeners = removeListener(a.errListeners, l.ID())
	return a
}

func (a *Actor) checkNotSelf(l Listener) {
	if ol, ok := l.(ownedListener); ok && ol.ownerActor() == a {
		panic(ierrors.SelfListen(a.id))
	}
}

// removeListener removes the listener with the given ID, preserving order.
func removeListener(ls []Listener, id uint64) []Listener {
	for i, l := range ls {
		if l.ID() == id {
			return append(ls[:i], ls[i+1:]...)
		}
	}
	return ls
}

// Transform appends a stage to the transform pipeline; no-op once
// destroyed.
func (a *Actor) Transform(t Transform) *Actor {
	if a.state == StateDestroyed || t == nil {
		return a
	}
	a.transforms = append(a.transforms, t)
	return a
}

// ApplyTransforms runs v through the pipeline in order. A rejecting stage
// short-circuits the rest and the result is Reject.
func (a *Actor) ApplyTransforms(v any) any {
	for _, t := range a.transforms {
		v = t(v)
		if IsRejected(v) {
			return Reject
		}
	}
	return v
}

// Update publishes ev: one invocation per subscribed listener is deferred
// to the flow with push-once semantics, routed to the listener's queue if
// named, else this actor's queue, else the default. Only ready actors
// publish.
func (a *Actor) Update(ev *Event) *Actor {
	if a.state != StateReady || len(a.listeners) == 0 {
		return a
	}
	a.flow.Run(func() {
		for _, l := range a.listeners {
			a.flow.DeferOnce(l, a.queueName, ev)
		}
	})
	return a
}

// TriggerError delivers err to the error listeners through the same
// deferred mechanism, never to value listeners.
func (a *Actor) TriggerError(err error) *Actor {
	if a.state != StateReady || len(a.errListeners) == 0 {
		return a
	}
	ev := NewEvent(nil, TargetError, err)
	a.flow.Run(func() {
		for _, l := range a.errListeners {
			a.flow.DeferOnce(l, a.queueName, ev)
		}
	})
	return a
}

// Destroy transitions the actor to destroyed, clearing listeners, error
// listeners and transforms. Idempotent. Invocations already enqueued for
// this actor's listeners still deliver; listeners owned by a destroyed
// cell become no-ops at delivery time.
func (a *Actor) Destroy() {
	if a.state == StateDestroyed {
		return
	}
	a.state = StateDestroyed
	a.listeners = nil
	a.errListeners = nil
	a.transforms = nil
}
