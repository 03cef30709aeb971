package cellflow

import "reflect"

// Property is a scalar reactive cell bound to one field of a host table.
// Reads capture the ambient reader as a listener (implicit dependency
// discovery); writes run the transform pipeline, compare against the
// current value, and propagate through the flow when changed.
type Property struct {
	*Actor

	core *Core
	name string

	value    any
	previous any
	category Category

	// static cells are exempt from type-driven rebuild.
	static bool

	// compute backs auto (function-derived) cells. Auto cells recompute
	// instead of receiving direct value pushes, and never rebuild on
	// category change.
	compute func() any

	// follower cells (Filter, Accumulate derivations) consume upstream
	// events in their callback; like auto cells they take no direct
	// value pushes and never rebuild.
	follower bool

	// reader is the cell's standing listener identity: it is what gets
	// subscribed to upstream cells when this cell's evaluation reads
	// them, and it carries the back-reference the scheduler uses to push
	// values straight into the cell.
	reader *FuncListener
}

// newProperty allocates a property in init state; callers finish setup
// and call makeReady.
func newProperty(core *Core, name string, opts ...ActorOption) *Property {
	p := &Property{
		Actor: newActor(opts...),
		core:  core,
		name:  name,
	}
	p.reader = NewListener(nil)
	p.reader.prop = p
	p.reader.queue = p.queueName
	return p
}

// NewProperty creates a ready free-standing property holding initial.
func NewProperty(initial any, opts ...ActorOption) *Property {
	p := newProperty(nil, "", opts...)
	p.value = initial
	p.category = CategoryOf(initial)
	p.makeReady()
	return p
}

// NewAutoProperty creates a derived cell. compute is evaluated once with
// the cell installed as the ambient reader, so every cell it reads
// becomes a dependency; on any dependency update the cell recomputes and
// republishes.
func NewAutoProperty(compute func() any, opts ...ActorOption) *Property {
	p := newProperty(nil, "", opts...)
	p.bindCompute(compute)
	return p
}

// bindCompute wires the cell as function-derived: fn becomes the compute
// function, the cell's callback becomes recompute, and fn is evaluated
// once with the cell installed as the ambient reader so every cell it
// reads becomes a dependency. Host-table fields holding a func() any are
// bound through this path, same as free-standing auto cells.
func (p *Property) bindCompute(fn func() any) {
	p.compute = fn
	p.category = CategoryAuto
	p.reader.fn = p.recompute
	p.makeReady()
	WithReader(p.reader, func() {
		p.value = fn()
	})
}

// ownerActor lets the reader listener report its owning actor, so
// self-subscription is caught synchronously.
func (l *FuncListener) ownerActor() *Actor {
	if l.prop != nil {
		return l.prop.Actor
	}
	return nil
}

// Name returns the host field name, empty for free-standing cells.
func (p *Property) Name() string { return p.name }

// Category returns the cell's value category.
func (p *Property) Category() Category { return p.category }

// IsStatic reports whether the cell is exempt from type-driven rebuild.
func (p *Property) IsStatic() bool { return p.static }

// AsListener returns the cell's standing listener, for subscribing this
// cell to another actor explicitly.
func (p *Property) AsListener() Listener { return p.reader }

// Get returns the current value. If an ambient reader is active it is
// subscribed as a listener of this cell first; reads create the edges of
// the dependency graph.
func (p *Property) Get() any {
	if p.state == StateDestroyed {
		return p.value
	}
	if r := currentReader(); r != nil {
		p.On(r)
	}
	return p.value
}

// Peek returns the current value without subscribing the ambient reader.
func (p *Property) Peek() any { return p.value }

// Previous returns the value before the last accepted write.
func (p *Property) Previous() any { return p.previous }

// Set writes v through the transform pipeline. A rejected or identical
// value produces zero notifications. When the cell holds a *Sequence and
// v is a raw []any, the write is applied to the wrapped sequence as
// minimal splices: the sequence's scoped listeners are notified, the
// cell keeps the same wrapper value, and its own listeners and Previous
// are untouched. A write whose category differs from the cell's (unless
// the cell is auto or static) discards the cell and rebuilds it against
// the new value's shape. Otherwise the cell stores the value and
// publishes one update.
func (p *Property) Set(v any) {
	p.set(v, nil)
}

func (p *Property) set(v any, source *Event) {
	if p.state != StateReady {
		return
	}
	v = p.ApplyTransforms(v)
	if IsRejected(v) {
		return
	}
	if identical(p.value, v) {
		return
	}

	// A sequence cell refreshed with a raw slice of the same category
	// keeps its wrapper and propagates the change as minimal splices.
	if seq, ok := p.value.(*Sequence); ok {
		if raw, ok := v.([]any); ok {
			seq.UpdateByDiff(raw)
			return
		}
	}

	if p.category != CategoryAuto && !p.follower && !p.static {
		if cat := CategoryOf(v); cat != p.category {
			p.rebuild(v, cat, source)
			return
		}
	}

	p.previous = p.value
	p.value = v
	if p.follower {
		p.category = CategoryOf(v)
	}
	p.Update(NewEvent(source, p.target(), v))
}

// target names this cell's update events.
func (p *Property) target() string {
	if p.name != "" {
		return p.name
	}
	return TargetUpdate
}

// receive is the scheduler's direct value push for property-backed
// listeners. Auto cells ignore it; they recompute in their callback.
func (p *Property) receive(ev *Event) {
	if p.compute != nil || p.follower {
		return
	}
	switch ev.Target {
	case TargetError:
		return
	default:
		p.set(ev.Value(), ev)
	}
}

// recompute reruns the compute function with this cell as the ambient
// reader, picking up any newly read dependencies, and republishes.
func (p *Property) recompute(ev *Event) {
	if p.state != StateReady || p.compute == nil {
		return
	}
	var v any
	WithReader(p.reader, func() {
		v = p.compute()
	})
	v = p.ApplyTransforms(v)
	if IsRejected(v) || identical(p.value, v) {
		return
	}
	p.previous = p.value
	p.value = v
	p.Update(NewEvent(ev, p.target(), v))
}

// rebuild discards the cell and rebuilds it from scratch against the new
// value's category. The replacement inherits the old cell's listeners,
// transforms and queue routing, keeping dependents wired, and publishes
// the new value once.
func (p *Property) rebuild(v any, cat Category, source *Event) {
	if p.core != nil {
		p.core.rebuildProp(p, v, source)
		return
	}

	// Free-standing cells have no host table to rebuild through; the
	// replacement happens in place.
	p.previous = p.value
	if fn, ok := v.(func() any); ok {
		p.bindCompute(fn)
	} else {
		p.value = normalizeValue(p.Flow(), v)
		p.category = cat
	}
	p.Update(NewEvent(source, p.target(), p.value))
}

// Map derives a new independent cell holding fn of this cell's value.
// The derived cell discovers this cell as a dependency by reading it, and
// recomputes on every future update.
func (p *Property) Map(fn func(v any) any) *Property {
	return NewAutoProperty(func() any {
		return fn(p.Get())
	}, OnFlow(p.flow), InQueue(p.queueName))
}

// Filter derives a cell that follows this cell's updates, keeping only
// values accepted by pred. The derived cell is seeded with the current
// value when it passes, and this cell republishes its current value once.
func (p *Property) Filter(pred func(v any) bool) *Property {
	d := NewProperty(nil, OnFlow(p.flow), InQueue(p.queueName))
	d.Transform(func(v any) any {
		if !pred(v) {
			return Reject
		}
		return v
	})
	d.reader.fn = func(ev *Event) {
		d.set(ev.Value(), ev)
	}
	d.follower = true
	p.On(d.reader)
	if pred(p.value) {
		d.value = p.value
		d.category = CategoryOf(d.value)
	}
	p.Update(NewEvent(nil, p.target(), p.value))
	return d
}

// Accumulate derives a cell folding this cell's updates into an
// accumulator starting at init.
func (p *Property) Accumulate(init any, fn func(acc, v any) any) *Property {
	d := NewProperty(init, OnFlow(p.flow), InQueue(p.queueName))
	d.reader.fn = func(ev *Event) {
		d.set(fn(d.value, ev.Value()), ev)
	}
	d.follower = true
	p.On(d.reader)
	p.Update(NewEvent(nil, p.target(), p.value))
	return d
}

// CellConfig is the options record the declarative layer passes to
// LazyValue.
type CellConfig struct {
	// Statics names fields exempt from type-driven cell rebuild.
	Statics []string

	// QueueName routes the cell's deferred invocations.
	QueueName string

	// Flow binds the cell to a specific flow instead of the default.
	Flow *Flow
}

// lazyField is the field name LazyValue binds its single cell to.
const lazyField = "value"

// LazyValue builds a ready-to-use single-field reactive cell from a raw
// value and an options record. The explicit queueName, when non-empty,
// overrides the config's.
func LazyValue(value any, cfg CellConfig, queueName string) *Property {
	if queueName != "" {
		cfg.QueueName = queueName
	}
	core := MakeReactive(map[string]any{lazyField: value},
		WithStatics(cfg.Statics...),
		WithCoreQueue(cfg.QueueName),
		WithCoreFlow(cfg.Flow),
	)
	return core.Prop(lazyField)
}

// Destroy removes the cell from its host table, leaving the field holding
// the last value as a plain entry, and severs all owned references.
// Idempotent.
func (p *Property) Destroy() {
	if p.state == StateDestroyed {
		return
	}
	if p.core != nil {
		p.core.release(p.name, p.value)
	}
	p.compute = nil
	p.previous = nil
	p.reader.fn = nil
	p.Actor.Destroy()
}

// identical reports strict identity equality: comparable values compare
// with ==, values of different or uncomparable types are never identical.
func identical(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
