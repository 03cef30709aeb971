package cellflow

import "sort"

// Core is the hidden reactive envelope of one host object: a table from
// field name to Property, materialized per field on first touch. There is
// exactly one envelope per host table; writes to reactive fields route
// through their cells.
type Core struct {
	flow      *Flow
	queueName string
	statics   map[string]bool

	// props holds the fields that have been touched and wired.
	props map[string]*Property

	// plain holds raw storage: fields not yet touched, and fields whose
	// cell was destroyed (destroy restores the field as a plain value).
	plain map[string]any
}

// CoreOption configures a Core under construction.
type CoreOption func(*Core)

// WithStatics declares fields exempt from type-driven cell rebuild.
func WithStatics(names ...string) CoreOption {
	return func(c *Core) {
		for _, n := range names {
			c.statics[n] = true
		}
	}
}

// WithCoreQueue routes every cell of this core to the named queue.
func WithCoreQueue(name string) CoreOption {
	return func(c *Core) { c.queueName = name }
}

// WithCoreFlow binds the core's cells to a specific flow.
func WithCoreFlow(f *Flow) CoreOption {
	return func(c *Core) {
		if f != nil {
			c.flow = f
		}
	}
}

// MakeReactive builds the reactive envelope for a plain field table.
// Fields stay plain until first touch; Prop, Get and Set materialize the
// cell for a field on demand.
func MakeReactive(fields map[string]any, opts ...CoreOption) *Core {
	c := &Core{
		flow:    defaultFlow,
		statics: make(map[string]bool),
		props:   make(map[string]*Property),
		plain:   make(map[string]any, len(fields)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for name, v := range fields {
		c.plain[name] = v
	}
	return c
}

// Prop returns the reactive cell for a field, constructing it on first
// touch from the field's plain value. Function-valued fields become
// compute-backed auto cells; the function is evaluated on first touch
// with the cell as the ambient reader. Unknown fields materialize as nil
// cells, matching first-touch semantics for fields assigned later.
func (c *Core) Prop(name string) *Property {
	if p, ok := c.props[name]; ok {
		return p
	}
	raw := c.plain[name]
	delete(c.plain, name)

	p := newProperty(c, name, OnFlow(c.flow), InQueue(c.queueName))
	p.static = c.statics[name]
	if fn, ok := raw.(func() any); ok {
		p.bindCompute(fn)
	} else {
		p.value = normalizeValue(c.flow, raw)
		p.category = CategoryOf(p.value)
		p.makeReady()
	}

	c.props[name] = p
	return p
}

// Get reads a field through its cell, subscribing the ambient reader.
func (c *Core) Get(name string) any {
	return c.Prop(name).Get()
}

// Set writes a field through its cell.
func (c *Core) Set(name string, v any) {
	c.Prop(name).Set(v)
}

// Fields returns the names of all fields, touched or plain, sorted.
func (c *Core) Fields() []string {
	names := make([]string, 0, len(c.props)+len(c.plain))
	for n := range c.props {
		names = append(names, n)
	}
	for n := range c.plain {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// rebuildProp replaces old with a fresh cell built against v's shape. The
// replacement inherits the listener graph, transforms and queue routing,
// so dependents stay wired across the rebuild, and publishes once.
func (c *Core) rebuildProp(old *Property, v any, source *Event) {
	next := newProperty(c, old.name, OnFlow(c.flow), InQueue(old.queueName))
	next.static = old.static
	next.previous = old.value
	next.listeners = old.listeners
	next.errListeners = old.errListeners
	next.transforms = old.transforms
	if fn, ok := v.(func() any); ok {
		next.bindCompute(fn)
	} else {
		next.value = normalizeValue(c.flow, v)
		next.category = CategoryOf(next.value)
		next.makeReady()
	}

	c.props[old.name] = next

	// Detach before destroying so Destroy does not demote the field back
	// to plain storage.
	old.core = nil
	old.Destroy()

	next.Update(NewEvent(source, next.target(), next.value))
}

// release restores a field as plain storage holding last. Called by
// Property.Destroy.
func (c *Core) release(name string, last any) {
	delete(c.props, name)
	c.plain[name] = last
}

// Destroy destroys every materialized cell. Fields keep their last values
// as plain storage. Idempotent.
func (c *Core) Destroy() {
	for _, p := range c.props {
		p.Destroy()
	}
}

// normalizeValue gives container values their reactive shape: raw slices
// become sequences, raw field tables become nested cores.
func normalizeValue(f *Flow, v any) any {
	switch val := v.(type) {
	case []any:
		return NewSequence(val, OnFlow(f))
	case map[string]any:
		return MakeReactive(val, WithCoreFlow(f))
	default:
		return v
	}
}
