package cellflow

// Listener is anything that can be notified when an actor publishes.
// Properties, derived sequences and application callbacks all implement it.
type Listener interface {
	// Call delivers one event to the listener.
	Call(ev *Event)

	// ID returns a unique identifier for this listener.
	// Used for deduplication within queues and listener sets.
	ID() uint64

	// QueueName returns the named queue this listener's deferred
	// invocations are routed to. Empty means inherit from the source
	// actor, falling back to the default queue.
	QueueName() string
}

// propertyBacked is implemented by listeners that carry a back-reference
// to an owning Property. The scheduler uses it to push the delivered value
// straight into the property in addition to invoking the callback.
type propertyBacked interface {
	backingProperty() *Property
}

// FuncListener adapts a plain function to the Listener interface.
type FuncListener struct {
	id    uint64
	fn    func(ev *Event)
	queue string
	prop  *Property
}

// NewListener wraps fn as a Listener with a fresh identity.
func NewListener(fn func(ev *Event)) *FuncListener {
	return &FuncListener{id: nextID(), fn: fn}
}

// WithQueue routes this listener's deferred invocations to the named queue.
func (l *FuncListener) WithQueue(name string) *FuncListener {
	l.queue = name
	return l
}

// Call implements Listener.
func (l *FuncListener) Call(ev *Event) {
	if l.fn != nil {
		l.fn(ev)
	}
}

// ID implements Listener.
func (l *FuncListener) ID() uint64 { return l.id }

// QueueName implements Listener.
func (l *FuncListener) QueueName() string { return l.queue }

func (l *FuncListener) backingProperty() *Property { return l.prop }
