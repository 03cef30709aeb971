package cellflow

import "fmt"

// queueEntry is one pending invocation: a listener and the event it will
// receive. PushOnce replaces ev in place, so the event field is mutable
// until the entry is delivered.
type queueEntry struct {
	listener Listener
	ev       *Event
	done     bool
}

// Queue is an ordered, deduplicable buffer of pending invocations.
//
// Entries are delivered strictly in enqueue order. Entries pushed while a
// flush is draining are appended and drained before Flush returns, so a
// single queue always flushes to a fixpoint. A failure in one entry is
// isolated: it is reported through the onError hook and the flush
// continues with the remaining entries.
type Queue struct {
	// Name identifies the queue within its flow.
	Name string

	entries []queueEntry

	// pending maps listener ID to the entry index for PushOnce lookups.
	// Only entries not yet delivered are present.
	pending map[uint64]int

	// onError receives isolated delivery failures. Set by the owning flow.
	onError func(err error)

	// stats
	pushed    uint64
	deduped   uint64
	delivered uint64
	failures  uint64
}

// NewQueue creates an empty queue with the given name.
func NewQueue(name string) *Queue {
	return &Queue{
		Name:    name,
		pending: make(map[uint64]int),
	}
}

// Len returns the number of undelivered entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Push appends an invocation unconditionally. Duplicates are allowed.
func (q *Queue) Push(l Listener, ev *Event) {
	if l == nil {
		return
	}
	q.entries = append(q.entries, queueEntry{listener: l, ev: ev})
	q.pushed++
}

// PushOnce appends an invocation only if no pending entry already targets
// the same listener. When one is pending, its event is replaced in place
// and its position is unchanged: the listener fires once per flush, with
// the last enqueued arguments winning.
func (q *Queue) PushOnce(l Listener, ev *Event) {
	if l == nil {
		return
	}
	if idx, ok := q.pending[l.ID()]; ok {
		q.entries[idx].ev = ev
		q.deduped++
		return
	}
	q.pending[l.ID()] = len(q.entries)
	q.entries = append(q.entries, queueEntry{listener: l, ev: ev})
	q.pushed++
}

// Flush executes pending entries in enqueue order until the queue is
// empty, including entries enqueued by the entries themselves.
func (q *Queue) Flush() {
	for i := 0; i < len(q.entries); i++ {
		entry := &q.entries[i]
		if entry.done {
			continue
		}
		entry.done = true
		delete(q.pending, entry.listener.ID())
		q.deliver(entry.listener, entry.ev)
	}
	q.entries = q.entries[:0]
}

// deliver invokes one listener, isolating panics so a cascade never stalls.
// Listeners backed by a destroyed property become no-ops here.
func (q *Queue) deliver(l Listener, ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			q.failures++
			if q.onError != nil {
				q.onError(fmt.Errorf("%w: queue %q, listener %d: %v", ErrListenerFailure, q.Name, l.ID(), r))
			}
		}
	}()

	if pb, ok := l.(propertyBacked); ok {
		if p := pb.backingProperty(); p != nil {
			if p.State() == StateDestroyed {
				return
			}
			p.receive(ev)
		}
	}
	l.Call(ev)
	q.delivered++
}

// QueueStats is a point-in-time snapshot of one queue's counters.
type QueueStats struct {
	Name      string `json:"name"`
	Depth     int    `json:"depth"`
	Pushed    uint64 `json:"pushed"`
	Deduped   uint64 `json:"deduped"`
	Delivered uint64 `json:"delivered"`
	Failures  uint64 `json:"failures"`
}

// Stats returns the queue's counters.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Name:      q.Name,
		Depth:     len(q.entries),
		Pushed:    q.pushed,
		Deduped:   q.deduped,
		Delivered: q.delivered,
		Failures:  q.failures,
	}
}
