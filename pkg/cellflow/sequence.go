package cellflow

import (
	"sort"

	ierrors "github.com/cellflow-dev/cellflow/internal/errors"
)

// Additional event targets for sequence mutations.
const (
	TargetReverse = "reverse"
	TargetSort    = "sort"
)

// Sequence is a reactive ordered collection. It owns its backing storage
// exclusively; every mutating operation performs the raw mutation first
// and then enqueues exactly one descriptive update, even for
// multi-element operations.
//
// Listeners come in two scopes: index listeners see operations that
// replace values at existing positions (Set, Reverse, Sort), length
// listeners see operations that change the length. A splice that does
// both notifies both scopes, still with a single event. Every structural
// position additionally exposes an index-keyed scalar cell, so reading
// seq.Get(i) is itself trackable.
type Sequence struct {
	*Actor

	// indexActor and lengthActor carry the scoped listener sets.
	indexActor  *Actor
	lengthActor *Actor

	backing []any
	cells   []*IndexCell
}

// NewSequence creates a ready sequence owning a copy of initial.
func NewSequence(initial []any, opts ...ActorOption) *Sequence {
	s := &Sequence{Actor: newActor(opts...)}
	s.indexActor = NewActor(OnFlow(s.flow), InQueue(s.queueName))
	s.lengthActor = NewActor(OnFlow(s.flow), InQueue(s.queueName))
	s.backing = append([]any(nil), initial...)
	s.growCells(len(s.backing))
	s.makeReady()
	return s
}

// IndexCell is the scalar reactive cell exposed at one sequence position.
type IndexCell struct {
	*Actor
	seq *Sequence
	idx int
}

// Get returns the value at this position, subscribing the ambient reader.
func (c *IndexCell) Get() any {
	if c.state == StateDestroyed {
		return nil
	}
	if r := currentReader(); r != nil {
		c.On(r)
	}
	return c.seq.backing[c.idx]
}

// Set writes through to the owning sequence.
func (c *IndexCell) Set(v any) {
	if c.state != StateReady {
		return
	}
	c.seq.Set(c.idx, v)
}

// growCells materializes index cells so the count matches length n.
func (s *Sequence) growCells(n int) {
	for len(s.cells) < n {
		cell := &IndexCell{Actor: newActor(OnFlow(s.flow), InQueue(s.queueName)), seq: s, idx: len(s.cells)}
		cell.makeReady()
		s.cells = append(s.cells, cell)
	}
}

// shrinkCells releases trailing index cells down to length n.
func (s *Sequence) shrinkCells(n int) {
	for len(s.cells) > n {
		last := s.cells[len(s.cells)-1]
		last.Actor.Destroy()
		s.cells = s.cells[:len(s.cells)-1]
	}
}

// Len returns the length, subscribing the ambient reader to length
// updates.
func (s *Sequence) Len() int {
	if r := currentReader(); r != nil && s.lengthActor.State() == StateReady {
		s.lengthActor.On(r)
	}
	return len(s.backing)
}

// Get reads position i through its index cell.
func (s *Sequence) Get(i int) any {
	s.checkBounds(i, 0)
	return s.cells[i].Get()
}

// Cell returns the scalar cell exposed at position i.
func (s *Sequence) Cell(i int) *IndexCell {
	s.checkBounds(i, 0)
	return s.cells[i]
}

// Values returns a snapshot copy of the backing storage, subscribing the
// ambient reader to both scopes.
func (s *Sequence) Values() []any {
	if r := currentReader(); r != nil {
		s.OnIndex(r)
		s.OnLength(r)
	}
	return append([]any(nil), s.backing...)
}

// OnIndex subscribes l to index-affecting updates.
func (s *Sequence) OnIndex(l Listener) *Sequence {
	s.indexActor.On(l)
	return s
}

// OffIndex unsubscribes l from index-affecting updates.
func (s *Sequence) OffIndex(l Listener) *Sequence {
	s.indexActor.Off(l)
	return s
}

// OnLength subscribes l to length-affecting updates.
func (s *Sequence) OnLength(l Listener) *Sequence {
	s.lengthActor.On(l)
	return s
}

// OffLength unsubscribes l from length-affecting updates.
func (s *Sequence) OffLength(l Listener) *Sequence {
	s.lengthActor.Off(l)
	return s
}

// notifyIndex publishes one event to the index scope and to the general
// listener set, plus the per-position cells whose values changed.
func (s *Sequence) notifyIndex(ev *Event, old []any) {
	s.flow.Run(func() {
		s.indexActor.Update(ev)
		s.Update(ev)
		s.notifyChangedCells(ev, old)
	})
}

// notifyLength publishes one event to the length scope and the general
// listener set.
func (s *Sequence) notifyLength(ev *Event, old []any) {
	s.flow.Run(func() {
		s.lengthActor.Update(ev)
		s.Update(ev)
		s.notifyChangedCells(ev, old)
	})
}

// notifyBoth publishes one event to both scopes. A listener subscribed to
// both still fires once: the queues deduplicate by listener identity.
func (s *Sequence) notifyBoth(ev *Event, old []any) {
	s.flow.Run(func() {
		s.indexActor.Update(ev)
		s.lengthActor.Update(ev)
		s.Update(ev)
		s.notifyChangedCells(ev, old)
	})
}

// notifyChangedCells updates the index cells whose value differs from the
// pre-mutation snapshot, chaining causality to the sequence event.
func (s *Sequence) notifyChangedCells(ev *Event, old []any) {
	n := len(s.backing)
	if len(old) < n {
		n = len(old)
	}
	for i := 0; i < n; i++ {
		if !identical(old[i], s.backing[i]) {
			s.cells[i].Update(NewEvent(ev, TargetSet, Splice{Index: i, Removed: []any{old[i]}, Inserted: []any{s.backing[i]}}))
		}
	}
}

func (s *Sequence) checkBounds(index, deleteCount int) {
	if index < 0 || deleteCount < 0 || index+deleteCount > len(s.backing) || index > len(s.backing) {
		panic(ierrors.SpliceBounds(index, deleteCount, len(s.backing)))
	}
}

// Set replaces the value at index i. Index-affecting: only index-scoped
// listeners (and the position's cell) are notified.
func (s *Sequence) Set(i int, v any) {
	if s.state != StateReady {
		return
	}
	s.checkBounds(i, 1)
	if identical(s.backing[i], v) {
		return
	}
	old := append([]any(nil), s.backing...)
	s.backing[i] = v
	ev := NewEvent(nil, TargetSet, Splice{Index: i, Removed: []any{old[i]}, Inserted: []any{v}})
	s.notifyIndex(ev, old)
}

// Add appends values at the end. Length-affecting.
func (s *Sequence) Add(values ...any) {
	s.Insert(len(s.backing), values...)
}

// Insert inserts values at position i. Length-affecting.
func (s *Sequence) Insert(i int, values ...any) {
	if s.state != StateReady || len(values) == 0 {
		return
	}
	s.checkBounds(i, 0)
	old := append([]any(nil), s.backing...)
	s.backing = spliceSlice(s.backing, i, 0, values...)
	s.growCells(len(s.backing))
	ev := NewSpliceEvent(nil, Splice{Index: i, Inserted: append([]any(nil), values...)})
	s.notifyLength(ev, old)
}

// Remove deletes count values starting at i. Length-affecting; the
// removed values stay readable from the event payload after the trailing
// cells are released.
func (s *Sequence) Remove(i, count int) {
	if s.state != StateReady || count == 0 {
		return
	}
	s.checkBounds(i, count)
	old := append([]any(nil), s.backing...)
	removed := append([]any(nil), s.backing[i:i+count]...)
	s.backing = spliceSlice(s.backing, i, count)
	ev := NewSpliceEvent(nil, Splice{Index: i, Removed: removed})
	s.notifyLength(ev, old)
	s.shrinkCells(len(s.backing))
}

// SetLength grows the sequence with nils or truncates it. Length-affecting.
func (s *Sequence) SetLength(n int) {
	if s.state != StateReady || n < 0 || n == len(s.backing) {
		return
	}
	if n > len(s.backing) {
		s.Insert(len(s.backing), make([]any, n-len(s.backing))...)
		return
	}
	s.Remove(n, len(s.backing)-n)
}

// Reverse reverses the backing in place. Index-affecting.
func (s *Sequence) Reverse() {
	if s.state != StateReady || len(s.backing) < 2 {
		return
	}
	old := append([]any(nil), s.backing...)
	for i, j := 0, len(s.backing)-1; i < j; i, j = i+1, j-1 {
		s.backing[i], s.backing[j] = s.backing[j], s.backing[i]
	}
	ev := NewEvent(nil, TargetReverse, Splice{Index: 0, Removed: old, Inserted: append([]any(nil), s.backing...)})
	s.notifyIndex(ev, old)
}

// Sort sorts the backing stably by less. Index-affecting.
func (s *Sequence) Sort(less func(a, b any) bool) {
	if s.state != StateReady || len(s.backing) < 2 {
		return
	}
	old := append([]any(nil), s.backing...)
	sort.SliceStable(s.backing, func(i, j int) bool {
		return less(s.backing[i], s.backing[j])
	})
	ev := NewEvent(nil, TargetSort, Splice{Index: 0, Removed: old, Inserted: append([]any(nil), s.backing...)})
	s.notifyIndex(ev, old)
}

// Splice deletes deleteCount values at index and inserts values there.
// Equal counts are index-affecting; unequal counts change the length and
// notify both scopes. One event either way.
func (s *Sequence) Splice(index, deleteCount int, values ...any) {
	if s.state != StateReady || (deleteCount == 0 && len(values) == 0) {
		return
	}
	s.checkBounds(index, deleteCount)
	old := append([]any(nil), s.backing...)
	removed := append([]any(nil), s.backing[index:index+deleteCount]...)
	s.backing = spliceSlice(s.backing, index, deleteCount, values...)
	if len(s.backing) > len(old) {
		s.growCells(len(s.backing))
	}

	sp := Splice{Index: index, Removed: removed, Inserted: append([]any(nil), values...)}
	ev := NewSpliceEvent(nil, sp)
	if sp.LengthDelta() == 0 {
		s.notifyIndex(ev, old)
	} else {
		s.notifyBoth(ev, old)
	}
	if len(s.backing) < len(old) {
		s.shrinkCells(len(s.backing))
	}
}

// UpdateByDiff replaces the backing with next by the minimal set of
// contiguous splices, emitting one splice event per changed region.
// Derived sequences refreshed from their source go through here so
// listener churn tracks what actually changed.
func (s *Sequence) UpdateByDiff(next []any) {
	if s.state != StateReady {
		return
	}
	splices := diffSlices(s.backing, next)
	// Regions apply back to front so earlier indexes stay valid while
	// each region is spliced and announced.
	for i := len(splices) - 1; i >= 0; i-- {
		sp := splices[i]
		s.Splice(sp.Index, len(sp.Removed), sp.Inserted...)
	}
}

// Destroy destroys the sequence, its scoped actors and its index cells.
// Idempotent.
func (s *Sequence) Destroy() {
	if s.state == StateDestroyed {
		return
	}
	s.shrinkCells(0)
	s.indexActor.Destroy()
	s.lengthActor.Destroy()
	s.backing = nil
	s.Actor.Destroy()
}

// spliceSlice performs the raw splice on a slice.
func spliceSlice(in []any, index, deleteCount int, values ...any) []any {
	out := make([]any, 0, len(in)-deleteCount+len(values))
	out = append(out, in[:index]...)
	out = append(out, values...)
	out = append(out, in[index+deleteCount:]...)
	return out
}
