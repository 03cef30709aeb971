package cellflow

import "fmt"

// Well-known event targets used by the engine. Application code may use
// arbitrary targets; these cover the update, error and sequence channels.
const (
	TargetUpdate = "update"
	TargetError  = "error"
	TargetSet    = "set"
	TargetSplice = "splice"
	TargetLength = "length"
)

// Event is an immutable record describing one propagation step.
// Source chains to the causal predecessor event, forming a trail from the
// originating write down through derived updates. The chain is for
// traceability only; it never affects delivery order.
type Event struct {
	// Source is the event that caused this one, or nil for a root event.
	Source *Event

	// Target names the channel or field this event describes.
	Target string

	// Args is the event payload.
	Args []any
}

// NewEvent creates an event caused by source.
func NewEvent(source *Event, target string, args ...any) *Event {
	return &Event{Source: source, Target: target, Args: args}
}

// Value returns the first payload argument, or nil if the event carries none.
func (e *Event) Value() any {
	if e == nil || len(e.Args) == 0 {
		return nil
	}
	return e.Args[0]
}

// Depth returns the length of the causality chain ending at this event.
// A root event has depth 1.
func (e *Event) Depth() int {
	depth := 0
	for ev := e; ev != nil; ev = ev.Source {
		depth++
	}
	return depth
}

// Root walks the causality chain to the originating event.
func (e *Event) Root() *Event {
	if e == nil {
		return nil
	}
	ev := e
	for ev.Source != nil {
		ev = ev.Source
	}
	return ev
}

// String renders the event for logs and the inspector feed.
func (e *Event) String() string {
	if e == nil {
		return "<nil event>"
	}
	return fmt.Sprintf("event{target=%s args=%d depth=%d}", e.Target, len(e.Args), e.Depth())
}

// Splice describes one contiguous structural change to a sequence:
// Removed values were deleted at Index and Inserted values took their place.
type Splice struct {
	Index    int
	Removed  []any
	Inserted []any
}

// LengthDelta reports how the splice changed the sequence length.
func (s Splice) LengthDelta() int {
	return len(s.Inserted) - len(s.Removed)
}

// NewSpliceEvent creates a sequence event carrying a single splice.
func NewSpliceEvent(source *Event, sp Splice) *Event {
	return NewEvent(source, TargetSplice, sp)
}

// SpliceOf extracts the splice payload from a sequence event.
// The second return is false when the event carries no splice.
func SpliceOf(e *Event) (Splice, bool) {
	if e == nil || len(e.Args) == 0 {
		return Splice{}, false
	}
	sp, ok := e.Args[0].(Splice)
	return sp, ok
}
