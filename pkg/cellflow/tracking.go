package cellflow

import (
	"runtime"
	"sync"
)

// trackingContext holds the ambient read-tracking state for a goroutine:
// the listener currently evaluating a read, if any. Reading a Property
// while a reader is installed subscribes that reader: dependency edges
// come from reads, not from explicit subscription code.
type trackingContext struct {
	// currentReader is the listener currently executing a read.
	// nil means reads do not create subscriptions.
	currentReader Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header. Implementation detail; not
// exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> ".
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating one on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// currentReader returns the ambient reader, or nil when no tracked
// evaluation is active.
func currentReader() Listener {
	return getTrackingContext().currentReader
}

// setCurrentReader installs l as the ambient reader and returns the
// previous one so callers can restore it.
func setCurrentReader(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentReader
	ctx.currentReader = l
	return old
}

// WithReader runs body with l installed as the ambient reader, restoring
// the previous reader on exit. Nested evaluations stack correctly: the
// prior reader is restored, never cleared to empty.
func WithReader(l Listener, body func()) {
	old := setCurrentReader(l)
	defer setCurrentReader(old)
	body()
}

// Untracked runs body with no ambient reader, so reads inside it do not
// create dependency edges.
func Untracked(body func()) {
	old := setCurrentReader(nil)
	defer setCurrentReader(old)
	body()
}
