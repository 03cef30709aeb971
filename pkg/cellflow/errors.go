package cellflow

import "errors"

// ErrListenerFailure marks errors surfaced on a flow's error hook for
// invocations that panicked during flush. Match with errors.Is; the
// aggregate delivered to the hook may wrap several of these.
var ErrListenerFailure = errors.New("cellflow: listener failure")
