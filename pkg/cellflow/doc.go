// Package cellflow provides a reactive dataflow propagation engine.
//
// The engine turns passive values into reactive cells that discover their
// dependents automatically (reading a cell during a tracked evaluation
// subscribes the current reader) and propagate updates through a
// deterministic, batched scheduler.
//
// # Core Types
//
// Actor is the base observable node: it holds the listener graph, a
// transform pipeline, and a lifecycle state.
//
// Property is a scalar reactive cell bound to one field of a host table:
//
//	core := MakeReactive(map[string]any{"price": 100.0})
//	price := core.Prop("price")
//	v := price.Get()  // Read (subscribes the ambient reader, if any)
//	price.Set(120.0)  // Write (transforms, compares, propagates)
//
// Sequence is a reactive ordered collection. Every structural mutation
// performs the raw change and enqueues exactly one descriptive update;
// bulk refreshes go through UpdateByDiff, which emits one splice event
// per contiguous changed region.
//
// # Scheduling
//
// Flow batches propagation into runs. A run opens when propagation begins,
// accumulates queued invocations as updates cascade, and flushes every
// queue to a fixpoint before returning. Nested Run calls execute inline in
// the outer run, so reentrant propagation never starts a second flush:
//
//	flow.Run(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Listeners reachable via both a and b fire once
//
// # Goroutine Affinity
//
// Dispatch is synchronous and run-to-completion. The ambient read-tracking
// slot is per-goroutine; evaluating a derived computation on another
// goroutine requires establishing the reader there with WithReader.
package cellflow
