package cellflow

import (
	"errors"
	"testing"
)

func TestFlowRunFlushesOnClose(t *testing.T) {
	f := New()

	delivered := false
	l := NewListener(func(ev *Event) { delivered = true })

	f.Run(func() {
		f.DeferOnce(l, "", nil)
		if delivered {
			t.Error("invocation delivered before the run closed")
		}
	})

	if !delivered {
		t.Error("invocation not delivered when the run closed")
	}
}

func TestFlowImplicitRun(t *testing.T) {
	f := New()

	delivered := false
	f.DeferOnce(NewListener(func(ev *Event) { delivered = true }), "", nil)

	if !delivered {
		t.Error("Defer outside a run must open an implicit run and flush")
	}
}

func TestFlowRunReentrancy(t *testing.T) {
	f := New()

	var order []string
	inner := NewListener(func(ev *Event) { order = append(order, "inner") })

	f.Run(func() {
		order = append(order, "outer-body")
		f.Run(func() {
			// Executes inline; no second flush cycle starts.
			order = append(order, "nested-body")
			f.DeferOnce(inner, "", nil)
		})
		if len(order) != 2 {
			t.Errorf("nested run must not flush, got %v", order)
		}
	})

	want := []string{"outer-body", "nested-body", "inner"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestFlowReentrantRunFromListener(t *testing.T) {
	f := New()

	var order []string
	late := NewListener(func(ev *Event) { order = append(order, "late") })
	early := NewListener(func(ev *Event) {
		order = append(order, "early")
		// A listener opening a run executes inline; its effects land in
		// the single outer run's queues.
		f.Run(func() {
			f.DeferOnce(late, "", nil)
		})
	})

	f.Run(func() {
		f.DeferOnce(early, "", nil)
	})

	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("expected [early late], got %v", order)
	}
}

func TestFlowQueueOrder(t *testing.T) {
	f := New()

	var order []string
	record := func(name string) *FuncListener {
		return NewListener(func(ev *Event) { order = append(order, name) })
	}

	f.Run(func() {
		// Registration order: "b", then default, then "a". Flush order
		// must still be default first, then named queues by first use.
		f.DeferOnce(record("b").WithQueue("b"), "", nil)
		f.DeferOnce(record("default"), "", nil)
		f.DeferOnce(record("a").WithQueue("a"), "", nil)
	})

	want := []string{"default", "b", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected flush order %v, got %v", want, order)
		}
	}
}

func TestFlowCrossQueueCascade(t *testing.T) {
	f := New()

	var order []string
	named := NewListener(func(ev *Event) { order = append(order, "named") }).WithQueue("ui")
	def := NewListener(func(ev *Event) {
		order = append(order, "default")
		f.DeferOnce(named, "", nil)
	})

	f.Run(func() {
		f.DeferOnce(def, "", nil)
	})

	if len(order) != 2 || order[1] != "named" {
		t.Errorf("queues registered during flushing must drain in the same run, got %v", order)
	}
}

func TestFlowErrorHook(t *testing.T) {
	var hookErr error
	f := New(WithErrorHook(func(err error) { hookErr = err }))

	survived := false
	f.Run(func() {
		f.DeferOnce(NewListener(func(ev *Event) { panic("boom") }), "", nil)
		f.DeferOnce(NewListener(func(ev *Event) { survived = true }), "", nil)
	})

	if !survived {
		t.Error("failure must be isolated to its invocation")
	}
	if hookErr == nil {
		t.Fatal("expected the error hook to fire after the run")
	}
	if !errors.Is(hookErr, ErrListenerFailure) {
		t.Errorf("expected ErrListenerFailure, got %v", hookErr)
	}
}

func TestFlowObserverAndStats(t *testing.T) {
	var taps []FlowEvent
	f := New(WithObserver(func(ev FlowEvent) { taps = append(taps, ev) }))

	f.Run(func() {
		f.DeferOnce(NewListener(func(ev *Event) {}), "", NewEvent(nil, "x", 1))
	})

	if len(taps) != 1 || taps[0].Queue != DefaultQueue || taps[0].Target != "x" {
		t.Errorf("unexpected taps %+v", taps)
	}

	st := f.Stats()
	if st.RunsOpened != 1 {
		t.Errorf("expected 1 run opened, got %d", st.RunsOpened)
	}
	if len(st.Queues) != 1 || st.Queues[0].Name != DefaultQueue || st.Queues[0].Delivered != 1 {
		t.Errorf("unexpected queue stats %+v", st.Queues)
	}
}
