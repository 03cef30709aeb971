package cellflow

import (
	"errors"
	"testing"
)

func TestQueuePushFlushOrder(t *testing.T) {
	q := NewQueue("test")

	var got []int
	for i := 0; i < 3; i++ {
		i := i
		q.Push(NewListener(func(ev *Event) { got = append(got, i) }), nil)
	}
	q.Flush()

	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("expected FIFO delivery [0 1 2], got %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after flush, got %d entries", q.Len())
	}
}

func TestQueuePushOnceIdempotence(t *testing.T) {
	q := NewQueue("test")

	calls := 0
	var last *Event
	l := NewListener(func(ev *Event) {
		calls++
		last = ev
	})

	// Enqueue the same listener N times before flush.
	q.PushOnce(l, NewEvent(nil, "a", 1))
	q.PushOnce(l, NewEvent(nil, "b", 2))
	q.PushOnce(l, NewEvent(nil, "c", 3))
	q.Flush()

	if calls != 1 {
		t.Fatalf("expected exactly one execution, got %d", calls)
	}
	if last.Target != "c" {
		t.Errorf("expected last enqueued arguments to win, got target %q", last.Target)
	}
}

func TestQueuePushOncePreservesPosition(t *testing.T) {
	q := NewQueue("test")

	var got []string
	a := NewListener(func(ev *Event) { got = append(got, "a") })
	b := NewListener(func(ev *Event) { got = append(got, "b") })

	q.PushOnce(a, nil)
	q.PushOnce(b, nil)
	q.PushOnce(a, nil) // replaces arguments, keeps position
	q.Flush()

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestQueueFlushDrainsEntriesPushedDuringFlush(t *testing.T) {
	q := NewQueue("test")

	var got []string
	second := NewListener(func(ev *Event) { got = append(got, "second") })
	first := NewListener(func(ev *Event) {
		got = append(got, "first")
		q.Push(second, nil)
	})

	q.Push(first, nil)
	q.Flush()

	if len(got) != 2 || got[1] != "second" {
		t.Errorf("expected entries pushed during flush to drain before return, got %v", got)
	}
}

func TestQueueFailureIsolation(t *testing.T) {
	q := NewQueue("test")

	var reported []error
	q.onError = func(err error) { reported = append(reported, err) }

	survived := false
	q.Push(NewListener(func(ev *Event) { panic("boom") }), nil)
	q.Push(NewListener(func(ev *Event) { survived = true }), nil)
	q.Flush()

	if !survived {
		t.Error("a failing invocation must not abort the flush")
	}
	if len(reported) != 1 {
		t.Fatalf("expected one reported failure, got %d", len(reported))
	}
	if !errors.Is(reported[0], ErrListenerFailure) {
		t.Errorf("expected failure to match ErrListenerFailure, got %v", reported[0])
	}

	st := q.Stats()
	if st.Failures != 1 {
		t.Errorf("expected 1 failure counted, got %d", st.Failures)
	}
}
