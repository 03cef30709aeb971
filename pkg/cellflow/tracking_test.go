package cellflow

import "testing"

func TestTrackingReadSubscribesAmbientReader(t *testing.T) {
	f := New()
	p := NewProperty(1, OnFlow(f))

	calls := 0
	r := NewListener(func(ev *Event) { calls++ })

	WithReader(r, func() {
		_ = p.Get()
	})
	p.Set(2)

	if calls != 1 {
		t.Errorf("reading under an ambient reader must subscribe it, got %d calls", calls)
	}
}

func TestTrackingReadWithoutReaderIsInert(t *testing.T) {
	f := New()
	p := NewProperty(1, OnFlow(f))

	_ = p.Get()
	if len(p.listeners) != 0 {
		t.Error("a read with no ambient reader must not subscribe anything")
	}
}

func TestTrackingNestedReadersRestore(t *testing.T) {
	outer := NewListener(nil)
	inner := NewListener(nil)

	WithReader(outer, func() {
		WithReader(inner, func() {
			if currentReader() != Listener(inner) {
				t.Error("expected the inner reader while nested")
			}
		})
		if currentReader() != Listener(outer) {
			t.Error("leaving a nested evaluation must restore the outer reader, not clear it")
		}
	})
	if currentReader() != nil {
		t.Error("expected no ambient reader after the outermost evaluation")
	}
}

func TestTrackingUntracked(t *testing.T) {
	f := New()
	p := NewProperty(1, OnFlow(f))
	r := NewListener(nil)

	WithReader(r, func() {
		Untracked(func() {
			_ = p.Get()
		})
		if currentReader() != Listener(r) {
			t.Error("Untracked must restore the surrounding reader on exit")
		}
	})

	if len(p.listeners) != 0 {
		t.Error("reads inside Untracked must not create dependency edges")
	}
}

func TestTrackingIsPerGoroutine(t *testing.T) {
	r := NewListener(nil)

	installed := make(chan struct{})
	release := make(chan struct{})

	go func() {
		WithReader(r, func() {
			close(installed)
			<-release
		})
	}()

	<-installed
	// The reader installed on the other goroutine is not ambient here.
	got := currentReader()
	close(release)

	if got != nil {
		t.Errorf("expected no ambient reader on this goroutine, got %v", got)
	}
}

func TestPeekDoesNotSubscribe(t *testing.T) {
	f := New()
	p := NewProperty(7, OnFlow(f))
	r := NewListener(nil)

	WithReader(r, func() {
		if v := p.Peek(); v != 7 {
			t.Errorf("expected 7, got %v", v)
		}
	})

	if len(p.listeners) != 0 {
		t.Error("Peek must not subscribe the ambient reader")
	}
}
