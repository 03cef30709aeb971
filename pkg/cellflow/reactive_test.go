package cellflow

import "testing"

// TestDiamondGlitchFree is the canonical reconvergence case: a feeds b and
// c, both feed d. One write to a must invoke d exactly once per run, and d
// must never observe a half-propagated state.
func TestDiamondGlitchFree(t *testing.T) {
	f := New()
	a := NewProperty(1, OnFlow(f))
	b := NewAutoProperty(func() any { return a.Get().(int) + 1 }, OnFlow(f))
	c := NewAutoProperty(func() any { return a.Get().(int) * 10 }, OnFlow(f))

	recomputes := 0
	d := NewAutoProperty(func() any {
		recomputes++
		return b.Get().(int) + c.Get().(int)
	}, OnFlow(f))

	if d.Get() != 12 {
		t.Fatalf("expected initial 1+1 + 1*10 = 12, got %v", d.Get())
	}
	recomputes = 0

	a.Set(2)

	if d.Get() != 23 {
		t.Errorf("expected 2+1 + 2*10 = 23, got %v", d.Get())
	}
	if recomputes != 1 {
		t.Errorf("reconvergent cell must recompute exactly once per run, got %d", recomputes)
	}
}

func TestDiamondObservesConsistentState(t *testing.T) {
	f := New()
	a := NewProperty(1, OnFlow(f))
	b := NewAutoProperty(func() any { return a.Get() }, OnFlow(f))
	c := NewAutoProperty(func() any { return a.Get() }, OnFlow(f))

	// If d ever ran with b updated but c stale (or vice versa) the
	// difference would be nonzero.
	var observed []int
	d := NewAutoProperty(func() any {
		diff := b.Get().(int) - c.Get().(int)
		observed = append(observed, diff)
		return diff
	}, OnFlow(f))
	_ = d

	a.Set(2)
	a.Set(7)

	for _, diff := range observed {
		if diff != 0 {
			t.Fatalf("derived cell observed a half-propagated update, diffs %v", observed)
		}
	}
}

func TestChainPropagatesInOneRun(t *testing.T) {
	f := New()
	a := NewProperty(1, OnFlow(f))
	b := a.Map(func(v any) any { return v.(int) * 2 })
	c := b.Map(func(v any) any { return v.(int) + 1 })

	a.Set(3)

	// The whole chain settles before Set returns: the implicit run
	// flushes to a fixpoint.
	if c.Peek() != 7 {
		t.Errorf("expected the chain to settle at 7, got %v", c.Peek())
	}
}

func TestCausalityChainThroughPropagation(t *testing.T) {
	f := New()
	a := NewProperty(1, OnFlow(f))
	b := NewAutoProperty(func() any { return a.Get() }, OnFlow(f))

	var last *Event
	b.On(NewListener(func(ev *Event) { last = ev }))

	a.Set(2)

	if last == nil {
		t.Fatal("expected the derived cell to publish")
	}
	if last.Depth() < 2 {
		t.Errorf("expected a causal chain back to the originating write, depth %d", last.Depth())
	}
	if last.Root().Value() != 2 {
		t.Errorf("expected the root event to carry the original write, got %v", last.Root().Value())
	}
}

// TestUpdateByDiffCanonicalCase pins the exact contract for a refresh that
// rewrites a middle region: one splice covering it, not per-index updates.
func TestUpdateByDiffCanonicalCase(t *testing.T) {
	s := newTestSeq(1, 2, 3, 4)

	var splices []Splice
	l := NewListener(func(ev *Event) {
		if sp, ok := SpliceOf(ev); ok {
			splices = append(splices, sp)
		}
	})
	s.OnIndex(l)
	s.OnLength(l)

	s.UpdateByDiff([]any{1, 9, 9, 4})

	if len(splices) != 1 {
		t.Fatalf("expected a single splice event, got %+v", splices)
	}
	sp := splices[0]
	if sp.Index != 1 || !sameValues(sp.Removed, []any{2, 3}) || !sameValues(sp.Inserted, []any{9, 9}) {
		t.Errorf("expected splice [1,3) removing [2 3] inserting [9 9], got %+v", sp)
	}
}

func TestDestroyDuringRunRetiresPendingInvocations(t *testing.T) {
	f := New()
	a := NewProperty(1, OnFlow(f))
	victim := NewProperty(0, OnFlow(f))

	// Both invocations are enqueued by the same write; the first destroys
	// victim, so the already-enqueued second must find a destroyed target
	// and become a no-op, not a crash.
	a.On(NewListener(func(ev *Event) { victim.Destroy() }))
	a.On(victim.reader)

	f.Run(func() {
		a.Set(2)
	})

	if victim.State() != StateDestroyed {
		t.Fatal("expected victim destroyed")
	}
	if victim.Peek() != 0 {
		t.Errorf("an invocation delivered after destroy must not write, got %v", victim.Peek())
	}
}

func TestSequenceOfObjectsEndToEnd(t *testing.T) {
	f := New()
	rows := NewSequence(nil, OnFlow(f))
	total := rows.Fold(0, func(acc, v any) any {
		return acc.(int) + v.(*Core).Get("qty").(int)
	})

	if total.Get() != 0 {
		t.Fatalf("expected 0, got %v", total.Get())
	}

	rows.Add(
		MakeReactive(map[string]any{"qty": 2}, WithCoreFlow(f)),
		MakeReactive(map[string]any{"qty": 3}, WithCoreFlow(f)),
	)
	if total.Get() != 5 {
		t.Fatalf("expected 5, got %v", total.Get())
	}

	// A field write inside one row reruns the fold: the fold read the
	// row's cell, so it is a tracked dependency.
	rows.Get(0).(*Core).Set("qty", 10)
	if total.Get() != 13 {
		t.Errorf("expected 13 after nested write, got %v", total.Get())
	}
}
