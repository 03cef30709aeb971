package cellflow

import "testing"

func TestSequenceMapView(t *testing.T) {
	f := New()
	s := NewSequence([]any{1, 2, 3}, OnFlow(f))
	d := s.Map(func(v any) any { return v.(int) * 10 })

	if !sameValues(d.Values(), []any{10, 20, 30}) {
		t.Fatalf("expected [10 20 30], got %v", d.Values())
	}

	s.Set(1, 5)
	if !sameValues(d.Values(), []any{10, 50, 30}) {
		t.Errorf("expected [10 50 30], got %v", d.Values())
	}

	s.Add(4)
	if !sameValues(d.Values(), []any{10, 50, 30, 40}) {
		t.Errorf("expected [10 50 30 40], got %v", d.Values())
	}
}

func TestSequenceMapViewRefreshIsMinimal(t *testing.T) {
	f := New()
	s := NewSequence([]any{1, 2, 3}, OnFlow(f))
	d := s.Map(func(v any) any { return v.(int) * 10 })

	var got []Splice
	d.follow(func(ev *Event) {
		if sp, ok := SpliceOf(ev); ok {
			got = append(got, sp)
		}
	})

	s.Set(2, 9)

	// Only the changed tail position is spliced in the view.
	if len(got) != 1 || got[0].Index != 2 {
		t.Errorf("expected one splice at 2, got %+v", got)
	}
	if !sameValues(got[0].Inserted, []any{90}) {
		t.Errorf("expected inserted [90], got %+v", got[0])
	}
}

func TestSequenceFilterView(t *testing.T) {
	f := New()
	s := NewSequence([]any{1, 2, 3, 4}, OnFlow(f))
	even := s.Filter(func(v any) bool { return v.(int)%2 == 0 })

	if !sameValues(even.Values(), []any{2, 4}) {
		t.Fatalf("expected [2 4], got %v", even.Values())
	}

	s.Set(0, 6)
	if !sameValues(even.Values(), []any{6, 2, 4}) {
		t.Errorf("expected [6 2 4], got %v", even.Values())
	}

	s.Remove(1, 1) // drops 2
	if !sameValues(even.Values(), []any{6, 4}) {
		t.Errorf("expected [6 4], got %v", even.Values())
	}
}

func TestSequenceSliceView(t *testing.T) {
	f := New()
	s := NewSequence([]any{1, 2, 3, 4, 5}, OnFlow(f))
	mid := s.SliceView(1, 4)

	if !sameValues(mid.Values(), []any{2, 3, 4}) {
		t.Fatalf("expected [2 3 4], got %v", mid.Values())
	}

	s.Remove(0, 3)
	// Range clamps to the shrunken source.
	if !sameValues(mid.Values(), []any{5}) {
		t.Errorf("expected [5], got %v", mid.Values())
	}
}

func TestSequenceConcatView(t *testing.T) {
	f := New()
	a := NewSequence([]any{1}, OnFlow(f))
	b := NewSequence([]any{2}, OnFlow(f))
	c := a.Concat(b)

	if !sameValues(c.Values(), []any{1, 2}) {
		t.Fatalf("expected [1 2], got %v", c.Values())
	}

	a.Add(9)
	b.Set(0, 7)
	if !sameValues(c.Values(), []any{1, 9, 7}) {
		t.Errorf("expected [1 9 7], got %v", c.Values())
	}
}

func TestSequenceFold(t *testing.T) {
	f := New()
	s := NewSequence([]any{1, 2, 3}, OnFlow(f))
	sum := s.Fold(0, func(acc, v any) any { return acc.(int) + v.(int) })

	if sum.Get() != 6 {
		t.Fatalf("expected 6, got %v", sum.Get())
	}
	s.Set(0, 10)
	if sum.Get() != 15 {
		t.Errorf("expected 15 after index write, got %v", sum.Get())
	}
	s.Remove(2, 1)
	if sum.Get() != 12 {
		t.Errorf("expected 12 after removal, got %v", sum.Get())
	}
}

func TestSequenceLengthCell(t *testing.T) {
	f := New()
	s := NewSequence([]any{1}, OnFlow(f))
	n := s.LengthCell()

	if n.Get() != 1 {
		t.Fatalf("expected 1, got %v", n.Get())
	}

	s.Add(2, 3)
	if n.Get() != 3 {
		t.Errorf("expected 3, got %v", n.Get())
	}

	// Index writes leave the length cell alone.
	prev := n.Peek()
	s.Set(0, 9)
	if n.Peek() != prev {
		t.Error("an index write must not recompute the length cell")
	}
}

func TestSequenceIndexOfCell(t *testing.T) {
	f := New()
	s := NewSequence([]any{"a", "b"}, OnFlow(f))
	where := s.IndexOfCell("b")

	if where.Get() != 1 {
		t.Fatalf("expected 1, got %v", where.Get())
	}
	s.Insert(0, "x")
	if where.Get() != 2 {
		t.Errorf("expected 2 after insertion, got %v", where.Get())
	}
	s.Remove(2, 1)
	if where.Get() != -1 {
		t.Errorf("expected -1 after removal, got %v", where.Get())
	}
}

func TestSequenceEverySome(t *testing.T) {
	f := New()
	s := NewSequence([]any{2, 4}, OnFlow(f))
	even := func(v any) bool { return v.(int)%2 == 0 }

	all := s.Every(even)
	some := s.Some(even)

	if all.Get() != true || some.Get() != true {
		t.Fatalf("expected true/true, got %v/%v", all.Get(), some.Get())
	}

	s.Set(0, 3)
	if all.Get() != false || some.Get() != true {
		t.Errorf("expected false/true, got %v/%v", all.Get(), some.Get())
	}

	s.Splice(0, 2, 1, 5)
	if some.Get() != false {
		t.Errorf("expected false once no evens remain, got %v", some.Get())
	}
}
