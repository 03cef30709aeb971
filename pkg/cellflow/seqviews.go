package cellflow

// Derived sequence views. Each view is a live cell: construction wires a
// standing listener on the source, and every upstream update recomputes
// the view and republishes, through UpdateByDiff for sequences so
// downstream listeners see minimal splices, or through Set for scalars.

// follow subscribes fn to both of the source's scopes with one listener.
func (s *Sequence) follow(fn func(ev *Event)) {
	l := NewListener(fn)
	s.OnIndex(l)
	s.OnLength(l)
}

// Map derives a live sequence holding fn of every source value.
func (s *Sequence) Map(fn func(v any) any) *Sequence {
	mapAll := func() []any {
		out := make([]any, len(s.backing))
		for i, v := range s.backing {
			out[i] = fn(v)
		}
		return out
	}
	d := NewSequence(mapAll(), OnFlow(s.flow), InQueue(s.queueName))
	s.follow(func(ev *Event) {
		d.UpdateByDiff(mapAll())
	})
	return d
}

// Filter derives a live sequence of the source values accepted by pred.
func (s *Sequence) Filter(pred func(v any) bool) *Sequence {
	filterAll := func() []any {
		out := make([]any, 0, len(s.backing))
		for _, v := range s.backing {
			if pred(v) {
				out = append(out, v)
			}
		}
		return out
	}
	d := NewSequence(filterAll(), OnFlow(s.flow), InQueue(s.queueName))
	s.follow(func(ev *Event) {
		d.UpdateByDiff(filterAll())
	})
	return d
}

// SliceView derives a live sequence of the half-open range [lo, hi),
// clamped to the source's bounds on every refresh.
func (s *Sequence) SliceView(lo, hi int) *Sequence {
	sliceAll := func() []any {
		l, h := clampRange(lo, hi, len(s.backing))
		return append([]any(nil), s.backing[l:h]...)
	}
	d := NewSequence(sliceAll(), OnFlow(s.flow), InQueue(s.queueName))
	s.follow(func(ev *Event) {
		d.UpdateByDiff(sliceAll())
	})
	return d
}

// Concat derives a live sequence of this sequence followed by other.
func (s *Sequence) Concat(other *Sequence) *Sequence {
	concatAll := func() []any {
		out := make([]any, 0, len(s.backing)+len(other.backing))
		out = append(out, s.backing...)
		out = append(out, other.backing...)
		return out
	}
	d := NewSequence(concatAll(), OnFlow(s.flow), InQueue(s.queueName))
	refresh := func(ev *Event) {
		d.UpdateByDiff(concatAll())
	}
	s.follow(refresh)
	other.follow(refresh)
	return d
}

// Fold derives a scalar cell folding the sequence into an accumulator.
// The cell reads the sequence under its own ambient reader, so it tracks
// both scopes implicitly.
func (s *Sequence) Fold(init any, fn func(acc, v any) any) *Property {
	return NewAutoProperty(func() any {
		acc := init
		for _, v := range s.Values() {
			acc = fn(acc, v)
		}
		return acc
	}, OnFlow(s.flow), InQueue(s.queueName))
}

// LengthCell derives a scalar cell holding the sequence length, the
// canonical derived scalar depending only on the length scope.
func (s *Sequence) LengthCell() *Property {
	return NewAutoProperty(func() any {
		return s.Len()
	}, OnFlow(s.flow), InQueue(s.queueName))
}

// IndexOfCell derives a scalar cell holding the index of the first value
// identical to v, or -1.
func (s *Sequence) IndexOfCell(v any) *Property {
	return NewAutoProperty(func() any {
		for i, x := range s.Values() {
			if identical(x, v) {
				return i
			}
		}
		return -1
	}, OnFlow(s.flow), InQueue(s.queueName))
}

// Every derives a scalar cell reporting whether pred holds for all values.
func (s *Sequence) Every(pred func(v any) bool) *Property {
	return NewAutoProperty(func() any {
		for _, v := range s.Values() {
			if !pred(v) {
				return false
			}
		}
		return true
	}, OnFlow(s.flow), InQueue(s.queueName))
}

// Some derives a scalar cell reporting whether pred holds for any value.
func (s *Sequence) Some(pred func(v any) bool) *Property {
	return NewAutoProperty(func() any {
		for _, v := range s.Values() {
			if pred(v) {
				return true
			}
		}
		return false
	}, OnFlow(s.flow), InQueue(s.queueName))
}

func clampRange(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}
