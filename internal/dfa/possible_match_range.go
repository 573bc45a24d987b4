package dfa

// PossibleMatchRange computes [min, max] byte strings (each at most
// maxLen bytes) bounding every string this DFA could match: no match
// sorts lexicographically before min or after max. This lets a caller
// (e.g. a key-value store's iterator) skip whole regions of sorted data
// without invoking the engine. Ported from original_source/re2/dfa.h's
// declared PossibleMatchRange, which walks the DFA twice — once always taking the
// smallest live transition, once always taking the largest — and widens
// the result from Match to Match to build each bound.
func (d *DFA) PossibleMatchRange(maxLen int) (min, max []byte, exact bool) {
	min = d.walkExtreme(maxLen, false)
	max = d.walkExtreme(maxLen, true)
	if max == nil {
		return min, nil, false
	}
	// If the walk for max hit maxLen instead of running out of live
	// transitions, round up: bump the last byte (carrying) so the bound
	// still covers match continuations past maxLen, the same truncation
	// handling PossibleMatchRange's own contract (dfa.h) requires of any
	// implementation that bounds its walk.
	exact = len(max) < maxLen || allDeadFrom(d, max)
	if !exact {
		max = prefixSuccessor(max)
	}
	return min, max, exact
}

// walkExtreme follows, at each step, the smallest (largest=false) or
// largest (largest=true) byte class with a live transition, stopping at
// maxLen bytes, a dead state, or an accepting state with no further
// live transitions.
func (d *DFA) walkExtreme(maxLen int, largest bool) []byte {
	s := d.startState(startBeginText, true)
	var out []byte
	for i := 0; i < maxLen; i++ {
		if s == deadState {
			break
		}
		if !largest && s.isMatch() {
			break
		}
		c, next, ok := d.extremeTransition(s, largest)
		if !ok {
			break
		}
		out = append(out, c)
		s = next
	}
	return out
}

// extremeTransition finds the smallest/largest real byte (0..255) with a
// live (non-dead) transition out of s.
func (d *DFA) extremeTransition(s *State, largest bool) (byte, *State, bool) {
	lo, hi := 0, 255
	step := 1
	if largest {
		lo, hi, step = 255, 0, -1
	}
	for c := lo; c != hi+step; c += step {
		ns := d.runStateOnByte(s, c)
		if ns != deadState {
			return byte(c), ns, true
		}
	}
	return 0, nil, false
}

// allDeadFrom reports whether every byte value has a dead transition out
// of the state reached by replaying bytes from the DFA's start — i.e.
// the walk legitimately ran out of matches rather than being truncated
// by maxLen.
func allDeadFrom(d *DFA, bytes []byte) bool {
	s := d.startState(startBeginText, true)
	for _, c := range bytes {
		s = d.runStateOnByte(s, int(c))
	}
	_, _, ok := d.extremeTransition(s, true)
	return !ok
}

// prefixSuccessor returns the lexicographically smallest byte string
// strictly greater than every string with prefix b, by incrementing the
// last non-0xff byte and truncating everything after it. An all-0xff
// input has no successor and returns nil (the caller should treat that
// as "no upper bound").
func prefixSuccessor(b []byte) []byte {
	out := append([]byte(nil), b...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}
