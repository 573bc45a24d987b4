package dfa

import (
	"github.com/axrho/rekernel/internal/accel"
	"github.com/axrho/rekernel/internal/input"
)

// Eight hand-written search loops, one per (have_first_byte ×
// want_earliest_match × run_forward) combination, per spec.md §9: "the
// DFA's inner per-byte loop must not re-test these three axes on every
// byte; specialize into separate loop bodies instead." Each is small
// enough that writing eight copies is cheaper — and faster at run time —
// than threading three booleans through one shared loop and re-branching
// on them a few hundred million times.
//
// Naming: search<F><E><D>, each letter T/F for
// (HaveFirstByte, WantEarliest, RunForward).

// result is the outcome of one scan: whether any accepting state was
// seen, the position of that last (or first, for earliest) accept, and
// that accepting state's pattern ids.
type result struct {
	matched  bool
	matchPos int
	matchIDs []int32
}

// --- run_forward = true, want_earliest_match = true ---

func searchFTT(d *DFA, in input.Input, pos, end int, s *State) result {
	var r result
	for {
		if s == deadState {
			return r
		}
		if s.isMatch() {
			r.matched = true
			r.matchPos = pos
			r.matchIDs = s.matchIDs
			return r
		}
		c := input.EndOfText
		if pos < end {
			c = in.ByteAt(pos)
		}
		s = d.runStateOnByte(s, c)
		if pos >= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos++
	}
}

func searchTTT(d *DFA, in input.Input, pos, end int, s *State, firstByte byte) result {
	var r result
	sawThread := false
	for {
		if s == deadState {
			return r
		}
		if !sawThread && len(s.inst) == 1 {
			// Only the as-yet-undifferentiated start thread benefits
			// from skipping ahead via the accelerator; once the state
			// set has grown we must examine every byte.
			if next := accel.IndexByte(sliceOf(in), pos, firstByte); next >= 0 {
				pos = next
			} else {
				return r
			}
		}
		sawThread = true
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			return r
		}
		c := input.EndOfText
		if pos < end {
			c = in.ByteAt(pos)
		}
		s = d.runStateOnByte(s, c)
		if pos >= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos++
	}
}

// --- run_forward = true, want_earliest_match = false (longest) ---

func searchFFT(d *DFA, in input.Input, pos, end int, s *State) result {
	var r result
	for {
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
		}
		if s == deadState {
			return r
		}
		c := input.EndOfText
		if pos < end {
			c = in.ByteAt(pos)
		}
		s = d.runStateOnByte(s, c)
		if pos >= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos++
	}
}

func searchTFT(d *DFA, in input.Input, pos, end int, s *State, firstByte byte) result {
	var r result
	sawThread := false
	for {
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
		}
		if s == deadState {
			return r
		}
		if !sawThread && len(s.inst) == 1 {
			if next := accel.IndexByte(sliceOf(in), pos, firstByte); next >= 0 {
				pos = next
			} else {
				return r
			}
		}
		sawThread = true
		c := input.EndOfText
		if pos < end {
			c = in.ByteAt(pos)
		}
		s = d.runStateOnByte(s, c)
		if pos >= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos++
	}
}

// --- run_forward = false, want_earliest_match = true (reverse) ---

func searchFTF(d *DFA, in input.Input, pos, end int, s *State) result {
	var r result
	for {
		if s == deadState {
			return r
		}
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			return r
		}
		c := input.EndOfText
		if pos > end {
			c = in.ByteAt(pos - 1)
		}
		s = d.runStateOnByte(s, c)
		if pos <= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos--
	}
}

func searchTTF(d *DFA, in input.Input, pos, end int, s *State, firstByte byte) result {
	var r result
	for {
		if s == deadState {
			return r
		}
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			return r
		}
		if len(s.inst) == 1 {
			if next := accel.LastIndexByte(sliceOf(in), pos, firstByte); next >= 0 {
				pos = next + 1
			} else {
				return r
			}
		}
		c := input.EndOfText
		if pos > end {
			c = in.ByteAt(pos - 1)
		}
		s = d.runStateOnByte(s, c)
		if pos <= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos--
	}
}

// --- run_forward = false, want_earliest_match = false (reverse, longest) ---

func searchFFF(d *DFA, in input.Input, pos, end int, s *State) result {
	var r result
	for {
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
		}
		if s == deadState {
			return r
		}
		c := input.EndOfText
		if pos > end {
			c = in.ByteAt(pos - 1)
		}
		s = d.runStateOnByte(s, c)
		if pos <= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos--
	}
}

func searchTFF(d *DFA, in input.Input, pos, end int, s *State, firstByte byte) result {
	var r result
	sawThread := false
	for {
		if s.isMatch() {
			r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
		}
		if s == deadState {
			return r
		}
		if !sawThread && len(s.inst) == 1 {
			if next := accel.LastIndexByte(sliceOf(in), pos, firstByte); next >= 0 {
				pos = next + 1
			} else {
				return r
			}
		}
		sawThread = true
		c := input.EndOfText
		if pos > end {
			c = in.ByteAt(pos - 1)
		}
		s = d.runStateOnByte(s, c)
		if pos <= end {
			if s.isMatch() {
				r.matched, r.matchPos, r.matchIDs = true, pos, s.matchIDs
			}
			return r
		}
		pos--
	}
}

// sliceOf extracts a []byte view for the accelerator when in is backed by
// one (String/Bytes); it's only ever called for have_first_byte variants,
// which run (search.go) only selects once Prog.FirstByte has established
// the program starts with a required literal byte and sliceOf itself has
// returned a non-nil view of the input.
func sliceOf(in input.Input) []byte {
	switch v := in.(type) {
	case input.Bytes:
		return v.B
	case input.String:
		return []byte(v.S)
	case input.WithContext:
		return sliceOf(v.Input)
	default:
		return nil
	}
}
