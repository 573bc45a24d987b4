package dfa

import "github.com/axrho/rekernel/internal/input"

// StreamContext lets a caller feed text in chunks (e.g. off an io.Reader)
// without buffering the whole input, per spec.md §9's Open Question on
// streaming: this module commits to one bounded-memory design rather
// than leaving it unaddressed. It only supports the forward, want-
// earliest-match DFA pass (finding that a match exists and where it
// ends); recovering the exact start and any captures still requires
// buffering the matched region and handing it to Search/BitState once
// the end is known, which is the normal case anyway since most callers
// want the matched substring.
type StreamContext struct {
	d   *DFA
	s   *State
	pos int

	matched   bool
	matchPos  int
	matchIDs  []int32
}

// NewStream begins a streaming search anchored at the very start of the
// eventual input (StreamContext has no unanchored-prefix skip-ahead;
// callers wanting unanchored semantics should feed a leading ".*?"-
// unanchored program, i.e. construct d over p.StartUnanchored, which
// New already does by default via d.forward's start selection).
func NewStream(d *DFA) *StreamContext {
	return &StreamContext{d: d, s: d.startState(startBeginText, false)}
}

// Write feeds the next chunk of input, advancing the internal DFA state
// one byte at a time; it never look behind past what's already been fed,
// so memory use is O(1) in the amount of text seen, only O(program size)
// for the state cache. It returns false once the state has gone dead,
// meaning no suffix of any further input can complete a match starting
// at or before the current position — the caller may stop reading.
func (sc *StreamContext) Write(chunk []byte) (alive bool) {
	for _, c := range chunk {
		if sc.s == deadState {
			return false
		}
		if sc.s.isMatch() {
			sc.matched = true
			sc.matchPos = sc.pos
			sc.matchIDs = sc.s.matchIDs
		}
		sc.s = sc.d.runStateOnByte(sc.s, int(c))
		sc.pos++
	}
	return sc.s != deadState
}

// Close signals end of input, running the final input.EndOfText
// transition so trailing $ / \z assertions can fire, and returns
// whatever match was found.
func (sc *StreamContext) Close() (MatchResult, bool) {
	if sc.s != deadState {
		if sc.s.isMatch() {
			sc.matched, sc.matchPos, sc.matchIDs = true, sc.pos, sc.s.matchIDs
		}
		sc.s = sc.d.runStateOnByte(sc.s, input.EndOfText)
		if sc.s.isMatch() {
			sc.matched, sc.matchPos, sc.matchIDs = true, sc.pos, sc.s.matchIDs
		}
	}
	if !sc.matched {
		return MatchResult{}, false
	}
	return MatchResult{Start: 0, End: sc.matchPos, MatchIDs: sc.matchIDs}, true
}
