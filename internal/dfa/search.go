package dfa

import (
	"github.com/axrho/rekernel/internal/input"
)

// MatchResult is what a two-pass Search call establishes: the match's
// byte-offset span and, in ManyMatch mode, which pattern ids fired.
type MatchResult struct {
	Start, End int
	MatchIDs   []int32
}

// run dispatches to one of the eight hand-written loops (search_gen.go)
// based on conditions established once per call — whether the program
// has a provable first byte, whether this pass wants the earliest
// accept or should keep extending for the longest one, and which
// direction d scans — never re-deciding any of that inside the loop
// itself.
func (d *DFA) run(in input.Input, pos, end int, anchored bool, wantEarliest bool) result {
	flavor := flavorFor(in, pos, d.forward)
	s := d.startState(flavor, anchored)

	fb, haveFirstByte := d.prog.FirstByte()
	haveFirstByte = haveFirstByte && !anchored && sliceOf(in) != nil

	switch {
	case haveFirstByte && wantEarliest && d.forward:
		return searchTTT(d, in, pos, end, s, fb)
	case haveFirstByte && !wantEarliest && d.forward:
		return searchTFT(d, in, pos, end, s, fb)
	case haveFirstByte && wantEarliest && !d.forward:
		return searchTTF(d, in, pos, end, s, fb)
	case haveFirstByte && !wantEarliest && !d.forward:
		return searchTFF(d, in, pos, end, s, fb)
	case !haveFirstByte && wantEarliest && d.forward:
		return searchFTT(d, in, pos, end, s)
	case !haveFirstByte && !wantEarliest && d.forward:
		return searchFFT(d, in, pos, end, s)
	case !haveFirstByte && wantEarliest && !d.forward:
		return searchFTF(d, in, pos, end, s)
	default:
		return searchFFF(d, in, pos, end, s)
	}
}

// MatchAny runs an unanchored forward scan over in[pos:end] accumulating
// every pattern id that matches anywhere, for RegexpSet/ManyMatch mode
// (../../set.go): unlike a single-pattern leftmost search, set membership
// doesn't care which position a pattern matched at, so this skips the
// two-pass start-finding algorithm entirely and just walks once, pooling
// MatchIDs from every accepting state the walk passes through.
func (d *DFA) MatchAny(in input.Input, pos, end int) []int32 {
	flavor := flavorFor(in, pos, true)
	s := d.startState(flavor, false)

	var ids []int32
	for p := pos; ; p++ {
		if s.isMatch() {
			ids = append(ids, s.matchIDs...)
		}
		if s == deadState {
			break
		}
		c := input.EndOfText
		if p < end {
			c = in.ByteAt(p)
		}
		s = d.runStateOnByte(s, c)
		if p >= end {
			if s.isMatch() {
				ids = append(ids, s.matchIDs...)
			}
			break
		}
	}
	return ids
}

// Search finds the leftmost match of fwd/rev's shared program in
// in[pos:end], per spec.md §4.2's two-DFA algorithm: a forward pass
// establishes the match's end (earliest end for leftmost-first
// semantics, furthest end for POSIX longest), then a reverse pass
// anchored at that end and run backward with kind=LongestMatch finds the
// furthest-back reachable start — provably the correct overall leftmost
// start for that end (original_source/re2/dfa.h's declared Search, whose
// implementation note calls this the "two searches" design).
func Search(fwd, rev *DFA, in input.Input, pos, end int, anchored bool) (MatchResult, bool) {
	wantEarliest := fwd.kind != LongestMatch
	if fwd.prog.AnchorEnd {
		// $ / \z was stripped from the compiled program by
		// prog.Compile's stripTrailingEndText and recorded as this
		// flag instead of an EmptyWidth instruction, so nothing in the
		// program itself rejects a match that stops short of the
		// searched range's true end. A match only counts when it
		// reaches exactly end, and every start short of that is
		// equally invalid, so there is no "earliest" to prefer here:
		// scan in longest mode to find the furthest position reachable
		// from any start, then check it against end below.
		wantEarliest = false
	}
	fr := fwd.run(in, pos, end, anchored, wantEarliest)
	if !fr.matched {
		return MatchResult{}, false
	}
	if fwd.prog.AnchorEnd && fr.matchPos != end {
		return MatchResult{}, false
	}

	rr := rev.run(in, fr.matchPos, pos, true, false)
	start := pos
	if rr.matched {
		start = rr.matchPos
	}
	return MatchResult{Start: start, End: fr.matchPos, MatchIDs: fr.matchIDs}, true
}
