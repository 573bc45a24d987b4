// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rekernel is a byte-level regular expression engine: a
// Thompson/Pike-style compiler down to a flat instruction program, a
// lazily-constructed DFA for the common case, and a bounded backtracker
// for recovering submatch boundaries, in the style of RE2.
//
// The surface syntax — parsing "a(b|c)+" into a tree — is out of this
// package's scope; callers supply a *regexp/syntax.Regexp, typically the
// result of syntax.Parse, exactly as matloob-regexp's own Searcher does
// for its (unretrieved) syntax package.
package rekernel

import (
	"fmt"
	"log"
	"regexp/syntax"
	"sync"

	"github.com/axrho/rekernel/internal/bitstate"
	"github.com/axrho/rekernel/internal/dfa"
	"github.com/axrho/rekernel/internal/input"
	"github.com/axrho/rekernel/prog"
)

// AnchorMode selects where in the input a match must begin/end, mirroring
// spec.md §6.2's three anchor modes.
type AnchorMode int

const (
	Unanchored AnchorMode = iota
	AnchorStart
	AnchorBoth
)

// Regexp is a compiled pattern ready to match against byte input. It is
// safe for concurrent use: the DFA's own reader/writer discipline
// (internal/dfa) is what makes that possible without a lock here.
type Regexp struct {
	Pattern string
	prog    *prog.Prog
	revProg *prog.Prog
	longest bool // POSIX leftmost-longest mode

	once sync.Once
	fwd  *dfa.DFA
	rev  *dfa.DFA
}

// Compile parses pattern with Perl syntax and compiles it to a Regexp
// using leftmost-first (non-POSIX) semantics.
func Compile(pattern string) (*Regexp, error) {
	return compile(pattern, syntax.Perl, false)
}

// CompilePOSIX is Compile but with POSIX leftmost-longest semantics and
// POSIX's restricted operator set, matching regexp.CompilePOSIX.
func CompilePOSIX(pattern string) (*Regexp, error) {
	return compile(pattern, syntax.POSIX, true)
}

func compile(pattern string, synFlags syntax.Flags, longest bool) (*Regexp, error) {
	re, err := syntax.Parse(pattern, synFlags)
	if err != nil {
		return nil, err
	}
	re = re.Simplify()

	p, err := prog.Compile(re, prog.CompileOptions{MaxMem: 64 << 20})
	if err != nil {
		return nil, &prog.CompileError{Pattern: pattern, Err: err}
	}
	rp, err := prog.CompileReversed(re, 64<<20, 0)
	if err != nil {
		return nil, &prog.CompileError{Pattern: pattern, Err: err}
	}

	return &Regexp{Pattern: pattern, prog: p, revProg: rp, longest: longest}, nil
}

// NumSubexp returns the number of capturing groups.
func (re *Regexp) NumSubexp() int { return re.prog.NumCap/2 - 1 }

// SetLogger attaches a logger the DFA/compiler can use for diagnostics;
// nil (the default) is silent.
func (re *Regexp) SetLogger(l *log.Logger) { re.prog.Logger = l }

func (re *Regexp) initDFA() {
	re.once.Do(func() {
		kind := dfa.FirstMatch
		if re.longest {
			kind = dfa.LongestMatch
		}
		re.fwd = dfa.New(re.prog, kind, true, re.prog.DFAMem)
		re.rev = dfa.New(re.revProg, dfa.LongestMatch, false, re.revProg.DFAMem)
	})
}

// Match runs the engine over in[pos:end] and reports whether a match
// exists, per anchor's constraint. If cap is non-nil (length >=
// 2*(NumSubexp()+1)), it is filled with the match's own bounds and every
// capturing group's bounds (or -1, -1 for groups that didn't participate).
//
// This is the dispatch spec.md §2 describes: the DFA alone can confirm a
// match and its overall span; recovering submatch boundaries needs the
// bounded backtracker, so Match only invokes BitState when the caller
// actually asked for captures (cap non-nil) — the common MatchString/
// boolean-only case never pays for it, mirroring original_source/
// re2/bitstate.cc's own framing of itself as "a fast replacement for the
// NFA code on small regexps and texts" consulted only when the DFA alone
// can't answer the question asked.
func (re *Regexp) Match(in input.Input, pos, end int, anchor AnchorMode, cap []int) bool {
	re.initDFA()

	anchored := anchor != Unanchored
	result, ok := dfa.Search(re.fwd, re.rev, in, pos, end, anchored)
	if !ok {
		return false
	}
	if anchor == AnchorBoth && result.End != end {
		return false
	}

	if len(cap) == 0 {
		return true
	}
	return re.fillCaptures(in, result.Start, result.End, end, cap)
}

// fillCaptures re-runs BitState anchored at the DFA-confirmed start, over
// [start, searchEnd), to recover capture-group boundaries. longest mode
// is threaded through so POSIX Regexps get POSIX submatch semantics too.
func (re *Regexp) fillCaptures(in input.Input, start, matchEnd, searchEnd int, cap []int) bool {
	for i := range cap {
		cap[i] = -1
	}
	ok, err := bitstate.Search(re.prog, in, start, matchEnd, re.longest, cap)
	if err != nil {
		// Program/input too large for the bounded backtracker: report
		// the span the DFA already confirmed and leave subgroup slots
		// unset rather than fail outright.
		if len(cap) >= 2 {
			cap[0], cap[1] = start, matchEnd
		}
		return true
	}
	return ok
}

// MatchString reports whether s contains a match anywhere.
func (re *Regexp) MatchString(s string) bool {
	return re.Match(input.String{S: s}, 0, len(s), Unanchored, nil)
}

// FindStringIndex returns the leftmost match's [start, end) byte offsets,
// or nil if there is none.
func (re *Regexp) FindStringIndex(s string) []int {
	cap := make([]int, 2)
	if !re.Match(input.String{S: s}, 0, len(s), Unanchored, cap) {
		return nil
	}
	return cap[:2]
}

// FindStringSubmatchIndex returns 2*(NumSubexp()+1) offsets: the overall
// match followed by each capturing group's [start, end), or -1, -1 for a
// group that did not participate. Returns nil if there is no match.
func (re *Regexp) FindStringSubmatchIndex(s string) []int {
	cap := make([]int, re.prog.NumCap)
	if !re.Match(input.String{S: s}, 0, len(s), Unanchored, cap) {
		return nil
	}
	return cap
}

// String returns the source pattern, like regexp.Regexp.String.
func (re *Regexp) String() string { return re.Pattern }

func (re *Regexp) GoString() string {
	return fmt.Sprintf("rekernel.MustCompile(%q)", re.Pattern)
}

// MustCompile is Compile but panics on error, matching regexp.MustCompile.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}
