package dfa

import (
	"sync"
	"sync/atomic"

	"github.com/axrho/rekernel/internal/input"
	"github.com/axrho/rekernel/prog"
)

// MatchKind selects how the DFA treats multiple simultaneously-alive
// threads, mirroring spec.md §2's three engine-level match kinds.
type MatchKind int

const (
	// FirstMatch stops at the first accepting position reached while
	// honoring Alt's left-to-right priority (leftmost-first, like Perl).
	FirstMatch MatchKind = iota
	// LongestMatch keeps scanning for a longer match at the same start
	// (POSIX leftmost-longest); AltMatch priority is ignored.
	LongestMatch
	// ManyMatch is FirstMatch plus: don't stop at the first MatchID,
	// report every one alive at the accepting position (regexp-set).
	ManyMatch
)

// these flag bits record just enough of the
// "before" context to resolve the next transition's assertions without
// needing the previously-consumed byte's literal value (spec.md §4.4
// step 2: "State equality is keyed on the instruction id set and the flag
// word, not the path taken to reach it").
const (
	flagBeforeIsStart flag = 1 << 8
	flagBeforeNewline flag = 1 << 9
)

// representativeBefore reconstructs a byte (or -1) that, fed to
// prog.EmptyFlags as the "before" argument, reproduces the same
// assertion bits the original predecessor byte would have produced.
func representativeBefore(f flag) int {
	switch {
	case f&flagBeforeIsStart != 0:
		return -1
	case f&flagBeforeNewline != 0:
		return '\n'
	case f&flagLastWord != 0:
		return 'a'
	default:
		return ' '
	}
}

func translateEOT(c int) int {
	if c == input.EndOfText {
		return -1
	}
	return c
}

// DFA lazily builds and caches the subset-construction states for one
// compiled program, per spec.md §4.4. A DFA instance is single-direction
// (forward or reverse, per CompileReversed) and single-kind; Regexp
// (../../machine.go) owns one of each needed for a search.
type DFA struct {
	prog    *prog.Prog
	kind    MatchKind
	forward bool

	// progMu is the "program-level exclusive lock" of spec.md §5: it
	// serializes use of the shared scratch work queues during state
	// construction, across however many goroutines share this DFA.
	progMu sync.Mutex
	q0, q1 *workq

	// cacheMu guards stateCache and the memory budget accounting. RE2's
	// C++ implementation needs a separate reader/writer protocol here
	// because a concurrent cache flush can dangle a raw State*; Go's GC
	// makes a stale *State merely wasted, not unsafe, so a single mutex
	// around mutation is sufficient — see DESIGN.md.
	cacheMu    sync.Mutex
	stateCache map[string]*State
	memBudget  int64
	memUsed    int64

	start [maxStart]startInfo
}

// New builds a DFA over p. memBudget bounds the state cache's size in
// bytes (spec.md §4.4's "bounded cache" requirement); p.DFAMem is the
// natural default.
func New(p *prog.Prog, kind MatchKind, forward bool, memBudget int64) *DFA {
	if memBudget <= 0 {
		memBudget = p.DFAMem
	}
	maxmark := 0
	if kind == LongestMatch {
		maxmark = len(p.Inst)
	}
	return &DFA{
		prog:       p,
		kind:       kind,
		forward:    forward,
		q0:         newWorkq(len(p.Inst), maxmark),
		q1:         newWorkq(len(p.Inst), maxmark),
		stateCache: make(map[string]*State),
		memBudget:  memBudget,
	}
}

// addToQueue walks id's structural epsilon-closure (Alt/AltMatch/Capture/
// Nop transparently, EmptyWidth gated on flags), inserting every visited
// id into q. Recursion depth is bounded by len(prog.Inst) since q.contains
// prevents revisiting, so cyclic graphs (spec.md §9 "cyclic instruction
// graph") terminate.
func (d *DFA) addToQueue(q *workq, id int32, flags prog.EmptyOp) {
	if id < 0 || int(id) >= len(d.prog.Inst) {
		return
	}
	if q.contains(int(id)) {
		return
	}
	q.insert(int(id))
	inst := &d.prog.Inst[id]
	switch inst.Op {
	case prog.OpAlt, prog.OpAltMatch:
		d.addToQueue(q, int32(inst.Out), flags)
		d.addToQueue(q, int32(inst.Out1), flags)
	case prog.OpCapture, prog.OpNop:
		d.addToQueue(q, int32(inst.Out), flags)
	case prog.OpEmptyWidth:
		if inst.Empty&^flags == 0 {
			d.addToQueue(q, int32(inst.Out), flags)
		}
	case prog.OpByteRange, prog.OpMatch, prog.OpFail:
		// leaves; already recorded above.
	}
}

// stepFlags computes the assertion bits that gate the epsilon-closure of
// pending when the transition consumes byte c, honoring scan direction:
// for a reverse DFA the neighbor already fixed by the predecessor state
// plays the "after" role and c plays "before", since reverse programs
// walk true text right to left (spec.md §4.2, CompileReversed).
func (d *DFA) stepFlags(f flag, c int) prog.EmptyOp {
	rep := representativeBefore(f)
	cc := translateEOT(c)
	if d.forward {
		return prog.EmptyFlags(rep, cc)
	}
	return prog.EmptyFlags(cc, rep)
}

func nextFlag(c int) flag {
	var f flag
	if c == '\n' {
		f |= flagBeforeNewline
	}
	if c >= 0 && c < 256 && prog.IsWordChar(byte(c)) {
		f |= flagLastWord
	}
	return f
}

// step resolves pending's closure at the current position using c as the
// just-arrived neighbor, matches byte c against the resolved ByteRange
// leaves, and returns the new pending (raw, unclosed) successor set plus
// whether a Match instruction was among the resolved leaves (i.e. this
// position matches) and, in ManyMatch mode, which pattern ids matched.
func (d *DFA) step(pending []int32, f flag, c int) (newPending []int32, isMatch bool, matchIDs []int32) {
	flags := d.stepFlags(f, c)

	d.q0.clear()
	for _, id := range pending {
		d.addToQueue(d.q0, id, flags)
	}

	d.q1.clear()
	for _, id := range d.q0.elements() {
		inst := &d.prog.Inst[id]
		switch inst.Op {
		case prog.OpMatch:
			isMatch = true
			if d.kind == ManyMatch {
				matchIDs = append(matchIDs, inst.MatchID)
			} else if d.kind == FirstMatch {
				// Alt priority means the first Match reached by the
				// addToQueue walk is the highest-priority one; lower-
				// priority alternatives after it still contribute
				// successors here, so the resulting state can keep
				// matching further on (Search's AnchorEnd case scans
				// this kind in longest mode).
			}
		case prog.OpByteRange:
			if c >= 0 && c < 256 && inst.MatchByte(byte(c)) {
				d.q1.insert(int(inst.Out))
			}
		}
	}

	if len(d.q1.elements()) == 0 {
		return nil, isMatch, matchIDs
	}
	out := make([]int32, len(d.q1.elements()))
	for i, id := range d.q1.elements() {
		out[i] = int32(id)
	}
	return out, isMatch, matchIDs
}

// runStateOnByte returns the state reached from s by consuming byte c
// (c may be input.EndOfText), building and caching it if necessary. This
// implements the reader/writer protocol of spec.md §5: the fast path
// reads s.next[c] without taking any lock (State.next entries are
// published with atomic.Pointer, giving the needed acquire/release
// pairing); only a cache miss takes progMu to compute the transition.
func (d *DFA) runStateOnByte(s *State, c int) *State {
	if s == deadState {
		return deadState
	}
	idx := d.classOf(c)
	if ns := s.next[idx].Load(); ns != nil {
		return ns
	}

	d.progMu.Lock()
	defer d.progMu.Unlock()
	if ns := s.next[idx].Load(); ns != nil {
		return ns
	}

	pending, isMatch, matchIDs := d.step(s.inst, s.flag, c)
	nf := nextFlag(translateEOT(c))
	if isMatch {
		nf |= flagMatch
	}
	ns := d.cachedState(pending, nf, matchIDs)
	s.next[idx].Store(ns)
	return ns
}

// classOf maps a raw byte (or input.EndOfText) to its bytemap class,
// reserving the last slot for end-of-text.
func (d *DFA) classOf(c int) int {
	if c == input.EndOfText {
		return d.prog.BytemapRange
	}
	return int(d.prog.Bytemap[c])
}

// cachedState interns (pending, f) into the shared state cache, flushing
// the cache first if the memory budget would be exceeded. Must be called
// with progMu held (it's reached only from runStateOnByte and the start-
// state builders, both of which hold it).
// TODO: recognize when pending's closure is exactly the OpAltMatch
// reflexive self-loop rewriteAltMatch (../../prog/peephole.go) produces,
// and return the shared fullMatchState sentinel so the search loop can
// shortcut every remaining byte of input instead of walking the cache.
func (d *DFA) cachedState(pending []int32, f flag, matchIDs []int32) *State {
	if len(pending) == 0 && f&flagMatch == 0 {
		return deadState
	}

	key := stateKey(pending, f)
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	if s, ok := d.stateCache[key]; ok {
		return s
	}

	size := int64(64 + 4*len(pending) + 8*(d.prog.BytemapRange+1))
	if d.memUsed+size > d.memBudget && len(d.stateCache) > 0 {
		d.flushLocked()
	}

	s := &State{
		inst:     append([]int32(nil), pending...),
		flag:     f,
		next:     make([]atomic.Pointer[State], d.prog.BytemapRange+1),
		matchIDs: matchIDs,
	}
	d.stateCache[key] = s
	d.memUsed += size
	return s
}

// flushLocked drops every cached state. Outstanding *State pointers held
// by in-flight searches remain valid Go values (merely no longer
// deduplicated against); this is the simplification spec.md §5's note
// about Go's GC removing the dangling-pointer hazard C++ needed the
// reader/writer upgrade dance for.
func (d *DFA) flushLocked() {
	d.stateCache = make(map[string]*State)
	d.memUsed = 0
	for i := range d.start {
		d.start[i].start.Store(nil)
	}
}

// startState returns (building and caching if needed) the start state
// for the given start flavor (spec.md §4.4's four start contexts) and
// anchoring.
func (d *DFA) startState(flavor int, anchored bool) *State {
	idx := flavor
	if anchored {
		idx |= kStartAnchored
	}
	si := &d.start[idx]
	if s := si.start.Load(); s != nil {
		return s
	}

	si.mu.Lock()
	defer si.mu.Unlock()
	if s := si.start.Load(); s != nil {
		return s
	}

	entry := d.prog.StartUnanchored
	if anchored {
		entry = d.prog.Start
	}

	var f flag
	switch flavor {
	case startBeginText:
		f = flagBeforeIsStart
	case startBeginLine:
		f = flagBeforeNewline
	case startAfterWordChar:
		f = flagLastWord
	case startAfterNonWordChar:
		f = 0
	}

	d.progMu.Lock()
	s := d.cachedState([]int32{int32(entry)}, f, nil)
	d.progMu.Unlock()

	si.start.Store(s)
	return s
}

// flavorFor picks the start-state flavor for position pos in in, per
// spec.md §4.4 (begin-text, begin-line, after-word-char, after-non-word).
func flavorFor(in input.Input, pos int, forward bool) int {
	var before int
	if forward {
		before = in.ContextByteBefore(pos)
	} else {
		before = in.ContextByteAfter(pos)
	}
	switch {
	case before == -1:
		return startBeginText
	case before == '\n':
		return startBeginLine
	case prog.IsWordChar(byte(before)):
		return startAfterWordChar
	default:
		return startAfterNonWordChar
	}
}
