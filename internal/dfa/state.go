// Package dfa implements the lazy subset-construction DFA of spec.md §4.4:
// on-demand state construction with a bounded cache, reader/writer
// concurrency, and specialized forward/backward, earliest/leftmost-longest
// search loops.
//
// Grounded on the teacher (matloob-regexp/dfa.go, matloob-regexp/state.go),
// which carries this same State/flag/workq/sparseSet shape but panics in
// its search loop and greedy() helper; this package finishes that draft
// and moves from the teacher's rune-stepping to the byte-class stepping
// spec.md §3 requires (see /DESIGN.md REDESIGN notes).
package dfa

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// flag is the State flag word: flagBeforeIsStart and flagBeforeNewline
// (dfa.go) record the "before" context of the next transition, plus two
// extra bits for "this state is accepting" and "the last byte processed
// was a word character". The bits under flagEmptyMask are not set.
type flag uint32

const (
	flagEmptyMask flag = 0xFF // bits mirroring prog.EmptyOp
	flagMatch     flag = 1 << 12
	flagLastWord  flag = 1 << 13
	flagNeedShift      = 16
)

// Special firstbyte values. Values >= 0 denote actual bytes (spec.md §9:
// "first_byte is a raw byte index, not a class").
const (
	fbUnknown = -1
	fbMany    = -2
	fbNone    = -3
)

// Indices into DFA.start for unanchored searches; add kStartAnchored for
// the anchored variant.
const (
	startBeginText        = 0
	startBeginLine        = 2
	startAfterWordChar    = 4
	startAfterNonWordChar = 6
	maxStart              = 8

	kStartAnchored = 1
)

// State is a canonicalized set of NFA instruction ids plus the flag word
// describing how it was entered. next holds one lazily-populated,
// atomically-published outgoing transition per byte class, plus one for
// the end-of-text sentinel class (index BytemapRange).
type State struct {
	inst []int32
	flag flag
	next []atomic.Pointer[State]

	// matchIDs holds the pattern ids that matched on the transition that
	// produced this state, for ManyMatch (regexp-set) mode; unused
	// otherwise. It is a pure function of the transition's (pending,
	// flag, byte) inputs, so every predecessor reaching the same
	// (pending, flag) key computes the same matchIDs — safe to cache.
	matchIDs []int32
}

func (s *State) isMatch() bool { return s.flag&flagMatch != 0 }

// key canonicalizes a State's contents for the cache map: spec.md §4.4
// "Two states are equal iff their instruction sequences and flag words
// are equal."
func stateKey(inst []int32, f flag) string {
	var b strings.Builder
	for _, id := range inst {
		b.WriteString(strconv.Itoa(int(id)))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(uint64(f), 16))
	return b.String()
}

var (
	deadState      = &State{}
	fullMatchState = &State{}
)

func isSpecialState(s *State) bool {
	return s == deadState || s == fullMatchState || s == nil
}

// Dump renders a State for diagnostics, following the teacher's Dump
// format (matloob-regexp/state.go).
func (s *State) Dump() string {
	switch s {
	case nil:
		return "_"
	case deadState:
		return "X"
	case fullMatchState:
		return "*"
	}
	var b strings.Builder
	sep := ""
	for _, id := range s.inst {
		b.WriteString(sep)
		b.WriteString(strconv.Itoa(int(id)))
		sep = ","
	}
	fmt.Fprintf(&b, " flag=%#x", uint32(s.flag))
	return b.String()
}

// ---------------------------------------------------------------------
// sparse set / work queue, ported from matloob-regexp/dfa.go.

type sparseSet struct {
	sparseToDense []int
	dense         []int
}

func makeSparseSet(maxSize int) sparseSet {
	return sparseSet{
		sparseToDense: make([]int, maxSize),
		dense:         make([]int, 0, maxSize),
	}
}

func (s *sparseSet) clear() { s.dense = s.dense[:0] }

func (s *sparseSet) contains(i int) bool {
	if i >= len(s.sparseToDense) || i < 0 {
		return false
	}
	j := s.sparseToDense[i]
	return j < len(s.dense) && s.dense[j] == i
}

func (s *sparseSet) insertNew(i int) {
	if i >= len(s.sparseToDense) || i < 0 {
		return
	}
	s.sparseToDense[i] = len(s.dense)
	s.dense = append(s.dense, i)
}

func (s *sparseSet) insert(i int) {
	if s.contains(i) {
		return
	}
	s.insertNew(i)
}

// mark is a sentinel pushed onto a workq to separate unordered alternative
// sets in longest-match mode (RE2::Set bookkeeping).
const mark = -1

type workq struct {
	s           sparseSet
	n           int // size excluding marks
	maxm        int
	nextm       int
	lastWasMark bool
}

func newWorkq(n, maxmark int) *workq {
	return &workq{s: makeSparseSet(n + maxmark), n: n, maxm: maxmark, nextm: n, lastWasMark: true}
}

func (q *workq) isMark(i int) bool { return i >= q.n }
func (q *workq) clear()            { q.s.clear(); q.nextm = q.n; q.lastWasMark = true }
func (q *workq) contains(i int) bool { return q.s.contains(i) }
func (q *workq) maxmark() int      { return q.maxm }

func (q *workq) mark() {
	if q.lastWasMark {
		return
	}
	q.lastWasMark = true
	q.s.insertNew(q.nextm)
	q.nextm++
}

func (q *workq) insert(id int) {
	if q.s.contains(id) {
		return
	}
	q.insertNew(id)
}

func (q *workq) insertNew(id int) {
	q.lastWasMark = false
	q.s.insertNew(id)
}

func (q *workq) elements() []int { return q.s.dense }

// ---------------------------------------------------------------------
// start-state bookkeeping

type startInfo struct {
	mu        sync.Mutex
	start     atomic.Pointer[State]
	firstbyte int64 // atomic; fbUnknown/fbMany/fbNone or a real byte value
}
