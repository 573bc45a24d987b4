// Package bitstate implements the explicit-stack, visited-bitmap
// backtracker spec.md §4.5 calls for as the DFA's fallback once capture
// groups are needed: the DFA finds match boundaries but, being a subset
// construction, cannot recover which instruction produced which capture
// slot. BitState re-runs the program as a backtracking NFA walk over a
// bounded range of the input, memoizing (instruction, position) pairs it
// has already tried so it never does the same work twice — the same
// guarantee a visited-set gives any backtracking search.
//
// No retrieved Go example implements this engine (matloob-regexp's DFA
// draft panics before reaching anything past subset construction), so
// this is ported from original_source/re2/bitstate.cc into the idiom the
// rest of this module already established (prog.Inst stepping, the
// input.Input byte abstraction).
package bitstate

import (
	"errors"

	"github.com/axrho/rekernel/internal/input"
	"github.com/axrho/rekernel/prog"
)

// ErrTooBig is returned when the (program size × input range) product
// would exceed maxBitStateProduct visited-bitmap entries, per original_source/
// re2/bitstate.cc's own "too many states" bailout — the caller is
// expected to fall back to... nothing smaller exists; BitState is already
// the engine of last resort, so ErrTooBig means "give up on captures".
var ErrTooBig = errors.New("bitstate: program/input too large for backtracking")

const maxBitStateProduct = 1 << 24 // instructions * input bytes

// Search runs the backtracker over in[start:end], anchored at start,
// filling cap with 2*ncap capture offsets (cap[0], cap[1] are the match's
// own bounds) if a match is found. longest selects POSIX leftmost-
// longest over leftmost-first semantics, matching the DFA's MatchKind.
func Search(p *prog.Prog, in input.Input, start, end int, longest bool, cap []int) (bool, error) {
	n := len(p.Inst)
	span := end - start + 1
	if n*span > maxBitStateProduct {
		return false, ErrTooBig
	}

	if len(cap) > 0 {
		cap[0] = start
	}
	b := &backtracker{
		prog:    p,
		in:      in,
		end:     end,
		longest: longest,
		visited: make([]bool, n*span),
		span:    span,
		base:    start,
		cap:     cap,
	}
	matched := b.run(p.Start, start)
	return matched, nil
}

type backtracker struct {
	prog    *prog.Prog
	in      input.Input
	end     int
	longest bool

	visited []bool
	span    int
	base    int

	cap []int
}

func (b *backtracker) seen(pc, pos int) bool {
	return b.visited[pc*b.span+(pos-b.base)]
}

func (b *backtracker) mark(pc, pos int) {
	b.visited[pc*b.span+(pos-b.base)] = true
}

// frame is one explicit-stack entry, replaying the call bitstate.cc makes
// with its native call stack; TryMatch/Push keep this module free of Go
// recursion depth limits on pathological programs.
type frame struct {
	pc  int
	pos int
}

// run explores the program from (pc, pos) depth-first, preferring the
// first (Out) branch of every Alt before the second (Out1), matching
// prog.OpAlt's documented greedy priority; in longest mode it continues
// past the first Match looking for a later (longer) one instead of
// returning immediately.
func (b *backtracker) run(pc, pos int) bool {
	stack := []frame{{pc, pos}}
	found := false

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pc, pos = top.pc, top.pos

		if b.step(pc, pos, &stack) {
			found = true
			if !b.longest {
				return true
			}
		}
	}
	return found
}

// step processes one (pc, pos) node, pushing successor frames for Alt's
// two arms (Out1 pushed first so Out — the priority branch — is popped
// and explored first, a LIFO stack's natural order) and returns true if
// this node itself completed a match.
func (b *backtracker) step(pc, pos int, stack *[]frame) bool {
	for {
		if pos < b.base || pos > b.end {
			return false
		}
		if b.seen(pc, pos) {
			return false
		}
		b.mark(pc, pos)

		inst := &b.prog.Inst[pc]
		switch inst.Op {
		case prog.OpFail:
			return false

		case prog.OpAlt, prog.OpAltMatch:
			*stack = append(*stack, frame{int(inst.Out1), pos})
			pc = int(inst.Out)
			continue

		case prog.OpByteRange:
			if pos >= b.end {
				return false
			}
			c := b.in.ByteAt(pos)
			if c < 0 || !inst.MatchByte(byte(c)) {
				return false
			}
			pc = int(inst.Out)
			pos++
			continue

		case prog.OpCapture:
			if inst.Cap >= 0 && int(inst.Cap) < len(b.cap) {
				saved := b.cap[inst.Cap]
				b.cap[inst.Cap] = pos
				if b.run(int(inst.Out), pos) {
					return true
				}
				b.cap[inst.Cap] = saved
				return false
			}
			pc = int(inst.Out)
			continue

		case prog.OpEmptyWidth:
			before := b.in.ContextByteBefore(pos)
			after := b.in.ContextByteAfter(pos)
			if inst.Empty&^prog.EmptyFlags(before, after) != 0 {
				return false
			}
			pc = int(inst.Out)
			continue

		case prog.OpNop:
			pc = int(inst.Out)
			continue

		case prog.OpMatch:
			if len(b.cap) > 1 {
				b.cap[1] = pos
			}
			return true

		default:
			return false
		}
	}
}
