// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prog defines the compiled byte-level instruction set this kernel
// executes: a flat array of fixed-size instructions produced by the
// compiler in compile.go, normalized by the peephole optimizer and
// flattener, and consumed by the DFA and bit-state backtracker.
package prog

import "fmt"

// Op is an instruction opcode.
type Op uint8

const (
	// OpFail never matches.
	OpFail Op = iota
	// OpAlt tries Out then Out1, in that order (greedy).
	OpAlt
	// OpAltMatch is a fast-path Alt where one arm is a guaranteed Match and
	// the other a .*-style self-loop; the DFA uses it as a termination
	// oracle.
	OpAltMatch
	// OpByteRange consumes one byte in [Lo,Hi], case-folded if Fold is set.
	OpByteRange
	// OpCapture records the current position into capture slot Cap.
	OpCapture
	// OpEmptyWidth requires the zero-width assertions in Empty to hold.
	OpEmptyWidth
	// OpMatch accepts; MatchID identifies the pattern in multi-set mode.
	OpMatch
	// OpNop consumes nothing; eliminated where possible by the peephole pass.
	OpNop
)

func (op Op) String() string {
	switch op {
	case OpFail:
		return "fail"
	case OpAlt:
		return "alt"
	case OpAltMatch:
		return "altmatch"
	case OpByteRange:
		return "byte"
	case OpCapture:
		return "cap"
	case OpEmptyWidth:
		return "empty"
	case OpMatch:
		return "match"
	case OpNop:
		return "nop"
	default:
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
}

// EmptyOp is a bitmask of zero-width assertions.
type EmptyOp uint8

const (
	EmptyBeginLine EmptyOp = 1 << iota
	EmptyEndLine
	EmptyBeginText
	EmptyEndText
	EmptyWordBoundary
	EmptyNoWordBoundary
)

// kByteEndText is the sentinel byte value used by the DFA to represent the
// position past the last byte of input; it has no ordinary byte value.
const kByteEndText = 256

// ByteEndText is exported for engines outside this package (DFA, BitState).
const ByteEndText = kByteEndText

// Inst is a single instruction in a Prog. Exactly one opcode-specific
// payload group is meaningful at a time; Out (and Out1 for Alt/AltMatch)
// gives the successor index into Prog.Inst. Last marks the final element
// of a linked alternation list produced by Flatten.
type Inst struct {
	Op   Op
	Out  uint32 // successor instruction index
	Out1 uint32 // second successor, Alt/AltMatch only

	Lo, Hi uint8   // ByteRange: inclusive byte range
	Fold   bool    // ByteRange: case-fold ASCII letters in [Lo,Hi]
	Cap    int32   // Capture: capture slot index
	Empty  EmptyOp // EmptyWidth: required assertions
	MatchID int32  // Match: pattern id in multi-set mode (else 0)

	Last bool // true if this is the last instruction of its Flatten list
}

// MatchByte reports whether b is accepted by a ByteRange instruction,
// honoring the Fold flag (ASCII letters only, per spec.md §8).
func (i *Inst) MatchByte(b byte) bool {
	if i.Lo <= b && b <= i.Hi {
		return true
	}
	if !i.Fold {
		return false
	}
	var folded byte
	switch {
	case 'a' <= b && b <= 'z':
		folded = b - 'a' + 'A'
	case 'A' <= b && b <= 'Z':
		folded = b - 'A' + 'a'
	default:
		return false
	}
	return i.Lo <= folded && folded <= i.Hi
}
