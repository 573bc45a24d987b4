package prog

import (
	"log"
	"sync"
)

// Flags carries parse-time options that affect compilation and matching.
type Flags uint32

const (
	FlagFoldCase   Flags = 1 << iota // case-insensitive match
	FlagLatin1                       // treat runes as raw bytes, not UTF-8
	FlagMultiLine                    // ^ and $ match at line boundaries
	FlagNeverNL                      // . never matches \n, even with (?s); char classes are compiled as written
	FlagDotNL                        // . matches \n
)

// Prog is the compiled, byte-level program. It is built once by the
// compiler and is immutable thereafter except for the lazily-computed
// FirstByte result, guarded by a sync.Once so concurrent searches over the
// same Prog are safe.
type Prog struct {
	Inst []Inst

	Start           int // anchored entry point
	StartUnanchored int // entry with an implicit non-greedy .*? prefix

	AnchorStart bool
	AnchorEnd   bool

	NumCap int // number of capture slots (2 * numgroups + 2)

	Bytemap     [256]uint8
	BytemapRange int // number of distinct byte classes

	Flags Flags

	DFAMem int64 // memory budget remaining for DFA caches, in bytes

	Logger *log.Logger // nil means silent

	firstByteOnce sync.Once
	firstByte     int // -1 if none; computed lazily as the first byte of the required prefix from Start
}

func (p *Prog) String() string {
	return p.Dump()
}

// Size returns the number of instructions in the program.
func (p *Prog) Size() int { return len(p.Inst) }

// FirstByte returns the single byte every match anchored at p.Start must
// begin with, if the compiler can prove one, for use as a scan
// accelerator ahead of the DFA (internal/accel, internal/dfa's "have
// first byte" search loop variants). Memoized with sync.Once since two
// concurrent searches over the same Prog may race to compute it.
func (p *Prog) FirstByte() (byte, bool) {
	p.firstByteOnce.Do(func() {
		prefix, _, ok := p.requiredPrefixFrom(p.Start)
		if ok {
			p.firstByte = int(prefix[0])
		} else {
			p.firstByte = -1
		}
	})
	if p.firstByte < 0 {
		return 0, false
	}
	return byte(p.firstByte), true
}

// IsWordChar reports whether b is an ASCII word character, the predicate
// backing \b and \B.
func IsWordChar(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// EmptyFlags returns the bitmask of zero-width assertions true at the
// position between byte before and byte after (either may be -1 to mean
// "no byte", i.e. start/end of context).
func EmptyFlags(before, after int) EmptyOp {
	var op EmptyOp
	if before == -1 {
		op |= EmptyBeginText | EmptyBeginLine
	} else if before == '\n' {
		op |= EmptyBeginLine
	}
	if after == -1 {
		op |= EmptyEndText | EmptyEndLine
	} else if after == '\n' {
		op |= EmptyEndLine
	}
	beforeWord := before != -1 && IsWordChar(byte(before))
	afterWord := after != -1 && IsWordChar(byte(after))
	if beforeWord != afterWord {
		op |= EmptyWordBoundary
	} else {
		op |= EmptyNoWordBoundary
	}
	return op
}
