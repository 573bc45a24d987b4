// Package input defines the byte-oriented input abstraction the DFA and
// bit-state engines step over. Redesigned from the teacher's rune-
// stepping Input (matloob-regexp/internal/dfa/rune_range.go) to the
// byte-oriented model spec.md §3 requires ("Bytes are 0…255; kByteEndText
// = 256 is a sentinel... used only by the DFA to represent the position
// past the last byte"); see DESIGN.md's REDESIGN notes.
package input

// EndOfText is the sentinel byte class fed to the DFA/BitState once the
// real bytes are exhausted, so that $ / \z / trailing \b can fire.
const EndOfText = 256

// Input is implemented by each concrete text source (string, []byte) and
// gives engines forward and backward byte access plus the surrounding
// context bytes needed for zero-width assertions.
type Input interface {
	// Len returns the number of real bytes (excluding EndOfText).
	Len() int
	// ByteAt returns the byte at i, or -1 if i is out of [0,Len()).
	ByteAt(i int) int
	// ContextByteBefore and ContextByteAfter look into the surrounding
	// context (which may extend further than the searched text) to
	// resolve ^ $ \b at the text's own edges; -1 means "no such byte".
	ContextByteBefore(i int) int
	ContextByteAfter(i int) int
}

// String adapts a Go string to Input, using context == text.
type String struct {
	S string
}

func (in String) Len() int { return len(in.S) }

func (in String) ByteAt(i int) int {
	if i < 0 || i >= len(in.S) {
		return -1
	}
	return int(in.S[i])
}

func (in String) ContextByteBefore(i int) int { return in.ByteAt(i - 1) }
func (in String) ContextByteAfter(i int) int  { return in.ByteAt(i) }

// Bytes adapts a []byte to Input.
type Bytes struct {
	B []byte
}

func (in Bytes) Len() int { return len(in.B) }

func (in Bytes) ByteAt(i int) int {
	if i < 0 || i >= len(in.B) {
		return -1
	}
	return int(in.B[i])
}

func (in Bytes) ContextByteBefore(i int) int { return in.ByteAt(i - 1) }
func (in Bytes) ContextByteAfter(i int) int  { return in.ByteAt(i) }

// WithContext wraps text so that ContextByteBefore/After resolve against
// a surrounding context string, per spec.md §4.4 "context is the greater
// string supplying the surroundings for ^ $ \A \z \b".
type WithContext struct {
	Input
	Context string
	// Offset is the index within Context at which Input's byte 0 begins.
	Offset int
}

func (in WithContext) ContextByteBefore(i int) int {
	p := in.Offset + i - 1
	if p < 0 || p >= len(in.Context) {
		return -1
	}
	return int(in.Context[p])
}

func (in WithContext) ContextByteAfter(i int) int {
	p := in.Offset + i
	if p < 0 || p >= len(in.Context) {
		return -1
	}
	return int(in.Context[p])
}
