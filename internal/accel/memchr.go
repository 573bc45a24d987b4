// Package accel provides the first-byte scan the DFA's "have first byte"
// search loop variants use to skip ahead over non-matching input, a SIMD
// fast path gated by runtime CPU-feature detection.
//
// Grounded on coregx-coregex/simd/memchr_amd64.go, which dispatches
// between a scalar loop and an AVX2 kernel via golang.org/x/sys/cpu's
// cpu.X86.HasAVX2 flag; this module keeps that dispatch shape but, since
// no retrieved example carries an assembly AVX2 kernel we could adapt,
// the accelerated path is a tuned word-at-a-time scan rather than actual
// vector instructions (see DESIGN.md's per-file ledger entry).
package accel

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// wordAccelerated reports whether the word-at-a-time IndexByte path is
// available on this platform; checked once at package init like
// coregx-coregex's cpu.X86.HasAVX2 gate.
var wordAccelerated = cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD

const wordSize = bits.UintSize / 8

// hasZeroByte and friends implement the classic "find a zero byte in a
// word" bit trick (Hacker's Delight 6-1), used to test eight (or four)
// input bytes at once for equality with the target byte.
const (
	loBits64 = 0x0101010101010101
	hiBits64 = 0x8080808080808080
)

// IndexByte returns the index of the first occurrence of c in s[from:],
// offset by from, or -1 if c does not occur. Searching starts at s[from].
func IndexByte(s []byte, from int, c byte) int {
	if from < 0 {
		from = 0
	}
	if from >= len(s) {
		return -1
	}
	s = s[from:]
	if !wordAccelerated || len(s) < wordSize {
		return indexByteScalar(s, from, c)
	}
	return indexByteWord(s, from, c)
}

func indexByteScalar(s []byte, base int, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return base + i
		}
	}
	return -1
}

func indexByteWord(s []byte, base int, c byte) int {
	pattern := uint(c) * loBits64
	i := 0
	for ; i+wordSize <= len(s); i += wordSize {
		w := loadWord(s[i:])
		if hasZero(w ^ pattern) {
			// One of these wordSize bytes is c; pin it down scalarly.
			for j := i; j < i+wordSize; j++ {
				if s[j] == c {
					return base + j
				}
			}
		}
	}
	for ; i < len(s); i++ {
		if s[i] == c {
			return base + i
		}
	}
	return -1
}

func hasZero(x uint) bool {
	return (x-loBits64)&^x&hiBits64 != 0
}

func loadWord(s []byte) uint {
	var w uint
	for i := 0; i < wordSize && i < len(s); i++ {
		w |= uint(s[i]) << (8 * i)
	}
	return w
}

// LastIndexByte is IndexByte's mirror for the DFA's backward-running
// search loop variants (spec.md §9's run_forward=false case), scanning
// s[:upto] from the end.
func LastIndexByte(s []byte, upto int, c byte) int {
	if upto > len(s) {
		upto = len(s)
	}
	for i := upto - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}
