package prog

// UTF-8 length boundaries: the largest rune encodable in 1, 2, and 3
// bytes respectively. Used to split a rune range so that every emitted
// sub-range covers runes of one fixed UTF-8 byte length (spec.md §4.2(i)).
const (
	rune1Max = 0x7F
	rune2Max = 0x7FF
	rune3Max = 0xFFFF
	runeMax  = 0x10FFFF
)

// byteRange is lo..hi inclusive over a single byte position.
type byteRange struct{ lo, hi uint8 }

// utf8Ranges is a sequence of byte-range tuples, one tuple per UTF-8
// byte position, describing a set of byte sequences of identical length.
// E.g. the tuple sequence [{0xE0,0xEF},{0x80,0xBF},{0x80,0xBF}] describes
// all 3-byte UTF-8 sequences with a lead byte in E0..EF.
type utf8Sequence [][]byteRange

// splitRuneRange splits [lo,hi] (a single inclusive rune range) into UTF-8
// length-homogeneous pieces, then within each piece recursively splits so
// that every emitted sub-range shares a fixed prefix and varies only in a
// trailing contiguous byte range, per spec.md §4.2.
func splitRuneRange(lo, hi rune) []utf8Sequence {
	if lo > hi {
		return nil
	}
	var out []utf8Sequence
	bounds := []rune{rune1Max, rune2Max, rune3Max, runeMax}
	start := lo
	for _, bound := range bounds {
		if start > hi {
			break
		}
		if start > bound {
			continue
		}
		end := hi
		if end > bound {
			end = bound
		}
		out = append(out, splitRuneRangeSameLength(start, end)...)
		start = bound + 1
	}
	return out
}

// splitRuneRangeSameLength splits [lo,hi], both known to encode to the
// same number of UTF-8 bytes, into the canonical RE2-style byte-range
// decomposition.
func splitRuneRangeSameLength(lo, hi rune) []utf8Sequence {
	var loBytes, hiBytes [4]byte
	n := encodeRune(loBytes[:], lo)
	encodeRune(hiBytes[:], hi)
	return splitBytes(loBytes[:n], hiBytes[:n])
}

// encodeRune writes the raw UTF-8 encoding of r (without validity checks
// for surrogate/overlong concerns beyond what the caller already
// guarantees by construction) into buf and returns the byte length.
func encodeRune(buf []byte, r rune) int {
	switch {
	case r <= rune1Max:
		buf[0] = byte(r)
		return 1
	case r <= rune2Max:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r&0x3F)
		return 2
	case r <= rune3Max:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte((r>>6)&0x3F)
		buf[2] = 0x80 | byte(r&0x3F)
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte((r>>12)&0x3F)
		buf[2] = 0x80 | byte((r>>6)&0x3F)
		buf[3] = 0x80 | byte(r&0x3F)
		return 4
	}
}

// splitBytes recursively splits the byte-string range [lo,hi] (same
// length) into a minimal set of utf8Sequences, each of which has a fixed
// prefix and a single trailing contiguous byte range, continuation bytes
// in between ranging over their full 80-BF span where the prefix already
// disambiguates.
func splitBytes(lo, hi []byte) []utf8Sequence {
	if len(lo) == 1 {
		return []utf8Sequence{{[]byteRange{{lo[0], hi[0]}}}}
	}
	if lo[0] == hi[0] {
		rest := splitBytes(lo[1:], hi[1:])
		var out []utf8Sequence
		for _, seq := range rest {
			out = append(out, append(utf8Sequence{{byteRange{lo[0], lo[0]}}}, seq...))
		}
		return out
	}

	var out []utf8Sequence
	// Piece 1: lo[0], lo[1:]..max-continuation
	maxCont := make([]byte, len(lo)-1)
	for i := range maxCont {
		maxCont[i] = 0xBF
	}
	minCont := make([]byte, len(lo)-1)
	for i := range minCont {
		minCont[i] = 0x80
	}
	allMin := isAll(lo[1:], 0x80)
	allMax := isAll(hi[1:], 0xBF)

	loFirst := lo[0]
	hiFirst := hi[0]

	if !allMin {
		out = append(out, prefixSeqs(lo[0], splitBytes(lo[1:], maxCont))...)
		loFirst++
	}
	if !allMax {
		out = append(out, prefixSeqs(hi[0], splitBytes(minCont, hi[1:]))...)
		hiFirst--
	}
	if loFirst <= hiFirst {
		full := make([]byteRange, len(lo)-1)
		for i := range full {
			full[i] = byteRange{0x80, 0xBF}
		}
		seq := append(utf8Sequence{{byteRange{loFirst, hiFirst}}}, toUtf8Seq(full)...)
		out = append(out, seq)
	}
	return out
}

func toUtf8Seq(rs []byteRange) utf8Sequence {
	seq := make(utf8Sequence, len(rs))
	for i, r := range rs {
		seq[i] = []byteRange{r}
	}
	return seq
}

func prefixSeqs(b byte, seqs []utf8Sequence) []utf8Sequence {
	out := make([]utf8Sequence, len(seqs))
	for i, seq := range seqs {
		out[i] = append(utf8Sequence{{byteRange{b, b}}}, seq...)
	}
	return out
}

func isAll(bs []byte, v byte) bool {
	for _, b := range bs {
		if b != v {
			return false
		}
	}
	return true
}
