package prog

import (
	"testing"
	"unicode/utf8"
)

func TestEncodeRuneMatchesStdlib(t *testing.T) {
	runes := []rune{'a', 0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, 0x10FFFF}
	for _, r := range runes {
		var buf [4]byte
		n := encodeRune(buf[:], r)
		want := make([]byte, utf8.RuneLen(r))
		utf8.EncodeRune(want, r)
		if string(buf[:n]) != string(want) {
			t.Errorf("encodeRune(%U) = %x, want %x", r, buf[:n], want)
		}
	}
}

// flattenSeq renders a utf8Sequence into the set of concrete byte strings it
// denotes, for exhaustive comparison against naive per-rune encoding.
func flattenSeq(seq utf8Sequence) [][]byte {
	if len(seq) == 0 {
		return [][]byte{{}}
	}
	var out [][]byte
	first := seq[0][0]
	rest := flattenSeq(seq[1:])
	for b := int(first.lo); b <= int(first.hi); b++ {
		for _, tail := range rest {
			out = append(out, append([]byte{byte(b)}, tail...))
		}
	}
	return out
}

func collectRange(lo, hi rune) map[string]bool {
	set := map[string]bool{}
	for r := lo; r <= hi; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue // surrogates: not valid runes, splitRuneRange assumes a caller-validated range
		}
		var buf [4]byte
		n := encodeRune(buf[:], r)
		set[string(buf[:n])] = true
	}
	return set
}

func TestSplitRuneRangeCoversExactlyTheRange(t *testing.T) {
	cases := []struct{ lo, hi rune }{
		{'a', 'z'},
		{0x100, 0x2FF},   // spans into 2-byte UTF-8
		{0x7FE, 0x802},   // straddles the 2-byte/3-byte boundary
		{0x20000, 0x20050},
	}
	for _, c := range cases {
		want := collectRange(c.lo, c.hi)
		got := map[string]bool{}
		for _, seq := range splitRuneRange(c.lo, c.hi) {
			for _, s := range flattenSeq(seq) {
				got[string(s)] = true
			}
		}
		if len(got) != len(want) {
			t.Fatalf("range [%U,%U]: got %d distinct byte strings, want %d", c.lo, c.hi, len(got), len(want))
		}
		for s := range want {
			if !got[s] {
				t.Fatalf("range [%U,%U]: missing encoding %x", c.lo, c.hi, s)
			}
		}
	}
}

func TestSplitRuneRangeEmptyForInverted(t *testing.T) {
	if seqs := splitRuneRange('z', 'a'); seqs != nil {
		t.Fatalf("expected nil for an inverted range, got %v", seqs)
	}
}
