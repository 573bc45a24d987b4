package dfa

import (
	"bytes"
	"testing"
)

func buildFwd(t *testing.T, pattern string) *DFA {
	t.Helper()
	fwd, _ := compileFwdRev(t, pattern, false)
	return fwd
}

func TestPossibleMatchRangeLiteral(t *testing.T) {
	d := buildFwd(t, "^abc$")
	min, max, exact := d.PossibleMatchRange(10)
	if !exact {
		t.Fatalf("a fixed literal should produce an exact range")
	}
	if !bytes.Equal(min, []byte("abc")) || !bytes.Equal(max, []byte("abc")) {
		t.Fatalf("PossibleMatchRange(^abc$) = [%q,%q], want [abc,abc]", min, max)
	}
}

func TestPossibleMatchRangeCharClass(t *testing.T) {
	d := buildFwd(t, "^[a-c]x$")
	min, max, exact := d.PossibleMatchRange(10)
	if !exact {
		t.Fatalf("expected an exact range for a bounded char class")
	}
	if !bytes.Equal(min, []byte("ax")) {
		t.Fatalf("min = %q, want %q", min, "ax")
	}
	if !bytes.Equal(max, []byte("cx")) {
		t.Fatalf("max = %q, want %q", max, "cx")
	}
}

func TestPossibleMatchRangeTruncatesAtMaxLen(t *testing.T) {
	d := buildFwd(t, "^a+$")
	_, max, exact := d.PossibleMatchRange(3)
	if exact {
		t.Fatalf("an unbounded repeat truncated at maxLen should not be reported exact")
	}
	if len(max) == 0 {
		t.Fatalf("expected a non-empty upper bound")
	}
}

func TestPrefixSuccessor(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"ab", "ac"},
		{"a\xff", "b"},
	}
	for _, c := range cases {
		got := prefixSuccessor([]byte(c.in))
		if string(got) != c.out {
			t.Errorf("prefixSuccessor(%q) = %q, want %q", c.in, got, c.out)
		}
	}
	if got := prefixSuccessor([]byte{0xff, 0xff}); got != nil {
		t.Errorf("prefixSuccessor(all-0xff) = %q, want nil", got)
	}
}
