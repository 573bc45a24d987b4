package dfa

import (
	resyntax "regexp/syntax"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/axrho/rekernel/internal/bitstate"
	"github.com/axrho/rekernel/internal/input"
	"github.com/axrho/rekernel/prog"
)

// TestExhaustiveAgainstBitState cross-checks the two-DFA leftmost search
// against the bounded backtracker (internal/bitstate) over a battery of
// patterns and strings, the way the teacher's dfa_exhaustive_test.go cross-
// checked its DFA against RE2's own golden corpus (testdata/re2-*.txt, not
// present in this pack — see DESIGN.md). The oracle here is this module's
// own independently-implemented engine rather than an external corpus, but
// the principle — two differently-shaped implementations of the same
// semantics must agree on every case — is the same.
func TestExhaustiveAgainstBitState(t *testing.T) {
	patterns := []string{
		"a", "a*", "a+", "a?", "a|b", "ab*c", "(a|b)+", "^abc$", "a.c",
		"[a-c]+", `\bcat\b`, "(a)(b)?", "a{2,3}", ".*",
	}
	texts := []string{
		"", "a", "b", "abc", "xabcx", "aaa", "aabbcc", "cat", "concatenate cat",
	}

	for _, pattern := range patterns {
		re, err := resyntax.Parse(pattern, resyntax.Perl)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pattern, err)
		}
		re = re.Simplify()
		p, err := prog.Compile(re, prog.CompileOptions{MaxMem: 1 << 20})
		if err != nil {
			t.Fatalf("Compile(%q): %v", pattern, err)
		}
		rp, err := prog.CompileReversed(re, 1<<20, 0)
		if err != nil {
			t.Fatalf("CompileReversed(%q): %v", pattern, err)
		}
		fwd := New(p, FirstMatch, true, 0)
		rev := New(rp, LongestMatch, false, 0)

		for _, text := range texts {
			in := input.String{S: text}

			dfaSpan, dfaOK := Search(fwd, rev, in, 0, len(text), false)

			var bsSpan []int
			cap := make([]int, 2)
			bsOK, err := bitstate.Search(p, in, 0, len(text), false, cap)
			if err == nil && bsOK {
				bsSpan = []int{cap[0], cap[1]}
			}
			// BitState here is anchored at a fixed start (0), so it only
			// agrees with the DFA's unanchored search when the leftmost
			// match itself starts at 0; skip cases where it doesn't, since
			// this oracle isn't built to rescan every start position.
			if bsOK && cap[0] != 0 {
				continue
			}

			if dfaOK != bsOK {
				t.Errorf("pattern %q, text %q: DFA matched=%v, BitState(anchored@0) matched=%v", pattern, text, dfaOK, bsOK)
				continue
			}
			if dfaOK && dfaSpan.Start == 0 {
				got := []int{dfaSpan.Start, dfaSpan.End}
				if diff := cmp.Diff(bsSpan, got); diff != "" {
					t.Errorf("pattern %q, text %q: DFA vs BitState span mismatch (-bitstate +dfa):\n%s", pattern, text, diff)
				}
			}
		}
	}
}
