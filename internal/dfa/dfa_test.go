package dfa

import (
	resyntax "regexp/syntax"
	"testing"

	"github.com/axrho/rekernel/internal/input"
	"github.com/axrho/rekernel/prog"
)

func compileFwdRev(t *testing.T, pattern string, longest bool) (*DFA, *DFA) {
	t.Helper()
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
	kind := FirstMatch
	if longest {
		kind = LongestMatch
	}
	fwd := New(p, kind, true, 0)
	rev := New(rp, LongestMatch, false, 0)
	return fwd, rev
}

func search(t *testing.T, pattern, text string) (int, int, bool) {
	t.Helper()
	fwd, rev := compileFwdRev(t, pattern, false)
	res, ok := Search(fwd, rev, input.String{S: text}, 0, len(text), false)
	if !ok {
		return 0, 0, false
	}
	return res.Start, res.End, true
}

func TestSearchFindsLeftmostMatch(t *testing.T) {
	cases := []struct {
		pattern, text    string
		start, end int
		ok               bool
	}{
		{"abc", "xxabcxx", 2, 5, true},
		{"a+", "baaab", 1, 4, true},
		{"^abc", "xabc", 0, 0, false},
		{"^abc", "abcx", 0, 3, true},
		{"abc$", "xabc", 1, 4, true},
		{"xyz", "abc", 0, 0, false},
	}
	for _, c := range cases {
		start, end, ok := search(t, c.pattern, c.text)
		if ok != c.ok {
			t.Errorf("search(%q, %q) ok = %v, want %v", c.pattern, c.text, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if start != c.start || end != c.end {
			t.Errorf("search(%q, %q) = [%d,%d), want [%d,%d)", c.pattern, c.text, start, end, c.start, c.end)
		}
	}
}

func TestLeftmostFirstPrefersEarlierAlternative(t *testing.T) {
	// Leftmost-first (Perl) semantics: "a|ab" against "ab" matches "a",
	// not the longer "ab", because the first alternative wins.
	start, end, ok := search(t, "a|ab", "ab")
	if !ok {
		t.Fatal("expected a match")
	}
	if start != 0 || end != 1 {
		t.Errorf("leftmost-first \"a|ab\" vs \"ab\" = [%d,%d), want [0,1)", start, end)
	}
}

func TestLeftmostLongestPrefersLongerAlternative(t *testing.T) {
	re, err := resyntax.Parse("a|ab", resyntax.POSIX)
	if err != nil {
		t.Fatal(err)
	}
	re = re.Simplify()
	p, err := prog.Compile(re, prog.CompileOptions{MaxMem: 1 << 20})
	if err != nil {
		t.Fatal(err)
	}
	rp, err := prog.CompileReversed(re, 1<<20, 0)
	if err != nil {
		t.Fatal(err)
	}
	fwd := New(p, LongestMatch, true, 0)
	rev := New(rp, LongestMatch, false, 0)
	res, ok := Search(fwd, rev, input.String{S: "ab"}, 0, 2, false)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.Start != 0 || res.End != 2 {
		t.Errorf("leftmost-longest \"a|ab\" vs \"ab\" = [%d,%d), want [0,2)", res.Start, res.End)
	}
}

func TestAnchoredSearchRejectsNonPrefixMatch(t *testing.T) {
	fwd, rev := compileFwdRev(t, "abc", false)
	if _, ok := Search(fwd, rev, input.String{S: "xabc"}, 0, 4, true); ok {
		t.Fatal("anchored search should not match when the pattern isn't at position 0")
	}
	if _, ok := Search(fwd, rev, input.String{S: "abcx"}, 0, 4, true); !ok {
		t.Fatal("anchored search should match a pattern starting at position 0")
	}
}

func TestWordBoundaryAssertion(t *testing.T) {
	start, end, ok := search(t, `\bcat\b`, "concatenate cat dog")
	if !ok {
		t.Fatal("expected a match")
	}
	if start != 12 || end != 15 {
		t.Errorf(`\bcat\b in "concatenate cat dog" = [%d,%d), want [12,15)`, start, end)
	}
}

func TestWordBoundaryAtTextEndDoesNotOverrun(t *testing.T) {
	// a\b against "a": the word boundary only resolves once the
	// EndOfText sentinel is consumed, but the reported match must still
	// land within [0, len(text)], never past it.
	start, end, ok := search(t, `a\b`, "a")
	if !ok {
		t.Fatal("expected a match")
	}
	if start != 0 || end != 1 {
		t.Errorf(`a\b in "a" = [%d,%d), want [0,1)`, start, end)
	}
}

func TestEndTextAnchorRejectsMatchNotAtTrueEnd(t *testing.T) {
	// "abc$" must not match the "abc" prefix of "abcxyz": there is more
	// text after it, so the end anchor fails.
	if _, _, ok := search(t, "abc$", "abcxyz"); ok {
		t.Fatal(`"abc$" should not match within "abcxyz"`)
	}
}

func TestEndTextAnchorFindsLastOccurrence(t *testing.T) {
	// "a$" against "aa": the first "a" doesn't reach the text's end, but
	// the second one does, and that's the one that must be reported.
	start, end, ok := search(t, "a$", "aa")
	if !ok {
		t.Fatal(`expected "a$" to match the trailing "a" in "aa"`)
	}
	if start != 1 || end != 2 {
		t.Errorf(`"a$" in "aa" = [%d,%d), want [1,2)`, start, end)
	}
}

func TestMatchAnyAccumulatesAllPatterns(t *testing.T) {
	re1, _ := resyntax.Parse("foo", resyntax.Perl)
	re2, _ := resyntax.Parse("bar", resyntax.Perl)
	p, err := prog.CompileSet([]*resyntax.Regexp{re1.Simplify(), re2.Simplify()}, prog.CompileOptions{MaxMem: 1 << 20})
	if err != nil {
		t.Fatal(err)
	}
	d := New(p, ManyMatch, true, 0)
	ids := d.MatchAny(input.String{S: "xxfooxxbarxx"}, 0, len("xxfooxxbarxx"))
	seen := map[int32]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("MatchAny = %v, want both pattern ids 0 and 1 present", ids)
	}
}

func TestMatchAnyEmptyWhenNothingMatches(t *testing.T) {
	re1, _ := resyntax.Parse("zzz", resyntax.Perl)
	p, err := prog.CompileSet([]*resyntax.Regexp{re1.Simplify()}, prog.CompileOptions{MaxMem: 1 << 20})
	if err != nil {
		t.Fatal(err)
	}
	d := New(p, ManyMatch, true, 0)
	ids := d.MatchAny(input.String{S: "abc"}, 0, 3)
	if len(ids) != 0 {
		t.Fatalf("MatchAny = %v, want none", ids)
	}
}

func TestStartStateIsCachedAcrossCalls(t *testing.T) {
	fwd, _ := compileFwdRev(t, "abc", false)
	s1 := fwd.startState(startBeginText, false)
	s2 := fwd.startState(startBeginText, false)
	if s1 != s2 {
		t.Fatal("startState should return the same cached *State for the same flavor")
	}
}
