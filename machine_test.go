package rekernel

import (
	"testing"

	"github.com/axrho/rekernel/internal/input"
)

func TestMatchStringLiteral(t *testing.T) {
	re := MustCompile(`hello`)
	if !re.MatchString("say hello world") {
		t.Fatal("expected a match")
	}
	if re.MatchString("goodbye") {
		t.Fatal("expected no match")
	}
}

func TestFindStringIndex(t *testing.T) {
	re := MustCompile(`\d+`)
	loc := re.FindStringIndex("order 4219 placed")
	if loc == nil {
		t.Fatal("expected a match")
	}
	if got := "order 4219 placed"[loc[0]:loc[1]]; got != "4219" {
		t.Errorf("FindStringIndex matched %q, want %q", got, "4219")
	}
}

func TestFindStringSubmatchIndex(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.com`)
	text := "contact: alice@example.com please"
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		t.Fatal("expected a match")
	}
	if got := text[loc[0]:loc[1]]; got != "alice@example.com" {
		t.Errorf("whole match = %q, want %q", got, "alice@example.com")
	}
	if got := text[loc[2]:loc[3]]; got != "alice" {
		t.Errorf("group 1 = %q, want %q", got, "alice")
	}
	if got := text[loc[4]:loc[5]]; got != "example" {
		t.Errorf("group 2 = %q, want %q", got, "example")
	}
}

func TestFindStringSubmatchIndexWithoutCaptureGroups(t *testing.T) {
	re := MustCompile(`\d+`)
	text := "order 4219 placed"
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		t.Fatal("expected a match even though the pattern has no capturing groups")
	}
	if len(loc) != 2 {
		t.Fatalf("FindStringSubmatchIndex = %v, want exactly the whole-match bounds [start,end]", loc)
	}
	if got := text[loc[0]:loc[1]]; got != "4219" {
		t.Errorf("whole match = %q, want %q", got, "4219")
	}
}

func TestFindStringIndexNoMatch(t *testing.T) {
	re := MustCompile(`zzz`)
	if loc := re.FindStringIndex("abc"); loc != nil {
		t.Errorf("FindStringIndex = %v, want nil", loc)
	}
}

func TestNumSubexp(t *testing.T) {
	re := MustCompile(`(a)(b(c))`)
	if got := re.NumSubexp(); got != 3 {
		t.Errorf("NumSubexp = %d, want 3", got)
	}
}

func TestCompilePOSIXLeftmostLongest(t *testing.T) {
	re, err := CompilePOSIX(`a|ab`)
	if err != nil {
		t.Fatalf("CompilePOSIX: %v", err)
	}
	loc := re.FindStringIndex("ab")
	if loc == nil || loc[1] != 2 {
		t.Errorf("POSIX leftmost-longest match of \"a|ab\" vs \"ab\" = %v, want [0,2]", loc)
	}
}

func TestCompileInvalidPatternErrors(t *testing.T) {
	if _, err := Compile(`a(`); err == nil {
		t.Fatal("expected a parse error for an unbalanced paren")
	}
}

func TestMustCompilePanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustCompile to panic on an invalid pattern")
		}
	}()
	MustCompile(`a(`)
}

func TestStringAndGoString(t *testing.T) {
	re := MustCompile(`ab+c`)
	if re.String() != `ab+c` {
		t.Errorf("String() = %q, want %q", re.String(), `ab+c`)
	}
	if re.GoString() == "" {
		t.Error("GoString() should not be empty")
	}
}

func TestMatchAnchorBoth(t *testing.T) {
	re := MustCompile(`abc`)
	in := input.String{S: "abcd"}
	if re.Match(in, 0, 4, AnchorBoth, nil) {
		t.Fatal("AnchorBoth should require the match to cover the whole searched range")
	}
	if !re.Match(in, 0, 3, AnchorBoth, nil) {
		t.Fatal("AnchorBoth should accept a match covering exactly the searched range")
	}
}
