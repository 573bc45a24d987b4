package prog

import (
	resyntax "regexp/syntax"
	"strings"
	"testing"
)

func mustParse(t *testing.T, pattern string) *resyntax.Regexp {
	t.Helper()
	re, err := resyntax.Parse(pattern, resyntax.Perl)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return re.Simplify()
}

func mustCompile(t *testing.T, pattern string) *Prog {
	t.Helper()
	p, err := Compile(mustParse(t, pattern), CompileOptions{MaxMem: 1 << 20})
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return p
}

// dumpLines strips blank trailing lines so golden comparisons don't care
// about a final newline.
func dumpLines(p *Prog) []string {
	d := p.Dump()
	return strings.Split(strings.TrimRight(d, "\n"), "\n")
}

func TestCompileLiteralByte(t *testing.T) {
	p := mustCompile(t, "a")
	lines := dumpLines(p)
	var sawByte, sawMatch bool
	for _, l := range lines {
		if strings.Contains(l, "byte [61-61]") {
			sawByte = true
		}
		if strings.Contains(l, "match! 0") {
			sawMatch = true
		}
	}
	if !sawByte {
		t.Errorf("expected a byte [61-61] instruction in dump, got:\n%s", p.Dump())
	}
	if !sawMatch {
		t.Errorf("expected a match! 0 instruction in dump, got:\n%s", p.Dump())
	}
}

func TestCompileAnchors(t *testing.T) {
	p := mustCompile(t, "^abc$")
	if !p.AnchorStart || !p.AnchorEnd {
		t.Fatalf("AnchorStart/AnchorEnd = %v/%v, want true/true", p.AnchorStart, p.AnchorEnd)
	}
}

func TestCompileNumCapFlooredToTwoWithoutGroups(t *testing.T) {
	p := mustCompile(t, "abc")
	if p.NumCap != 2 {
		t.Errorf("NumCap = %d, want 2 (the whole-match slots, even with no capturing groups)", p.NumCap)
	}
}

func TestCompileUnanchoredStartDiffersFromAnchored(t *testing.T) {
	p := mustCompile(t, "abc")
	if p.AnchorStart {
		t.Fatalf("expected unanchored compile of \"abc\"")
	}
	if p.Start == p.StartUnanchored {
		t.Fatalf("Start and StartUnanchored should differ for an unanchored pattern")
	}
}

func TestCompileAlternation(t *testing.T) {
	p := mustCompile(t, "a|b")
	var sawAlt bool
	for _, inst := range p.Inst {
		if inst.Op == OpAlt || inst.Op == OpAltMatch {
			sawAlt = true
		}
	}
	if !sawAlt {
		t.Fatalf("expected an Alt/AltMatch instruction for \"a|b\", got:\n%s", p.Dump())
	}
}

func TestCompileCaptureGroups(t *testing.T) {
	p := mustCompile(t, "(a)(b)")
	if got, want := p.NumCap, 2*(2+1); got != want {
		t.Fatalf("NumCap = %d, want %d", got, want)
	}
	var caps []int32
	for _, inst := range p.Inst {
		if inst.Op == OpCapture {
			caps = append(caps, inst.Cap)
		}
	}
	if len(caps) != 4 { // two groups, (2,3) and (4,5); slot 0/1 is the whole match and is never a Capture instruction
		t.Fatalf("found %d capture instructions, want 4; caps=%v", len(caps), caps)
	}
}

func TestCompileOutOfMemory(t *testing.T) {
	_, err := Compile(mustParse(t, strings.Repeat("a", 5000)), CompileOptions{MaxMem: sizeofProg + 4*sizeofInst})
	if err == nil {
		t.Fatalf("expected ErrCompileOutOfMemory for a tiny budget")
	}
	var ce *CompileError
	if !asCompileError(err, &ce) {
		t.Fatalf("error is not *CompileError: %v", err)
	}
}

func asCompileError(err error, target **CompileError) bool {
	ce, ok := err.(*CompileError)
	if ok {
		*target = ce
	}
	return ok
}

func TestCompileSetAssignsDistinctMatchIDs(t *testing.T) {
	p, err := CompileSet([]*resyntax.Regexp{mustParse(t, "foo"), mustParse(t, "bar")}, CompileOptions{MaxMem: 1 << 20})
	if err != nil {
		t.Fatalf("CompileSet: %v", err)
	}
	ids := map[int32]bool{}
	for _, inst := range p.Inst {
		if inst.Op == OpMatch {
			ids[inst.MatchID] = true
		}
	}
	if !ids[0] || !ids[1] {
		t.Fatalf("expected match ids {0,1}, got %v", ids)
	}
}

func TestCaseFoldedByteRange(t *testing.T) {
	p := mustCompile(t, "(?i)a")
	var found bool
	for _, inst := range p.Inst {
		if inst.Op == OpByteRange && inst.Fold {
			found = true
			if !inst.MatchByte('A') || !inst.MatchByte('a') {
				t.Errorf("folded byte range should match both cases")
			}
		}
	}
	if !found {
		t.Fatalf("expected a folded ByteRange instruction for (?i)a, got:\n%s", p.Dump())
	}
}

func TestDumpByteMapMonotone(t *testing.T) {
	p := mustCompile(t, "[a-z]+")
	lines := strings.Split(strings.TrimRight(p.DumpByteMap(), "\n"), "\n")
	if len(lines) == 0 {
		t.Fatal("empty byte map dump")
	}
}
