package prog

import "testing"

func TestFoldOptimizeASCIIMergesUpperLower(t *testing.T) {
	out := foldOptimizeASCII([]rune{'a', 'z', 'A', 'Z'})
	if len(out) != 1 {
		t.Fatalf("expected a-z and A-Z to merge into one folded range, got %d entries: %+v", len(out), out)
	}
	if !out[0].fold {
		t.Fatalf("merged range should carry the fold flag")
	}
	if out[0].lo != 'a' || out[0].hi != 'z' {
		t.Fatalf("merged range = [%c-%c], want [a-z]", out[0].lo, out[0].hi)
	}
}

func TestFoldOptimizeASCIILeavesUnmatchedAlone(t *testing.T) {
	out := foldOptimizeASCII([]rune{'a', 'm'})
	if len(out) != 1 || out[0].fold {
		t.Fatalf("a-m with no matching A-M should stay unfolded: %+v", out)
	}
}

func TestCompileSuffixSharingForCharClass(t *testing.T) {
	// A 3-byte-UTF-8 class spanning many lead bytes shares the same
	// continuation-byte suffix chain; verify the program is smaller than
	// one without any sharing would be (a loose but meaningful bound).
	p := mustCompile(t, `[\x{0800}-\x{ffff}]`)
	if len(p.Inst) == 0 {
		t.Fatal("empty program")
	}
	if len(p.Inst) > 64 {
		t.Errorf("expected the suffix cache to keep a wide 3-byte class compact, got %d instructions", len(p.Inst))
	}
}

func TestAnyCharExcludesNewlineByDefault(t *testing.T) {
	// Anchored, so the program has no unanchored-prefix loop (whose
	// 0x00-0xFF byte range matches '\n' in every unanchored program).
	p := mustCompile(t, "^.")
	var matchesNL bool
	for _, inst := range p.Inst {
		if inst.Op == OpByteRange && inst.MatchByte('\n') {
			matchesNL = true
		}
	}
	if matchesNL {
		t.Fatalf("\".\" should not match '\\n' without the s flag")
	}
}

func TestAnyCharWithDotNLIncludesNewline(t *testing.T) {
	p := mustCompile(t, "(?s).")
	var matchesNL bool
	for _, inst := range p.Inst {
		if inst.Op == OpByteRange && inst.MatchByte('\n') {
			matchesNL = true
		}
	}
	if !matchesNL {
		t.Fatalf("\"(?s).\" should match '\\n'")
	}
}
