package prog

import "testing"

func TestBytemapMergesEquivalentBytes(t *testing.T) {
	p := mustCompile(t, "[a-z]+")
	bm := p.Bytemap
	class := bm['a']
	for c := byte('a'); c <= 'z'; c++ {
		if bm[c] != class {
			t.Fatalf("byte %q got class %d, want %d (same class as 'a')", c, bm[c], class)
		}
	}
	if bm['A'] == class {
		t.Fatalf("byte 'A' should not share a-z's class, both got %d", class)
	}
}

func TestBytemapFoldedClassesMatchBothCases(t *testing.T) {
	p := mustCompile(t, "(?i)[a-z]+")
	bm := p.Bytemap
	if bm['a'] != bm['A'] {
		t.Fatalf("case-insensitive [a-z] should put 'a' and 'A' in the same class, got %d vs %d", bm['a'], bm['A'])
	}
}

func TestBytemapClassCountIsDense(t *testing.T) {
	p := mustCompile(t, "[a-z0-9_]+")
	max := uint8(0)
	for _, c := range p.Bytemap {
		if c > max {
			max = c
		}
	}
	if int(max)+1 != p.BytemapRange {
		t.Fatalf("max class %d+1 != BytemapRange %d", max, p.BytemapRange)
	}
}

func TestRenumberIsStableByByteOrder(t *testing.T) {
	b := newBytemapBuilder()
	batch := b.newBatch()
	batch.mark('z', 'z')
	batch.flush()
	batch2 := b.newBatch()
	batch2.mark('a', 'a')
	batch2.flush()
	bm, n := b.renumber()
	if n < 3 {
		t.Fatalf("expected at least 3 classes (default + 'a' + 'z'), got %d", n)
	}
	if bm['a'] == bm['z'] {
		t.Fatalf("'a' and 'z' marked in separate batches should land in different classes")
	}
	if bm[0] >= bm['a'] && bm[0] != 0 {
		t.Fatalf("first byte seen in order should get the lowest class id")
	}
}
