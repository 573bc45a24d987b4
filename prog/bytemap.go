package prog

import "sort"

// bytemapBuilder colors the 256 byte values (plus the end-of-text
// sentinel, handled separately by the caller) into equivalence classes:
// two bytes end up in the same class iff every ByteRange and EmptyWidth
// instruction in the program treats them identically. See spec.md §4.1.
//
// Ported from the splay of RE2's ByteMapBuilder (original_source/re2/prog.cc);
// no Go example in the pack implements byte coloring, since the teacher
// compiles to rune-level instructions and never needed one.
type bytemapBuilder struct {
	colors []int // color per byte, 0..255
	nextColor int
	// splits marks byte positions that begin a new run of a single color.
	splits map[int]bool
}

func newBytemapBuilder() *bytemapBuilder {
	b := &bytemapBuilder{
		colors:    make([]int, 256),
		nextColor: 1, // color 0 is every byte no batch has marked
		splits:    map[int]bool{0: true},
	}
	return b
}

// mark records that [lo,hi] (inclusive, 0..255) must become one or more
// classes distinguishable from their neighbors. Multiple marks issued
// between calls to flush share a single new color per contiguous
// run, matching the "batching rule" of spec.md §4.1: adjacent ByteRange
// instructions with the same successor are expected to be pre-merged by
// the caller into one batch before calling mark repeatedly and then
// flush once.
type markBatch struct {
	b      *bytemapBuilder
	ranges [][2]int
}

func (b *bytemapBuilder) newBatch() *markBatch {
	return &markBatch{b: b}
}

func (m *markBatch) mark(lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi > 255 {
		hi = 255
	}
	if lo > hi {
		return
	}
	m.ranges = append(m.ranges, [2]int{lo, hi})
	if lo > 0 {
		m.b.splits[lo] = true
	}
	if hi+1 <= 255 {
		m.b.splits[hi+1] = true
	}
}

// flush recolors every byte touched by this batch's ranges, giving each
// old color one new color shared across all the ranges (so a class like
// [a-zA-Z] stays one class instead of splitting into per-range colors,
// while bytes that earlier batches told apart stay apart).
func (m *markBatch) flush() {
	if len(m.ranges) == 0 {
		return
	}
	b := m.b
	recolor := map[int]int{} // old color -> its new color in this batch
	for _, r := range m.ranges {
		for i := r[0]; i <= r[1]; i++ {
			old := b.colors[i]
			nc, ok := recolor[old]
			if !ok {
				nc = b.nextColor
				b.nextColor++
				recolor[old] = nc
			}
			b.colors[i] = nc
		}
	}
}

// renumber performs the final dense renumbering pass, assigning class ids
// 0..k-1 in ascending byte order, and returns the bytemap plus class
// count.
func (b *bytemapBuilder) renumber() ([256]uint8, int) {
	var order []int
	for i := 0; i < 256; i++ {
		order = append(order, b.colors[i])
	}
	// Stable dense remap: first color encountered (in byte order) becomes
	// class 0, etc.
	remap := map[int]int{}
	var bytemap [256]uint8
	next := 0
	for i := 0; i < 256; i++ {
		c := order[i]
		id, ok := remap[c]
		if !ok {
			id = next
			remap[c] = id
			next++
		}
		bytemap[i] = uint8(id)
	}
	return bytemap, next
}

// splitPoints returns the sorted byte offsets at which the color changes,
// purely for diagnostics (DumpByteMap); not required by renumber.
func (b *bytemapBuilder) splitPoints() []int {
	var pts []int
	for p := range b.splits {
		pts = append(pts, p)
	}
	sort.Ints(pts)
	return pts
}

// computeBytemap walks the finished instruction list, gathering every
// ByteRange (plus its case-folded pair) and every EmptyWidth's implied
// byte boundary set (newline for line anchors, word-class bytes for \b),
// batching adjacent ByteRange instructions that share a successor as the
// batching rule in spec.md §4.1 requires, then renumbers to a dense map.
func computeBytemap(insts []Inst) ([256]uint8, int) {
	b := newBytemapBuilder()

	// Batch adjacent ByteRange instructions sharing a successor: walk the
	// instruction array in order, and whenever a run of consecutive
	// ByteRange instructions all target the same Out, mark them as one
	// batch.
	i := 0
	for i < len(insts) {
		inst := insts[i]
		if inst.Op != OpByteRange {
			i++
			continue
		}
		j := i
		batch := b.newBatch()
		for j < len(insts) && insts[j].Op == OpByteRange && insts[j].Out == inst.Out {
			lo, hi := int(insts[j].Lo), int(insts[j].Hi)
			batch.mark(lo, hi)
			if insts[j].Fold {
				markFoldedPair(batch, lo, hi)
			}
			j++
		}
		batch.flush()
		i = j
	}

	// Each distinct EmptyWidth requirement is its own batch, emitted at
	// most once: line anchors split on '\n', word-boundary assertions
	// split on the ASCII word-character set.
	var sawLine, sawWord bool
	for _, inst := range insts {
		if inst.Op != OpEmptyWidth {
			continue
		}
		if !sawLine && inst.Empty&(EmptyBeginLine|EmptyEndLine) != 0 {
			sawLine = true
			batch := b.newBatch()
			batch.mark('\n', '\n')
			batch.flush()
		}
		if !sawWord && inst.Empty&(EmptyWordBoundary|EmptyNoWordBoundary) != 0 {
			sawWord = true
			batch := b.newBatch()
			batch.mark('0', '9')
			batch.mark('A', 'Z')
			batch.mark('a', 'z')
			batch.mark('_', '_')
			batch.flush()
		}
	}

	return b.renumber()
}

func markFoldedPair(batch *markBatch, lo, hi int) {
	// ASCII case folding only; add the paired range in the same batch.
	if lo >= 'a' && hi <= 'z' {
		batch.mark(lo-'a'+'A', hi-'a'+'A')
	} else if lo >= 'A' && hi <= 'Z' {
		batch.mark(lo-'A'+'a', hi-'A'+'a')
	}
}
