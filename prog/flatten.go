package prog

// Flatten rewrites the instruction graph's alternative chains into
// linear "lists", matching spec.md §4.3: starting from each root (the
// Fail instruction, Start, StartUnanchored, and every instruction reached
// as the successor of a ByteRange/Capture/EmptyWidth), walk the single-
// successor chain and mark the final instruction of each run with Last.
//
// Unlike RE2, which must physically relocate instructions because each
// subexpression's Frag was allocated from its own small arena, this
// compiler already emits directly into one contiguous Prog.Inst array
// (spec.md §9 "Cyclic instruction graph": integer indices into one
// array), so no instructions move and no Nop bridge instructions are
// needed — Flatten here only computes and records the Last boundaries a
// DFA state-construction walk (spec.md §4.4 step 3, "follow zero-width
// arrows to closure") can use to walk a contiguous run instead of
// re-deriving it from scratch. This makes the pass idempotent by
// construction: re-running it recomputes identical Last bits.
func Flatten(p *Prog) {
	for i := range p.Inst {
		p.Inst[i].Last = false
	}

	isRoot := make([]bool, len(p.Inst))
	isRoot[0] = true // Fail
	if p.Start < len(isRoot) {
		isRoot[p.Start] = true
	}
	if p.StartUnanchored < len(isRoot) {
		isRoot[p.StartUnanchored] = true
	}
	for _, inst := range p.Inst {
		switch inst.Op {
		case OpByteRange, OpCapture, OpEmptyWidth:
			if int(inst.Out) < len(isRoot) {
				isRoot[inst.Out] = true
			}
		}
	}

	for id, isR := range isRoot {
		if !isR {
			continue
		}
		cur := uint32(id)
		for steps := 0; steps < len(p.Inst)+1; steps++ {
			inst := &p.Inst[cur]
			if inst.Op == OpAlt || inst.Op == OpAltMatch || inst.Op == OpMatch || inst.Op == OpFail {
				inst.Last = true
				break
			}
			next := inst.Out
			if next == cur || (isRoot[next] && next != uint32(id)) {
				inst.Last = true
				break
			}
			cur = next
		}
	}
}
