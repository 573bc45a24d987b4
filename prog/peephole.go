package prog

// Peephole runs the nop-elision and AltMatch-rewrite passes over p in
// place (spec.md §4.3). It is idempotent: a second call observes no Nop
// successors left to skip and no Alt shaped like an AltMatch candidate
// that hasn't already been rewritten.
func Peephole(p *Prog) {
	elideNops(p)
	rewriteAltMatch(p)
}

// elideNops rewrites every successor pointer to skip runs of Nop
// instructions, following the chain to the first non-Nop (or to a Nop
// that is its own successor, to avoid an infinite loop on a
// degenerate/cyclic program).
func elideNops(p *Prog) {
	skip := func(id uint32) uint32 {
		seen := map[uint32]bool{}
		for int(id) < len(p.Inst) && p.Inst[id].Op == OpNop && !seen[id] {
			seen[id] = true
			next := p.Inst[id].Out
			if next == id {
				break
			}
			id = next
		}
		return id
	}
	for i := range p.Inst {
		inst := &p.Inst[i]
		switch inst.Op {
		case OpAlt, OpAltMatch:
			inst.Out = skip(inst.Out)
			inst.Out1 = skip(inst.Out1)
		case OpByteRange, OpCapture, OpEmptyWidth, OpNop:
			inst.Out = skip(inst.Out)
		}
	}
	p.Start = int(skip(uint32(p.Start)))
	p.StartUnanchored = int(skip(uint32(p.StartUnanchored)))
}

// rewriteAltMatch recognizes Alt(j,k) where one arm is a guaranteed Match
// (reached through only Capture/Nop, no byte consumed) and the other is a
// ByteRange 0x00-0xFF instruction whose own successor is the Alt itself —
// the compiled shape of an unanchored `.*` loop. The DFA uses the
// resulting AltMatch opcode as a fast termination oracle (spec.md §4.3).
func rewriteAltMatch(p *Prog) {
	isGuaranteedMatch := func(id uint32) bool {
		seen := map[uint32]bool{}
		for int(id) < len(p.Inst) && !seen[id] {
			seen[id] = true
			inst := p.Inst[id]
			switch inst.Op {
			case OpMatch:
				return true
			case OpNop, OpCapture:
				id = inst.Out
			default:
				return false
			}
		}
		return false
	}
	isSelfDotLoop := func(altID, branch uint32) bool {
		inst := p.Inst[branch]
		return inst.Op == OpByteRange && inst.Lo == 0x00 && inst.Hi == 0xFF && inst.Out == altID
	}
	for i := range p.Inst {
		inst := &p.Inst[i]
		if inst.Op != OpAlt {
			continue
		}
		id := uint32(i)
		switch {
		case isSelfDotLoop(id, inst.Out) && isGuaranteedMatch(inst.Out1):
			inst.Op = OpAltMatch
		case isSelfDotLoop(id, inst.Out1) && isGuaranteedMatch(inst.Out):
			inst.Op = OpAltMatch
		}
	}
}
