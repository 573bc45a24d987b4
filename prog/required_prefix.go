package prog

// RequiredPrefix and RequiredPrefixForAccel are two distinct contracts
// (spec.md §9 Open Question: "the relationship... treat them as distinct
// contracts"). Both walk the chain of single-byte, unfolded ByteRange
// instructions starting at p.Start, stopping at the first Alt/Capture/
// EmptyWidth/Match/branch.
//
//   - RequiredPrefix additionally returns the instruction id the engine
//     should resume at after consuming the prefix — the byte-program
//     analogue of RE2's "continuation Regexp", since this module's
//     contract operates on compiled Prog rather than the syntax tree.
//   - RequiredPrefixForAccel returns only the prefix bytes, for callers
//     that just want to drive a literal scanner ahead of the engines
//     (internal/accel, internal/prefilter) and have no use for a resume
//     point.
func (p *Prog) RequiredPrefix() (prefix []byte, contState int, ok bool) {
	if p.AnchorStart {
		return p.requiredPrefixFrom(p.Start)
	}
	return nil, 0, false
}

func (p *Prog) RequiredPrefixForAccel() (prefix []byte, ok bool) {
	b, _, ok := p.requiredPrefixFrom(p.Start)
	return b, ok
}

func (p *Prog) requiredPrefixFrom(start int) ([]byte, int, bool) {
	var out []byte
	cur := start
	for {
		if cur < 0 || cur >= len(p.Inst) {
			break
		}
		inst := p.Inst[cur]
		if inst.Op != OpByteRange || inst.Lo != inst.Hi || inst.Fold {
			break
		}
		out = append(out, inst.Lo)
		cur = int(inst.Out)
	}
	if len(out) == 0 {
		return nil, 0, false
	}
	return out, cur, true
}
