package prog

// charClassFrag compiles a sorted list of inclusive rune-range pairs
// (ranges[2i], ranges[2i+1]) into a fragment. All alternatives funnel into
// one shared "join" Nop instruction, which lets common trailing UTF-8
// continuation bytes across different ranges share instructions via the
// suffix cache (spec.md §4.2) — the cache is reset first, since the join
// id is new to this class and any stale entries would point past it.
func (c *compiler) charClassFrag(ranges []rune, fold bool) frag {
	if len(ranges) == 0 {
		id := c.emit(Inst{Op: OpFail})
		return frag{i: id}
	}
	c.suf.reset()
	join := c.emit(Inst{Op: OpNop})

	pairs := foldOptimizeASCII(ranges)

	latin1 := c.p.Flags&FlagLatin1 != 0
	var entries []uint32
	for _, pr := range pairs {
		lo, hi, rangeFold := pr.lo, pr.hi, pr.fold || fold
		if latin1 {
			if lo > 255 {
				continue
			}
			if hi > 255 {
				hi = 255
			}
			entries = append(entries, c.cachedByteChain([]utf8Sequence{{{byteRange{uint8(lo), uint8(hi)}}}}, join, rangeFold)...)
			continue
		}
		seqs := splitRuneRange(lo, hi)
		entries = append(entries, c.cachedByteChain(seqs, join, rangeFold)...)
	}

	if len(entries) == 0 {
		return frag{i: join, out: mkPatch(join, 0), nullable: false}
	}
	top := entries[len(entries)-1]
	for i := len(entries) - 2; i >= 0; i-- {
		top = c.emit(Inst{Op: OpAlt, Out: entries[i], Out1: top})
	}
	return frag{i: top, out: mkPatch(join, 0), nullable: false}
}

// cachedByteChain builds, for every utf8Sequence in seqs, a chain of
// ByteRange instructions ending at the known successor "join" (for the
// sequence's last byte) and returns the entry instruction id of each
// chain. Only the ASCII-fold flag applies, and only to single-byte
// (Latin-1-length) sequences, per spec.md §8 "Case-folding applies only
// to ASCII letters".
func (c *compiler) cachedByteChain(seqs []utf8Sequence, join uint32, fold bool) []uint32 {
	var out []uint32
	for _, seq := range seqs {
		succ := join
		for i := len(seq) - 1; i >= 0; i-- {
			br := seq[i][0] // byte-decomposition never needs multiple alternative byteRanges per position here
			useFold := fold && len(seq) == 1
			if id, ok := c.suf.lookup(succ, br.lo, br.hi, useFold); ok {
				succ = id
				continue
			}
			id := c.emit(Inst{Op: OpByteRange, Lo: br.lo, Hi: br.hi, Fold: useFold, Out: succ})
			c.suf.insert(succ, br.lo, br.hi, useFold, id)
			succ = id
		}
		out = append(out, succ)
	}
	return out
}

type foldedRange struct {
	lo, hi rune
	fold   bool
}

// foldOptimizeASCII collapses whole-range ASCII upper/lower pairs (e.g.
// both [A-Z] and [a-z] present) into a single lowercase range with the
// ASCII-fold flag set, per spec.md §4.2's "saving roughly one instruction
// per letter" optimization. Partial overlaps are left unmerged — a
// conservative simplification noted in DESIGN.md.
func foldOptimizeASCII(ranges []rune) []foldedRange {
	var pairs [][2]rune
	for i := 0; i+1 < len(ranges); i += 2 {
		pairs = append(pairs, [2]rune{ranges[i], ranges[i+1]})
	}
	used := make([]bool, len(pairs))
	var out []foldedRange
	for i, p := range pairs {
		if used[i] {
			continue
		}
		if p[0] < 'a' || p[1] > 'z' {
			out = append(out, foldedRange{p[0], p[1], false})
			continue
		}
		upLo, upHi := p[0]-'a'+'A', p[1]-'a'+'A'
		merged := false
		for j := i + 1; j < len(pairs); j++ {
			if used[j] {
				continue
			}
			if pairs[j][0] == upLo && pairs[j][1] == upHi {
				used[j] = true
				out = append(out, foldedRange{p[0], p[1], true})
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, foldedRange{p[0], p[1], false})
		}
	}
	return out
}

// literalFrag compiles an exact rune sequence (spec.md data model
// "Literal, LiteralString"). Reversed compilation reverses rune order
// (and, within each multi-byte rune, byte order) so the reverse program
// consumes input right-to-left.
func (c *compiler) literalFrag(runes []rune, fold bool) frag {
	if len(runes) == 0 {
		return c.nopFrag()
	}
	order := runes
	if c.reversed {
		order = make([]rune, len(runes))
		for i, r := range runes {
			order[len(runes)-1-i] = r
		}
	}
	var f frag
	for i, r := range order {
		rf := c.runeFrag(r, fold)
		if i == 0 {
			f = rf
			continue
		}
		f = c.concat2(f, rf)
	}
	return f
}

// runeFrag compiles one rune into its byte-chain fragment, honoring
// reversed byte order within the rune's own UTF-8 encoding.
func (c *compiler) runeFrag(r rune, fold bool) frag {
	latin1 := c.p.Flags&FlagLatin1 != 0
	var bs []byte
	if latin1 {
		bs = []byte{byte(r)}
	} else {
		var buf [4]byte
		n := encodeRune(buf[:], r)
		bs = append([]byte(nil), buf[:n]...)
	}
	if c.reversed {
		for i, j := 0, len(bs)-1; i < j; i, j = i+1, j-1 {
			bs[i], bs[j] = bs[j], bs[i]
		}
	}
	useFold := fold && len(bs) == 1
	var f frag
	for i, b := range bs {
		bf := c.byteRangeFrag(b, b, useFold && i == 0)
		if i == 0 {
			f = bf
			continue
		}
		f = c.concat2(f, bf)
	}
	return f
}

// anyCharFrag compiles "." — any valid rune, excluding '\n' unless
// includeNL (DotNL flag) is set.
func (c *compiler) anyCharFrag(includeNL bool) frag {
	max := rune(0x10FFFF)
	if c.p.Flags&FlagLatin1 != 0 {
		max = 0xFF
	}
	if c.p.Flags&FlagNeverNL == 0 && (includeNL || c.p.Flags&FlagDotNL != 0) {
		return c.charClassFrag([]rune{0, max}, false)
	}
	return c.charClassFrag([]rune{0, '\n' - 1, '\n' + 1, max}, false)
}
