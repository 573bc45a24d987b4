package prog

import (
	resyntax "regexp/syntax"
)

// compileTree performs an iterative post-order walk of re, building one
// frag per subtree (spec.md §9 "Post-order walker": an explicit stack of
// frames, each carrying the child fragments collected so far, instead of
// recursive Pre/PostVisit dispatch).
func (c *compiler) compileTree(re *resyntax.Regexp) frag {
	type stackFrame struct {
		re   *resyntax.Regexp
		kids []frag
		idx  int
	}

	stack := []*stackFrame{{re: re}}
	var result frag
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx < len(top.re.Sub) {
			child := top.re.Sub[top.idx]
			top.idx++
			stack = append(stack, &stackFrame{re: child})
			continue
		}

		f := c.combine(top.re, top.kids)
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			result = f
			break
		}
		if c.failed {
			return frag{}
		}
		parent := stack[len(stack)-1]
		parent.kids = append(parent.kids, f)
	}
	return result
}

// combine builds the fragment for a single node given its already-compiled
// children (post-order: children are fully built fragments with dangling
// outs, not yet patched to this node's continuation).
func (c *compiler) combine(re *resyntax.Regexp, kids []frag) frag {
	if c.failed {
		return frag{}
	}
	switch re.Op {
	case resyntax.OpNoMatch:
		id := c.emit(Inst{Op: OpFail})
		return frag{i: id}

	case resyntax.OpEmptyMatch:
		return c.nopFrag()

	case resyntax.OpLiteral:
		return c.literalFrag(re.Rune, re.Flags&resyntax.FoldCase != 0)

	case resyntax.OpCharClass:
		return c.charClassFrag(re.Rune, re.Flags&resyntax.FoldCase != 0)

	case resyntax.OpAnyCharNotNL:
		return c.anyCharFrag(false)

	case resyntax.OpAnyChar:
		return c.anyCharFrag(true)

	case resyntax.OpBeginLine:
		return c.emptyWidthFrag(EmptyBeginLine)
	case resyntax.OpEndLine:
		return c.emptyWidthFrag(EmptyEndLine)
	case resyntax.OpBeginText:
		return c.emptyWidthFrag(EmptyBeginText)
	case resyntax.OpEndText:
		return c.emptyWidthFrag(EmptyEndText)
	case resyntax.OpWordBoundary:
		return c.emptyWidthFrag(EmptyWordBoundary)
	case resyntax.OpNoWordBoundary:
		return c.emptyWidthFrag(EmptyNoWordBoundary)

	case resyntax.OpCapture:
		return c.captureFrag(kids[0], int32(re.Cap))

	case resyntax.OpStar:
		return c.star(kids[0], re.Flags&resyntax.NonGreedy != 0)
	case resyntax.OpPlus:
		return c.plus(kids[0], re.Flags&resyntax.NonGreedy != 0)
	case resyntax.OpQuest:
		return c.quest(kids[0], re.Flags&resyntax.NonGreedy != 0)

	case resyntax.OpRepeat:
		// Repeat(min,max) is removed by simplification upstream
		// (spec.md §3); if it reaches the compiler, expand it here so the
		// compiler still tolerates an unsimplified tree.
		return c.repeat(kids[0], re, re.Flags&resyntax.NonGreedy != 0)

	case resyntax.OpConcat:
		return c.concatAll(kids)

	case resyntax.OpAlternate:
		return c.alt(kids)

	default:
		c.failed = true
		return frag{}
	}
}

func (c *compiler) nopFrag() frag {
	id := c.emit(Inst{Op: OpNop})
	return frag{i: id, out: mkPatch(id, 0), nullable: true}
}

func (c *compiler) emptyWidthFrag(op EmptyOp) frag {
	id := c.emit(Inst{Op: OpEmptyWidth, Empty: op})
	return frag{i: id, out: mkPatch(id, 0), nullable: true}
}

// byteRangeFrag emits (or reuses, via the suffix cache) a single
// ByteRange instruction with a dangling Out.
func (c *compiler) byteRangeFrag(lo, hi uint8, fold bool) frag {
	id := c.emit(Inst{Op: OpByteRange, Lo: lo, Hi: hi, Fold: fold})
	return frag{i: id, out: mkPatch(id, 0)}
}

// concat2 patches f1's dangling outs to f2's entry.
func (c *compiler) concat2(f1, f2 frag) frag {
	if c.failed {
		return frag{}
	}
	c.patch(f1.out, f2.i)
	return frag{i: f1.i, out: f2.out, nullable: f1.nullable && f2.nullable}
}

// concatAll concatenates kids in program order; reversed compilation
// walks them back-to-front so the reverse program consumes input
// right-to-left (spec.md §4.2 "reversed flips concatenation order").
func (c *compiler) concatAll(kids []frag) frag {
	if len(kids) == 0 {
		return c.nopFrag()
	}
	order := kids
	if c.reversed {
		order = make([]frag, len(kids))
		for i, f := range kids {
			order[len(kids)-1-i] = f
		}
	}
	f := order[0]
	for _, next := range order[1:] {
		f = c.concat2(f, next)
	}
	return f
}

// alt unions the dangling-out lists of all kids behind one Alt chain
// (spec.md §4.2 "Alternation allocates an Alt and unions the dangling-out
// lists").
func (c *compiler) alt(kids []frag) frag {
	if len(kids) == 0 {
		return c.nopFrag()
	}
	f := kids[len(kids)-1]
	for i := len(kids) - 2; i >= 0; i-- {
		left := kids[i]
		id := c.emit(Inst{Op: OpAlt, Out: left.i, Out1: f.i})
		f = frag{i: id, out: c.append(left.out, f.out), nullable: left.nullable || f.nullable}
	}
	return f
}

// altAll builds a Alt chain over already-terminated entries (no dangling
// outs), used by CompileSet to union whole compiled patterns.
func (c *compiler) altAll(frags []frag) uint32 {
	if len(frags) == 0 {
		return c.emit(Inst{Op: OpFail})
	}
	id := frags[len(frags)-1].i
	for i := len(frags) - 2; i >= 0; i-- {
		id = c.emit(Inst{Op: OpAlt, Out: frags[i].i, Out1: id})
	}
	return id
}

func (c *compiler) captureFrag(sub frag, cap int32) frag {
	open := c.emit(Inst{Op: OpCapture, Cap: 2 * cap})
	c.p.Inst[open].Out = sub.i
	closeID := c.emit(Inst{Op: OpCapture, Cap: 2*cap + 1})
	c.patch(sub.out, closeID)
	if cap*2+2 > int32(c.p.NumCap) {
		c.p.NumCap = int(cap*2 + 2)
	}
	return frag{i: open, out: mkPatch(closeID, 0), nullable: sub.nullable}
}

// star compiles a* (or a*? if nonGreedy): an Alt whose two arms are
// "enter the body" and "skip", ordered per greediness (spec.md §4.2).
func (c *compiler) star(sub frag, nonGreedy bool) frag {
	id := c.emit(Inst{})
	if nonGreedy {
		c.p.Inst[id] = Inst{Op: OpAlt, Out: 0, Out1: sub.i} // skip first
	} else {
		c.p.Inst[id] = Inst{Op: OpAlt, Out: sub.i, Out1: 0} // enter first
	}
	c.patch(sub.out, id)
	var out patchList
	if nonGreedy {
		out = mkPatch(id, 0)
	} else {
		out = mkPatch(id, 1)
	}
	return frag{i: id, out: out, nullable: true}
}

// plus compiles a+: the same shape as star, but the loop is entered at
// sub, not skippable on the first iteration.
func (c *compiler) plus(sub frag, nonGreedy bool) frag {
	id := c.emit(Inst{})
	if nonGreedy {
		c.p.Inst[id] = Inst{Op: OpAlt, Out: 0, Out1: sub.i}
	} else {
		c.p.Inst[id] = Inst{Op: OpAlt, Out: sub.i, Out1: 0}
	}
	c.patch(sub.out, id)
	var out patchList
	if nonGreedy {
		out = mkPatch(id, 0)
	} else {
		out = mkPatch(id, 1)
	}
	return frag{i: sub.i, out: out, nullable: sub.nullable}
}

// quest compiles a?: Alt(a, nop).
func (c *compiler) quest(sub frag, nonGreedy bool) frag {
	nop := c.nopFrag()
	var id uint32
	if nonGreedy {
		id = c.emit(Inst{Op: OpAlt, Out: nop.i, Out1: sub.i})
	} else {
		id = c.emit(Inst{Op: OpAlt, Out: sub.i, Out1: nop.i})
	}
	out := c.append(sub.out, nop.out)
	return frag{i: id, out: out, nullable: true}
}

// repeat expands Repeat(min,max) by duplicating the compiled child,
// min times mandatorily and (max-min) times optionally, or as a trailing
// star if max == -1 (unbounded). Kept for trees that reach the compiler
// unsimplified; ordinary parsed trees are simplified upstream.
func (c *compiler) repeat(sub frag, re *resyntax.Regexp, nonGreedy bool) frag {
	min, max := re.Min, re.Max
	if min == 0 && max == -1 {
		return c.star(sub, nonGreedy)
	}
	var frags []frag
	clone := func() frag {
		// Re-run the child compile by re-walking its source Regexp.
		return c.compileTree(re.Sub[0])
	}
	for i := 0; i < min; i++ {
		if i == 0 {
			frags = append(frags, sub)
		} else {
			frags = append(frags, clone())
		}
	}
	if max == -1 {
		tail := clone()
		frags = append(frags, c.star(tail, nonGreedy))
	} else {
		for i := min; i < max; i++ {
			frags = append(frags, c.quest(clone(), nonGreedy))
		}
	}
	if len(frags) == 0 {
		return c.nopFrag()
	}
	f := frags[0]
	for _, next := range frags[1:] {
		f = c.concat2(f, next)
	}
	return f
}

// -----------------------------------------------------------------------
// anchor extraction (spec.md §4.2)

func stripLeadingBeginText(re *resyntax.Regexp) (*resyntax.Regexp, bool) {
	if re.Op == resyntax.OpBeginText {
		return &resyntax.Regexp{Op: resyntax.OpEmptyMatch}, true
	}
	if re.Op != resyntax.OpConcat || len(re.Sub) == 0 {
		return re, false
	}
	if re.Sub[0].Op != resyntax.OpBeginText {
		return re, false
	}
	rest := re.Sub[1:]
	if len(rest) == 0 {
		return &resyntax.Regexp{Op: resyntax.OpEmptyMatch}, true
	}
	if len(rest) == 1 {
		return rest[0], true
	}
	cp := *re
	cp.Sub = rest
	return &cp, true
}

func stripTrailingEndText(re *resyntax.Regexp) (*resyntax.Regexp, bool) {
	if re.Op == resyntax.OpEndText {
		return &resyntax.Regexp{Op: resyntax.OpEmptyMatch}, true
	}
	if re.Op != resyntax.OpConcat || len(re.Sub) == 0 {
		return re, false
	}
	last := re.Sub[len(re.Sub)-1]
	if last.Op != resyntax.OpEndText {
		return re, false
	}
	rest := re.Sub[:len(re.Sub)-1]
	if len(rest) == 0 {
		return &resyntax.Regexp{Op: resyntax.OpEmptyMatch}, true
	}
	if len(rest) == 1 {
		return rest[0], true
	}
	cp := *re
	cp.Sub = rest
	return &cp, true
}
