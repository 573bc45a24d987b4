package prog

import (
	resyntax "regexp/syntax"
)

// frag is a program fragment produced while compiling a subtree: an entry
// instruction id plus a still-dangling list of "out" pointers to patch
// once the fragment's successor is known. This is RE2's Frag/PatchList
// trick (original_source/re2/compile.cc), ported to integer instruction
// indices per spec.md §9 "Cyclic instruction graph".
type frag struct {
	i        uint32    // entry instruction index
	out      patchList // dangling outs
	nullable bool       // fragment can match the empty string
}

// patchList encodes a singly-linked list of dangling Out/Out1 slots using
// the slots themselves as storage: list value 0 means empty; otherwise it
// packs (instruction index, arm) where arm 0 selects Out and arm 1
// selects Out1. Instruction index 0 is never a valid list member because
// Inst[0] is always the Fail instruction (spec.md §9: "0 == fail").
type patchList uint32

func mkPatch(instID uint32, arm int) patchList {
	return patchList(instID<<1 | uint32(arm))
}

func (l patchList) instID() uint32 { return uint32(l) >> 1 }
func (l patchList) arm() int       { return int(uint32(l) & 1) }

// compiler holds the state for one compile(tree, reversed, maxMem) call.
type compiler struct {
	p        *Prog
	reversed bool
	maxInst  int
	suf      *sufCache
	failed   bool
}

// CompileOptions bundles the compiler's explicit parameters, per spec.md §9
// "Memory budgets must be first-class parameters, not ambient defaults."
type CompileOptions struct {
	Reversed bool
	MaxMem   int64
	Flags    Flags
}

// sizeofProg and sizeofInst approximate the C++ originals' sizeof() used
// to turn a byte budget into an instruction-count cap (spec.md §4.2).
const (
	sizeofProg = 128
	sizeofInst = 16
)

// Compile lowers re into a Prog under opts. It returns ErrCompileOutOfMemory
// (wrapped in a *CompileError) if the instruction budget is exhausted.
func Compile(re *resyntax.Regexp, opts CompileOptions) (*Prog, error) {
	maxMem := opts.MaxMem
	var maxInst int
	if maxMem <= sizeofProg {
		maxInst = 0
	} else {
		maxInst = int((maxMem - sizeofProg) / sizeofInst)
		if maxInst > 1<<24 {
			maxInst = 1 << 24
		}
	}

	p := &Prog{Flags: opts.Flags, NumCap: 2}
	c := &compiler{p: p, reversed: opts.Reversed, maxInst: maxInst, suf: newSufCache()}

	// Inst[0] is always Fail (spec.md §9: index 0 means fail).
	c.emit(Inst{Op: OpFail})

	// Anchor extraction (spec.md §4.2): strip leading/trailing
	// BeginText/EndText before walking.
	root := re
	anchorStart, anchorEnd := false, false
	root, anchorStart = stripLeadingBeginText(root)
	root, anchorEnd = stripTrailingEndText(root)
	p.AnchorStart = anchorStart
	p.AnchorEnd = anchorEnd

	f := c.compileTree(root)
	if c.failed {
		return nil, &CompileError{Pattern: re.String(), Err: ErrCompileOutOfMemory}
	}

	matchID := c.emit(Inst{Op: OpMatch, MatchID: 0})
	c.patch(f.out, matchID)
	if c.failed {
		return nil, &CompileError{Pattern: re.String(), Err: ErrCompileOutOfMemory}
	}
	p.Start = int(f.i)

	if !anchorStart {
		// Synthesize start_unanchored = (.)*? concat start: a non-greedy
		// star over "any byte" feeding into the anchored start.
		dot := c.byteRangeFrag(0x00, 0xFF, false)
		loop := c.star(dot, true /* non-greedy: try skipping first */)
		c.patch(loop.out, uint32(p.Start))
		p.StartUnanchored = int(loop.i)
	} else {
		p.StartUnanchored = p.Start
	}

	if c.failed {
		return nil, &CompileError{Pattern: re.String(), Err: ErrCompileOutOfMemory}
	}

	Peephole(p)
	Flatten(p)
	p.Bytemap, p.BytemapRange = computeBytemap(p.Inst)

	used := int64(len(p.Inst)) * sizeofInst
	if maxMem > sizeofProg+used {
		p.DFAMem = maxMem - sizeofProg - used
	} else {
		p.DFAMem = 1 << 20 // at least 1 MiB reserved for DFA caches, per spec.md §4.2
	}

	return p, nil
}

// CompileReversed is a convenience wrapper compiling re right-to-left, used
// by the DFA to locate match starts (spec.md §4.4).
func CompileReversed(re *resyntax.Regexp, maxMem int64, flags Flags) (*Prog, error) {
	return Compile(re, CompileOptions{Reversed: true, MaxMem: maxMem, Flags: flags})
}

// CompileSet compiles a set of patterns into one program for [SET] /
// Regexp Set (spec.md §4.6): each pattern is concatenated with a synthetic
// Match(id) and all are combined under a top-level alternation.
func CompileSet(res []*resyntax.Regexp, opts CompileOptions) (*Prog, error) {
	maxMem := opts.MaxMem
	var maxInst int
	if maxMem <= sizeofProg {
		maxInst = 0
	} else {
		maxInst = int((maxMem - sizeofProg) / sizeofInst)
	}
	p := &Prog{Flags: opts.Flags, NumCap: 2}
	c := &compiler{p: p, reversed: opts.Reversed, maxInst: maxInst, suf: newSufCache()}
	c.emit(Inst{Op: OpFail})

	var frags []frag
	for id, re := range res {
		c.suf.reset() // per spec.md §9: clear suffix cache between subexpressions
		f := c.compileTree(re)
		matchID := c.emit(Inst{Op: OpMatch, MatchID: int32(id)})
		c.patch(f.out, matchID)
		frags = append(frags, frag{i: f.i})
	}
	if c.failed {
		return nil, &CompileError{Err: ErrCompileOutOfMemory}
	}

	entry := c.altAll(frags)
	p.Start = int(entry)
	dot := c.byteRangeFrag(0x00, 0xFF, false)
	loop := c.star(dot, false)
	c.patch(loop.out, uint32(entry))
	p.StartUnanchored = int(loop.i)

	if c.failed {
		return nil, &CompileError{Err: ErrCompileOutOfMemory}
	}

	Peephole(p)
	Flatten(p)
	p.Bytemap, p.BytemapRange = computeBytemap(p.Inst)
	p.DFAMem = 1 << 20
	return p, nil
}

// -----------------------------------------------------------------------
// instruction emission and patching

func (c *compiler) emit(inst Inst) uint32 {
	if c.failed {
		return 0
	}
	if c.maxInst > 0 && len(c.p.Inst) >= c.maxInst {
		c.failed = true
		return 0
	}
	id := uint32(len(c.p.Inst))
	c.p.Inst = append(c.p.Inst, inst)
	return id
}

func (c *compiler) patch(l patchList, target uint32) {
	for l != 0 {
		id := l.instID()
		arm := l.arm()
		inst := &c.p.Inst[id]
		var next patchList
		if arm == 0 {
			next = patchList(inst.Out)
			inst.Out = target
		} else {
			next = patchList(inst.Out1)
			inst.Out1 = target
		}
		l = next
	}
}

// append splices l2 onto the end of l1, walking l1's dangling chain
// (which lives inside the not-yet-patched Out/Out1 slots) to find its
// tail.
func (c *compiler) append(l1, l2 patchList) patchList {
	if l1 == 0 {
		return l2
	}
	if l2 == 0 {
		return l1
	}
	cur := l1
	for {
		id := cur.instID()
		arm := cur.arm()
		inst := &c.p.Inst[id]
		var next patchList
		if arm == 0 {
			next = patchList(inst.Out)
		} else {
			next = patchList(inst.Out1)
		}
		if next == 0 {
			if arm == 0 {
				inst.Out = uint32(l2)
			} else {
				inst.Out1 = uint32(l2)
			}
			return l1
		}
		cur = next
	}
}
