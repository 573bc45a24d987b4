package prog

import (
	"bytes"
	"fmt"
)

// Dump renders one line per instruction in the exact grammar spec.md §6.5
// and §8 test against: "<id><. or +> <mnemonic> [payload] -> <successor>",
// where '+' marks a non-last element of a Flatten list. This is the
// acceptance-test contract for the compiler and flatten passes — format
// changes here break golden-dump tests.
func (p *Prog) Dump() string {
	var buf bytes.Buffer
	for id, inst := range p.Inst {
		marker := "."
		if !inst.Last {
			marker = "+"
		}
		fmt.Fprintf(&buf, "%d%s %s", id, marker, mnemonic(inst))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func mnemonic(inst Inst) string {
	switch inst.Op {
	case OpFail:
		return "fail"
	case OpAlt:
		return fmt.Sprintf("alt -> %d, %d", inst.Out, inst.Out1)
	case OpAltMatch:
		return fmt.Sprintf("altmatch -> %d, %d", inst.Out, inst.Out1)
	case OpByteRange:
		fold := ""
		if inst.Fold {
			fold = "/i"
		}
		return fmt.Sprintf("byte [%02x-%02x]%s -> %d", inst.Lo, inst.Hi, fold, inst.Out)
	case OpCapture:
		return fmt.Sprintf("cap %d -> %d", inst.Cap, inst.Out)
	case OpEmptyWidth:
		return fmt.Sprintf("empty %#x -> %d", uint8(inst.Empty), inst.Out)
	case OpMatch:
		return fmt.Sprintf("match! %d", inst.MatchID)
	case OpNop:
		return fmt.Sprintf("nop -> %d", inst.Out)
	default:
		return "?"
	}
}

// DumpByteMap renders consecutive byte ranges mapped to the same class,
// e.g. "[00-09] -> 0", one line per maximal run, per spec.md §6.5.
func (p *Prog) DumpByteMap() string {
	var buf bytes.Buffer
	start := 0
	for i := 1; i <= 256; i++ {
		if i < 256 && p.Bytemap[i] == p.Bytemap[start] {
			continue
		}
		fmt.Fprintf(&buf, "[%02x-%02x] -> %d\n", start, i-1, p.Bytemap[start])
		start = i
	}
	return buf.String()
}
