package rekernel

import (
	"regexp/syntax"
	"sync"

	"github.com/axrho/rekernel/internal/dfa"
	"github.com/axrho/rekernel/internal/input"
	"github.com/axrho/rekernel/internal/prefilter"
	"github.com/axrho/rekernel/prog"
)

// RegexpSet compiles many patterns into one program and reports, for a
// given input, every pattern id that matches — spec.md §4.6's Regexp
// Set / multi-match module, ported from original_source/re2/set.cc's
// RE2::Set.
type RegexpSet struct {
	patterns []string
	prog     *prog.Prog
	pf       *prefilter.Prefilter

	once sync.Once
	fwd  *dfa.DFA
}

// NewRegexpSet compiles patterns (Perl syntax) into a set. At least one
// pattern is required.
func NewRegexpSet(patterns []string) (*RegexpSet, error) {
	trees := make([]*syntax.Regexp, len(patterns))
	bu := prefilter.NewBuilder()
	for i, p := range patterns {
		re, err := syntax.Parse(p, syntax.Perl)
		if err != nil {
			return nil, err
		}
		trees[i] = re.Simplify()

		compiled, cerr := prog.Compile(trees[i], prog.CompileOptions{MaxMem: 8 << 20})
		if cerr == nil {
			if lit, ok := compiled.RequiredPrefixForAccel(); ok {
				bu.AddLiteral(int32(i), lit)
			} else {
				bu.AnyUnfiltered = true
			}
		} else {
			bu.AnyUnfiltered = true
		}
	}

	p, err := prog.CompileSet(trees, prog.CompileOptions{MaxMem: 64 << 20})
	if err != nil {
		return nil, err
	}
	pf, err := bu.Build()
	if err != nil {
		return nil, err
	}

	return &RegexpSet{patterns: patterns, prog: p, pf: pf}, nil
}

func (s *RegexpSet) initDFA() {
	s.once.Do(func() {
		s.fwd = dfa.New(s.prog, dfa.ManyMatch, true, s.prog.DFAMem)
	})
}

// MatchString reports every pattern index that matches somewhere in text.
// The Aho-Corasick prefilter is consulted first: when it can prove no
// match and none of its literals occurs in text, MatchString returns nil
// without running the DFA; otherwise the DFA's scan decides.
func (s *RegexpSet) MatchString(text string) []int {
	s.initDFA()

	if s.pf.CanProveNoMatch() && !s.pf.MatchesAnywhere([]byte(text)) {
		return nil
	}

	in := input.String{S: text}
	return dedupSorted(s.fwd.MatchAny(in, 0, len(text)))
}

func dedupSorted(ids []int32) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int32]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, int(id))
		}
	}
	return out
}

// NumPatterns returns the number of patterns in the set.
func (s *RegexpSet) NumPatterns() int { return len(s.patterns) }
