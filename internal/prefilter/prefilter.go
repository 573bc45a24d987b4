// Package prefilter builds a literal-scan accelerator in front of the
// regexp-set engine (spec.md §7, Regexp Set / multi-match): before
// running the DFA over every byte of input, a multi-pattern Aho-Corasick
// automaton over each alternative's required literal prefix quickly
// rules out patterns that cannot possibly start at a given position.
//
// Grounded on coregx-coregex/meta/meta.go and meta/compile.go, whose
// UseAhoCorasick strategy builds exactly this kind of automaton via
// ahocorasick.NewBuilder()/AddPattern()/Build() over the pattern set's
// literal prefixes. The pack only exercises that builder-side API; no
// retrieved file calls the automaton's match side, so the scanning calls
// below (Automaton.Iter/Next) are a best-effort reconstruction of the
// matching API rather than a grounded port — flagged in DESIGN.md.
package prefilter

import (
	"github.com/coregx/ahocorasick"
)

// Prefilter maps literal prefixes back to the pattern ids that own them
// and reports, for a position in the input, which pattern ids are even
// worth trying the full engine on.
type Prefilter struct {
	automaton  *ahocorasick.Automaton
	owners     map[int][]int32 // ahocorasick pattern index -> regexp-set ids
	anyLiteral bool
	coversAll  bool
}

// Builder accumulates one literal prefix per pattern id (patterns with no
// useful required literal, e.g. ".*", are simply never added and always
// pass the filter). AnyUnfiltered should be set by the caller whenever a
// pattern couldn't contribute a literal, so Build's resulting Prefilter
// knows it can never prove "no pattern matches" on its own.
type Builder struct {
	b             *ahocorasick.Builder
	owners        map[int][]int32
	next          int
	AnyUnfiltered bool
}

func NewBuilder() *Builder {
	return &Builder{b: ahocorasick.NewBuilder(), owners: make(map[int][]int32)}
}

// AddLiteral registers prefix as a required literal for pattern id. The
// same prefix bytes may be shared by multiple pattern ids (e.g. two
// alternatives both starting with "GET "); they are tracked as distinct
// owners of whichever Aho-Corasick pattern index the builder assigns.
func (bu *Builder) AddLiteral(id int32, prefix []byte) {
	if len(prefix) == 0 {
		return
	}
	idx := bu.next
	bu.next++
	bu.b.AddPattern(prefix)
	bu.owners[idx] = append(bu.owners[idx], id)
}

// Build finalizes the automaton. If no pattern contributed a literal, the
// returned Prefilter holds no automaton and records that no literal is
// present (the caller should then skip prefiltering entirely).
func (bu *Builder) Build() (*Prefilter, error) {
	if bu.next == 0 {
		return &Prefilter{owners: bu.owners}, nil
	}
	a, err := bu.b.Build()
	if err != nil {
		return nil, err
	}
	return &Prefilter{
		automaton:  a,
		owners:     bu.owners,
		anyLiteral: true,
		coversAll:  !bu.AnyUnfiltered,
	}, nil
}

// CandidatesAt returns the pattern ids whose required literal matches
// starting at text[pos:], used to prune the regexp-set DFA's many-match
// pass down to only the patterns that could possibly fire there. When
// the filter has no literals to check (anyLiteral false), every id that
// was never registered should be tried unconditionally by the caller;
// CandidatesAt only speaks for ids that did register a literal.
func (pf *Prefilter) CandidatesAt(text []byte, pos int) []int32 {
	if !pf.anyLiteral || pos >= len(text) {
		return nil
	}
	var ids []int32
	it := pf.automaton.Iter(text[pos:])
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		if m.Start != 0 {
			continue
		}
		ids = append(ids, pf.owners[m.Pattern]...)
	}
	return ids
}

// HasLiterals reports whether any pattern contributed a required literal
// (i.e. whether CandidatesAt is meaningful at all).
func (pf *Prefilter) HasLiterals() bool { return pf.anyLiteral }

// CanProveNoMatch reports whether MatchesAnywhere scanning the whole text
// and finding nothing is sufficient to conclude no pattern in the set
// matches — true only when every pattern contributed a literal.
func (pf *Prefilter) CanProveNoMatch() bool { return pf.coversAll }

// MatchesAnywhere reports whether any registered literal occurs anywhere
// in text, regardless of position.
func (pf *Prefilter) MatchesAnywhere(text []byte) bool {
	if !pf.anyLiteral {
		return false
	}
	it := pf.automaton.Iter(text)
	_, ok := it.Next()
	return ok
}
