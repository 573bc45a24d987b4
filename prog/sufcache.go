package prog

// sufKey is the suffix-cache key: spec.md §4.2 "The cache key is
// (successor-id, lo, hi, foldcase)". A hit reuses the existing
// instruction instead of emitting a duplicate, so that common byte-range
// suffixes across many runes of a character class (and across the UTF-8
// continuation-byte tail in particular) collapse into one instruction.
type sufKey struct {
	succ uint32
	lo, hi uint8
	fold bool
}

// sufCache must be cleared between character-class compilations: an
// instruction identity from a prior class must never leak into a new one
// (spec.md §9 "the cache must be cleared between character-class
// compilations").
type sufCache struct {
	m map[sufKey]uint32 // key -> instruction index
}

func newSufCache() *sufCache {
	return &sufCache{m: make(map[sufKey]uint32)}
}

func (c *sufCache) reset() {
	c.m = make(map[sufKey]uint32)
}

func (c *sufCache) lookup(succ uint32, lo, hi uint8, fold bool) (uint32, bool) {
	id, ok := c.m[sufKey{succ, lo, hi, fold}]
	return id, ok
}

func (c *sufCache) insert(succ uint32, lo, hi uint8, fold bool, inst uint32) {
	c.m[sufKey{succ, lo, hi, fold}] = inst
}
