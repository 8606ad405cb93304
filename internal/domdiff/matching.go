package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// Pair is one matched (A-id, B-id) correspondence, in the order it was
// recorded.
type Pair struct {
	A arena.NodeID
	B arena.NodeID
}

// Matching is a bidirectional, partial, injective map between A's and B's
// node ids: each side of a pair appears in at most one pair.
type Matching struct {
	aToB  map[arena.NodeID]arena.NodeID
	bToA  map[arena.NodeID]arena.NodeID
	pairs []Pair
}

// NewMatching returns an empty Matching.
func NewMatching() *Matching {
	return &Matching{
		aToB: make(map[arena.NodeID]arena.NodeID),
		bToA: make(map[arena.NodeID]arena.NodeID),
	}
}

// Match records a ↔ b. A no-op if either side is already matched, so
// callers may call it speculatively without checking first.
func (m *Matching) Match(a, b arena.NodeID) {
	if _, ok := m.aToB[a]; ok {
		return
	}
	if _, ok := m.bToA[b]; ok {
		return
	}
	m.aToB[a] = b
	m.bToA[b] = a
	m.pairs = append(m.pairs, Pair{A: a, B: b})
}

// GetB returns the B-id matched to a, if any.
func (m *Matching) GetB(a arena.NodeID) (arena.NodeID, bool) {
	b, ok := m.aToB[a]
	return b, ok
}

// GetA returns the A-id matched to b, if any.
func (m *Matching) GetA(b arena.NodeID) (arena.NodeID, bool) {
	a, ok := m.bToA[b]
	return a, ok
}

// IsMatchedA reports whether a participates in any pair.
func (m *Matching) IsMatchedA(a arena.NodeID) bool {
	_, ok := m.aToB[a]
	return ok
}

// IsMatchedB reports whether b participates in any pair.
func (m *Matching) IsMatchedB(b arena.NodeID) bool {
	_, ok := m.bToA[b]
	return ok
}

// Pairs returns every matched pair in the order recorded.
func (m *Matching) Pairs() []Pair { return m.pairs }
