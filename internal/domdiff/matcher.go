package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// MatchingConfig tunes the bottom-up pass of the matcher.
type MatchingConfig struct {
	// SimilarityThreshold is the minimum Dice coefficient (descendant or
	// property similarity) a candidate pair must meet to be matched.
	SimilarityThreshold float64

	// MinHeight is the shortest A-subtree height the top-down pass will
	// consider; 0 includes leaves.
	MinHeight int
}

// DefaultMatchingConfig mirrors the thresholds commonly used by GumTree
// implementations: permissive enough to match near-identical subtrees
// without over-matching unrelated small fragments.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{SimilarityThreshold: 0.5, MinHeight: 0}
}

// Match computes a bidirectional partial injection between a's and b's
// nodes using the two-phase GumTree algorithm of §4.2: top-down by
// structural hash, then bottom-up by Dice similarity under ancestry
// constraints.
func Match(a, b *DiffTree, cfg MatchingConfig) *Matching {
	m := NewMatching()
	topDown(a, b, m, cfg)
	bottomUpInternal(a, b, m, cfg)
	bottomUpLeaves(a, b, m, cfg)
	return m
}

// candidate is one (A-node, B-node) pair awaiting top-down evaluation.
type candidate struct {
	a, b    arena.NodeID
	heightA int
	seq     int
}

// candidateQueue is a priority queue ordered by decreasing A-height, with
// insertion order as a tiebreak so that, among equal heights, candidates
// enqueued earlier (closer to document order) are processed first.
type candidateQueue []candidate

func (q candidateQueue) Len() int { return len(q) }
func (q candidateQueue) Less(i, j int) bool {
	if q[i].heightA != q[j].heightA {
		return q[i].heightA > q[j].heightA
	}
	return q[i].seq < q[j].seq
}
func (q candidateQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *candidateQueue) Push(x any)        { *q = append(*q, x.(candidate)) }
func (q *candidateQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func topDown(a, b *DiffTree, m *Matching, cfg MatchingConfig) {
	pq := &candidateQueue{}
	seq := 0
	push := func(na, nb arena.NodeID) {
		pq.Push(candidate{a: na, b: nb, heightA: a.Height(na), seq: seq})
		seq++
		heapUp(pq, pq.Len()-1)
	}
	push(a.Root(), b.Root())

	for pq.Len() > 0 {
		c := heapPop(pq)
		na, nb := c.a, c.b

		if m.IsMatchedA(na) || m.IsMatchedB(nb) {
			continue
		}
		if a.Height(na) < cfg.MinHeight {
			continue
		}
		if a.Hash(na) == b.Hash(nb) && a.KindOf(na) == b.KindOf(nb) {
			matchSubtree(a, b, m, na, nb)
			continue
		}
		if a.IsOpaque(na) || b.IsOpaque(nb) {
			if a.KindOf(na) == b.KindOf(nb) {
				m.Match(na, nb)
			}
			continue
		}
		for _, ca := range a.Children(na) {
			if m.IsMatchedA(ca) {
				continue
			}
			for _, cb := range b.Children(nb) {
				if m.IsMatchedB(cb) {
					continue
				}
				if a.Hash(ca) == b.Hash(cb) || a.KindOf(ca) == b.KindOf(cb) {
					push(ca, cb)
				}
			}
		}
	}
}

// matchSubtree records na ↔ nb and, since equal hashes imply structurally
// identical children, pairs every child index-for-index.
func matchSubtree(a, b *DiffTree, m *Matching, na, nb arena.NodeID) {
	m.Match(na, nb)
	ca, cb := a.Children(na), b.Children(nb)
	for i := range ca {
		matchSubtree(a, b, m, ca[i], cb[i])
	}
}

// heapUp/heapPop implement a minimal binary heap inline rather than
// pulling in container/heap for a single call site.
func heapUp(q *candidateQueue, i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.Less(i, parent) {
			return
		}
		q.Swap(i, parent)
		i = parent
	}
}

func heapPop(q *candidateQueue) candidate {
	n := q.Len()
	q.Swap(0, n-1)
	top := (*q)[n-1]
	*q = (*q)[:n-1]
	heapDown(q, 0)
	return top
}

func heapDown(q *candidateQueue, i int) {
	n := q.Len()
	for {
		l, r, smallest := 2*i+1, 2*i+2, i
		if l < n && q.Less(l, smallest) {
			smallest = l
		}
		if r < n && q.Less(r, smallest) {
			smallest = r
		}
		if smallest == i {
			return
		}
		q.Swap(i, smallest)
		i = smallest
	}
}

// ancestryCompatible enforces §4.2.2's constraint: if a's parent is
// matched to some p_b, b must be a descendant of p_b (and symmetrically
// for b's matched parent), preventing bottom-up matches that would cross
// an already-established top-down correspondence.
func ancestryCompatible(a, b *DiffTree, m *Matching, na, nb arena.NodeID) bool {
	if pa := a.Parent(na); pa != arena.NoNode {
		if pb, ok := m.GetB(pa); ok {
			if !containsNode(b.Descendants(pb), nb) {
				return false
			}
		}
	}
	if pb := b.Parent(nb); pb != arena.NoNode {
		if pa, ok := m.GetA(pb); ok {
			if !containsNode(a.Descendants(pa), na) {
				return false
			}
		}
	}
	return true
}

func containsNode(list []arena.NodeID, id arena.NodeID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

// descendantDice is the Dice coefficient over matched-descendant sets:
// 2·|{x∈desc(a) : match(x)∈desc(b)}| / (|desc(a)|+|desc(b)|).
func descendantDice(a, b *DiffTree, m *Matching, na, nb arena.NodeID) float64 {
	descA := a.Descendants(na)
	descB := b.Descendants(nb)
	inB := make(map[arena.NodeID]struct{}, len(descB))
	for _, d := range descB {
		inB[d] = struct{}{}
	}
	matchedCount := 0
	for _, x := range descA {
		if y, ok := m.GetB(x); ok {
			if _, in := inB[y]; in {
				matchedCount++
			}
		}
	}
	return 2 * float64(matchedCount) / float64(len(descA)+len(descB))
}

func bottomUpInternal(a, b *DiffTree, m *Matching, cfg MatchingConfig) {
	for _, na := range a.Iter() {
		if a.ChildCount(na) == 0 || m.IsMatchedA(na) || a.UnderOpaque(na) {
			continue
		}

		if matchViaParentPosition(a, b, m, cfg, na, true) {
			continue
		}
		if matchViaGlobalDice(a, b, m, cfg, na) {
			continue
		}
		matchRootSpecialCase(a, b, m, cfg, na)
	}
}

// matchViaParentPosition implements the local heuristic shared by both
// bottom-up passes: if na's parent is matched, prefer an unmatched B child
// at the same position (internal nodes) or the strongest of
// hash/position match (leaves, internalPass=false).
func matchViaParentPosition(a, b *DiffTree, m *Matching, cfg MatchingConfig, na arena.NodeID, internalPass bool) bool {
	parent := a.Parent(na)
	pb, ok := m.GetB(parent)
	if !ok {
		return false
	}
	kindA := a.KindOf(na)
	posA := a.Position(na)

	if internalPass {
		for _, nb := range b.Children(pb) {
			if m.IsMatchedB(nb) || b.ChildCount(nb) == 0 {
				continue
			}
			if b.KindOf(nb) == kindA && b.Position(nb) == posA && propSim(a, b, na, nb) >= cfg.SimilarityThreshold {
				m.Match(na, nb)
				return true
			}
		}
		return false
	}

	// Leaf pass: prefer same position+hash, then same hash, then same
	// position with sufficient property similarity.
	byPosHash, byHash, byPos := arena.NoNode, arena.NoNode, arena.NoNode
	for _, nb := range b.Children(pb) {
		if m.IsMatchedB(nb) || b.ChildCount(nb) != 0 {
			continue
		}
		if b.KindOf(nb) != kindA {
			continue
		}
		samePos := b.Position(nb) == posA
		sameHash := b.Hash(nb) == a.Hash(na)
		if samePos && sameHash && byPosHash == arena.NoNode {
			byPosHash = nb
		}
		if sameHash && byHash == arena.NoNode {
			byHash = nb
		}
		if samePos && byPos == arena.NoNode && propSim(a, b, na, nb) >= cfg.SimilarityThreshold {
			byPos = nb
		}
	}
	switch {
	case byPosHash != arena.NoNode:
		m.Match(na, byPosHash)
		return true
	case byHash != arena.NoNode:
		m.Match(na, byHash)
		return true
	case byPos != arena.NoNode:
		m.Match(na, byPos)
		return true
	}
	return false
}

// matchViaGlobalDice searches every unmatched internal B-node of the same
// kind for the ancestry-compatible candidate maximizing descendant Dice,
// subject to both the descendant and property similarity thresholds.
func matchViaGlobalDice(a, b *DiffTree, m *Matching, cfg MatchingConfig, na arena.NodeID) bool {
	kindA := a.KindOf(na)
	best := arena.NoNode
	bestDice := -1.0
	for _, nb := range b.Iter() {
		if b.ChildCount(nb) == 0 || m.IsMatchedB(nb) || b.UnderOpaque(nb) {
			continue
		}
		if b.KindOf(nb) != kindA {
			continue
		}
		if !ancestryCompatible(a, b, m, na, nb) {
			continue
		}
		if propSim(a, b, na, nb) < cfg.SimilarityThreshold {
			continue
		}
		d := descendantDice(a, b, m, na, nb)
		if d >= cfg.SimilarityThreshold && d > bestDice {
			bestDice = d
			best = nb
		}
	}
	if best == arena.NoNode {
		return false
	}
	m.Match(na, best)
	return true
}

// matchRootSpecialCase pairs na with b's root when both are unmatched
// roots of the same kind and b's root has at least one child and
// compatible properties (property similarity at or above the threshold),
// even when no Dice match was found — otherwise two structurally
// unrelated document bodies would never be matched at all, which the
// translator's root-matching invariant (§4.4.6) would then have to force
// blindly.
func matchRootSpecialCase(a, b *DiffTree, m *Matching, cfg MatchingConfig, na arena.NodeID) {
	if na != a.Root() {
		return
	}
	rb := b.Root()
	if m.IsMatchedB(rb) {
		return
	}
	if a.KindOf(na) != b.KindOf(rb) {
		return
	}
	if b.ChildCount(rb) == 0 {
		return
	}
	if propSim(a, b, na, rb) < cfg.SimilarityThreshold {
		return
	}
	m.Match(na, rb)
}

func bottomUpLeaves(a, b *DiffTree, m *Matching, cfg MatchingConfig) {
	for _, na := range a.Iter() {
		if a.ChildCount(na) != 0 || m.IsMatchedA(na) || a.UnderOpaque(na) {
			continue
		}

		if matchViaParentPosition(a, b, m, cfg, na, false) {
			continue
		}
		if m.IsMatchedA(a.Parent(na)) {
			continue
		}
		matchLeafGlobally(a, b, m, cfg, na)
	}
}

// matchLeafGlobally handles an unmatched leaf whose parent is also
// unmatched: search every unmatched leaf of the same kind, honoring
// ancestry compatibility, preferring a hash-equal candidate and otherwise
// the first whose property similarity clears the threshold.
func matchLeafGlobally(a, b *DiffTree, m *Matching, cfg MatchingConfig, na arena.NodeID) {
	kindA := a.KindOf(na)
	hashA := a.Hash(na)
	byHash, byProp := arena.NoNode, arena.NoNode
	for _, nb := range b.Iter() {
		if b.ChildCount(nb) != 0 || m.IsMatchedB(nb) || b.UnderOpaque(nb) {
			continue
		}
		if b.KindOf(nb) != kindA {
			continue
		}
		if !ancestryCompatible(a, b, m, na, nb) {
			continue
		}
		if byHash == arena.NoNode && b.Hash(nb) == hashA {
			byHash = nb
		}
		if byProp == arena.NoNode && propSim(a, b, na, nb) >= cfg.SimilarityThreshold {
			byProp = nb
		}
	}
	switch {
	case byHash != arena.NoNode:
		m.Match(na, byHash)
	case byProp != arena.NoNode:
		m.Match(na, byProp)
	}
}
