package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// EditOpKind discriminates the five node-identity-based structural
// operations Chawathe-style script generation can emit.
type EditOpKind uint8

const (
	OpUpdateProperties EditOpKind = iota
	OpSetText
	OpInsert
	OpMove
	OpDelete
)

// EditOp is the tagged union described in §3. Only the fields relevant to
// Kind are populated; the rest are left at their zero value.
type EditOp struct {
	Kind EditOpKind

	// UpdateProperties, SetText, Move, Delete.
	NodeA arena.NodeID
	// UpdateProperties, Insert, Move.
	NodeB arena.NodeID

	// SetText.
	Text string

	// UpdateProperties: every key in B's property set, Same or
	// Different, in B's order.
	FinalState []propState

	// Insert: the parent and position in B to insert at, and the kind
	// of the new node.
	ParentB  arena.NodeID
	Position int
	NodeKind Kind

	// Move: the new parent in B and new position.
	NewParentB arena.NodeID
}

// GenerateEditScript runs the four Chawathe phases of §4.3, in the fixed
// order the translator depends on: property/text updates for matched
// pairs, then inserts in B's document order, then moves, then deletes in
// A's post-order.
func GenerateEditScript(a, b *DiffTree, m *Matching) []EditOp {
	var ops []EditOp
	emitUpdates(a, b, m, &ops)
	emitInserts(b, m, &ops)
	emitMoves(a, b, m, &ops)
	emitDeletes(a, m, &ops)
	return ops
}

func emitUpdates(a, b *DiffTree, m *Matching, ops *[]EditOp) {
	for _, pair := range m.Pairs() {
		if a.UnderOpaque(pair.A) || b.UnderOpaque(pair.B) {
			continue
		}
		kind := a.KindOf(pair.A)
		if kind.Class != ClassElement {
			if a.Text(pair.A) != b.Text(pair.B) {
				*ops = append(*ops, EditOp{
					Kind:  OpSetText,
					NodeA: pair.A,
					NodeB: pair.B,
					Text:  b.Text(pair.B),
				})
			}
			continue
		}
		finalState, needsUpdate := diffProperties(a.Properties(pair.A), b.Properties(pair.B))
		if needsUpdate {
			*ops = append(*ops, EditOp{
				Kind:       OpUpdateProperties,
				NodeA:      pair.A,
				NodeB:      pair.B,
				FinalState: finalState,
			})
		}
	}
}

func emitInserts(b *DiffTree, m *Matching, ops *[]EditOp) {
	for _, nb := range b.Iter() {
		if m.IsMatchedB(nb) || b.UnderOpaque(nb) {
			continue
		}
		parent := b.Parent(nb)
		if parent == arena.NoNode {
			continue // root insertion is never emitted
		}
		if !m.IsMatchedB(parent) {
			// parent is itself new content; nb arrives as part of the
			// parent's own Insert (a whole new subtree is addressed by
			// one Insert at its entry point into matched structure, not
			// one per descendant).
			continue
		}
		*ops = append(*ops, EditOp{
			Kind:     OpInsert,
			NodeB:    nb,
			ParentB:  parent,
			Position: b.Position(nb),
			NodeKind: b.KindOf(nb),
		})
	}
}

func emitMoves(a, b *DiffTree, m *Matching, ops *[]EditOp) {
	for _, pair := range m.Pairs() {
		if a.UnderOpaque(pair.A) || b.UnderOpaque(pair.B) {
			continue
		}
		parentA := a.Parent(pair.A)
		parentB := b.Parent(pair.B)
		if parentA == arena.NoNode || parentB == arena.NoNode {
			continue // root pair, never moved
		}

		mappedB, ok := m.GetB(parentA)
		moved := !ok || mappedB != parentB
		if !moved {
			moved = a.Position(pair.A) != b.Position(pair.B)
		}
		if !moved {
			continue
		}
		*ops = append(*ops, EditOp{
			Kind:       OpMove,
			NodeA:      pair.A,
			NodeB:      pair.B,
			NewParentB: parentB,
			Position:   b.Position(pair.B),
		})
	}
}

func emitDeletes(a *DiffTree, m *Matching, ops *[]EditOp) {
	for _, na := range a.PostOrder() {
		if m.IsMatchedA(na) || a.UnderOpaque(na) {
			continue
		}
		*ops = append(*ops, EditOp{Kind: OpDelete, NodeA: na})
	}
}
