package domdiff

import (
	"github.com/cespare/xxhash/v2"

	"github.com/vango-dev/htmldiff/internal/arena"
)

// Kind is the diffing-relevant type of a node: (tag, namespace) for
// elements, or a bare Text/Comment marker. Two nodes match kind iff their
// Kind values are equal.
type Kind struct {
	Class     KindClass
	Tag       string
	Namespace arena.Namespace
}

// KindClass discriminates the three diffable node shapes. KindClass
// deliberately omits arena.KindDocument: the document node is never a
// diff candidate, only its body subtree is.
type KindClass uint8

const (
	ClassElement KindClass = iota
	ClassText
	ClassComment
)

// DiffTree is a read-only, precomputed view over one arena.Document,
// built once at the start of a diff and discarded after translation. It
// exposes the capability set the matcher, generator, and translator need:
// structural hash, kind, properties, height, and on-demand, memoized
// position among siblings.
type DiffTree struct {
	doc  *arena.Document
	root arena.NodeID

	kind   map[arena.NodeID]Kind
	hash   map[arena.NodeID]uint64
	height map[arena.NodeID]int
	// position is filled lazily; absence means "not yet computed".
	position map[arena.NodeID]int

	// descendants is memoized on first access per node, for Dice
	// evaluation during bottom-up matching (§4.2.3).
	descendantCache map[arena.NodeID][]arena.NodeID

	// underOpaque marks every strict descendant of an opaque node; the
	// opaque node itself is not marked, since opaque roots may still
	// match (§4.2.2 "Opaque nodes").
	underOpaque map[arena.NodeID]bool

	order []arena.NodeID // document order, computed once at construction
}

// NewDiffTree walks root in post-order, computing kind, height, and
// structural hash for every node reachable from it. root is typically a
// document's <body> element; callers needing to diff the whole document
// may pass doc.Root() instead.
func NewDiffTree(doc *arena.Document, root arena.NodeID) *DiffTree {
	t := &DiffTree{
		doc:             doc,
		root:            root,
		kind:            make(map[arena.NodeID]Kind),
		hash:            make(map[arena.NodeID]uint64),
		height:          make(map[arena.NodeID]int),
		position:        make(map[arena.NodeID]int),
		descendantCache: make(map[arena.NodeID][]arena.NodeID),
		underOpaque:     make(map[arena.NodeID]bool),
	}
	t.build(root, false)
	return t
}

// build performs one post-order walk, populating kind/height/hash and the
// document-order index simultaneously (pre-visit records order and opacity
// inheritance, post-visit computes the hash once children are known).
func (t *DiffTree) build(id arena.NodeID, underOpaque bool) {
	t.order = append(t.order, id)
	t.kind[id] = kindOf(t.doc, id)
	t.underOpaque[id] = underOpaque

	children := t.doc.Children(id)
	childUnderOpaque := underOpaque || t.doc.Opaque(id)
	maxChildHeight := -1
	for _, c := range children {
		t.build(c, childUnderOpaque)
		if h := t.height[c]; h > maxChildHeight {
			maxChildHeight = h
		}
	}
	t.height[id] = maxChildHeight + 1

	h := xxhash.New()
	k := t.kind[id]
	h.Write([]byte{byte(k.Class)})
	h.Write([]byte(k.Tag))
	h.Write([]byte{byte(k.Namespace)})
	var buf [8]byte
	for _, c := range children {
		ch := t.hash[c]
		putUint64(&buf, ch)
		h.Write(buf[:])
	}
	t.hash[id] = h.Sum64()
}

func putUint64(buf *[8]byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

func kindOf(doc *arena.Document, id arena.NodeID) Kind {
	switch doc.Kind(id) {
	case arena.KindElement:
		return Kind{Class: ClassElement, Tag: doc.Tag(id), Namespace: doc.ElementNamespace(id)}
	case arena.KindComment:
		return Kind{Class: ClassComment}
	default:
		return Kind{Class: ClassText}
	}
}

// Root returns the node the tree was built from.
func (t *DiffTree) Root() arena.NodeID { return t.root }

// NodeCount returns the number of nodes covered by this view.
func (t *DiffTree) NodeCount() int { return len(t.order) }

// KindOf returns id's diffing kind.
func (t *DiffTree) KindOf(id arena.NodeID) Kind { return t.kind[id] }

// Hash returns id's structural (Merkle) hash: kind mixed with every
// child's hash, in order. Properties never participate.
func (t *DiffTree) Hash(id arena.NodeID) uint64 { return t.hash[id] }

// Height returns 0 for leaves, else 1+max(child height).
func (t *DiffTree) Height(id arena.NodeID) int { return t.height[id] }

// Parent returns id's parent within this view, or arena.NoNode at root.
func (t *DiffTree) Parent(id arena.NodeID) arena.NodeID {
	if id == t.root {
		return arena.NoNode
	}
	return t.doc.Parent(id)
}

// Children returns id's ordered children.
func (t *DiffTree) Children(id arena.NodeID) []arena.NodeID { return t.doc.Children(id) }

// ChildCount returns len(Children(id)).
func (t *DiffTree) ChildCount(id arena.NodeID) int { return t.doc.ChildCount(id) }

// Text returns the text payload of a Text or Comment node.
func (t *DiffTree) Text(id arena.NodeID) string { return t.doc.Text(id) }

// Properties returns id's attribute list (elements) or nil (text/comment;
// use Text instead).
func (t *DiffTree) Properties(id arena.NodeID) []arena.Attr {
	if t.kind[id].Class != ClassElement {
		return nil
	}
	return t.doc.Attrs(id)
}

// IsOpaque reports whether id's subtree is opaque to matching and script
// generation, per §4.1.
func (t *DiffTree) IsOpaque(id arena.NodeID) bool { return t.doc.Opaque(id) }

// UnderOpaque reports whether id is a strict descendant of an opaque node.
// Such nodes never participate in matching or script generation; the
// opaque node itself is exempt (its own root may still be matched).
func (t *DiffTree) UnderOpaque(id arena.NodeID) bool { return t.underOpaque[id] }

// Position returns id's index among its parent's children, computed on
// first access and cached. Positions must never be queried during
// mutation of the underlying arena; DiffTrees are built over read-only
// input and never mutated themselves.
func (t *DiffTree) Position(id arena.NodeID) int {
	if p, ok := t.position[id]; ok {
		return p
	}
	parent := t.Parent(id)
	if parent == arena.NoNode {
		t.position[id] = 0
		return 0
	}
	for i, c := range t.Children(parent) {
		t.position[c] = i
	}
	return t.position[id]
}

// Descendants returns id and all of its descendants in document order,
// memoized per node because bottom-up Dice evaluation (§4.2.2) repeatedly
// needs descendant sets for the same internal nodes.
func (t *DiffTree) Descendants(id arena.NodeID) []arena.NodeID {
	if ds, ok := t.descendantCache[id]; ok {
		return ds
	}
	ds := []arena.NodeID{id}
	for _, c := range t.Children(id) {
		ds = append(ds, t.Descendants(c)...)
	}
	t.descendantCache[id] = ds
	return ds
}

// Iter returns every node in document order (pre-order: a node before its
// children, siblings left to right).
func (t *DiffTree) Iter() []arena.NodeID { return t.order }

// PostOrder returns every node with children before parents.
func (t *DiffTree) PostOrder() []arena.NodeID {
	out := make([]arena.NodeID, 0, len(t.order))
	var walk func(arena.NodeID)
	walk = func(id arena.NodeID) {
		for _, c := range t.Children(id) {
			walk(c)
		}
		out = append(out, id)
	}
	walk(t.root)
	return out
}
