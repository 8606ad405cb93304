package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// shadowID is an index into shadowTree.nodes, analogous to arena.NodeID
// but scoped to one shadow tree.
type shadowID int

const noShadow shadowID = -1

type shadowSpecial uint8

const (
	specialNone shadowSpecial = iota
	specialSuperRoot
	specialSlot
)

type shadowNode struct {
	special shadowSpecial
	class   KindClass
	tag     string
	ns      arena.Namespace
	attrs   []arena.Attr
	text    string

	parent   shadowID
	children []shadowID
}

// shadowTree is a mutable clone of A's structure used only during patch
// translation (§4.4.1). Above the cloned root sits a synthetic super-root
// whose children are slot nodes; slot 0 holds the original tree, slots 1+
// hold content displaced by Insert and Move. Discarded with the Patches
// it produced.
type shadowTree struct {
	nodes     []shadowNode
	superRoot shadowID
	slots     []shadowID // slots[i] is the shadow node id of slot i

	// origToShadow maps an A-tree arena.NodeID, as seen by the DiffTree
	// the shadow tree was cloned from, to its shadow node.
	origToShadow map[arena.NodeID]shadowID
}

func newShadowTree() *shadowTree {
	t := &shadowTree{origToShadow: make(map[arena.NodeID]shadowID)}
	t.superRoot = t.alloc(shadowNode{special: specialSuperRoot, parent: noShadow})
	return t
}

func (t *shadowTree) alloc(n shadowNode) shadowID {
	id := shadowID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

// buildShadowTree clones a's subtree rooted at a.Root() into a fresh slot
// 0, preserving kind/properties/text, and returns the tree alongside the
// content root of slot 0.
func buildShadowTree(a *DiffTree) (*shadowTree, shadowID) {
	t := newShadowTree()
	slot0 := t.createSlot()
	slotNode := t.slots[slot0]
	root := t.cloneInto(a, a.Root(), slotNode)
	return t, root
}

func (t *shadowTree) cloneInto(a *DiffTree, id arena.NodeID, parent shadowID) shadowID {
	k := a.KindOf(id)
	n := shadowNode{class: k.Class, tag: k.Tag, ns: k.Namespace, parent: parent}
	if k.Class == ClassElement {
		n.attrs = append([]arena.Attr(nil), a.Properties(id)...)
	} else {
		n.text = a.Text(id)
	}
	sid := t.alloc(n)
	t.nodes[parent].children = append(t.nodes[parent].children, sid)
	t.origToShadow[id] = sid

	for _, c := range a.Children(id) {
		t.cloneInto(a, c, sid)
	}
	return sid
}

// createSlot allocates a new slot node under the super-root and returns
// its slot index.
func (t *shadowTree) createSlot() int {
	id := t.alloc(shadowNode{special: specialSlot, parent: t.superRoot})
	t.nodes[t.superRoot].children = append(t.nodes[t.superRoot].children, id)
	t.slots = append(t.slots, id)
	return len(t.slots) - 1
}

func (t *shadowTree) slotContentRoot(slot int) shadowID {
	slotNode := t.slots[slot]
	children := t.nodes[slotNode].children
	if len(children) == 0 {
		return noShadow
	}
	return children[0]
}

func (t *shadowTree) slotIndexOf(slotNode shadowID) int {
	for i, s := range t.slots {
		if s == slotNode {
			return i
		}
	}
	panic("domdiff: shadow node is not a registered slot")
}

func (t *shadowTree) indexInParent(id shadowID) int {
	parent := t.nodes[id].parent
	for i, c := range t.nodes[parent].children {
		if c == id {
			return i
		}
	}
	panic("domdiff: shadow node missing from its recorded parent's children")
}

// isSlotRoot reports whether id's parent is a slot node — i.e. id is the
// content root directly held by a slot, per the detach-without-placeholder
// rule in §4.4.5.
func (t *shadowTree) isSlotRoot(id shadowID) bool {
	parent := t.nodes[id].parent
	return parent != noShadow && t.nodes[parent].special == specialSlot
}

// computePath walks parent links to the super-root, implementing §4.4.1's
// rule: stop and emit the slot index as soon as the slot-content boundary
// is reached (parent is a slot node, grandparent the super-root), without
// including the content root's position inside the slot.
func (t *shadowTree) computePath(id shadowID) NodePath {
	var rev []int
	cur := id
	for {
		parent := t.nodes[cur].parent
		if parent == t.superRoot {
			// cur is itself a slot node.
			rev = append(rev, t.slotIndexOf(cur))
			break
		}
		if t.nodes[parent].special == specialSlot {
			rev = append(rev, t.slotIndexOf(parent))
			break
		}
		rev = append(rev, t.indexInParent(cur))
		cur = parent
	}
	path := make(NodePath, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// removeFromParent detaches id from its current parent's child list
// without recording a placeholder. id.parent is left pointing at the
// former parent until the caller assigns a new one.
func (t *shadowTree) removeFromParent(id shadowID) {
	parent := t.nodes[id].parent
	if parent == noShadow {
		return
	}
	siblings := t.nodes[parent].children
	for i, c := range siblings {
		if c == id {
			t.nodes[parent].children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
}

func (t *shadowTree) appendChild(parent, child shadowID) {
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	t.nodes[child].parent = parent
}

func (t *shadowTree) insertChildAt(parent shadowID, idx int, child shadowID) {
	children := t.nodes[parent].children
	children = append(children, noShadow)
	copy(children[idx+1:], children[idx:])
	children[idx] = child
	t.nodes[parent].children = children
	t.nodes[child].parent = parent
}

func (t *shadowTree) newPlaceholder() shadowID {
	return t.alloc(shadowNode{class: ClassText, text: "", parent: noShadow})
}

func (t *shadowTree) newContentNode(k Kind, attrs []arena.Attr, text string) shadowID {
	n := shadowNode{class: k.Class, tag: k.Tag, ns: k.Namespace, parent: noShadow}
	if k.Class == ClassElement {
		n.attrs = attrs
	} else {
		n.text = text
	}
	return t.alloc(n)
}

// detachToSlot removes id from wherever it currently sits, creates a new
// slot, and re-parents id as that slot's content root. Returns the new
// slot index (§4.4.2).
func (t *shadowTree) detachToSlot(id shadowID) int {
	t.removeFromParent(id)
	slot := t.createSlot()
	t.nodes[id].parent = noShadow
	t.appendChild(t.slots[slot], id)
	return slot
}

// detachWithPlaceholder inserts a zero-length text placeholder at id's
// former position (preserving sibling indices) and then detaches id,
// leaving it parentless (§4.4.2). Used for Delete and for Move of a
// non-slot-root node.
func (t *shadowTree) detachWithPlaceholder(id shadowID) {
	parent := t.nodes[id].parent
	idx := t.indexInParent(id)
	ph := t.newPlaceholder()
	t.nodes[parent].children[idx] = ph
	t.nodes[ph].parent = parent
	t.nodes[id].parent = noShadow
}

// insertAtPosition implements §4.4.3/§4.4.4: fills any gap between the
// parent's current child count and position with placeholders, then
// either appends node (position beyond current children, no
// displacement) or displaces the current occupant of position into a
// fresh slot and inserts node in its place. Returns the displaced slot
// index, or nil if nothing was displaced.
func (t *shadowTree) insertAtPosition(parent shadowID, position int, node shadowID) *int {
	for len(t.nodes[parent].children) < position {
		ph := t.newPlaceholder()
		t.appendChild(parent, ph)
	}
	children := t.nodes[parent].children
	if position < len(children) {
		occupant := children[position]
		slot := t.detachToSlot(occupant)
		t.insertChildAt(parent, position, node)
		return &slot
	}
	t.appendChild(parent, node)
	return nil
}

// moveToPosition relocates node to position within newParent, detaching
// it from its current location first (without a placeholder if node is
// itself a slot's content root, with one otherwise), then filling gaps
// and displacing any occupant exactly as insertAtPosition does. Returns
// the displaced slot index, if any.
func (t *shadowTree) moveToPosition(node shadowID, newParent shadowID, position int) *int {
	if t.isSlotRoot(node) {
		t.removeFromParent(node)
		t.nodes[node].parent = noShadow
	} else {
		t.detachWithPlaceholder(node)
	}
	return t.insertAtPosition(newParent, position, node)
}
