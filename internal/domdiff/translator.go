package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// ForceRootMatch implements §4.4.6's root-matching invariant: if the two
// roots were left unmatched by the matcher but agree in kind, force the
// pair before script generation runs. Without this, an unrelated root
// element (e.g. the matcher chose not to pair two <body> tags with no
// shared descendants) would generate a full-document Delete+Insert
// instead of in-place updates, and the translator would have nowhere to
// root slot 0's content.
func ForceRootMatch(a, b *DiffTree, m *Matching) {
	ra, rb := a.Root(), b.Root()
	if m.IsMatchedA(ra) || m.IsMatchedB(rb) {
		return
	}
	if a.KindOf(ra) != b.KindOf(rb) {
		return
	}
	m.Match(ra, rb)
}

// Translate converts an edit script into the externally addressed Patch
// stream of §4.4, building and mutating a shadow copy of A to keep every
// path and position correct as earlier patches in the stream are
// conceptually applied.
func Translate(a, b *DiffTree, m *Matching, ops []EditOp) []Patch {
	tr := newTranslator(a, b, m, ops)
	return tr.run()
}

type translator struct {
	a, b      *DiffTree
	shadow    *shadowTree
	bToShadow map[arena.NodeID]shadowID

	// hasOwnInsert marks every B node with its own Insert op, so content
	// extraction for an ancestor's InsertElement doesn't duplicate it.
	hasOwnInsert map[arena.NodeID]bool
	matchedB     map[arena.NodeID]bool

	ops     []EditOp
	patches []Patch
}

func newTranslator(a, b *DiffTree, m *Matching, ops []EditOp) *translator {
	shadow, _ := buildShadowTree(a)

	bToShadow := make(map[arena.NodeID]shadowID, len(m.Pairs()))
	for _, p := range m.Pairs() {
		bToShadow[p.B] = shadow.origToShadow[p.A]
	}

	hasOwnInsert := make(map[arena.NodeID]bool)
	for _, op := range ops {
		if op.Kind == OpInsert {
			hasOwnInsert[op.NodeB] = true
		}
	}
	matchedB := make(map[arena.NodeID]bool)
	for _, p := range m.Pairs() {
		matchedB[p.B] = true
	}

	return &translator{
		a: a, b: b,
		shadow:       shadow,
		bToShadow:    bToShadow,
		hasOwnInsert: hasOwnInsert,
		matchedB:     matchedB,
		ops:          ops,
	}
}

func (tr *translator) run() []Patch {
	for _, op := range tr.ops {
		switch op.Kind {
		case OpUpdateProperties:
			tr.emitUpdateProperties(op)
		case OpSetText:
			tr.emitSetText(op)
		case OpInsert:
			tr.emitInsert(op)
		case OpMove:
			tr.emitMove(op)
		case OpDelete:
			tr.emitDelete(op)
		}
	}
	return tr.patches
}

func (tr *translator) emitUpdateProperties(op EditOp) {
	sid := tr.shadow.origToShadow[op.NodeA]
	path := tr.shadow.computePath(sid)

	changes := make([]PropChange, 0, len(op.FinalState))
	for _, ps := range op.FinalState {
		if ps.Changed {
			changes = append(changes, PropChange{Namespace: ps.Namespace, Name: ps.Name, Value: ps.Value})
		}
	}
	for _, rk := range removedKeys(tr.a.Properties(op.NodeA), tr.b.Properties(op.NodeB)) {
		changes = append(changes, PropChange{Namespace: rk.Namespace, Name: rk.Name, Remove: true})
	}

	tr.patches = append(tr.patches, Patch{Op: PatchUpdateProps, Path: path, Changes: changes})
}

func (tr *translator) emitSetText(op EditOp) {
	sid := tr.shadow.origToShadow[op.NodeA]
	path := tr.shadow.computePath(sid)
	tr.patches = append(tr.patches, Patch{Op: PatchSetText, Path: path, Text: op.Text})
}

func (tr *translator) resolveShadowParent(parentB arena.NodeID) shadowID {
	if sid, ok := tr.bToShadow[parentB]; ok {
		return sid
	}
	// The parent has no shadow counterpart yet; inserts run in B's
	// document order so an element's own Insert op always precedes its
	// children's, but fall back to slot 0's content root defensively.
	return tr.shadow.slotContentRoot(0)
}

func (tr *translator) emitInsert(op EditOp) {
	shadowParent := tr.resolveShadowParent(op.ParentB)

	var attrs []arena.Attr
	var text string
	if op.NodeKind.Class == ClassElement {
		attrs = tr.b.Properties(op.NodeB)
	} else {
		text = tr.b.Text(op.NodeB)
	}
	newNode := tr.shadow.newContentNode(op.NodeKind, attrs, text)
	detachSlot := tr.shadow.insertAtPosition(shadowParent, op.Position, newNode)
	tr.bToShadow[op.NodeB] = newNode

	at := append(tr.shadow.computePath(shadowParent), op.Position)

	switch op.NodeKind.Class {
	case ClassElement:
		children := tr.extractChildren(op.NodeB)
		tr.patches = append(tr.patches, Patch{
			Op: PatchInsertElement, At: at,
			Tag: op.NodeKind.Tag, Namespace: op.NodeKind.Namespace,
			Attrs: attrs, Children: children,
			DetachToSlot: detachSlot,
		})
	case ClassText:
		tr.patches = append(tr.patches, Patch{
			Op: PatchInsertText, At: at, Text: text, DetachToSlot: detachSlot,
		})
	case ClassComment:
		tr.patches = append(tr.patches, Patch{
			Op: PatchInsertComment, At: at, Text: text, DetachToSlot: detachSlot,
		})
	}
}

// extractChildren recursively builds the InsertContent payload for
// node's children, skipping any descendant that is matched (it will
// arrive via its own Move) or carries its own Insert op (it will arrive
// via its own InsertElement/Text/Comment patch).
func (tr *translator) extractChildren(node arena.NodeID) []InsertContent {
	var out []InsertContent
	for _, c := range tr.b.Children(node) {
		if tr.matchedB[c] || tr.hasOwnInsert[c] {
			continue
		}
		out = append(out, tr.extractContent(c))
	}
	return out
}

func (tr *translator) extractContent(node arena.NodeID) InsertContent {
	k := tr.b.KindOf(node)
	switch k.Class {
	case ClassElement:
		return InsertContent{
			Kind: ContentElement, Tag: k.Tag, Namespace: k.Namespace,
			Attrs:    tr.b.Properties(node),
			Children: tr.extractChildren(node),
		}
	case ClassComment:
		return InsertContent{Kind: ContentComment, Text: tr.b.Text(node)}
	default:
		return InsertContent{Kind: ContentText, Text: tr.b.Text(node)}
	}
}

func (tr *translator) emitDelete(op EditOp) {
	sid := tr.shadow.origToShadow[op.NodeA]
	path := tr.shadow.computePath(sid)
	tr.shadow.detachWithPlaceholder(sid)
	tr.patches = append(tr.patches, Patch{Op: PatchRemove, Node: path})
}

func (tr *translator) emitMove(op EditOp) {
	sid := tr.shadow.origToShadow[op.NodeA]
	from := tr.shadow.computePath(sid)

	shadowNewParent := tr.resolveShadowParent(op.NewParentB)
	detachSlot := tr.shadow.moveToPosition(sid, shadowNewParent, op.Position)
	tr.bToShadow[op.NodeB] = sid

	to := append(tr.shadow.computePath(shadowNewParent), op.Position)
	tr.patches = append(tr.patches, Patch{Op: PatchMove, From: from, To: to, DetachToSlot: detachSlot})
}
