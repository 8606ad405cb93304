package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// PatchOp discriminates the externally addressed operations a Patch can
// carry. Names mirror §3 exactly.
type PatchOp uint8

const (
	PatchInsertElement PatchOp = iota
	PatchInsertText
	PatchInsertComment
	PatchRemove
	PatchSetText
	PatchSetAttribute
	PatchRemoveAttribute
	PatchMove
	PatchUpdateProps
)

func (op PatchOp) String() string {
	switch op {
	case PatchInsertElement:
		return "InsertElement"
	case PatchInsertText:
		return "InsertText"
	case PatchInsertComment:
		return "InsertComment"
	case PatchRemove:
		return "Remove"
	case PatchSetText:
		return "SetText"
	case PatchSetAttribute:
		return "SetAttribute"
	case PatchRemoveAttribute:
		return "RemoveAttribute"
	case PatchMove:
		return "Move"
	case PatchUpdateProps:
		return "UpdateProps"
	default:
		return "Unknown"
	}
}

// NodePath addresses a node (or an insertion position) in the applier's
// evolving view of the document: the first element is always a slot
// number, every subsequent element a child index. NodeRef is the same
// representation under the name §3 uses when a path identifies an
// existing node rather than a position.
type NodePath []int
type NodeRef = NodePath

// ContentKind discriminates an InsertContent payload.
type ContentKind uint8

const (
	ContentElement ContentKind = iota
	ContentText
	ContentComment
)

// InsertContent recursively describes a subtree payload carried by an
// InsertElement patch, for descendants that are not separately matched or
// inserted by their own patch.
type InsertContent struct {
	Kind      ContentKind `json:"kind"`
	Tag       string      `json:"tag,omitempty"`
	Namespace arena.Namespace `json:"namespace,omitempty"`
	Attrs     []arena.Attr    `json:"attrs,omitempty"`
	Text      string          `json:"text,omitempty"`
	Children  []InsertContent `json:"children,omitempty"`
}

// PropChange is one entry of an UpdateProps patch's changes list. Remove
// entries correspond to attribute keys present in A but absent from B's
// final state (§4.3's "keys absent from the vec are implicitly to be
// removed"); Set entries carry the new value for a key that changed or
// was added. Keys whose value did not change are omitted entirely —
// there is nothing for the applier to do with them.
type PropChange struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
	Remove    bool   `json:"remove,omitempty"`
	Value     string `json:"value,omitempty"`
}

// Patch is one externally addressed DOM operation, positioned against the
// tree state the applier will have after applying every patch before it
// in the stream.
type Patch struct {
	Op PatchOp `json:"op"`

	// InsertElement / InsertText / InsertComment.
	At        NodePath        `json:"at,omitempty"`
	Tag       string          `json:"tag,omitempty"`
	Namespace arena.Namespace `json:"namespace,omitempty"`
	Attrs     []arena.Attr    `json:"attrs,omitempty"`
	Children  []InsertContent `json:"children,omitempty"`
	Text      string          `json:"text,omitempty"`

	// Remove.
	Node NodeRef `json:"node,omitempty"`

	// SetText / SetAttribute / RemoveAttribute / UpdateProps.
	Path NodePath `json:"path,omitempty"`
	Name string   `json:"name,omitempty"`
	Value string  `json:"value,omitempty"`

	// UpdateProps.
	Changes []PropChange `json:"changes,omitempty"`

	// Move.
	From NodeRef `json:"from,omitempty"`
	To   NodeRef `json:"to,omitempty"`

	// Insert / Move: names a slot freshly created to hold whatever
	// occupied the target position before this patch, or nil if the
	// position was beyond the current child count (no displacement).
	// The applier MUST allocate this slot atomically with applying the
	// patch.
	DetachToSlot *int `json:"detachToSlot,omitempty"`
}
