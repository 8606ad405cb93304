package domdiff

import (
	"testing"

	"github.com/vango-dev/htmldiff/internal/arena"
)

// diffAll runs the whole pipeline (match, force-root, generate, translate)
// over two documents rooted at rootA/rootB and returns the resulting
// patches.
func diffAll(t *testing.T, domA, domB *arena.Document, rootA, rootB arena.NodeID) []Patch {
	t.Helper()
	a := NewDiffTree(domA, rootA)
	b := NewDiffTree(domB, rootB)
	m := Match(a, b, DefaultMatchingConfig())
	ForceRootMatch(a, b, m)
	ops := GenerateEditScript(a, b, m)
	return Translate(a, b, m, ops)
}

func countOps(patches []Patch, op PatchOp) int {
	n := 0
	for _, p := range patches {
		if p.Op == op {
			n++
		}
	}
	return n
}

func TestIdentityProducesNoPatches(t *testing.T) {
	dom := arena.NewDocument()
	body := dom.NewElement(dom.Root(), "body", arena.HTML, nil)
	div := dom.NewElement(body, "div", arena.HTML, []arena.Attr{{Name: "class", Value: "x"}})
	dom.NewText(div, "hello")

	patches := diffAll(t, dom, dom, body, body)
	if len(patches) != 0 {
		t.Fatalf("identity diff produced %d patches, want 0: %+v", len(patches), patches)
	}
}

func TestTextChangeEmitsSetText(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	pA := domA.NewElement(bodyA, "p", arena.HTML, nil)
	domA.NewText(pA, "old")

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	pB := domB.NewElement(bodyB, "p", arena.HTML, nil)
	domB.NewText(pB, "new")

	patches := diffAll(t, domA, domB, bodyA, bodyB)
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1: %+v", len(patches), patches)
	}
	if patches[0].Op != PatchSetText {
		t.Fatalf("op = %v, want SetText", patches[0].Op)
	}
	if patches[0].Text != "new" {
		t.Fatalf("text = %q, want new", patches[0].Text)
	}
}

func TestAttributeUpdateOnly(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	domA.NewElement(bodyA, "div", arena.HTML, nil)

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	domB.NewElement(bodyB, "div", arena.HTML, []arena.Attr{{Name: "class", Value: "x"}})

	patches := diffAll(t, domA, domB, bodyA, bodyB)
	if len(patches) != 1 || patches[0].Op != PatchUpdateProps {
		t.Fatalf("got %+v, want a single UpdateProps patch", patches)
	}
	changes := patches[0].Changes
	if len(changes) != 1 || changes[0].Name != "class" || changes[0].Remove || changes[0].Value != "x" {
		t.Fatalf("changes = %+v, want [{class, Remove:false, Value:x}]", changes)
	}
}

func TestPropertyOnlyChangeNeverMoves(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	divA := domA.NewElement(bodyA, "div", arena.HTML, nil)
	domA.NewText(divA, "a")
	domA.NewElement(bodyA, "span", arena.HTML, []arena.Attr{{Name: "id", Value: "s1"}})

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	divB := domB.NewElement(bodyB, "div", arena.HTML, []arena.Attr{{Name: "class", Value: "y"}})
	domB.NewText(divB, "b")
	domB.NewElement(bodyB, "span", arena.HTML, []arena.Attr{{Name: "id", Value: "s2"}})

	patches := diffAll(t, domA, domB, bodyA, bodyB)
	for _, p := range patches {
		switch p.Op {
		case PatchUpdateProps, PatchSetText:
		default:
			t.Fatalf("unexpected op %v in structure-preserving diff: %+v", p.Op, patches)
		}
	}
	if countOps(patches, PatchUpdateProps) == 0 {
		t.Fatalf("expected at least one UpdateProps patch, got %+v", patches)
	}
}

func TestPureInsertion(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	divA := domA.NewElement(bodyA, "div", arena.HTML, nil)
	domA.NewText(divA, "x")

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	divB := domB.NewElement(bodyB, "div", arena.HTML, nil)
	domB.NewText(divB, "x")
	pB := domB.NewElement(bodyB, "p", arena.HTML, nil)
	domB.NewText(pB, "y")

	patches := diffAll(t, domA, domB, bodyA, bodyB)
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1: %+v", len(patches), patches)
	}
	p := patches[0]
	if p.Op != PatchInsertElement {
		t.Fatalf("op = %v, want InsertElement", p.Op)
	}
	if p.Tag != "p" {
		t.Fatalf("tag = %q, want p", p.Tag)
	}
	if len(p.At) != 2 || p.At[0] != 0 || p.At[1] != 1 {
		t.Fatalf("at = %v, want [0 1]", p.At)
	}
	if len(p.Children) != 1 || p.Children[0].Kind != ContentText || p.Children[0].Text != "y" {
		t.Fatalf("children = %+v", p.Children)
	}
	if p.DetachToSlot != nil {
		t.Fatalf("detachToSlot = %v, want nil", p.DetachToSlot)
	}
}

func TestSiblingSwapEmitsOnlyMoves(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	aA := domA.NewElement(bodyA, "section", arena.HTML, []arena.Attr{{Name: "id", Value: "a"}})
	domA.NewText(aA, "alpha content here")
	bA := domA.NewElement(bodyA, "article", arena.HTML, []arena.Attr{{Name: "id", Value: "b"}})
	domA.NewText(bA, "beta content here")

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	bB := domB.NewElement(bodyB, "article", arena.HTML, []arena.Attr{{Name: "id", Value: "b"}})
	domB.NewText(bB, "beta content here")
	aB := domB.NewElement(bodyB, "section", arena.HTML, []arena.Attr{{Name: "id", Value: "a"}})
	domB.NewText(aB, "alpha content here")

	patches := diffAll(t, domA, domB, bodyA, bodyB)
	for _, p := range patches {
		if p.Op != PatchMove {
			t.Fatalf("unexpected op %v in sibling-swap diff: %+v", p.Op, patches)
		}
	}
	if len(patches) != 2 {
		t.Fatalf("got %d patches, want 2 Move patches: %+v", len(patches), patches)
	}
}

func TestDisplacement(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	domA.NewElement(bodyA, "div", arena.HTML, []arena.Attr{{Name: "id", Value: "only"}})

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	pB := domB.NewElement(bodyB, "p", arena.HTML, nil)
	domB.NewText(pB, "replacement")

	patches := diffAll(t, domA, domB, bodyA, bodyB)

	var insert, remove *Patch
	for i := range patches {
		switch patches[i].Op {
		case PatchInsertElement:
			insert = &patches[i]
		case PatchRemove:
			remove = &patches[i]
		}
	}
	if insert == nil || remove == nil {
		t.Fatalf("want one InsertElement and one Remove, got %+v", patches)
	}
	if insert.DetachToSlot == nil {
		t.Fatalf("insert.DetachToSlot = nil, want displaced slot")
	}
	if len(remove.Node) == 0 || remove.Node[0] != *insert.DetachToSlot {
		t.Fatalf("remove.Node = %v, want slot %d at index 0", remove.Node, *insert.DetachToSlot)
	}
}

func TestOpaqueInvariance(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	widgetA := domA.NewElement(bodyA, "x-widget", arena.HTML, nil)
	domA.SetOpaque(widgetA, true)
	domA.NewText(widgetA, "internal state A")

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	widgetB := domB.NewElement(bodyB, "x-widget", arena.HTML, nil)
	domB.SetOpaque(widgetB, true)
	domB.NewText(widgetB, "internal state B — completely different")

	patches := diffAll(t, domA, domB, bodyA, bodyB)
	if len(patches) != 0 {
		t.Fatalf("opaque subtree differences leaked into patches: %+v", patches)
	}
}

func TestHashLocalityMatchesEntireSubtree(t *testing.T) {
	build := func(dom *arena.Document, body arena.NodeID) {
		ul := dom.NewElement(body, "ul", arena.HTML, nil)
		for i := 0; i < 3; i++ {
			li := dom.NewElement(ul, "li", arena.HTML, nil)
			dom.NewText(li, "item")
		}
	}
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	build(domA, bodyA)

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	build(domB, bodyB)
	// Insert an unrelated sibling so the bodies themselves differ, while
	// the <ul> subtree stays byte-for-byte identical and should match as
	// one unit under top-down hashing.
	pB := domB.NewElement(bodyB, "p", arena.HTML, nil)
	domB.NewText(pB, "extra")

	a := NewDiffTree(domA, bodyA)
	b := NewDiffTree(domB, bodyB)
	m := Match(a, b, DefaultMatchingConfig())

	ulA := domA.Children(bodyA)[0]
	ulB := domB.Children(bodyB)[0]
	if got, ok := m.GetB(ulA); !ok || got != ulB {
		t.Fatalf("ul subtree not matched: got=%v ok=%v", got, ok)
	}
	for i, liA := range domA.Children(ulA) {
		liB := domB.Children(ulB)[i]
		if got, ok := m.GetB(liA); !ok || got != liB {
			t.Fatalf("li[%d] not matched: got=%v ok=%v", i, got, ok)
		}
	}
}

func TestSlotCompleteness(t *testing.T) {
	domA := arena.NewDocument()
	bodyA := domA.NewElement(domA.Root(), "body", arena.HTML, nil)
	domA.NewElement(bodyA, "div", arena.HTML, []arena.Attr{{Name: "id", Value: "a"}})
	domA.NewElement(bodyA, "div", arena.HTML, []arena.Attr{{Name: "id", Value: "b"}})

	domB := arena.NewDocument()
	bodyB := domB.NewElement(domB.Root(), "body", arena.HTML, nil)
	domB.NewElement(bodyB, "span", arena.HTML, []arena.Attr{{Name: "id", Value: "x"}})
	domB.NewElement(bodyB, "span", arena.HTML, []arena.Attr{{Name: "id", Value: "y"}})

	patches := diffAll(t, domA, domB, bodyA, bodyB)

	// Walk the stream in order: every slot a patch references (other than
	// slot 0) must already have been created by detach_to_slot on some
	// earlier patch.
	created := map[int]bool{0: true}
	checkRef := func(p Patch, ref NodeRef) {
		if len(ref) == 0 {
			return
		}
		if !created[ref[0]] {
			t.Fatalf("patch %+v references slot %d before it was created", p, ref[0])
		}
	}
	sawDisplacement := false
	for _, p := range patches {
		checkRef(p, p.At)
		checkRef(p, p.Node)
		checkRef(p, p.Path)
		checkRef(p, p.From)
		checkRef(p, p.To)
		if p.DetachToSlot != nil {
			created[*p.DetachToSlot] = true
			sawDisplacement = true
		}
	}
	if !sawDisplacement {
		t.Fatalf("expected this diff to displace at least one node into a fresh slot: %+v", patches)
	}
}
