package arena

import "testing"

func TestNewDocumentHasEmptyRoot(t *testing.T) {
	d := NewDocument()
	if d.Kind(d.Root()) != KindDocument {
		t.Fatalf("root kind = %v, want KindDocument", d.Kind(d.Root()))
	}
	if d.ChildCount(d.Root()) != 0 {
		t.Fatalf("fresh document root has %d children, want 0", d.ChildCount(d.Root()))
	}
}

func TestNewElementLinksParentAndChild(t *testing.T) {
	d := NewDocument()
	html := d.NewElement(d.Root(), "html", HTML, nil)
	body := d.NewElement(html, "body", HTML, nil)

	if d.Parent(body) != html {
		t.Fatalf("body parent = %v, want %v", d.Parent(body), html)
	}
	children := d.Children(html)
	if len(children) != 1 || children[0] != body {
		t.Fatalf("html children = %v, want [%v]", children, body)
	}
}

func TestBodyFindsNestedBody(t *testing.T) {
	d := NewDocument()
	html := d.NewElement(d.Root(), "html", HTML, nil)
	head := d.NewElement(html, "head", HTML, nil)
	_ = d.NewElement(head, "title", HTML, nil)
	body := d.NewElement(html, "body", HTML, nil)

	if got := d.Body(); got != body {
		t.Fatalf("Body() = %v, want %v", got, body)
	}
}

func TestBodyAbsentReturnsNoNode(t *testing.T) {
	d := NewDocument()
	d.NewElement(d.Root(), "html", HTML, nil)

	if got := d.Body(); got != NoNode {
		t.Fatalf("Body() = %v, want NoNode", got)
	}
}

func TestAttrsPreserveInsertionOrder(t *testing.T) {
	d := NewDocument()
	attrs := []Attr{{Name: "class", Value: "a"}, {Name: "id", Value: "x"}}
	el := d.NewElement(d.Root(), "div", HTML, attrs)

	got := d.Attrs(el)
	if len(got) != 2 || got[0].Name != "class" || got[1].Name != "id" {
		t.Fatalf("Attrs() = %v, want insertion order preserved", got)
	}
}
