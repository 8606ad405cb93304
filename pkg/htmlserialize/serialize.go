// Package htmlserialize renders an internal/arena.Document back to HTML
// text, the inverse of pkg/htmlparse. It reconstructs a golang.org/x/net/html
// node tree from the arena and delegates rendering to html.Render, the
// same library pkg/htmlparse uses for parsing, so escaping and void-element
// handling stay consistent with the parser's own rules.
package htmlserialize

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/htmldiff/internal/arena"
)

// Render serializes the subtree rooted at id to HTML.
func Render(doc *arena.Document, id arena.NodeID) string {
	n := toHTMLNode(doc, id)
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// RenderDocument serializes every child of the document root.
func RenderDocument(doc *arena.Document) string {
	var b strings.Builder
	for _, c := range doc.Children(doc.Root()) {
		if err := html.Render(&b, toHTMLNode(doc, c)); err != nil {
			return ""
		}
	}
	return b.String()
}

func toHTMLNode(doc *arena.Document, id arena.NodeID) *html.Node {
	switch doc.Kind(id) {
	case arena.KindText:
		return &html.Node{Type: html.TextNode, Data: doc.Text(id)}
	case arena.KindComment:
		return &html.Node{Type: html.CommentNode, Data: doc.Text(id)}
	case arena.KindElement:
		tag := doc.Tag(id)
		n := &html.Node{
			Type:      html.ElementNode,
			Data:      tag,
			DataAtom:  atom.Lookup([]byte(tag)),
			Namespace: namespaceString(doc.ElementNamespace(id)),
			Attr:      toHTMLAttrs(doc.Attrs(id)),
		}
		attachChildren(doc, id, n)
		return n
	default:
		n := &html.Node{Type: html.DocumentNode}
		attachChildren(doc, id, n)
		return n
	}
}

func attachChildren(doc *arena.Document, id arena.NodeID, n *html.Node) {
	var prev *html.Node
	for _, c := range doc.Children(id) {
		child := toHTMLNode(doc, c)
		child.Parent = n
		if prev == nil {
			n.FirstChild = child
		} else {
			prev.NextSibling = child
			child.PrevSibling = prev
		}
		n.LastChild = child
		prev = child
	}
}

func toHTMLAttrs(attrs []arena.Attr) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]html.Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = html.Attribute{Namespace: a.Namespace, Key: a.Name, Val: a.Value}
	}
	return out
}

func namespaceString(ns arena.Namespace) string {
	switch ns {
	case arena.SVG:
		return "svg"
	case arena.MathML:
		return "math"
	default:
		return ""
	}
}
