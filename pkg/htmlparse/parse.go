// Package htmlparse builds an internal/arena.Document from HTML text,
// using golang.org/x/net/html for browser-compatible tokenization and
// tree construction (error recovery, first-wins attribute dedup, and
// namespace assignment for SVG/MathML subtrees all come from there).
// This package only re-shapes the resulting *html.Node tree into the
// flat arena the diff core expects, merging adjacent text nodes within
// a parent along the way.
package htmlparse

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/htmldiff/internal/arena"
)

// Parse parses an HTML document string into an arena.Document whose
// Document root holds the parsed top-level nodes (normally <html>) as
// children.
func Parse(src string) (*arena.Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	doc := arena.NewDocument()
	buildChildren(doc, doc.Root(), root)
	return doc, nil
}

// ParseFragment parses an HTML fragment as it would appear inside
// context (e.g. "body", "div"), returning an arena.Document whose root
// holds the parsed nodes as children.
func ParseFragment(src, context string) (*arena.Document, error) {
	ctxNode := &html.Node{Type: html.ElementNode, Data: context, DataAtom: atom.Lookup([]byte(context))}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctxNode)
	if err != nil {
		return nil, err
	}
	doc := arena.NewDocument()
	for _, n := range nodes {
		appendNode(doc, doc.Root(), n)
	}
	return doc, nil
}

// buildChildren walks the x/net/html tree and appends its top-level
// content (document children, typically <html>) under parent.
func buildChildren(doc *arena.Document, parent arena.NodeID, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendNode(doc, parent, c)
	}
}

// appendNode converts one x/net/html node (and its subtree) into the
// arena, adjacent text runs merged within their shared parent.
func appendNode(doc *arena.Document, parent arena.NodeID, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		id := doc.NewElement(parent, n.Data, namespaceOf(n), convertAttrs(n.Attr))
		buildChildren(doc, id, n)
	case html.TextNode:
		mergeOrAppendText(doc, parent, n.Data)
	case html.CommentNode:
		doc.NewComment(parent, n.Data)
	case html.DoctypeNode, html.DocumentNode:
		buildChildren(doc, parent, n)
	}
}

// mergeOrAppendText implements the "adjacent-text merging within a
// parent" guarantee required of the parser: if the last child of parent
// is already a text node, its content is extended rather than a new
// sibling created.
func mergeOrAppendText(doc *arena.Document, parent arena.NodeID, text string) {
	children := doc.Children(parent)
	if n := len(children); n > 0 {
		last := children[n-1]
		if doc.Kind(last) == arena.KindText {
			doc.SetText(last, doc.Text(last)+text)
			return
		}
	}
	doc.NewText(parent, text)
}

func convertAttrs(attrs []html.Attribute) []arena.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]arena.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = arena.Attr{Namespace: a.Namespace, Name: a.Key, Value: a.Val}
	}
	return out
}

func namespaceOf(n *html.Node) arena.Namespace {
	switch n.Namespace {
	case "svg":
		return arena.SVG
	case "math":
		return arena.MathML
	default:
		return arena.HTML
	}
}

