// Package errcat defines the recoverable error taxonomy returned by the
// diff core and consumed by the live-reload server: a small, stable set
// of codes an applier or operator can branch on, grounded on the
// registered-template pattern the rest of this module's error handling
// uses (see internal/errors).
package errcat

import "fmt"

// Kind discriminates the DiffError variants of §6/§7: shape errors the
// caller can recover from, as opposed to invariant violations that
// panic because they indicate a bug in the engine itself.
type Kind uint8

const (
	NoBody Kind = iota
	PathOutOfBounds
	EmptyPath
	SlotNotFound
	SlotMissingRelativePath
	NotATextNode
	NotAnElement
	NotAComment
)

type template struct {
	code    string
	message string
	docURL  string
}

var registry = map[Kind]template{
	NoBody:                  {"D001", "document has no body to diff against", "https://htmldiff.dev/errors/D001"},
	PathOutOfBounds:         {"D002", "path index is out of bounds", "https://htmldiff.dev/errors/D002"},
	EmptyPath:               {"D003", "path has no elements", "https://htmldiff.dev/errors/D003"},
	SlotNotFound:            {"D004", "referenced slot does not exist", "https://htmldiff.dev/errors/D004"},
	SlotMissingRelativePath: {"D005", "path addresses a slot with no further descent", "https://htmldiff.dev/errors/D005"},
	NotATextNode:            {"D006", "target node is not a text node", "https://htmldiff.dev/errors/D006"},
	NotAnElement:            {"D007", "target node is not an element", "https://htmldiff.dev/errors/D007"},
	NotAComment:             {"D008", "target node is not a comment", "https://htmldiff.dev/errors/D008"},
}

// DiffError is the single error type diff and its collaborators return
// for recoverable misuse. Internal invariant violations are asserted
// directly and never surface as a DiffError (§7).
type DiffError struct {
	Kind Kind

	// Index is set for PathOutOfBounds.
	Index int
	// Slot is set for SlotNotFound.
	Slot int

	Code    string
	Message string
	DocURL  string
}

func newError(k Kind) *DiffError {
	t := registry[k]
	return &DiffError{Kind: k, Code: t.code, Message: t.message, DocURL: t.docURL}
}

func (e *DiffError) Error() string {
	switch e.Kind {
	case PathOutOfBounds:
		return fmt.Sprintf("%s: %s (index %d)", e.Code, e.Message, e.Index)
	case SlotNotFound:
		return fmt.Sprintf("%s: %s (slot %d)", e.Code, e.Message, e.Slot)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// ErrNoBody reports a document with no root to diff against.
func ErrNoBody() *DiffError { return newError(NoBody) }

// ErrPathOutOfBounds reports a path whose index exceeds the target
// node's child count.
func ErrPathOutOfBounds(index int) *DiffError {
	e := newError(PathOutOfBounds)
	e.Index = index
	return e
}

// ErrEmptyPath reports a path with no elements.
func ErrEmptyPath() *DiffError { return newError(EmptyPath) }

// ErrSlotNotFound reports a reference to a slot that was never created.
func ErrSlotNotFound(slot int) *DiffError {
	e := newError(SlotNotFound)
	e.Slot = slot
	return e
}

// ErrSlotMissingRelativePath reports a path that addresses a slot
// number with no descent into its content.
func ErrSlotMissingRelativePath() *DiffError { return newError(SlotMissingRelativePath) }

// ErrNotATextNode reports a SetText/text-comparison target that isn't a
// text node.
func ErrNotATextNode() *DiffError { return newError(NotATextNode) }

// ErrNotAnElement reports an UpdateProps/InsertElement target that
// isn't an element.
func ErrNotAnElement() *DiffError { return newError(NotAnElement) }

// ErrNotAComment reports an InsertComment target that isn't a comment.
func ErrNotAComment() *DiffError { return newError(NotAComment) }
