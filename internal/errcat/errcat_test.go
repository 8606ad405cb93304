package errcat

import "testing"

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *DiffError
		wantErr string
	}{
		{"no body", ErrNoBody(), "D001: document has no body to diff against"},
		{"path out of bounds", ErrPathOutOfBounds(3), "D002: path index is out of bounds (index 3)"},
		{"empty path", ErrEmptyPath(), "D003: path has no elements"},
		{"slot not found", ErrSlotNotFound(2), "D004: referenced slot does not exist (slot 2)"},
		{"slot missing relative path", ErrSlotMissingRelativePath(), "D005: path addresses a slot with no further descent"},
		{"not a text node", ErrNotATextNode(), "D006: target node is not a text node"},
		{"not an element", ErrNotAnElement(), "D007: target node is not an element"},
		{"not a comment", ErrNotAComment(), "D008: target node is not a comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantErr {
				t.Errorf("Error() = %q, want %q", got, tt.wantErr)
			}
			if tt.err.DocURL == "" {
				t.Error("DocURL not populated from registry")
			}
		})
	}
}

// Only NoBody is ever returned by the diff engine itself (see htmldiff.go);
// the rest are applier-observable conditions per spec, present here for
// wire-shape completeness and exercised only by this test.
func TestKindsAreDistinct(t *testing.T) {
	seen := make(map[string]Kind)
	for k, tmpl := range registry {
		if existing, ok := seen[tmpl.code]; ok {
			t.Errorf("code %s shared by Kind %d and %d", tmpl.code, existing, k)
		}
		seen[tmpl.code] = k
	}
}
