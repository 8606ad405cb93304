package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E001",
			wantMsg: "no configuration file found",
			wantCat: CategoryConfig,
		},
		{
			name:    "cli error",
			code:    "E020",
			wantMsg: "input file not found",
			wantCat: CategoryCLI,
		},
		{
			name:    "livereload error",
			code:    "E040",
			wantMsg: "address already in use",
			wantCat: CategoryLiveReload,
		},
		{
			name:    "unknown code",
			code:    "E999",
			wantMsg: "unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.code)
			if e.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMsg)
			}
			if e.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", e.Category, tt.wantCat)
			}
			if e.Code != tt.code {
				t.Errorf("Code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	withCode := New("E001")
	if got, want := withCode.Error(), "E001: no configuration file found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noCode := Newf(CategoryConfig, "port %d is already bound", 3977)
	if got, want := noCode.Error(), "port 3977 is already bound"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWithSuggestionAndDetail(t *testing.T) {
	e := New("E003").WithDetail("got -1").WithSuggestion("set server.port to a value in [0,65535]")
	if e.Detail != "got -1" {
		t.Errorf("Detail = %q", e.Detail)
	}
	if e.Suggestion == "" {
		t.Error("Suggestion not set")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	e := New("E001").Wrap(cause)

	if !errors.Is(e, cause) {
		t.Error("errors.Is did not see through Wrap")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	cause := errors.New("boom")
	wrapped := FromError(cause, "E020")
	if wrapped.Code != "E020" {
		t.Errorf("Code = %q, want E020", wrapped.Code)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error lost its cause")
	}

	already := New("E001")
	if FromError(already, "E020") != already {
		t.Error("FromError should pass an existing *VangoError through unchanged")
	}
}

func TestFormatContainsCodeAndSuggestion(t *testing.T) {
	DisableColors()
	defer EnableColors()

	e := New("E003").WithSuggestion("use a port between 0 and 65535")
	out := e.Format()

	for _, want := range []string{"E003", "invalid port number", "use a port between 0 and 65535"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	e := New("E040")
	if got, want := e.FormatCompact(), "E040: address already in use"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestRegistryLookup(t *testing.T) {
	if _, ok := GetTemplate("E001"); !ok {
		t.Error("expected E001 to be registered")
	}
	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not be registered")
	}

	Register("E900", ErrorTemplate{Category: CategoryCLI, Message: "test-only code"})
	if _, ok := GetTemplate("E900"); !ok {
		t.Error("Register did not add the new template")
	}

	if len(GetAllCodes()) < 7 {
		t.Errorf("GetAllCodes() too short: %v", GetAllCodes())
	}
}
