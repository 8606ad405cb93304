package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.DebounceMs != DefaultDebounceMs {
		t.Errorf("DebounceMs = %d, want %d", cfg.DebounceMs, DefaultDebounceMs)
	}
	if cfg.Matching.SimilarityThreshold != DefaultSimilarityThreshold {
		t.Errorf("Matching.SimilarityThreshold = %f, want %f", cfg.Matching.SimilarityThreshold, DefaultSimilarityThreshold)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(tmpDir); err == nil {
		t.Error("expected error for missing config")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "example",
  "watch": ["app", "public"],
  "server": { "port": 8080, "host": "0.0.0.0" },
  "matching": { "similarityThreshold": 0.7, "minHeight": 2 }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "example" {
		t.Errorf("Name = %q, want example", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Matching.SimilarityThreshold != 0.7 {
		t.Errorf("Matching.SimilarityThreshold = %f, want 0.7", cfg.Matching.SimilarityThreshold)
	}
	if cfg.Matching.MinHeight != 2 {
		t.Errorf("Matching.MinHeight = %d, want 2", cfg.Matching.MinHeight)
	}
	if len(cfg.Watch) != 2 || cfg.Watch[0] != "app" {
		t.Errorf("Watch = %v", cfg.Watch)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpDir); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	cfg.Name = "roundtrip"
	path := filepath.Join(tmpDir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "roundtrip" {
		t.Errorf("Name = %q, want roundtrip", loaded.Name)
	}
	if loaded.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", loaded.Server.Port, DefaultPort)
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}

	cfg = New()
	cfg.Matching.SimilarityThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range similarity threshold")
	}
}

func TestAddressAndURL(t *testing.T) {
	cfg := New()
	cfg.Server.Host = "example.test"
	cfg.Server.Port = 9999
	if got, want := cfg.Address(), "example.test:9999"; got != want {
		t.Errorf("Address() = %q, want %q", got, want)
	}
	if got, want := cfg.URL(), "http://example.test:9999"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if found != root {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}

	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Error("expected error when no config exists in any ancestor")
	}
}

func TestWatchPaths(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	cfg.Watch = []string{"app", "/abs/public"}
	if err := cfg.SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	paths := cfg.WatchPaths()
	if len(paths) != 2 {
		t.Fatalf("WatchPaths() = %v", paths)
	}
	if paths[0] != filepath.Join(tmpDir, "app") {
		t.Errorf("WatchPaths()[0] = %q", paths[0])
	}
	if paths[1] != "/abs/public" {
		t.Errorf("WatchPaths()[1] = %q", paths[1])
	}
}
