package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
)

func TestManifestResolve(t *testing.T) {
	m := NewManifest()
	m.Set("icons/close.svg", "icons/close.abc123.svg")
	m.Set("fonts/inter.ttf", "fonts/inter.def456.ttf")

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"found entry", "icons/close.svg", "icons/close.abc123.svg"},
		{"found entry font", "fonts/inter.ttf", "fonts/inter.def456.ttf"},
		{"missing entry returns original", "unknown.png", "unknown.png"},
		{"empty string returns empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(tt.source)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestManifestHas(t *testing.T) {
	m := NewManifest()
	m.Set("icons/close.svg", "icons/close.abc123.svg")

	if !m.Has("icons/close.svg") {
		t.Error("Has(icons/close.svg) = false, want true")
	}
	if m.Has("unknown.png") {
		t.Error("Has(unknown.png) = true, want false")
	}
}

func TestManifestLen(t *testing.T) {
	m := NewManifest()
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}

	m.Set("a.png", "a.123.png")
	m.Set("b.png", "b.456.png")

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestManifestAll(t *testing.T) {
	m := NewManifest()
	m.Set("a.png", "a.123.png")
	m.Set("b.png", "b.456.png")

	all := m.All()
	if len(all) != 2 {
		t.Errorf("All() has %d entries, want 2", len(all))
	}
	if all["a.png"] != "a.123.png" {
		t.Errorf("All()[a.png] = %q, want a.123.png", all["a.png"])
	}

	// Verify it's a copy (modifying shouldn't affect original)
	all["c.png"] = "c.789.png"
	if m.Has("c.png") {
		t.Error("All() should return a copy, but modification affected original")
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")

	content := `{"icons/close.svg": "icons/close.abc123.svg", "app.css": "app.def456.css"}`
	if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	if got := m.Resolve("icons/close.svg"); got != "icons/close.abc123.svg" {
		t.Errorf("Resolve(icons/close.svg) = %q, want icons/close.abc123.svg", got)
	}
	if got := m.Resolve("app.css"); got != "app.def456.css" {
		t.Errorf("Resolve(app.css) = %q, want app.def456.css", got)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest("/nonexistent/manifest.json")
	if err == nil {
		t.Error("LoadManifest() should return error for missing file")
	}
}

func TestLoadManifestInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")

	if err := os.WriteFile(manifestPath, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadManifest(manifestPath)
	if err == nil {
		t.Fatal("LoadManifest() should return error for invalid JSON")
	}
	var lerr *lumenerrors.LumenError
	if !errors.As(err, &lerr) || lerr.Code != "E101" {
		t.Errorf("err = %v, want code E101", err)
	}
}
