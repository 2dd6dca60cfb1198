package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_RendersEmbedded(t *testing.T) {
	got, err := Default().Render("online.connected", map[string]any{"Account": "magnus"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Connected: magnus" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_MissingDataKeyFails(t *testing.T) {
	if _, err := Default().Render("online.connected", map[string]any{}); err == nil {
		t.Fatalf("expected error for missing data key")
	}
}

func TestText_FallsBackToKey(t *testing.T) {
	if got := Default().Text("no.such.key", nil); got != "no.such.key" {
		t.Fatalf("got %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Text("session.menu", nil); got == "session.menu" {
		t.Fatalf("nil catalog should use embedded defaults")
	}
}

func TestNew_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("session:\n  menu: \"Pick one\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("session.menu", nil); got != "Pick one" {
		t.Fatalf("override not applied: %q", got)
	}
	if !c.Has("online.timeout") {
		t.Fatalf("embedded keys lost after override")
	}
}

func TestNew_DuplicateOverrideKeys(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("session:\n  menu: x\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
