package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gelix.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
module: example.com/widgets
version: 0.1.0
src: src
deps:
  example.com/other: v1.2.3
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Module != "example.com/widgets" {
		t.Errorf("Module = %q, want example.com/widgets", m.Module)
	}
	if m.Src != "src" {
		t.Errorf("Src = %q, want src", m.Src)
	}
	if m.Deps["example.com/other"] != "v1.2.3" {
		t.Errorf("Deps = %+v, want example.com/other -> v1.2.3", m.Deps)
	}
}

func TestLoadDefaultsSrc(t *testing.T) {
	path := writeManifest(t, "module: example.com/widgets\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Src != "." {
		t.Errorf("Src = %q, want default \".\"", m.Src)
	}
}

func TestLoadMissingModule(t *testing.T) {
	path := writeManifest(t, "version: 0.1.0\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a manifest missing the module field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Fatal("expected an error for a nonexistent manifest")
	}
}
