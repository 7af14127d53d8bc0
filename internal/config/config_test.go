package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"stachec/internal/config"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeTemp(t, `
outDir: build
entries:
  - glob: "templates/*.html"
    sourceName: widget
    isTemplate: true
  - glob: "partials/*.html"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutDir != "build" {
		t.Errorf("OutDir = %q", cfg.OutDir)
	}
	if len(cfg.Entries) != 2 {
		t.Fatalf("Entries = %+v", cfg.Entries)
	}
	if cfg.Entries[0].Glob != "templates/*.html" || !cfg.Entries[0].IsTemplate {
		t.Errorf("Entries[0] = %+v", cfg.Entries[0])
	}
	if cfg.Entries[1].IsTemplate {
		t.Errorf("Entries[1].IsTemplate = true, want default false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_NoEntriesIsInvalid(t *testing.T) {
	path := writeTemp(t, "outDir: build\n")
	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected an error: at least one entry is required")
	}
}

func TestLoad_EntryMissingGlobIsInvalid(t *testing.T) {
	path := writeTemp(t, `
entries:
  - sourceName: widget
`)
	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected an error: entries[0].glob is required")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeTemp(t, "entries: [this is not: valid: yaml\n")
	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected a YAML parse error")
	}
}
