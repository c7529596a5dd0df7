package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := defaultConfig()
	cfg.WorldDir = "/worlds/example"
	cfg.Archives = []string{"base.zip", "pack.zip"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.WorldDir != cfg.WorldDir {
		t.Errorf("WorldDir = %q, want %q", got.WorldDir, cfg.WorldDir)
	}
	if len(got.Archives) != 2 {
		t.Errorf("Archives = %v, want 2 entries", got.Archives)
	}
}

func TestLoadFillsDefaultsForPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("worldDir: /w\n"), 0o644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Concurrency < 1 {
		t.Errorf("Concurrency = %d, want >= 1", got.Concurrency)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a missing config file")
	}
}
