package rescache

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// buildArchive writes a ZIP to a temp file containing the given
// path -> contents entries and returns its path.
func buildArchive(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for p, contents := range entries {
		w, err := zw.Create(p)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(contents)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClassifyEntryRoutesKnownPaths(t *testing.T) {
	dir := t.TempDir()
	archive := buildArchive(t, dir, "base.zip", map[string]string{
		"assets/minecraft/blockstates/stone.json":         `{"variants":{"":{"model":"block/stone"}}}`,
		"assets/minecraft/models/block/stone.json":        `{"parent":"block/cube_all"}`,
		"assets/minecraft/textures/block/stone.png":        "fake-png-bytes",
		"assets/minecraft/textures/colormap/grass.png":     "fake-colormap-bytes",
		"data/minecraft/worldgen/biome/plains.json":        `{"temperature":0.8}`,
		"assets/minecraft/sounds/ambient.ogg":               "irrelevant",
	})

	contents, err := readArchive(archive)
	if err != nil {
		t.Fatalf("readArchive: %v", err)
	}
	if _, ok := contents.blockstates[entryKey{"minecraft", "stone"}]; !ok {
		t.Error("blockstate not classified")
	}
	if _, ok := contents.models[entryKey{"minecraft", "block/stone"}]; !ok {
		t.Error("model not classified")
	}
	if _, ok := contents.textures[entryKey{"minecraft", "block/stone"}]; !ok {
		t.Error("texture not classified")
	}
	if _, ok := contents.colormaps[entryKey{"minecraft", "grass"}]; !ok {
		t.Error("colormap not classified")
	}
	if _, ok := contents.biomes[entryKey{"minecraft", "plains"}]; !ok {
		t.Error("biome not classified")
	}
	if len(contents.textures) != 1 {
		t.Errorf("unrecognized path leaked into textures: %d entries", len(contents.textures))
	}
}

func TestMergeFirstWinsForBlockstatesAndBiomes(t *testing.T) {
	dir := t.TempDir()
	base := buildArchive(t, dir, "base.zip", map[string]string{
		"assets/minecraft/blockstates/stone.json": `{"variants":{"":{"model":"block/stone"}}}`,
	})
	override := buildArchive(t, dir, "override.zip", map[string]string{
		"assets/minecraft/blockstates/stone.json": `{"variants":{"":{"model":"block/stone_override"}}}`,
	})

	c := New(zerolog.Nop(), t.TempDir())
	c.Initialize([]string{base, override}, 2)

	raw, ok := c.Blockstate("minecraft", "stone")
	if !ok {
		t.Fatal("blockstate missing after merge")
	}
	if bytes.Contains(raw, []byte("stone_override")) {
		t.Error("later archive overwrote blockstate; first-insertion-wins expected")
	}
	if len(c.Conflicts()) != 1 {
		t.Errorf("Conflicts() = %v, want exactly 1 entry", c.Conflicts())
	}
}

func TestMergeLastWinsForModelsAndTextures(t *testing.T) {
	dir := t.TempDir()
	base := buildArchive(t, dir, "base.zip", map[string]string{
		"assets/minecraft/models/block/stone.json": `{"parent":"block/cube_all","textures":{"all":"block/stone"}}`,
	})
	override := buildArchive(t, dir, "override.zip", map[string]string{
		"assets/minecraft/models/block/stone.json": `{"parent":"block/cube_all","textures":{"all":"block/stone_hd"}}`,
	})

	c := New(zerolog.Nop(), t.TempDir())
	c.Initialize([]string{base, override}, 1)

	raw, ok := c.Model("minecraft", "block/stone")
	if !ok {
		t.Fatal("model missing after merge")
	}
	if !bytes.Contains(raw, []byte("stone_hd")) {
		t.Error("later archive should win for models")
	}
}

func TestTexturePathPersistsOnceAndReusesPath(t *testing.T) {
	dir := t.TempDir()
	archive := buildArchive(t, dir, "base.zip", map[string]string{
		"assets/minecraft/textures/block/stone.png": "fake-png-bytes",
	})

	outDir := t.TempDir()
	c := New(zerolog.Nop(), outDir)
	c.Initialize([]string{archive}, 1)

	p1, ok := c.TexturePath("minecraft", "block/stone")
	if !ok {
		t.Fatal("TexturePath miss for a known texture")
	}
	full := filepath.Join(outDir, p1)
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("texture not written to disk: %v", err)
	}

	p2, ok := c.TexturePath("minecraft", "block/stone")
	if !ok || p2 != p1 {
		t.Errorf("second TexturePath call = (%q,%v), want (%q,true)", p2, ok, p1)
	}
}

func TestReadArchiveMissingFileReturnsError(t *testing.T) {
	if _, err := readArchive(filepath.Join(t.TempDir(), "does-not-exist.zip")); err == nil {
		t.Fatal("expected an error opening a missing archive")
	}
}
