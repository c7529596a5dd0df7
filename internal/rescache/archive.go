package rescache

import (
	"archive/zip"
	"encoding/json"
	"io"
	"strings"

	kflate "github.com/klauspost/compress/flate"
)

func init() {
	// Route DEFLATE entries through klauspost/compress, the same
	// decompressor family RS uses for region-file zlib streams,
	// rather than the slower stdlib implementation.
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return kflate.NewReader(r)
	})
}

// archiveContents is one archive's parsed resources, merged into the
// Cache under a single lock once ingestion finishes.
type archiveContents struct {
	namespace   string // mod-loader/version "Level detection" result, only logged
	textures    map[entryKey][]byte
	blockstates map[entryKey]json.RawMessage
	models      map[entryKey]json.RawMessage
	biomes      map[entryKey]json.RawMessage
	colormaps   map[entryKey][]byte
}

// readArchive opens a ZIP archive and classifies every entry per
// §4.1's path table.
func readArchive(path string) (*archiveContents, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := &archiveContents{
		namespace:   detectLevel(&zr.Reader),
		textures:    make(map[entryKey][]byte),
		blockstates: make(map[entryKey]json.RawMessage),
		models:      make(map[entryKey]json.RawMessage),
		biomes:      make(map[entryKey]json.RawMessage),
		colormaps:   make(map[entryKey][]byte),
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		classifyEntry(out, f)
	}
	return out, nil
}

// classifyEntry maps one ZIP entry's path into the category RC bucket
// it belongs to, per §4.1's path table. Unrecognized paths are
// ignored (every resource pack carries many files RC has no use for:
// sounds, lang files, shaders, etc.).
func classifyEntry(out *archiveContents, f *zip.File) {
	ns, rest, ok := splitAssetsPath(f.Name)
	if ok {
		switch {
		case strings.HasPrefix(rest, "textures/colormap/") && strings.HasSuffix(rest, ".png"):
			name := strings.TrimSuffix(strings.TrimPrefix(rest, "textures/colormap/"), ".png")
			if data, ok := readEntry(f); ok {
				out.colormaps[entryKey{ns, name}] = data
			}
		case strings.HasPrefix(rest, "textures/") && strings.HasSuffix(rest, ".png"):
			texPath := strings.TrimSuffix(strings.TrimPrefix(rest, "textures/"), ".png")
			if data, ok := readEntry(f); ok {
				out.textures[entryKey{ns, texPath}] = data
			}
		case strings.HasPrefix(rest, "blockstates/") && strings.HasSuffix(rest, ".json"):
			id := strings.TrimSuffix(strings.TrimPrefix(rest, "blockstates/"), ".json")
			if data, ok := readJSONEntry(f); ok {
				out.blockstates[entryKey{ns, id}] = data
			}
		case strings.HasPrefix(rest, "models/") && strings.HasSuffix(rest, ".json"):
			modelPath := strings.TrimSuffix(strings.TrimPrefix(rest, "models/"), ".json")
			if data, ok := readJSONEntry(f); ok {
				out.models[entryKey{ns, modelPath}] = data
			}
		}
		return
	}

	if ns, sub, ok := splitDataPath(f.Name); ok && strings.HasPrefix(sub, "worldgen/biome/") && strings.HasSuffix(sub, ".json") {
		id := strings.TrimSuffix(strings.TrimPrefix(sub, "worldgen/biome/"), ".json")
		if data, ok := readJSONEntry(f); ok {
			out.biomes[entryKey{ns, id}] = data
		}
	}
}

// splitAssetsPath splits "assets/<ns>/<rest>" into (ns, rest, true),
// or returns ok=false for any other path shape.
func splitAssetsPath(name string) (ns, rest string, ok bool) {
	const prefix = "assets/"
	if !strings.HasPrefix(name, prefix) {
		return "", "", false
	}
	trimmed := name[len(prefix):]
	i := strings.IndexByte(trimmed, '/')
	if i < 0 {
		return "", "", false
	}
	return trimmed[:i], trimmed[i+1:], true
}

// splitDataPath splits "data/<ns>/<rest>" the same way splitAssetsPath
// does for "assets/<ns>/<rest>", for biome definitions.
func splitDataPath(name string) (ns, rest string, ok bool) {
	const prefix = "data/"
	if !strings.HasPrefix(name, prefix) {
		return "", "", false
	}
	trimmed := name[len(prefix):]
	i := strings.IndexByte(trimmed, '/')
	if i < 0 {
		return "", "", false
	}
	return trimmed[:i], trimmed[i+1:], true
}

func readEntry(f *zip.File) ([]byte, bool) {
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return data, true
}

func readJSONEntry(f *zip.File) (json.RawMessage, bool) {
	data, ok := readEntry(f)
	if !ok || !json.Valid(data) {
		return nil, false
	}
	return json.RawMessage(data), true
}

// detectLevel implements §6's "Level detection": probe for
// version.json (vanilla), fabric.mod.json, META-INF/mods.toml
// (Forge), META-INF/neoforge.mods.toml (NeoForge), returning a fixed
// loader name ("vanilla", "fabric", "forge", "neoforge"), not a mod ID
// read from the probed file. Returns "" when none match. The result is
// only logged: every entry's namespace comes from its own path, and
// this value is never applied to any entry.
func detectLevel(zr *zip.Reader) string {
	probes := []struct {
		path, loader string
	}{
		{"version.json", "vanilla"},
		{"fabric.mod.json", "fabric"},
		{"META-INF/mods.toml", "forge"},
		{"META-INF/neoforge.mods.toml", "neoforge"},
	}
	for _, p := range probes {
		if _, err := zr.Open(p.path); err == nil {
			return p.loader
		}
	}
	return ""
}
