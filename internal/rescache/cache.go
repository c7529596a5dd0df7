// Package rescache implements the Resource Cache (RC): a process-wide,
// immutable-after-init mapping from (namespace, key) to raw resource
// bytes, built once by a pool of workers each parsing one archive,
// merged in under a single cache-wide lock (§4.1).
package rescache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// entryKey is a (namespace, key) pair, the address space every one of
// RC's five maps shares.
type entryKey struct {
	namespace, key string
}

// Cache is the RC: five maps, frozen after Initialize returns.
type Cache struct {
	log zerolog.Logger

	mergeMu sync.Mutex
	textures   map[entryKey][]byte
	blockstates map[entryKey]json.RawMessage
	models      map[entryKey]json.RawMessage
	biomes      map[entryKey]json.RawMessage
	colormaps   map[entryKey][]byte

	once sync.Once

	textureDir string // base dir under which TexturePath writes raw PNG bytes
	writtenMu  sync.Mutex
	written    map[entryKey]string

	conflicts []string // diagnostic: keys seen more than once, in every category
}

// New creates an empty Cache. textureDir is the base directory for
// TexturePath: the first time a texture is referenced its PNG bytes
// are written to textureDir/textures/<namespace>/<path>.png, and the
// returned path is relative to textureDir.
func New(log zerolog.Logger, textureDir string) *Cache {
	return &Cache{
		log:         log,
		textures:    make(map[entryKey][]byte),
		blockstates: make(map[entryKey]json.RawMessage),
		models:      make(map[entryKey]json.RawMessage),
		biomes:      make(map[entryKey]json.RawMessage),
		colormaps:   make(map[entryKey][]byte),
		written:     make(map[entryKey]string),
		textureDir:  textureDir,
	}
}

// Initialize populates the cache from the given archives, in order,
// using up to concurrency parallel workers. Safe to call only once;
// subsequent calls are no-ops (§4.1: "after initialize returns, the
// cache is frozen").
func (c *Cache) Initialize(archivePaths []string, concurrency int) {
	c.once.Do(func() {
		c.load(archivePaths, concurrency)
	})
}

// load parses every archive into a local set of maps, then merges
// each into the cache under mergeMu, in archive order (ingestion may
// be parallel; the merge itself is ordered and serialized so
// first/any-wins rules are well defined).
func (c *Cache) load(archivePaths []string, concurrency int) {
	results := make([]*archiveContents, len(archivePaths))
	jobs := make([]func(), len(archivePaths))
	for i, path := range archivePaths {
		i, path := i, path
		jobs[i] = func() {
			contents, err := readArchive(path)
			if err != nil {
				c.log.Warn().Err(err).Str("archive", path).Msg("rescache: archive open failed, skipping")
				return
			}
			if contents.namespace != "" {
				c.log.Debug().Str("archive", path).Str("loader", contents.namespace).Msg("rescache: level detected")
			}
			results[i] = contents
		}
	}
	runPool(jobs, concurrency)

	for _, contents := range results {
		if contents != nil {
			c.merge(contents)
		}
	}
}

// merge applies one archive's parsed contents under the cache-wide
// lock, in "later call order" (i.e. archive declaration order, since
// load merges sequentially): first-insertion-wins for blockstates and
// biomes, any-insertion-wins (last call wins) for models, textures,
// and colormaps (§4.1).
func (c *Cache) merge(contents *archiveContents) {
	c.mergeMu.Lock()
	defer c.mergeMu.Unlock()

	for k, v := range contents.blockstates {
		if _, exists := c.blockstates[k]; exists {
			c.conflicts = append(c.conflicts, "blockstates:"+k.namespace+":"+k.key)
			continue
		}
		c.blockstates[k] = v
	}
	for k, v := range contents.biomes {
		if _, exists := c.biomes[k]; exists {
			c.conflicts = append(c.conflicts, "biomes:"+k.namespace+":"+k.key)
			continue
		}
		c.biomes[k] = v
	}
	for k, v := range contents.models {
		if _, exists := c.models[k]; exists {
			c.conflicts = append(c.conflicts, "models:"+k.namespace+":"+k.key)
		}
		c.models[k] = v
	}
	for k, v := range contents.textures {
		if _, exists := c.textures[k]; exists {
			c.conflicts = append(c.conflicts, "textures:"+k.namespace+":"+k.key)
		}
		c.textures[k] = v
	}
	for k, v := range contents.colormaps {
		if _, exists := c.colormaps[k]; exists {
			c.conflicts = append(c.conflicts, "colormaps:"+k.namespace+":"+k.key)
		}
		c.colormaps[k] = v
	}
}

// HotReload re-applies a single archive under the cache-wide lock,
// for use between pipeline runs rather than mid-run (§4.1).
func (c *Cache) HotReload(archivePath string) error {
	contents, err := readArchive(archivePath)
	if err != nil {
		return err
	}
	c.merge(contents)
	return nil
}

// Conflicts returns the "category:namespace:key" strings for every
// key seen in more than one archive — a diagnostic surface over the
// implementation-defined-but-deterministic collision behavior §9
// leaves open, not a change to that behavior.
func (c *Cache) Conflicts() []string {
	return c.conflicts
}

// Blockstate implements resolve.ResourceProvider.
func (c *Cache) Blockstate(namespace, id string) (json.RawMessage, bool) {
	v, ok := c.blockstates[entryKey{namespace, id}]
	return v, ok
}

// Model implements resolve.ResourceProvider.
func (c *Cache) Model(namespace, path string) (json.RawMessage, bool) {
	v, ok := c.models[entryKey{namespace, path}]
	return v, ok
}

// Biome looks up a biome definition by namespace and id.
func (c *Cache) Biome(namespace, id string) (json.RawMessage, bool) {
	v, ok := c.biomes[entryKey{namespace, id}]
	return v, ok
}

// Colormap looks up raw colormap PNG bytes by namespace and name.
func (c *Cache) Colormap(namespace, name string) ([]byte, bool) {
	v, ok := c.colormaps[entryKey{namespace, name}]
	return v, ok
}

// TexturePath implements resolve.ResourceProvider: it persists a
// texture's bytes to textureDir the first time it's referenced (PNG
// bytes are copied through unchanged — decoding them is the external
// OBJ/MTL collaborator's concern, not RC's) and returns the on-disk
// path every subsequent caller reuses.
func (c *Cache) TexturePath(namespace, path string) (string, bool) {
	key := entryKey{namespace, path}

	c.writtenMu.Lock()
	if p, ok := c.written[key]; ok {
		c.writtenMu.Unlock()
		return p, true
	}
	c.writtenMu.Unlock()

	raw, ok := c.textures[key]
	if !ok {
		return "", false
	}

	rel := filepath.Join("textures", namespace, path+".png")
	full := filepath.Join(c.textureDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		c.log.Warn().Err(err).Str("texture", namespace+":"+path).Msg("rescache: texture directory create failed")
		return "", false
	}
	if err := os.WriteFile(full, raw, 0o644); err != nil {
		c.log.Warn().Err(err).Str("texture", namespace+":"+path).Msg("rescache: texture write failed")
		return "", false
	}

	c.writtenMu.Lock()
	c.written[key] = rel
	c.writtenMu.Unlock()
	return rel, true
}

// TextureBytes returns the raw PNG bytes for a texture key, without
// persisting anything to disk; used by the biome colormap sampler and
// tests.
func (c *Cache) TextureBytes(namespace, path string) ([]byte, bool) {
	v, ok := c.textures[entryKey{namespace, path}]
	return v, ok
}
