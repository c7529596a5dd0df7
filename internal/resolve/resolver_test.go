package resolve

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

// fakeProvider is an in-memory ResourceProvider backing end-to-end
// Resolve tests, keyed the same way rescache.Cache is: (namespace, id).
type fakeProvider struct {
	blockstates map[string]string
	models      map[string]string
	textures    map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		blockstates: map[string]string{},
		models:      map[string]string{},
		textures:    map[string]string{},
	}
}

func key(namespace, rest string) string { return namespace + ":" + rest }

func (f *fakeProvider) Blockstate(namespace, id string) (json.RawMessage, bool) {
	s, ok := f.blockstates[key(namespace, id)]
	return json.RawMessage(s), ok
}

func (f *fakeProvider) Model(namespace, path string) (json.RawMessage, bool) {
	s, ok := f.models[key(namespace, path)]
	return json.RawMessage(s), ok
}

func (f *fakeProvider) TexturePath(namespace, path string) (string, bool) {
	p, ok := f.textures[key(namespace, path)]
	return p, ok
}

// fullCubeModel is a model json with one element spanning the whole
// block, all six faces textured with "#all", no cullface set.
const fullCubeModel = `{
	"textures": {"all": "minecraft:block/stone"},
	"elements": [{
		"from": [0, 0, 0],
		"to": [16, 16, 16],
		"faces": {
			"north": {"texture": "#all"},
			"south": {"texture": "#all"},
			"east": {"texture": "#all"},
			"west": {"texture": "#all"},
			"up": {"texture": "#all"},
			"down": {"texture": "#all"}
		}
	}]
}`

func TestResolveSingleVariantBuildsAFullCube(t *testing.T) {
	rc := newFakeProvider()
	rc.blockstates["minecraft:stone"] = `{"variants":{"":{"model":"minecraft:block/stone"}}}`
	rc.models["minecraft:block/stone"] = fullCubeModel
	rc.textures["minecraft:block/stone"] = "textures/minecraft/block/stone.png"

	r := New(rc, zerolog.Nop(), 1)
	mesh, err := r.Resolve("minecraft:stone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mesh.QuadCount() != 6 {
		t.Errorf("QuadCount = %d, want 6 (one cube, no neighbor culling yet)", mesh.QuadCount())
	}
	if err := mesh.CheckInvariants(); err != nil {
		t.Errorf("resolved mesh violates invariants: %v", err)
	}
}

func TestResolveSelectsPropertyMatchedVariant(t *testing.T) {
	rc := newFakeProvider()
	rc.blockstates["minecraft:slab"] = `{"variants":{
		"type=bottom": {"model":"minecraft:block/bottom_slab"},
		"type=top": {"model":"minecraft:block/top_slab"}
	}}`
	rc.models["minecraft:block/bottom_slab"] = fullCubeModel
	rc.models["minecraft:block/top_slab"] = `{"elements":[]}`
	rc.textures["minecraft:block/stone"] = "textures/minecraft/block/stone.png"

	r := New(rc, zerolog.Nop(), 1)
	mesh, err := r.Resolve("minecraft:slab[type=bottom]")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mesh.QuadCount() != 6 {
		t.Errorf("QuadCount = %d, want 6 for the bottom-slab variant", mesh.QuadCount())
	}
}

func TestResolveMissingBlockstateFallsBackToEmptyMesh(t *testing.T) {
	rc := newFakeProvider()
	r := New(rc, zerolog.Nop(), 1)

	mesh, err := r.Resolve("minecraft:nonexistent_block")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mesh.QuadCount() != 0 {
		t.Errorf("QuadCount = %d, want 0 for an unknown block", mesh.QuadCount())
	}
	if r.WarningCount() != 1 {
		t.Errorf("WarningCount = %d, want 1", r.WarningCount())
	}
}

func TestResolveLightBlockUsesSpecialFallback(t *testing.T) {
	rc := newFakeProvider()
	r := New(rc, zerolog.Nop(), 1)

	mesh, err := r.Resolve("minecraft:light[level=7]")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mesh.QuadCount() != 6 {
		t.Errorf("QuadCount = %d, want 6 for the light-block placeholder", mesh.QuadCount())
	}
	if mesh.MaterialNames[0] != "minecraft:block/light_block_07" {
		t.Errorf("MaterialNames[0] = %q, want the level-07 sentinel name", mesh.MaterialNames[0])
	}
}

func TestResolveRepeatedCallsMemoizeModelChain(t *testing.T) {
	rc := newFakeProvider()
	rc.blockstates["minecraft:stone"] = `{"variants":{"":{"model":"minecraft:block/stone"}}}`
	rc.models["minecraft:block/stone"] = fullCubeModel
	rc.textures["minecraft:block/stone"] = "textures/minecraft/block/stone.png"

	r := New(rc, zerolog.Nop(), 1)
	first, err := r.Resolve("minecraft:stone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve("minecraft:stone")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first.QuadCount() != second.QuadCount() {
		t.Errorf("memoized resolve diverged: %d vs %d quads", first.QuadCount(), second.QuadCount())
	}
	// the two results must not alias the same backing slices, since
	// chunkmesh culls/merges each call's mesh independently.
	if len(first.Vertices) > 0 && &first.Vertices[0] == &second.Vertices[0] {
		t.Error("expected Resolve to return independent mesh copies")
	}
}
