package resolve

import (
	"encoding/json"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/oriumgames/blockcast/internal/blockpalette"
	"github.com/oriumgames/blockcast/internal/meshdata"
	"github.com/oriumgames/blockcast/internal/warnonce"
)

// Resolver is the Model Resolver (MR): stateful only in its caches
// (parent-merged models, per-variant instantiated meshes) and its RNG,
// both safe for concurrent use by multiple Chunk Mesher workers.
type Resolver struct {
	rc  ResourceProvider
	log zerolog.Logger

	modelMu    sync.Mutex
	modelCache map[modelCacheKey]*resolvedModel

	meshMu    sync.Mutex
	meshCache map[variantMeshKey]*meshdata.ModelData

	rngMu sync.Mutex
	rng   *rand.Rand

	warnings *warnonce.Set
}

// New constructs a Resolver backed by rc. seed fixes the weighted
// variant RNG for reproducible output across runs over the same world
// (§9 Open Question: determinism is more useful than true randomness
// for a file-to-file converter).
func New(rc ResourceProvider, log zerolog.Logger, seed uint64) *Resolver {
	return &Resolver{
		rc:         rc,
		log:        log,
		modelCache: make(map[modelCacheKey]*resolvedModel),
		meshCache:  make(map[variantMeshKey]*meshdata.ModelData),
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		warnings:   warnonce.NewSet(),
	}
}

func (r *Resolver) warnOnce(key, msg string) {
	r.warnings.Warn(r.log, key, msg)
}

// WarningCount reports how many distinct warning keys fired this run.
func (r *Resolver) WarningCount() int {
	return r.warnings.Count()
}

// variantMeshKey identifies one fully-instantiated, variant-transformed
// mesh: a model, its rotation/uvlock, memoized independently of the
// blockstate that reached it (two states sharing a model+rotation
// share the mesh, per §4.4's memoization note).
type variantMeshKey struct {
	namespace, path string
	x, y            int
	uvlock          bool
}

// Resolve runs the full Model Resolver pipeline (§4.4 Stages A-F) for
// one canonical block state string, returning a mesh in block-local
// unit-cube coordinates (the Chunk Mesher translates it into world
// space).
func (r *Resolver) Resolve(stateString string) (*meshdata.ModelData, error) {
	namespace, id, props, _ := blockpalette.ParseState(stateString)

	bsRaw, ok := r.rc.Blockstate(namespace, id)
	if !ok {
		r.warnOnce("missing-blockstate:"+namespace+":"+id, "resolve: blockstate not found: "+namespace+":"+id)
		return r.fallbackMesh(namespace, id, props), nil
	}

	var bs blockstateJSON
	if err := json.Unmarshal(bsRaw, &bs); err != nil {
		r.warnOnce("bad-blockstate-json:"+namespace+":"+id, "resolve: malformed blockstate json: "+namespace+":"+id)
		return r.fallbackMesh(namespace, id, props), nil
	}

	r.rngMu.Lock()
	var parts []variantRef
	if len(bs.Multipart) > 0 {
		parts = selectMultipart(&bs, props, r.rng)
	} else if v, found := selectVariants(&bs, props, r.rng); found {
		parts = v
	}
	r.rngMu.Unlock()

	if len(parts) == 0 {
		return r.fallbackMesh(namespace, id, props), nil
	}

	out, err := r.joinParts(parts)
	if err != nil {
		return nil, err
	}

	if out.QuadCount() == 0 {
		return r.fallbackMesh(namespace, id, props), nil
	}

	if id == "water" || id == "flowing_water" || id == "lava" || id == "flowing_lava" {
		applyFluidGeometry(out, id, props)
	}

	return out, nil
}

// fallbackMesh implements Stage F for a block whose model could not be
// instantiated at all (missing/malformed blockstate, no matching
// variant, or a matched variant whose model has no elements):
// minecraft:light gets the self-illuminating placeholder cube, water
// and lava get a placeholder cube whose top is lowered by level (no
// flow tilt), everything else gets an empty mesh.
func (r *Resolver) fallbackMesh(namespace, id string, props map[string]string) *meshdata.ModelData {
	switch id {
	case "light":
		return r.lightBlockFallback(props["level"])
	case "water", "flowing_water", "lava", "flowing_lava":
		m := r.waterPlaceholder(id)
		applyFluidGeometry(m, id, props)
		return m
	default:
		return meshdata.New()
	}
}

// instantiateVariant resolves and memoizes one variant's mesh: model
// chain lookup, per-element geometry, then the variant's own rotation
// and uvlock, all independent of the blockstate's other properties.
func (r *Resolver) instantiateVariant(v variantRef) (*meshdata.ModelData, error) {
	ns, path := splitNamespaced(v.Model)
	key := variantMeshKey{ns, path, v.X, v.Y, v.UVLock}

	r.meshMu.Lock()
	if cached, ok := r.meshCache[key]; ok {
		r.meshMu.Unlock()
		return cached.Clone(), nil
	}
	r.meshMu.Unlock()

	chain, err := r.resolveModelChain(v.Model)
	if err != nil {
		return nil, err
	}

	mesh := meshdata.New()
	if len(chain.Elements) > 0 {
		overlapCounts := make(map[overlapKey]int)
		for _, el := range chain.Elements {
			r.instantiateElement(mesh, el, chain.Textures, ns, overlapCounts)
		}
	}

	r.applyVariantTransform(mesh, v)

	r.meshMu.Lock()
	r.meshCache[key] = mesh
	r.meshMu.Unlock()
	return mesh.Clone(), nil
}
