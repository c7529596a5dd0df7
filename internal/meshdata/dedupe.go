package meshdata

import (
	"math"

	"github.com/segmentio/fasthash/fnv1a"
	"golang.org/x/exp/slices"
)

// quantizeScale is the grid-quantization factor for vertex dedup:
// 10^-4 granularity (§4.6).
const quantizeScale = 10000.0

type quantizedVertex [3]int64

func quantize(v Vec3) quantizedVertex {
	return quantizedVertex{
		int64(math.Round(v[0] * quantizeScale)),
		int64(math.Round(v[1] * quantizeScale)),
		int64(math.Round(v[2] * quantizeScale)),
	}
}

// DedupeVertices quantizes every vertex to a 10^-4 grid and rewrites
// Faces through a first-seen index map, so identical block corners
// shared by adjacent cubes collapse to one vertex (P6: idempotent —
// running this twice is the same as running it once, since the second
// pass quantizes already-quantized, already-deduplicated vertices to
// the same keys).
func (m *ModelData) DedupeVertices() {
	seen := make(map[quantizedVertex]int, len(m.Vertices))
	remap := make([]int, len(m.Vertices))
	newVerts := make([]Vec3, 0, len(m.Vertices))

	for i, v := range m.Vertices {
		key := quantize(v)
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := len(newVerts)
		seen[key] = idx
		newVerts = append(newVerts, v)
		remap[i] = idx
	}

	for i, vi := range m.Faces {
		m.Faces[i] = remap[vi]
	}
	m.Vertices = newVerts
}

// faceKey is the internal-face-dedup key: the quad's four vertex
// indices sorted, optionally qualified by material index ("strict"
// mode, the default).
type faceKey struct {
	v        [4]int
	material int // -1 when not strict
}

func (k faceKey) hash() uint64 {
	h := fnv1a.Init64
	for _, v := range k.v {
		h = fnv1a.AddUint64(h, uint64(int64(v)))
	}
	if k.material >= 0 {
		h = fnv1a.AddUint64(h, uint64(k.material))
	}
	return h
}

// DedupeFaces removes internal duplicate quads: quads whose
// sorted-vertex (and, in strict mode, material) key appears more than
// once are dropped entirely, removing the interior faces shared by
// adjacent cubes. Idempotent (P6): after one pass every surviving key
// has count 1, so a second pass is a no-op.
func (m *ModelData) DedupeFaces(strict bool) {
	quads := m.QuadCount()
	keys := make([]faceKey, quads)
	counts := make(map[uint64]int, quads)

	for q := 0; q < quads; q++ {
		var v [4]int
		copy(v[:], m.Faces[q*4:q*4+4])
		slices.Sort(v[:])
		mat := -1
		if strict {
			mat = m.MaterialIndices[q]
		}
		k := faceKey{v: v, material: mat}
		keys[q] = k
		counts[k.hash()]++
	}

	newFaces := make([]int, 0, len(m.Faces))
	newUVFaces := make([]int, 0, len(m.UVFaces))
	newMaterialIndices := make([]int, 0, len(m.MaterialIndices))
	newFaceNames := make([]Direction, 0, len(m.FaceNames))
	newFaceDirections := make([]Direction, 0, len(m.FaceDirections))

	for q := 0; q < quads; q++ {
		if counts[keys[q].hash()] != 1 {
			continue
		}
		newFaces = append(newFaces, m.Faces[q*4:q*4+4]...)
		newUVFaces = append(newUVFaces, m.UVFaces[q*4:q*4+4]...)
		newMaterialIndices = append(newMaterialIndices, m.MaterialIndices[q])
		newFaceNames = append(newFaceNames, m.FaceNames[q])
		newFaceDirections = append(newFaceDirections, m.FaceDirections[q*4:q*4+4]...)
	}

	m.Faces = newFaces
	m.UVFaces = newUVFaces
	m.MaterialIndices = newMaterialIndices
	m.FaceNames = newFaceNames
	m.FaceDirections = newFaceDirections
}

// Finalize runs the standard two-pass MD finish: vertex dedup, then
// internal-face dedup in strict mode.
func (m *ModelData) Finalize() {
	m.DedupeVertices()
	m.DedupeFaces(true)
}
