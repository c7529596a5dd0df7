// Package chunkmesh implements the Chunk Mesher (CM): it walks a
// requested cuboid region section by section, fetches each non-air
// block's model from the Model Resolver, filters faces against the
// six-neighbor air mask, translates vertices into world space, and
// accumulates the result into a single ModelData per section.
package chunkmesh

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/rs/zerolog"

	"github.com/oriumgames/blockcast/internal/blockpalette"
	"github.com/oriumgames/blockcast/internal/meshdata"
	"github.com/oriumgames/blockcast/internal/region"
	"github.com/oriumgames/blockcast/internal/resolve"
)

// Bounds is the user-supplied cuboid, inclusive on both ends.
type Bounds struct {
	X0, X1, Y0, Y1, Z0, Z1 int
}

// neighborCullNames gives the face name each of GetBlockWithNeighbors'
// six slots culls against, matching its fixed
// [up, down, west, east, north, south] order.
var neighborCullNames = [6]meshdata.Direction{
	meshdata.Up, meshdata.Down, meshdata.West, meshdata.East, meshdata.North, meshdata.South,
}

// Mesher runs CM against one Region Store / Block Palette Registry /
// Model Resolver triple for the lifetime of one pipeline run.
type Mesher struct {
	store    *region.Store
	bpr      *blockpalette.Registry
	resolver *resolve.Resolver
	log      zerolog.Logger
}

// New constructs a Mesher. RS is expected to be prefetched (which also
// registers BPR entries) by the time MeshRegion is called; MR resolves
// models on demand.
func New(store *region.Store, bpr *blockpalette.Registry, resolver *resolve.Resolver, log zerolog.Logger) *Mesher {
	return &Mesher{store: store, bpr: bpr, resolver: resolver, log: log}
}

// MeshRegion walks every section touching b and returns the merged,
// not-yet-deduplicated mesh (callers run internal/meshdata's Mesh
// Merger & Deduper finalize pass separately, once, over the whole
// result — merging per-section here would just mean re-deduplicating
// the same interior seams repeatedly).
func (m *Mesher) MeshRegion(b Bounds, dimRange cube.Range) *meshdata.ModelData {
	out := meshdata.New()

	sy0 := region.SectionCoord(b.Y0)
	sy1 := region.SectionCoord(b.Y1)
	cx0, cx1 := region.ChunkCoord(b.X0), region.ChunkCoord(b.X1)
	cz0, cz1 := region.ChunkCoord(b.Z0), region.ChunkCoord(b.Z1)

	for cz := cz0; cz <= cz1; cz++ {
		for cx := cx0; cx <= cx1; cx++ {
			for sy := sy0; sy <= sy1; sy++ {
				sec := m.meshSection(cx, cz, sy, b, dimRange)
				if sec != nil {
					meshdata.MergeDirectly(out, sec)
				}
			}
		}
	}
	return out
}

// meshSection walks one 16x16x16 section, in YZX order per §4.5,
// clipped to b and to the section's heightmap-derived upper bound.
func (m *Mesher) meshSection(cx, cz, sectionY int, b Bounds, dimRange cube.Range) *meshdata.ModelData {
	out := meshdata.New()
	baseX, baseZ := cx*16, cz*16
	baseY := sectionY * 16

	for lz := 0; lz < 16; lz++ {
		wz := baseZ + lz
		if wz < b.Z0 || wz > b.Z1 {
			continue
		}
		for lx := 0; lx < 16; lx++ {
			wx := baseX + lx
			if wx < b.X0 || wx > b.X1 {
				continue
			}
			currentY := m.store.GetHeight(wx, wz, region.WorldSurface) - 64
			for ly := 0; ly < 16; ly++ {
				wy := baseY + ly
				if wy < b.Y0 || wy > b.Y1 || wy < dimRange[0] || wy > dimRange[1] {
					continue
				}
				m.meshBlock(out, wx, wy, wz, currentY)
			}
		}
	}
	if out.QuadCount() == 0 {
		return nil
	}
	return out
}

// meshBlock instantiates and culls one block, per §4.5's skip rules:
// air, above the column's heightmap-derived cutoff, or in a section
// whose sky-light was never written (-1, not promoted to -2).
func (m *Mesher) meshBlock(out *meshdata.ModelData, x, y, z, currentY int) {
	if y > currentY {
		return
	}
	if m.store.GetSkyLight(x, y, z) == -1 {
		return
	}

	id := m.store.GetBlockID(x, y, z)
	if id == 0 {
		return
	}
	block := m.bpr.Block(id)
	if block.Air {
		return
	}

	var neighborIsAir [6]bool
	m.store.GetBlockWithNeighbors(x, y, z, m.bpr.IsAirForCulling, &neighborIsAir)

	mesh, err := m.resolver.Resolve(block.State)
	if err != nil {
		m.log.Error().Err(err).Str("state", block.State).Msg("chunkmesh: model resolve failed")
		return
	}
	if mesh.QuadCount() == 0 {
		return
	}

	culled := cullFaces(mesh, neighborIsAir)
	translate(culled, cube.Pos{x, y, z})
	meshdata.MergeDirectly(out, culled)
}

// cullFaces implements §4.5's per-quad cull check: a DO_NOT_CULL quad
// is always kept; otherwise it survives iff the neighbor in its cull
// direction is air. Rebuilds every parallel slice; vertices,
// uvCoordinates, materialNames and texturePaths are shared unchanged.
func cullFaces(mesh *meshdata.ModelData, neighborIsAir [6]bool) *meshdata.ModelData {
	out := &meshdata.ModelData{
		Vertices:      mesh.Vertices,
		UVCoordinates: mesh.UVCoordinates,
		MaterialNames: mesh.MaterialNames,
		TexturePaths:  mesh.TexturePaths,
	}
	quads := mesh.QuadCount()
	for q := 0; q < quads; q++ {
		dir := mesh.FaceDirections[q*4]
		keep := dir == meshdata.DoNotCull
		if !keep {
			for i, name := range neighborCullNames {
				if name == dir {
					keep = neighborIsAir[i]
					break
				}
			}
		}
		if !keep {
			continue
		}
		out.Faces = append(out.Faces, mesh.Faces[q*4:q*4+4]...)
		out.UVFaces = append(out.UVFaces, mesh.UVFaces[q*4:q*4+4]...)
		out.MaterialIndices = append(out.MaterialIndices, mesh.MaterialIndices[q])
		out.FaceDirections = append(out.FaceDirections, dir, dir, dir, dir)
		out.FaceNames = append(out.FaceNames, mesh.FaceNames[q])
	}
	return out
}

// translate shifts every vertex by a world-space block position,
// replacing Vertices with a freshly allocated slice rather than
// mutating in place, since cullFaces' output still shares its
// Vertices backing array with the pre-cull mesh.
func translate(mesh *meshdata.ModelData, pos cube.Pos) {
	ox, oy, oz := float64(pos.X()), float64(pos.Y()), float64(pos.Z())
	shifted := make([]meshdata.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		shifted[i] = meshdata.Vec3{v[0] + ox, v[1] + oy, v[2] + oz}
	}
	mesh.Vertices = shifted
}
