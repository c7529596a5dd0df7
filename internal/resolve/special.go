package resolve

import (
	"fmt"
	"strconv"

	"github.com/oriumgames/blockcast/internal/meshdata"
)

// lightBlockFallback builds §4.4 Stage F's placeholder for
// minecraft:light[level=N]: a half-size-0.05 cube centered at
// (0.5,0.5,0.5), material minecraft:block/light_block_<NN>, texture
// path sentinel "None" so the MTL writer emits a self-illuminating
// profile instead of a texture map, every face DO_NOT_CULL since the
// block has no neighbors to cull against.
func (r *Resolver) lightBlockFallback(levelStr string) *meshdata.ModelData {
	level, err := strconv.Atoi(levelStr)
	if err != nil || level < 0 || level > 15 {
		level = 0
	}

	const h = 0.05
	lo, hi := 0.5-h, 0.5+h
	m := meshdata.New()

	m.Vertices = append(m.Vertices,
		// down
		meshdata.Vec3{lo, lo, hi}, meshdata.Vec3{lo, lo, lo}, meshdata.Vec3{hi, lo, lo}, meshdata.Vec3{hi, lo, hi},
		// up
		meshdata.Vec3{lo, hi, lo}, meshdata.Vec3{lo, hi, hi}, meshdata.Vec3{hi, hi, hi}, meshdata.Vec3{hi, hi, lo},
		// north
		meshdata.Vec3{lo, lo, lo}, meshdata.Vec3{lo, hi, lo}, meshdata.Vec3{hi, hi, lo}, meshdata.Vec3{hi, lo, lo},
		// south
		meshdata.Vec3{hi, lo, hi}, meshdata.Vec3{hi, hi, hi}, meshdata.Vec3{lo, hi, hi}, meshdata.Vec3{lo, lo, hi},
		// west
		meshdata.Vec3{lo, lo, hi}, meshdata.Vec3{lo, hi, hi}, meshdata.Vec3{lo, hi, lo}, meshdata.Vec3{lo, lo, lo},
		// east
		meshdata.Vec3{hi, lo, lo}, meshdata.Vec3{hi, hi, lo}, meshdata.Vec3{hi, hi, hi}, meshdata.Vec3{hi, lo, hi},
	)
	for i := 0; i < 6; i++ {
		base := i * 4
		m.UVCoordinates = append(m.UVCoordinates, meshdata.Vec2{0, 0}, meshdata.Vec2{0, 1}, meshdata.Vec2{1, 1}, meshdata.Vec2{1, 0})
		m.Faces = append(m.Faces, base, base+1, base+2, base+3)
		m.UVFaces = append(m.UVFaces, base, base+1, base+2, base+3)
		m.FaceDirections = append(m.FaceDirections, meshdata.DoNotCull, meshdata.DoNotCull, meshdata.DoNotCull, meshdata.DoNotCull)
	}
	m.FaceNames = []meshdata.Direction{
		meshdata.Down, meshdata.Up, meshdata.North, meshdata.South, meshdata.West, meshdata.East,
	}

	name := fmt.Sprintf("minecraft:block/light_block_%02d", level)
	m.MaterialNames = append(m.MaterialNames, name)
	m.TexturePaths = append(m.TexturePaths, "None")
	for range m.FaceNames {
		m.MaterialIndices = append(m.MaterialIndices, 0)
	}
	return m
}
