package resolve

import (
	"strconv"

	"github.com/oriumgames/blockcast/internal/meshdata"
)

// waterPlaceholder builds the full-cube mesh applyFluidGeometry then
// reshapes: fluids have no blockstate model in the resource pack (they
// are rendered specially by the client), so this stands in for Stage
// F's "water/lava → placeholder" case (§4.4 Stage F, §9 Open Question
// on fluid geometry).
func (r *Resolver) waterPlaceholder(id string) *meshdata.ModelData {
	m := meshdata.New()
	const lo, hi = 0.0, 1.0
	m.Vertices = append(m.Vertices,
		meshdata.Vec3{lo, lo, hi}, meshdata.Vec3{lo, lo, lo}, meshdata.Vec3{hi, lo, lo}, meshdata.Vec3{hi, lo, hi}, // down
		meshdata.Vec3{lo, hi, lo}, meshdata.Vec3{lo, hi, hi}, meshdata.Vec3{hi, hi, hi}, meshdata.Vec3{hi, hi, lo}, // up
		meshdata.Vec3{lo, lo, lo}, meshdata.Vec3{lo, hi, lo}, meshdata.Vec3{hi, hi, lo}, meshdata.Vec3{hi, lo, lo}, // north
		meshdata.Vec3{hi, lo, hi}, meshdata.Vec3{hi, hi, hi}, meshdata.Vec3{lo, hi, hi}, meshdata.Vec3{lo, lo, hi}, // south
		meshdata.Vec3{lo, lo, hi}, meshdata.Vec3{lo, hi, hi}, meshdata.Vec3{lo, hi, lo}, meshdata.Vec3{lo, lo, lo}, // west
		meshdata.Vec3{hi, lo, lo}, meshdata.Vec3{hi, hi, lo}, meshdata.Vec3{hi, hi, hi}, meshdata.Vec3{hi, lo, hi}, // east
	)
	faceNames := []meshdata.Direction{meshdata.Down, meshdata.Up, meshdata.North, meshdata.South, meshdata.West, meshdata.East}
	cullDirs := []meshdata.Direction{meshdata.Down, meshdata.Up, meshdata.North, meshdata.South, meshdata.West, meshdata.East}
	for i := 0; i < 6; i++ {
		base := i * 4
		m.UVCoordinates = append(m.UVCoordinates, meshdata.Vec2{0, 0}, meshdata.Vec2{0, 1}, meshdata.Vec2{1, 1}, meshdata.Vec2{1, 0})
		m.Faces = append(m.Faces, base, base+1, base+2, base+3)
		m.UVFaces = append(m.UVFaces, base, base+1, base+2, base+3)
		m.FaceDirections = append(m.FaceDirections, cullDirs[i], cullDirs[i], cullDirs[i], cullDirs[i])
	}
	m.FaceNames = faceNames

	stillModel := "block/water_still"
	if id == "lava" || id == "flowing_lava" {
		stillModel = "block/lava_still"
	}
	materialName := "minecraft:" + stillModel
	texturePath := "None"
	if p, ok := r.rc.TexturePath("minecraft", stillModel); ok {
		texturePath = p
	} else {
		r.warnOnce("missing-texture:minecraft:"+stillModel, "resolve: texture not found: minecraft:"+stillModel)
	}
	m.MaterialNames = append(m.MaterialNames, materialName)
	m.TexturePaths = append(m.TexturePaths, texturePath)
	for range faceNames {
		m.MaterialIndices = append(m.MaterialIndices, 0)
	}
	return m
}

// fluidHeight maps a block-state "level" property to a top-face
// height fraction, per §9 Open Question 2's pinned model
// h = 0.375 - 0.12*level: level 0 (source, or an unparsed/absent
// level) sits well below a full block; each step up lowers the top
// face further. level >= 8 (the falling-fluid encoding) renders
// full-height since it represents fluid pouring from above, not a
// partial column; the formula's output is clamped at 0 so it never
// produces an inverted face for the highest levels.
func fluidHeight(level int) float64 {
	if level >= 8 {
		return 1.0
	}
	h := 0.375 - 0.12*float64(level)
	if h < 0 {
		h = 0
	}
	return h
}

// applyFluidGeometry reshapes a fluid placeholder mesh's top face (and
// the upper edge of its four sides) down to the height implied by the
// block's level property. Flow-direction tilt is not modeled here: it
// needs the fluid's neighbor levels, which aren't available until the
// Chunk Mesher walks the section, so the top face stays flat.
func applyFluidGeometry(m *meshdata.ModelData, id string, props map[string]string) {
	level := 0
	if v, ok := props["level"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			level = n
		}
	}
	h := fluidHeight(level)
	if h >= 1.0 {
		return
	}
	for i, v := range m.Vertices {
		if v[1] >= 1.0-1e-9 {
			m.Vertices[i][1] = h
		}
	}
}
