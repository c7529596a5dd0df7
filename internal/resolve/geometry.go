package resolve

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/blockcast/internal/geom"
	"github.com/oriumgames/blockcast/internal/meshdata"
)

// faceVertexTable gives the four corner positions (in from/to order)
// for each of the six axis-aligned faces, per §4.4 Stage C.
var faceVertexTable = map[string]func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3{
	"north": func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3 {
		return [4]mgl64.Vec3{{x1, y1, z1}, {x1, y2, z1}, {x2, y2, z1}, {x2, y1, z1}}
	},
	"south": func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3 {
		return [4]mgl64.Vec3{{x2, y1, z2}, {x2, y2, z2}, {x1, y2, z2}, {x1, y1, z2}}
	},
	"east": func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3 {
		return [4]mgl64.Vec3{{x2, y1, z1}, {x2, y2, z1}, {x2, y2, z2}, {x2, y1, z2}}
	},
	"west": func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3 {
		return [4]mgl64.Vec3{{x1, y1, z2}, {x1, y2, z2}, {x1, y2, z1}, {x1, y1, z1}}
	},
	"up": func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3 {
		return [4]mgl64.Vec3{{x1, y2, z1}, {x1, y2, z2}, {x2, y2, z2}, {x2, y2, z1}}
	},
	"down": func(x1, y1, z1, x2, y2, z2 float64) [4]mgl64.Vec3 {
		return [4]mgl64.Vec3{{x2, y1, z2}, {x2, y1, z1}, {x1, y1, z1}, {x1, y1, z2}}
	},
}

var faceOrder = []string{"north", "south", "east", "west", "up", "down"}

// oppositeFace pairs up faces for §4.4's opposite-face-coincidence
// check; the tie-break always drops the second name listed.
var oppositeFace = map[string]string{
	"north": "south",
	"east":  "west",
	"up":    "down",
}

// defaultUVProjection derives a face's UV region from the element's
// own bounds when no explicit "uv" is given, projecting the two axes
// orthogonal to the face's normal. This table is not given literally
// in the spec text ("the face-specific projection shown in the source
// table"); it follows the standard Minecraft per-face UV convention.
func defaultUVProjection(face string, from, to [3]float64) [4]float64 {
	switch face {
	case "up", "down":
		return [4]float64{from[0], from[2], to[0], to[2]}
	case "north", "south":
		return [4]float64{from[0], 16 - to[1], to[0], 16 - from[1]}
	default: // east, west
		return [4]float64{from[2], 16 - to[1], to[2], 16 - from[1]}
	}
}

// faceInstance is one face's pre-emit state within Stage C, after
// element rotation but before UV/material assignment.
type faceInstance struct {
	name  string
	verts [4]mgl64.Vec3
	face  faceJSON
}

// instantiateElement runs Stage C for one element, appending its
// faces into dst. overlapCounts tracks cross-element overlap offsets
// (§4.4 Stage C) across the whole model, keyed by (normal, center).
func (r *Resolver) instantiateElement(dst *meshdata.ModelData, el elementJSON, textures map[string]string, nsHint string, overlapCounts map[overlapKey]int) {
	from := mgl64.Vec3{el.From[0] / 16, el.From[1] / 16, el.From[2] / 16}
	to := mgl64.Vec3{el.To[0] / 16, el.To[1] / 16, el.To[2] / 16}

	var instances []faceInstance
	for _, name := range faceOrder {
		fj, ok := el.Faces[name]
		if !ok {
			continue
		}
		if fj.UV == nil {
			uv := defaultUVProjection(name, el.From, el.To)
			fj.UV = &uv
		}
		verts := faceVertexTable[name](from[0], from[1], from[2], to[0], to[1], to[2])
		if el.Rotation != nil {
			for i := range verts {
				verts[i] = geom.ElementRotation(verts[i], axisFromString(el.Rotation.Axis), el.Rotation.Angle,
					mgl64.Vec3{el.Rotation.Origin[0], el.Rotation.Origin[1], el.Rotation.Origin[2]}, el.Rotation.Rescale)
			}
		}
		instances = append(instances, faceInstance{name: name, verts: verts, face: fj})
	}

	// Opposite-face coincidence: drop the second-listed face of a pair
	// whose vertex sets are equal.
	dropped := make(map[string]bool)
	for a, b := range oppositeFace {
		ia, ib := findFace(instances, a), findFace(instances, b)
		if ia < 0 || ib < 0 {
			continue
		}
		if vertexSetsEqual(instances[ia].verts, instances[ib].verts) {
			dropped[b] = true
		}
	}

	for _, inst := range instances {
		if dropped[inst.name] {
			continue
		}
		r.emitFace(dst, inst.name, inst.verts, inst.face, textures, nsHint, overlapCounts)
	}
}

type overlapKey struct {
	nx, ny, nz float64
	cx, cy, cz float64
}

// emitFace appends one quad: cross-element overlap offset, UV region
// and rotation, face tagging, and material assignment (§4.4 Stage C).
func (r *Resolver) emitFace(dst *meshdata.ModelData, name string, verts [4]mgl64.Vec3, fj faceJSON, textures map[string]string, nsHint string, overlapCounts map[overlapKey]int) {
	normal := faceNormal(verts)
	center := faceCenter(verts)
	key := overlapKey{
		round(normal[0], 2), round(normal[1], 2), round(normal[2], 2),
		round(center[0], 4), round(center[1], 4), round(center[2], 4),
	}
	n := overlapCounts[key]
	overlapCounts[key] = n + 1
	if n > 0 {
		offset := normal.Mul(float64(n) * 0.001)
		for i := range verts {
			verts[i] = verts[i].Add(offset)
		}
	}

	baseIdx := len(dst.Vertices)
	dst.Vertices = append(dst.Vertices, toVec3(verts[0]), toVec3(verts[1]), toVec3(verts[2]), toVec3(verts[3]))

	uv := *fj.UV
	u1, v1, u2, v2 := uv[0]/16, uv[1]/16, uv[2]/16, uv[3]/16
	uvQuad := [4]meshdata.Vec2{
		{u2, 1 - v2}, {u2, 1 - v1}, {u1, 1 - v1}, {u1, 1 - v2},
	}
	uvQuad = rotateUV(uvQuad, fj.Rotation)

	uvBase := len(dst.UVCoordinates)
	dst.UVCoordinates = append(dst.UVCoordinates, uvQuad[0], uvQuad[1], uvQuad[2], uvQuad[3])

	dst.Faces = append(dst.Faces, baseIdx, baseIdx+1, baseIdx+2, baseIdx+3)
	dst.UVFaces = append(dst.UVFaces, uvBase, uvBase+1, uvBase+2, uvBase+3)

	dir := meshdata.DoNotCull
	if fj.Cullface != "" {
		dir = meshdata.Direction(fj.Cullface)
	}
	dst.FaceDirections = append(dst.FaceDirections, dir, dir, dir, dir)
	dst.FaceNames = append(dst.FaceNames, meshdata.Direction(name))

	materialName := nsHint + ":" + "missing"
	texturePath := "None"
	if ref := fj.Texture; ref != "" {
		resolved := textures[trimHash(ref)]
		if resolved != "" {
			rns, rpath := splitNamespaced(resolved)
			materialName = rns + ":" + rpath
			if p, ok := r.rc.TexturePath(rns, rpath); ok {
				texturePath = p
			} else {
				r.warnOnce("missing-texture:"+rns+":"+rpath, "resolve: texture not found: "+rns+":"+rpath)
			}
		}
	}
	matIdx := appendMaterial(dst, materialName, texturePath)
	dst.MaterialIndices = append(dst.MaterialIndices, matIdx)
}

func appendMaterial(dst *meshdata.ModelData, name, texturePath string) int {
	for i, n := range dst.MaterialNames {
		if n == name {
			return i
		}
	}
	dst.MaterialNames = append(dst.MaterialNames, name)
	dst.TexturePaths = append(dst.TexturePaths, texturePath)
	return len(dst.MaterialNames) - 1
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

func rotateUV(uv [4]meshdata.Vec2, rotation int) [4]meshdata.Vec2 {
	steps := ((rotation % 360) + 360) % 360 / 90
	out := uv
	for i := 0; i < steps; i++ {
		out = [4]meshdata.Vec2{out[3], out[0], out[1], out[2]}
	}
	return out
}

func axisFromString(s string) geom.Axis {
	switch s {
	case "x":
		return geom.AxisX
	case "z":
		return geom.AxisZ
	default:
		return geom.AxisY
	}
}

func findFace(instances []faceInstance, name string) int {
	for i, inst := range instances {
		if inst.name == name {
			return i
		}
	}
	return -1
}

func vertexSetsEqual(a, b [4]mgl64.Vec3) bool {
	used := [4]bool{}
	for _, va := range a {
		found := false
		for i, vb := range b {
			if used[i] {
				continue
			}
			if almostEqual(va, vb) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func almostEqual(a, b mgl64.Vec3) bool {
	const eps = 1e-6
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps && math.Abs(a[2]-b[2]) < eps
}

func faceNormal(v [4]mgl64.Vec3) mgl64.Vec3 {
	e1 := v[1].Sub(v[0])
	e2 := v[2].Sub(v[0])
	n := e1.Cross(e2)
	if n.Len() == 0 {
		return mgl64.Vec3{0, 0, 0}
	}
	return n.Normalize()
}

func faceCenter(v [4]mgl64.Vec3) mgl64.Vec3 {
	sum := v[0].Add(v[1]).Add(v[2]).Add(v[3])
	return sum.Mul(0.25)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func toVec3(v mgl64.Vec3) meshdata.Vec3 {
	return meshdata.Vec3{v[0], v[1], v[2]}
}
