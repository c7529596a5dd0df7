package resolve

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/blockcast/internal/geom"
	"github.com/oriumgames/blockcast/internal/meshdata"
)

// applyVariantTransform runs §4.4 Stage D: the variant's x/y rotation
// in world units, with an optional UV-lock counter-rotation so locked
// textures stay aligned, and rotates faceDirections along with the
// geometry.
func (r *Resolver) applyVariantTransform(m *meshdata.ModelData, v variantRef) {
	if v.X == 0 && v.Y == 0 {
		return
	}
	for i, vert := range m.Vertices {
		vv := mgl64.Vec3{vert[0], vert[1], vert[2]}
		if v.X != 0 {
			vv = geom.RotateVariantX(vv, v.X)
		}
		if v.Y != 0 {
			vv = geom.RotateVariantY(vv, v.Y)
		}
		m.Vertices[i] = meshdata.Vec3{vv[0], vv[1], vv[2]}
	}

	quads := m.QuadCount()
	for q := 0; q < quads; q++ {
		faceName := string(m.FaceNames[q])
		dir := string(m.FaceDirections[q*4])

		if v.UVLock {
			if angle, ok := geom.UVLockRotation(v.X, v.Y, faceName); ok {
				uvIdx := m.UVFaces[q*4 : q*4+4]
				quad := [4]meshdata.Vec2{
					m.UVCoordinates[uvIdx[0]], m.UVCoordinates[uvIdx[1]],
					m.UVCoordinates[uvIdx[2]], m.UVCoordinates[uvIdx[3]],
				}
				quad = rotateUV(quad, angle)
				for i, idx := range uvIdx {
					m.UVCoordinates[idx] = quad[i]
				}
			} else {
				r.warnOnce(geom.DescribeUVLockKey(v.X, v.Y, faceName), "resolve: unknown uvlock rotation combination")
			}
		}

		if dir != string(meshdata.DoNotCull) {
			newDir := dir
			if v.X != 0 {
				newDir = geom.RotateDirectionX(newDir, v.X)
			}
			if v.Y != 0 {
				newDir = geom.RotateDirectionY(newDir, v.Y)
			}
			for i := 0; i < 4; i++ {
				m.FaceDirections[q*4+i] = meshdata.Direction(newDir)
			}
		}
	}
}
