// Package geom provides the rotation and transform math shared by the
// Model Resolver's element-rotation (Stage C) and variant-rotation
// (Stage D) steps, built on mathgl's homogeneous transforms instead of
// hand-rolled trigonometry.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis names an element-rotation axis (§4.4 Stage C).
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ElementRotation applies §4.4 Stage C's element rotation: translate
// by -origin/16, rotate by angle degrees about axis, translate back.
// If rescale is true and |angle| is 22.5 or 45, the two non-axis
// components are scaled (sqrt(2-sqrt(2)) and sqrt(2) respectively).
func ElementRotation(v mgl64.Vec3, axis Axis, angleDegrees float64, origin mgl64.Vec3, rescale bool) mgl64.Vec3 {
	o := origin.Mul(1.0 / 16.0)
	rad := mgl64.DegToRad(angleDegrees)

	translateToOrigin := mgl64.Translate3D(-o[0], -o[1], -o[2])
	translateBack := mgl64.Translate3D(o[0], o[1], o[2])

	var rot mgl64.Mat4
	switch axis {
	case AxisX:
		rot = mgl64.HomogRotate3DX(rad)
	case AxisY:
		rot = mgl64.HomogRotate3DY(rad)
	default:
		rot = mgl64.HomogRotate3DZ(rad)
	}

	m := translateBack.Mul4(rot).Mul4(translateToOrigin)
	out := mulPoint(m, v)

	if rescale {
		abs := math.Abs(angleDegrees)
		var scale float64
		switch {
		case nearlyEqual(abs, 22.5):
			scale = math.Sqrt(2 - math.Sqrt(2))
		case nearlyEqual(abs, 45):
			scale = math.Sqrt(2)
		default:
			return out
		}
		out = rescaleNonAxis(out, o, axis, scale)
	}
	return out
}

// rescaleNonAxis scales the two components orthogonal to axis about
// the rotation origin by the given factor.
func rescaleNonAxis(v, origin mgl64.Vec3, axis Axis, scale float64) mgl64.Vec3 {
	out := v
	for i := 0; i < 3; i++ {
		if Axis(i) == axis {
			continue
		}
		out[i] = origin[i] + (v[i]-origin[i])*scale
	}
	return out
}

// RotateVariantY rotates a vertex by a multiple of 90 degrees about
// the Y axis, the transform §4.4 Stage D applies for a variant's "y"
// field, expressed in world units around the unit cube (origin 0.5).
//
// For y=90 this implements the spec's literal (1-|-z|, y, x) form
// verbatim rather than the simplified (1-z, y, x): since |-z| == |z|,
// the two agree for z >= 0 and differ for negative z (an element that
// extends below the block's low edge), where this form yields 1+z
// instead of 1-z — see SPEC_FULL §9 Open Question 1.
func RotateVariantY(v mgl64.Vec3, degrees int) mgl64.Vec3 {
	x, y, z := v[0], v[1], v[2]
	switch normalizeDegrees(degrees) {
	case 90:
		return mgl64.Vec3{1 - math.Abs(-z), y, x}
	case 180:
		return mgl64.Vec3{1 - x, y, 1 - z}
	case 270:
		return mgl64.Vec3{z, y, 1 - x}
	default:
		return v
	}
}

// RotateVariantX rotates a vertex by a multiple of 90 degrees about
// the X axis for a variant's "x" field.
func RotateVariantX(v mgl64.Vec3, degrees int) mgl64.Vec3 {
	x, y, z := v[0], v[1], v[2]
	switch normalizeDegrees(degrees) {
	case 90:
		return mgl64.Vec3{x, 1 - z, y}
	case 180:
		return mgl64.Vec3{x, 1 - y, 1 - z}
	case 270:
		return mgl64.Vec3{x, z, 1 - y}
	default:
		return v
	}
}

// RotateDirectionY rotates a cull direction by a multiple of 90
// degrees about Y: north->east->south->west->north (§4.4 Stage D).
func RotateDirectionY(dir string, degrees int) string {
	order := []string{"north", "east", "south", "west"}
	return rotateDirection(dir, order, degrees)
}

// RotateDirectionX rotates a cull direction by a multiple of 90
// degrees about X: up->south->down->north->up.
func RotateDirectionX(dir string, degrees int) string {
	order := []string{"up", "south", "down", "north"}
	return rotateDirection(dir, order, degrees)
}

func rotateDirection(dir string, order []string, degrees int) string {
	steps := normalizeDegrees(degrees) / 90
	idx := -1
	for i, d := range order {
		if d == dir {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dir
	}
	return order[(idx+steps)%len(order)]
}

func normalizeDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mulPoint(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	v4 := m.Mul4x1(mgl64.Vec4{v[0], v[1], v[2], 1})
	return mgl64.Vec3{v4[0], v4[1], v4[2]}
}
