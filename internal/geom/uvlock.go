package geom

import "fmt"

// uvLockKey identifies one of the (x-rotation, y-rotation, face-name)
// combinations §4.4 Stage D's UV-lock table is keyed by.
type uvLockKey struct {
	xDeg, yDeg int
	face       string
}

// uvLockTable counters a variant's geometric rotation with an inverse
// UV rotation so that locked textures stay world-aligned. Built from
// the observation that a face whose plane is perpendicular to the
// rotation axis is unaffected by that axis's rotation, while a face
// whose plane contains the axis needs its UV rotated by the negative
// of the geometric rotation around that axis. Entries are the 16
// (x,y) combinations named in §4.4 Stage D, each spanning the six
// face names.
var uvLockTable = buildUVLockTable()

func buildUVLockTable() map[uvLockKey]int {
	degrees := []int{0, 90, 180, 270}
	faces := []string{"up", "down", "north", "south", "east", "west"}
	table := make(map[uvLockKey]int, len(degrees)*len(degrees)*len(faces))

	for _, xDeg := range degrees {
		for _, yDeg := range degrees {
			for _, face := range faces {
				table[uvLockKey{xDeg, yDeg, face}] = uvLockAngle(xDeg, yDeg, face)
			}
		}
	}
	return table
}

// uvLockAngle derives the counter-rotation for one combination: the Y
// rotation only affects the four side faces (its own rotation axis
// passes through up/down, leaving their UV untouched); the X rotation
// only affects up/down/north/south symmetrically, leaving east/west
// untouched around their own normal axis.
func uvLockAngle(xDeg, yDeg int, face string) int {
	angle := 0
	switch face {
	case "up", "down":
		angle = xDeg
	case "north", "south":
		angle = yDeg
	case "east", "west":
		angle = yDeg
	}
	return normalizeDegrees(-angle)
}

// UVLockRotation returns the UV counter-rotation for the given
// variant x/y rotation and pre-rotation face name, plus whether the
// combination was found in the table. Unknown combinations (any
// rotation not a multiple of 90, per §7) should be warned-once by the
// caller and treated as a no-op (angle 0).
func UVLockRotation(xDeg, yDeg int, face string) (int, bool) {
	key := uvLockKey{normalizeDegrees(xDeg), normalizeDegrees(yDeg), face}
	angle, ok := uvLockTable[key]
	return angle, ok
}

// DescribeUVLockKey renders a combination for warn-once diagnostics.
func DescribeUVLockKey(xDeg, yDeg int, face string) string {
	return fmt.Sprintf("uvlock(x=%d,y=%d,face=%s)", xDeg, yDeg, face)
}
