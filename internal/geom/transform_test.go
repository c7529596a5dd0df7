package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func almostEqualVec(a, b mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestRotateVariantY90(t *testing.T) {
	// Scenario 4: a cube model with variant {model, y:90} produces
	// vertices identical up to (x,y,z) -> (1-z, y, x).
	in := mgl64.Vec3{0.25, 0.5, 0.75}
	want := mgl64.Vec3{1 - 0.75, 0.5, 0.25}
	got := RotateVariantY(in, 90)
	if !almostEqualVec(got, want) {
		t.Fatalf("RotateVariantY(90) = %v, want %v", got, want)
	}
}

func TestRotateVariantYIdentityAtZero(t *testing.T) {
	in := mgl64.Vec3{0.1, 0.2, 0.3}
	got := RotateVariantY(in, 0)
	if !almostEqualVec(got, in) {
		t.Fatalf("RotateVariantY(0) should be identity, got %v", got)
	}
}

func TestRotateVariantYFullCircle(t *testing.T) {
	in := mgl64.Vec3{0.2, 0.4, 0.6}
	got := in
	for i := 0; i < 4; i++ {
		got = RotateVariantY(got, 90)
	}
	if !almostEqualVec(got, in) {
		t.Fatalf("four 90-degree rotations should return to start, got %v want %v", got, in)
	}
}

func TestElementRotationIdentityAtZeroAngle(t *testing.T) {
	v := mgl64.Vec3{0.3, 0.4, 0.9}
	origin := mgl64.Vec3{8, 8, 8}
	got := ElementRotation(v, AxisY, 0, origin, false)
	if !almostEqualVec(got, v) {
		t.Fatalf("zero-angle rotation should be identity, got %v", got)
	}
}

func TestRotateDirectionYCycle(t *testing.T) {
	got := RotateDirectionY("north", 90)
	if got != "east" {
		t.Fatalf("RotateDirectionY(north,90) = %s, want east", got)
	}
	got = RotateDirectionY("north", 360)
	if got != "north" {
		t.Fatalf("RotateDirectionY(north,360) = %s, want north (identity)", got)
	}
}

func TestUVLockRotationKnownCombination(t *testing.T) {
	if _, ok := UVLockRotation(90, 180, "north"); !ok {
		t.Fatalf("expected (90,180,north) to be a known uvlock combination")
	}
}
