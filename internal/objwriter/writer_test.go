package objwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oriumgames/blockcast/internal/meshdata"
)

func texturedQuad() *meshdata.ModelData {
	m := meshdata.New()
	m.Vertices = []meshdata.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}
	m.UVCoordinates = []meshdata.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	m.Faces = []int{0, 1, 2, 3}
	m.UVFaces = []int{0, 1, 2, 3}
	m.MaterialNames = []string{"minecraft:block/stone"}
	m.TexturePaths = []string{"textures/minecraft/block/stone.png"}
	m.MaterialIndices = []int{0}
	m.FaceDirections = []meshdata.Direction{meshdata.DoNotCull, meshdata.DoNotCull, meshdata.DoNotCull, meshdata.DoNotCull}
	m.FaceNames = []meshdata.Direction{meshdata.North}
	return m
}

func TestWriteOBJProducesVAndFLines(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "out.obj")

	if err := WriteOBJ(objPath, texturedQuad()); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	data, err := os.ReadFile(objPath)
	if err != nil {
		t.Fatalf("read obj: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "mtllib out.mtl") {
		t.Error("missing mtllib directive")
	}
	if strings.Count(text, "v ") != 4 {
		t.Errorf("expected 4 vertex lines, got %d", strings.Count(text, "v "))
	}
	if !strings.Contains(text, "f 1/1 2/2 3/3 4/4") {
		t.Errorf("unexpected face line in:\n%s", text)
	}
}

func TestWriteOBJEmitsTexturedMTLProfile(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "out.obj")
	if err := WriteOBJ(objPath, texturedQuad()); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.mtl"))
	if err != nil {
		t.Fatalf("read mtl: %v", err)
	}
	if !strings.Contains(string(data), "map_Kd") {
		t.Error("textured material should carry a map_Kd line")
	}
}

func TestWriteOBJEmitsLightBlockProfileForSentinel(t *testing.T) {
	m := texturedQuad()
	m.TexturePaths[0] = "None"

	dir := t.TempDir()
	objPath := filepath.Join(dir, "out.obj")
	if err := WriteOBJ(objPath, m); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.mtl"))
	if err != nil {
		t.Fatalf("read mtl: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "map_Kd") {
		t.Error("light-block material should not carry a texture map")
	}
	if !strings.Contains(text, "illum 0") {
		t.Error("light-block material should use illum 0")
	}
}

func TestWriteOBJRejectsInvalidMesh(t *testing.T) {
	m := meshdata.New()
	m.Faces = []int{0, 1, 2} // not a multiple of 4

	dir := t.TempDir()
	if err := WriteOBJ(filepath.Join(dir, "out.obj"), m); err == nil {
		t.Fatal("expected an invariant error for a malformed mesh")
	}
}
