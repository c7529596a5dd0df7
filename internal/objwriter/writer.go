// Package objwriter writes a finalized ModelData as a Wavefront OBJ
// file plus a companion MTL, the mesh-output external collaborator
// §6 specifies: v/vt/usemtl/f lines, two material profiles (a
// standard textured one, and a self-illuminating "light block" one
// for the sentinel texture path "None").
package objwriter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oriumgames/blockcast/internal/meshdata"
)

// lightBlockSentinel is the texture-path value Stage F's light-block
// and fluid placeholders use to signal "self-illuminating, no map".
const lightBlockSentinel = "None"

// WriteOBJ writes objPath's OBJ text and a same-named .mtl alongside
// it, one usemtl group per distinct material, in first-seen order.
func WriteOBJ(objPath string, m *meshdata.ModelData) error {
	if err := m.CheckInvariants(); err != nil {
		return fmt.Errorf("objwriter: refusing to write an invalid mesh: %w", err)
	}

	mtlPath := trimExt(objPath) + ".mtl"
	mtlName := filepath.Base(mtlPath)

	if err := writeMTL(mtlPath, m); err != nil {
		return err
	}
	return writeOBJ(objPath, mtlName, m)
}

func writeOBJ(path, mtlName string, m *meshdata.ModelData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("objwriter: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "mtllib %s\n", mtlName)

	for _, v := range m.Vertices {
		fmt.Fprintf(w, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, uv := range m.UVCoordinates {
		fmt.Fprintf(w, "vt %g %g\n", uv[0], uv[1])
	}

	quads := m.QuadCount()
	currentMaterial := -1
	for q := 0; q < quads; q++ {
		matIdx := m.MaterialIndices[q]
		if matIdx != currentMaterial {
			fmt.Fprintf(w, "usemtl %s\n", sanitizeMaterialName(m.MaterialNames[matIdx]))
			currentMaterial = matIdx
		}
		vi := m.Faces[q*4 : q*4+4]
		ui := m.UVFaces[q*4 : q*4+4]
		fmt.Fprintf(w, "f %d/%d %d/%d %d/%d %d/%d\n",
			vi[0]+1, ui[0]+1, vi[1]+1, ui[1]+1, vi[2]+1, ui[2]+1, vi[3]+1, ui[3]+1)
	}

	return w.Flush()
}

func writeMTL(path string, m *meshdata.ModelData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("objwriter: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, name := range m.MaterialNames {
		fmt.Fprintf(w, "newmtl %s\n", sanitizeMaterialName(name))
		if m.TexturePaths[i] == lightBlockSentinel {
			writeLightBlockProfile(w)
		} else {
			writeTexturedProfile(w, m.TexturePaths[i])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// writeTexturedProfile is the standard material: a diffuse map, no
// specular, fully opaque.
func writeTexturedProfile(w *bufio.Writer, texturePath string) {
	fmt.Fprintln(w, "Ka 1.000 1.000 1.000")
	fmt.Fprintln(w, "Kd 1.000 1.000 1.000")
	fmt.Fprintln(w, "Ks 0.000 0.000 0.000")
	fmt.Fprintln(w, "d 1.0")
	fmt.Fprintln(w, "illum 1")
	fmt.Fprintf(w, "map_Kd %s\n", filepath.ToSlash(texturePath))
}

// writeLightBlockProfile is the self-illuminating profile for Stage
// F's light-block/fluid placeholders: no texture map, full ambient
// emission via Ka so the block reads as "lit" without a light bake.
func writeLightBlockProfile(w *bufio.Writer) {
	fmt.Fprintln(w, "Ka 1.000 1.000 1.000")
	fmt.Fprintln(w, "Kd 1.000 1.000 0.700")
	fmt.Fprintln(w, "Ks 0.000 0.000 0.000")
	fmt.Fprintln(w, "d 1.0")
	fmt.Fprintln(w, "illum 0")
}

func trimExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

// sanitizeMaterialName replaces characters the MTL/OBJ format treats
// specially (whitespace) since material names come from "ns:path"
// strings that may carry punctuation OBJ readers handle fine but some
// tolerate poorly in names.
func sanitizeMaterialName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == ' ' || c == '\t' || c == '\n' {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return string(out)
}
