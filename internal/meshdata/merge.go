package meshdata

// MergeDirectly appends src into dst in place, the hot path used once
// per block by the Chunk Mesher and once per matched part by
// multipart join (§4.6). Material names are reconciled by value: a
// source material already present in dst by name is reused, otherwise
// appended.
func MergeDirectly(dst, src *ModelData) {
	vertexBase := len(dst.Vertices)
	uvBase := len(dst.UVCoordinates)

	dst.Vertices = append(dst.Vertices, src.Vertices...)
	dst.UVCoordinates = append(dst.UVCoordinates, src.UVCoordinates...)

	for _, vi := range src.Faces {
		dst.Faces = append(dst.Faces, vi+vertexBase)
	}
	for _, ui := range src.UVFaces {
		dst.UVFaces = append(dst.UVFaces, ui+uvBase)
	}

	materialIndexMap := make([]int, len(src.MaterialNames))
	for i, name := range src.MaterialNames {
		materialIndexMap[i] = dst.materialIndexFor(name, src.TexturePaths[i])
	}
	for _, mi := range src.MaterialIndices {
		dst.MaterialIndices = append(dst.MaterialIndices, materialIndexMap[mi])
	}

	dst.FaceDirections = append(dst.FaceDirections, src.FaceDirections...)
	dst.FaceNames = append(dst.FaceNames, src.FaceNames...)
}

// materialIndexFor returns dst's index for a material name, appending
// a new material (and its texture path) if not already present.
func (m *ModelData) materialIndexFor(name, texturePath string) int {
	for i, n := range m.MaterialNames {
		if n == name {
			return i
		}
	}
	m.MaterialNames = append(m.MaterialNames, name)
	m.TexturePaths = append(m.TexturePaths, texturePath)
	return len(m.MaterialNames) - 1
}

// Merge is the two-arg form of MergeDirectly (P7: associativity up to
// material-equivalence). It never mutates its arguments. The pipeline
// does not call it; the Chunk Mesher and multipart join use
// MergeDirectly.
func Merge(a, b *ModelData) *ModelData {
	out := &ModelData{}
	MergeDirectly(out, a)
	MergeDirectly(out, b)
	return out
}
