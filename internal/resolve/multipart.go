package resolve

import "github.com/oriumgames/blockcast/internal/meshdata"

// joinParts runs §4.4 Stage E: concatenate every matched part's mesh
// with the in-place merger, in selection order. A single-variant
// "variants" blockstate is just the degenerate one-part case.
func (r *Resolver) joinParts(parts []variantRef) (*meshdata.ModelData, error) {
	out := meshdata.New()
	for _, part := range parts {
		mesh, err := r.instantiateVariant(part)
		if err != nil {
			return nil, err
		}
		meshdata.MergeDirectly(out, mesh)
	}
	return out, nil
}
