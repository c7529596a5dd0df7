package resolve

import (
	"encoding/json"
	"fmt"
	"strings"
)

// splitNamespaced splits "ns:path" into (namespace, path), defaulting
// the namespace to "minecraft" when absent.
func splitNamespaced(ref string) (string, string) {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "minecraft", ref
}

// modelCacheKey identifies one memoized Stage B result.
type modelCacheKey struct {
	namespace, path string
}

// resolveModelChain implements §4.4 Stage B: start from the model
// named by ref, repeatedly merge in its parent chain (child wins on
// textures/elements/display/ambientocclusion), resolving "#ref"
// texture variables lazily against the combined map. Memoized by
// (namespace, path).
func (r *Resolver) resolveModelChain(ref string) (*resolvedModel, error) {
	ns, path := splitNamespaced(ref)
	key := modelCacheKey{ns, path}

	r.modelMu.Lock()
	if cached, ok := r.modelCache[key]; ok {
		r.modelMu.Unlock()
		return cached, nil
	}
	r.modelMu.Unlock()

	resolved, err := r.buildModelChain(ns, path, map[modelCacheKey]bool{})
	if err != nil {
		return nil, err
	}

	r.modelMu.Lock()
	r.modelCache[key] = resolved
	r.modelMu.Unlock()
	return resolved, nil
}

// buildModelChain does the actual parent walk; inProgress detects
// cycles in the parent chain and breaks them with a warning. Cycles in
// "#ref" texture variables are broken separately, without a warning,
// by resolveTextureRefs.
func (r *Resolver) buildModelChain(ns, path string, inProgress map[modelCacheKey]bool) (*resolvedModel, error) {
	key := modelCacheKey{ns, path}
	if inProgress[key] {
		r.warnOnce(fmt.Sprintf("model-cycle:%s:%s", ns, path), "resolve: cyclic model parent chain detected")
		return &resolvedModel{Textures: map[string]string{}}, nil
	}
	inProgress[key] = true

	raw, ok := r.rc.Model(ns, path)
	if !ok {
		r.warnOnce("missing-model:"+ns+":"+path, "resolve: model not found: "+ns+":"+path)
		return &resolvedModel{Textures: map[string]string{}}, nil
	}

	var child modelJSON
	if err := json.Unmarshal(raw, &child); err != nil {
		r.warnOnce("bad-model-json:"+ns+":"+path, "resolve: malformed model json: "+ns+":"+path)
		return &resolvedModel{Textures: map[string]string{}}, nil
	}

	out := &resolvedModel{Textures: map[string]string{}}
	for k, v := range child.Textures {
		out.Textures[k] = v
	}
	out.Elements = child.Elements

	if child.Parent != "" {
		pns, ppath := splitNamespaced(child.Parent)
		parent, err := r.buildModelChain(pns, ppath, inProgress)
		if err != nil {
			return nil, err
		}
		for k, v := range parent.Textures {
			if _, exists := out.Textures[k]; !exists {
				out.Textures[k] = v
			}
		}
		if len(out.Elements) == 0 {
			out.Elements = parent.Elements
		}
	}

	resolveTextureRefs(out.Textures)
	return out, nil
}

// resolveTextureRefs dereferences "#key" values against the combined
// map in place, breaking cycles by stopping at an already-visited
// reference.
func resolveTextureRefs(textures map[string]string) {
	for k, v := range textures {
		seen := map[string]bool{}
		cur := v
		for strings.HasPrefix(cur, "#") && !seen[cur] {
			seen[cur] = true
			next, ok := textures[cur[1:]]
			if !ok {
				break
			}
			cur = next
		}
		textures[k] = cur
	}
}
