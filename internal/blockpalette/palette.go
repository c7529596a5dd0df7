// Package blockpalette implements the Block Palette Registry (BPR): a
// global ordered list of canonical block state strings, assigning
// stable integer IDs and classifying each block as solid/air/fluid.
package blockpalette

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// cosmeticKeys are stripped during canonicalization: they do not
// affect the visual model and would otherwise fragment the palette.
var cosmeticKeys = map[string]bool{
	"waterlogged": true,
	"distance":    true,
	"persistent":  true,
}

// Block is the registry's per-entry record (§3).
type Block struct {
	State string // canonical state string
	Air   bool
	Level int // -1 if not a fluid/waterlogged block; 0-15 otherwise
}

// Registry is the BPR: append-only for the pipeline's lifetime, with
// air pre-registered as ID 0.
type Registry struct {
	mu       sync.Mutex
	solidSet map[string]bool // base id (namespace:id) -> renders as opaque cube

	blocks []Block
	byName map[uint64][]nameEntry // hash bucket -> collision list
}

type nameEntry struct {
	name string
	id   int
}

// New creates a registry with minecraft:air pre-registered as ID 0.
// solidIDs lists the base block IDs (namespace:id, no brackets) that
// render as opaque cubes for culling purposes.
func New(solidIDs []string) *Registry {
	solid := make(map[string]bool, len(solidIDs))
	for _, id := range solidIDs {
		solid[id] = true
	}
	r := &Registry{
		solidSet: solid,
		byName:   make(map[uint64][]nameEntry),
	}
	r.register(Block{State: "minecraft:air", Air: true, Level: -1}, "minecraft:air")
	return r
}

// Register looks up or assigns an ID for the given raw block state
// string (as it appears in a chunk's block-state palette). Returns
// the global ID. Registering the same canonical name twice returns
// the same ID (P1).
func (r *Registry) Register(raw string) int {
	ns, id, props, _ := ParseState(raw)
	canonical := Canonicalize(ns, id, props)

	r.mu.Lock()
	defer r.mu.Unlock()

	h := xxhash.Sum64String(canonical)
	for _, e := range r.byName[h] {
		if e.name == canonical {
			return e.id
		}
	}

	air := canonical == "minecraft:air"
	level := parseFluidLevel(ns, id, props)

	newID := len(r.blocks)
	r.blocks = append(r.blocks, Block{State: canonical, Air: air, Level: level})
	r.byName[h] = append(r.byName[h], nameEntry{name: canonical, id: newID})
	return newID
}

// register is the internal air-ID-0 bootstrap path; it bypasses
// parsing since the canonical form is already known.
func (r *Registry) register(b Block, canonical string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := xxhash.Sum64String(canonical)
	newID := len(r.blocks)
	r.blocks = append(r.blocks, b)
	r.byName[h] = append(r.byName[h], nameEntry{name: canonical, id: newID})
	return newID
}

// Block returns the registered block for a global ID.
func (r *Registry) Block(id int) Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 0 || id >= len(r.blocks) {
		return Block{Air: true, Level: -1}
	}
	return r.blocks[id]
}

// IsSolid reports whether the base id (no properties) is in the
// user-supplied solid set. Absence is treated as non-solid (§4.3).
func (r *Registry) IsSolid(baseID string) bool {
	return r.solidSet[baseID]
}

// IsAirForCulling reports whether the block at id should be treated as
// air for neighbor cull-face purposes: literal air, or any block whose
// base id is absent from the solid set (§4.3 step 2: "Absence ⇒
// treated as non-solid (air for culling purposes)"). This is distinct
// from Block.Air, which only ever marks literal minecraft:air.
func (r *Registry) IsAirForCulling(id int) bool {
	b := r.Block(id)
	if b.Air {
		return true
	}
	return !r.IsSolid(baseName(b.State))
}

// baseName strips a canonical state string's bracketed property list,
// leaving "namespace:id" as IsSolid's solid set is keyed.
func baseName(state string) string {
	if i := strings.IndexByte(state, '['); i >= 0 {
		return state[:i]
	}
	return state
}

// ParseState splits a raw block state string "ns:id[k1=v1,k2=v2]"
// into namespace, id, an ordered property map, and whether brackets
// were present.
func ParseState(raw string) (namespace, id string, props map[string]string, hadBrackets bool) {
	name := raw
	propStr := ""
	if i := strings.IndexByte(raw, '['); i >= 0 && strings.HasSuffix(raw, "]") {
		name = raw[:i]
		propStr = raw[i+1 : len(raw)-1]
		hadBrackets = true
	}

	if i := strings.IndexByte(name, ':'); i >= 0 {
		namespace, id = name[:i], name[i+1:]
	} else {
		namespace, id = "minecraft", name
	}

	if propStr == "" {
		return namespace, id, map[string]string{}, hadBrackets
	}
	props = map[string]string{}
	for _, pair := range strings.Split(propStr, ",") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			props[kv[0]] = kv[1]
		}
	}
	return namespace, id, props, hadBrackets
}

// Canonicalize builds the canonical state string: namespace defaulted,
// cosmetic keys stripped, remaining keys sorted, "=" separators (P2).
func Canonicalize(namespace, id string, props map[string]string) string {
	if namespace == "" {
		namespace = "minecraft"
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		if cosmeticKeys[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	base := namespace + ":" + id
	if len(keys) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(props[k])
	}
	b.WriteByte(']')
	return b.String()
}

// parseFluidLevel implements §4.3 step 3: level=0 if waterlogged=true;
// else if id is water/lava, level=properties.level (default 0); else -1.
func parseFluidLevel(namespace, id string, props map[string]string) int {
	if props["waterlogged"] == "true" {
		return 0
	}
	if id == "water" || id == "lava" {
		if v, ok := props["level"]; ok {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return 0
	}
	return -1
}
