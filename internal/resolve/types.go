// Package resolve implements the Model Resolver (MR): given a block
// state string, it walks blockstate JSON (variants or multipart),
// selects one weighted variant, recursively merges parent models,
// resolves texture variables, and instantiates geometry into a
// meshdata.ModelData.
package resolve

import "encoding/json"

// ResourceProvider is the subset of the Resource Cache (RC) contract
// MR depends on (§4.1's get(category,key)).
type ResourceProvider interface {
	Blockstate(namespace, id string) (json.RawMessage, bool)
	Model(namespace, path string) (json.RawMessage, bool)
	// TexturePath persists the texture's bytes to disk (once) and
	// returns the on-disk path to embed as ModelData.TexturePaths.
	TexturePath(namespace, path string) (string, bool)
}

// blockstateJSON is the boundary struct for a blockstates/<id>.json
// file: either a "variants" map or a "multipart" list (§4.4 Stage A).
type blockstateJSON struct {
	Variants  map[string]json.RawMessage `json:"variants"`
	Multipart []multipartEntry           `json:"multipart"`
}

type multipartEntry struct {
	When  json.RawMessage `json:"when"`
	Apply json.RawMessage `json:"apply"` // single variantRef or []variantRef
}

// variantRef is one concrete model choice: {model, x?, y?, uvlock?, weight?}.
type variantRef struct {
	Model  string `json:"model"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	UVLock bool   `json:"uvlock"`
	Weight float64 `json:"weight"`
}

// modelJSON is the boundary struct for a models/<path>.json file
// (§4.4 Stage B/C).
type modelJSON struct {
	Parent          string             `json:"parent"`
	Textures        map[string]string  `json:"textures"`
	Elements        []elementJSON      `json:"elements"`
	AmbientOcclusion *bool             `json:"ambientocclusion"`
}

type elementJSON struct {
	From     [3]float64            `json:"from"`
	To       [3]float64            `json:"to"`
	Rotation *elementRotationJSON  `json:"rotation"`
	Faces    map[string]faceJSON   `json:"faces"`
}

type elementRotationJSON struct {
	Origin  [3]float64 `json:"origin"`
	Axis    string     `json:"axis"`
	Angle   float64    `json:"angle"`
	Rescale bool       `json:"rescale"`
}

type faceJSON struct {
	UV       *[4]float64 `json:"uv"`
	Texture  string      `json:"texture"`  // "#key" reference
	Cullface string      `json:"cullface"`
	Rotation int         `json:"rotation"`
}

// resolvedModel is Stage B's output: a model JSON with textures fully
// substituted and the parent chain collapsed, immutable once memoized.
type resolvedModel struct {
	Textures map[string]string
	Elements []elementJSON
}
