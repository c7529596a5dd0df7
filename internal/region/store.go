package region

import (
	"sync"

	"github.com/brentp/intintmap"
	"github.com/rs/zerolog"
)

// HeightmapType names one of the four heightmap kinds §4.2 recognizes.
type HeightmapType string

const (
	MotionBlocking          HeightmapType = "MOTION_BLOCKING"
	MotionBlockingNoLeaves  HeightmapType = "MOTION_BLOCKING_NO_LEAVES"
	OceanFloor              HeightmapType = "OCEAN_FLOOR"
	WorldSurface            HeightmapType = "WORLD_SURFACE"
)

var heightmapTypes = []HeightmapType{MotionBlocking, MotionBlockingNoLeaves, OceanFloor, WorldSurface}

type chunkEntry struct {
	x, z      int32
	sections  map[int]*SectionCacheEntry // keyed by unadjusted sectionY
	heightmap map[HeightmapType][256]int
	loaded    bool // true even when the chunk was absent (air), so we don't re-read the file
}

// ResolveID maps a block-state or biome string to its global palette
// ID (usually backed by blockpalette.Registry).
type ResolveID func(canonical string) int

// Store is the Region Store (RS): an on-demand loader and cache of
// region files, decoded chunks, and per-section data. It is owned by
// one pipeline run and is not safe for concurrent mutation by more
// than one caller at a time (§5: "RS and BPR are mutated by CM
// in-place and need not be thread-safe").
type Store struct {
	worldDir string
	log      zerolog.Logger

	resolveBlock ResolveID
	resolveBiome ResolveID

	mu         sync.Mutex // not taken by any Store method; the maps below are unguarded
	chunkIdx   *intintmap.Map
	chunks     []*chunkEntry
	sectionIdx *intintmap.Map
	sections   []*SectionCacheEntry
}

// New creates a Region Store rooted at worldDir (the save's top-level
// directory, containing a "region" subdirectory of .mca files).
func New(worldDir string, resolveBlock, resolveBiome ResolveID, log zerolog.Logger) *Store {
	return &Store{
		worldDir:     worldDir,
		log:          log,
		resolveBlock: resolveBlock,
		resolveBiome: resolveBiome,
		chunkIdx:     intintmap.New(256, 0.75),
		sectionIdx:   intintmap.New(4096, 0.75),
	}
}

// LoadChunk reads and decompresses the chunk at (cx, cz) if not
// already cached, decodes every section, and installs each section's
// SectionCacheEntry. A missing region file or unwritten chunk results
// in a cached "empty" entry so repeated queries stay cheap and report
// air transparently (§4.2's failure model).
func (s *Store) LoadChunk(cx, cz int) *chunkEntry {
	key := chunkKey(int32(cx), int32(cz))
	if idx, ok := s.chunkIdx.Get(key); ok {
		return s.chunks[idx]
	}

	ce := &chunkEntry{x: int32(cx), z: int32(cz), sections: map[int]*SectionCacheEntry{}, heightmap: map[HeightmapType][256]int{}}

	raw, err := loadChunkBytes(s.worldDir, cx, cz)
	if err != nil {
		s.log.Warn().Err(err).Int("cx", cx).Int("cz", cz).Msg("region: chunk load failed, treating as air")
		raw = nil
	}
	if raw != nil {
		root, err := decodeChunkNBT(raw)
		if err != nil {
			s.log.Warn().Err(err).Int("cx", cx).Int("cz", cz).Msg("region: chunk nbt decode failed, treating as air")
		} else {
			s.populateChunk(ce, root)
		}
	}
	ce.loaded = true

	idx := int64(len(s.chunks))
	s.chunks = append(s.chunks, ce)
	s.chunkIdx.Put(key, idx)
	return ce
}

func (s *Store) populateChunk(ce *chunkEntry, root map[string]any) {
	for _, raw := range nbtList(root["sections"]) {
		sm := nbtMap(raw)
		if sm == nil {
			continue
		}
		yRaw, _ := nbtInt32(sm["Y"])
		sectionY := int(yRaw)

		entry := &SectionCacheEntry{ChunkX: ce.x, ChunkZ: ce.z, SectionY: sectionY}

		if bs := nbtMap(sm["block_states"]); bs != nil {
			palette := decodeBlockStatePalette(nbtList(bs["palette"]))
			packed := nbtInt64Array(bs["data"])
			blocks, names := decodeSectionPalette(palette, packed, 4, s.resolveBlock)
			entry.BlockData = blocks
			entry.BlockPalette = names
		}
		if bi := nbtMap(sm["biomes"]); bi != nil {
			palette := nbtStringArray(bi["palette"])
			packed := nbtInt64Array(bi["data"])
			entry.BiomeData = decodeBiomePalette(palette, packed, s.resolveBiome)
		}
		entry.SkyLight = expandNibbles(nbtByteArray(sm["SkyLight"]))
		entry.BlockLight = expandNibbles(nbtByteArray(sm["BlockLight"]))

		ce.sections[sectionY] = entry

		skey := sectionKey(ce.x, ce.z, AdjustedSectionY(sectionY))
		sidx := int64(len(s.sections))
		s.sections = append(s.sections, entry)
		s.sectionIdx.Put(skey, sidx)
	}

	if hms := nbtMap(root["Heightmaps"]); hms != nil {
		for _, t := range heightmapTypes {
			if packed := nbtInt64Array(hms[string(t)]); packed != nil {
				bits := 8
				if len(packed) == 37 {
					bits = 9
				}
				values := DecodePacked(packed, bits, 256)
				var arr [256]int
				copy(arr[:], values)
				ce.heightmap[t] = arr
			}
		}
	}
}

// decodeBlockStatePalette turns the raw NBT "palette" list (a list of
// {Name, Properties} compounds) into canonical "ns:id[k=v,...]"
// strings, matching BPR's expected input shape.
func decodeBlockStatePalette(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		m := nbtMap(e)
		name := nbtString(m["Name"])
		props := nbtMap(m["Properties"])
		out = append(out, formatStateString(name, props))
	}
	return out
}

func formatStateString(name string, props map[string]any) string {
	if len(props) == 0 {
		return name
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sortStrings(keys)
	s := name + "["
	for i, k := range keys {
		if i > 0 {
			s += ","
		}
		s += k + "=" + nbtString(props[k])
	}
	return s + "]"
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// section returns the decoded section at (cx,cz,sectionY), or nil if
// never written (treated as all-air).
func (s *Store) section(cx, cz, sectionY int) *SectionCacheEntry {
	ce := s.LoadChunk(cx, cz)
	return ce.sections[sectionY]
}

// SectionByKey looks up a section directly via the packed
// (chunkX, chunkZ, adjustedSectionY) key, bypassing chunk loading.
// Returns nil if that exact key was never installed.
func (s *Store) SectionByKey(chunkX, chunkZ int32, adjustedSectionY int) *SectionCacheEntry {
	key := sectionKey(chunkX, chunkZ, adjustedSectionY)
	idx, ok := s.sectionIdx.Get(key)
	if !ok {
		return nil
	}
	return s.sections[idx]
}

// GetBlockID returns the global palette ID at world coordinates, or
// 0 (air) if the containing section has no data.
func (s *Store) GetBlockID(x, y, z int) int {
	sec := s.section(ChunkCoord(x), ChunkCoord(z), SectionCoord(y))
	if sec == nil {
		return 0
	}
	return sec.BlockData[SectionIndex(x, y, z)]
}

// GetBiomeID returns the global biome ID at world coordinates.
func (s *Store) GetBiomeID(x, y, z int) int {
	sec := s.section(ChunkCoord(x), ChunkCoord(z), SectionCoord(y))
	if sec == nil {
		return 0
	}
	bx, by, bz := Mod16(x)/4, Mod16(y)/4, Mod16(z)/4
	return sec.BiomeData[16*by+4*bz+bx]
}

// GetSkyLight returns the sky-light value at world coordinates,
// including the -1/-2 absence sentinels (§3/§4.2).
func (s *Store) GetSkyLight(x, y, z int) int {
	sec := s.section(ChunkCoord(x), ChunkCoord(z), SectionCoord(y))
	if sec == nil {
		return int(absentSkyLight)
	}
	return sec.SkyLightAt(x, y, z)
}

// GetBlockLight returns the block-light value at world coordinates.
func (s *Store) GetBlockLight(x, y, z int) int {
	sec := s.section(ChunkCoord(x), ChunkCoord(z), SectionCoord(y))
	if sec == nil {
		return int(absentSkyLight)
	}
	return sec.BlockLightAt(x, y, z)
}

// GetHeight returns the heightmap value for the given column and type.
func (s *Store) GetHeight(x, z int, t HeightmapType) int {
	ce := s.LoadChunk(ChunkCoord(x), ChunkCoord(z))
	hm, ok := ce.heightmap[t]
	if !ok {
		return 0
	}
	return hm[16*Mod16(z)+Mod16(x)]
}

// neighborOffsets gives [up, down, west, east, north, south] offsets,
// the fixed order §4.2's GetBlockWithNeighbors returns.
var neighborOffsets = [6][3]int{
	{0, 1, 0},
	{0, -1, 0},
	{-1, 0, 0},
	{1, 0, 0},
	{0, 0, -1},
	{0, 0, 1},
}

// GetBlockWithNeighbors returns the block ID at (x,y,z) and fills
// neighborIsAir with whether each of the six face-adjacent blocks
// counts as air for cull-face purposes, in the order [up, down, west,
// east, north, south]. isAir classifies a neighbor's global ID
// (usually backed by blockpalette.Registry.IsAirForCulling, which
// treats any non-solid block as air per §4.3, not just literal air).
func (s *Store) GetBlockWithNeighbors(x, y, z int, isAir func(id int) bool, neighborIsAir *[6]bool) int {
	id := s.GetBlockID(x, y, z)
	for i, off := range neighborOffsets {
		nid := s.GetBlockID(x+off[0], y+off[1], z+off[2])
		neighborIsAir[i] = isAir(nid)
	}
	return id
}

// PromoteSkyLight runs §4.2's "sky-light neighbor promotion" pass: any
// section whose SkyLight is the {-1} singleton is re-examined, and if
// any axis-adjacent section has a full 4096-entry array, the singleton
// is replaced by {-2}. Must be called once after all sections of
// interest are loaded and before CM consumes them.
func (s *Store) PromoteSkyLight() {
	for _, sec := range s.sections {
		if len(sec.SkyLight) != 1 || sec.SkyLight[0] != absentSkyLight {
			continue
		}
		if s.hasLitNeighbor(sec) {
			sec.SkyLight = []int8{promotedSkyLight}
		}
	}
}

func (s *Store) hasLitNeighbor(sec *SectionCacheEntry) bool {
	cx, cz, sy := int(sec.ChunkX), int(sec.ChunkZ), sec.SectionY
	dirs := [6][3]int{{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}
	for _, d := range dirs {
		neighbor := s.section(cx+d[0], cz+d[1], sy+d[2])
		if neighbor != nil && len(neighbor.SkyLight) == 4096 {
			return true
		}
	}
	return false
}
