// Package pipeline wires the Resource Cache, Region Store, Block
// Palette Registry, Model Resolver, and Chunk Mesher into a single
// region-to-OBJ export, in the top-to-bottom, progress-logging shape
// convert/main.go uses for its schematic-to-pile conversion.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/rs/zerolog"

	"github.com/oriumgames/blockcast/internal/biome"
	"github.com/oriumgames/blockcast/internal/blockpalette"
	"github.com/oriumgames/blockcast/internal/chunkmesh"
	"github.com/oriumgames/blockcast/internal/config"
	"github.com/oriumgames/blockcast/internal/objwriter"
	"github.com/oriumgames/blockcast/internal/region"
	"github.com/oriumgames/blockcast/internal/rescache"
	"github.com/oriumgames/blockcast/internal/resolve"
)

// javaDimRange is Java Edition's standard overworld Y range. A future
// caller supplying a different dimension's range would pass it in
// instead; every world this pipeline has been pointed at so far is an
// overworld save.
var javaDimRange = cube.Range{-64, 319}

// ExportRegion runs one full convert: build RC from cfg's archives,
// prefetch RS over b (which populates BPR), walk CM, finalize via MD,
// and hand the result to objwriter. MR is not warmed up front: models
// are resolved on demand as CM reaches each block. outputName is the
// base name (no extension) of the .obj/.mtl pair written under
// cfg.OutputDir; textures go under cfg.OutputDir/textures.
func ExportRegion(cfg config.Config, b chunkmesh.Bounds, outputName string, log zerolog.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: create output dir: %w", err)
	}

	fmt.Printf("Loading %d resource archive(s)...\n", len(cfg.Archives))
	rc := rescache.New(log, cfg.OutputDir)
	rc.Initialize(cfg.Archives, cfg.Concurrency)
	if conflicts := rc.Conflicts(); len(conflicts) > 0 {
		log.Warn().Int("count", len(conflicts)).Msg("pipeline: resource archives had overlapping keys")
	}

	bpr := blockpalette.New(cfg.SolidBlocks)
	biomeReg := biome.NewRegistry()
	store := region.New(cfg.WorldDir, bpr.Register, biomeReg.Register, log)

	fmt.Printf("Loading chunks for region (%d,%d,%d) to (%d,%d,%d)...\n", b.X0, b.Y0, b.Z0, b.X1, b.Y1, b.Z1)
	prefetchChunks(store, b)
	store.PromoteSkyLight()

	resolver := resolve.New(rc, log, cfg.RandomSeed)
	mesher := chunkmesh.New(store, bpr, resolver, log)

	fmt.Println("Meshing region...")
	mesh := mesher.MeshRegion(b, javaDimRange)
	mesh.Finalize()

	verts, quads := mesh.Stats()
	fmt.Printf("Mesh built: %d quads, %d vertices\n", quads, verts)
	if n := resolver.WarningCount(); n > 0 {
		log.Warn().Int("distinct_warnings", n).Msg("pipeline: model resolver raised warnings during this run")
	}

	objPath := filepath.Join(cfg.OutputDir, outputName+".obj")
	fmt.Printf("Writing %s...\n", objPath)
	if err := objwriter.WriteOBJ(objPath, mesh); err != nil {
		return fmt.Errorf("pipeline: write output: %w", err)
	}

	fmt.Println("Done.")
	return nil
}

// prefetchChunks loads every chunk overlapping b so RS's sky-light
// promotion pass (which inspects axis-adjacent sections) has its
// neighbors available before CM walks the region.
func prefetchChunks(store *region.Store, b chunkmesh.Bounds) {
	cx0, cx1 := region.ChunkCoord(b.X0), region.ChunkCoord(b.X1)
	cz0, cz1 := region.ChunkCoord(b.Z0), region.ChunkCoord(b.Z1)
	for cz := cz0 - 1; cz <= cz1+1; cz++ {
		for cx := cx0 - 1; cx <= cx1+1; cx++ {
			store.LoadChunk(cx, cz)
		}
	}
}
