// Command blockcast converts a cuboid region of a Java Edition world
// save into a textured OBJ mesh, generalizing convert/main.go's
// argument-parsing and panic-on-fatal-error style to a flag-driven,
// six-coordinate invocation.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/oriumgames/blockcast/internal/chunkmesh"
	"github.com/oriumgames/blockcast/internal/config"
	"github.com/oriumgames/blockcast/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "blockcast.yaml", "path to the settings file")
	out := flag.String("out", "region", "base name (no extension) of the output .obj/.mtl pair")
	x0 := flag.Int("x0", 0, "minimum X coordinate, inclusive")
	x1 := flag.Int("x1", 15, "maximum X coordinate, inclusive")
	y0 := flag.Int("y0", -64, "minimum Y coordinate, inclusive")
	y1 := flag.Int("y1", 319, "maximum Y coordinate, inclusive")
	z0 := flag.Int("z0", 0, "minimum Z coordinate, inclusive")
	z1 := flag.Int("z1", 15, "maximum Z coordinate, inclusive")
	verbose := flag.Bool("v", false, "enable debug-level logging")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: blockcast -config blockcast.yaml -out region -x0 .. -x1 .. -y0 .. -y1 .. -z0 .. -z1 ..")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("blockcast: failed to load config")
	}

	bounds := chunkmesh.Bounds{X0: *x0, X1: *x1, Y0: *y0, Y1: *y1, Z0: *z0, Z1: *z1}
	if err := pipeline.ExportRegion(cfg, bounds, *out, log); err != nil {
		log.Fatal().Err(err).Msg("blockcast: export failed")
	}
}
