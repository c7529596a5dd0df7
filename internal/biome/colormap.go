// Package biome implements a minimal read-only biome-color sampler:
// nearest-neighbor indexing into a colormap PNG by (temperature,
// downfall), the grass/foliage tint lookup. The Model Resolver does
// not call it; the pipeline uses only this package's Registry, to
// intern biome names. Computing biome temperature/downfall itself is
// out of scope (§1 "the biome-color computation (consumed
// read-only)"); this package only does the colormap half.
package biome

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
)

// Colormap is a decoded 256x256 biome colormap (vanilla's grass.png/
// foliage.png layout): x is clamped temperature, y is clamped
// downfall, both inverted per the game's convention (temperature=1,
// downfall=1 samples pixel (0,0)).
type Colormap struct {
	img image.Image
}

// Decode parses raw PNG bytes (as stored by RC's colormaps map) into
// a Colormap.
func Decode(raw []byte) (*Colormap, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("biome: decode colormap: %w", err)
	}
	return &Colormap{img: img}, nil
}

// Sample looks up the tint color for a (temperature, downfall) pair,
// each clamped to [0,1], with downfall then multiplied by temperature
// as vanilla does (downfall *= temperature before indexing), and
// returns it as
// 0-255 RGB.
func (c *Colormap) Sample(temperature, downfall float64) (r, g, b uint8) {
	temperature = clamp01(temperature)
	downfall = clamp01(downfall) * temperature

	bounds := c.img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	px := int((1 - temperature) * float64(w-1))
	py := int((1 - downfall) * float64(h-1))

	col := color.NRGBAModel.Convert(c.img.At(bounds.Min.X+px, bounds.Min.Y+py)).(color.NRGBA)
	return col.R, col.G, col.B
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
