package biome

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// gradientPNG builds a size x size colormap where red ramps with x
// and green ramps with y, so sampled corners are distinguishable.
func gradientPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / (size - 1)),
				G: uint8(y * 255 / (size - 1)),
				B: 0,
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not a png")); err == nil {
		t.Fatal("expected an error decoding non-PNG bytes")
	}
}

func TestSampleHotHumidCorner(t *testing.T) {
	raw := gradientPNG(t, 16)
	cm, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// temperature=1, downfall=1 indexes the (0,0) pixel: px=0 (1-1)*...,
	// py=0 too since downfall is scaled by temperature=1.
	r, g, _ := cm.Sample(1, 1)
	if r != 0 || g != 0 {
		t.Errorf("hot/humid corner = (%d,%d), want (0,0)", r, g)
	}
}

func TestSampleColdDryCorner(t *testing.T) {
	raw := gradientPNG(t, 16)
	cm, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	r, g, _ := cm.Sample(0, 0)
	if r != 255 || g != 255 {
		t.Errorf("cold/dry corner = (%d,%d), want (255,255)", r, g)
	}
}

func TestSampleClampsOutOfRangeInputs(t *testing.T) {
	raw := gradientPNG(t, 8)
	cm, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// temperature clamps to 1, downfall clamps to 0 then gets scaled by
	// temperature (still 0): equivalent to Sample(1, 0).
	r, g, _ := cm.Sample(5, -5)
	if r != 0 || g != 255 {
		t.Errorf("out-of-range sample = (%d,%d), want clamped (0,255)", r, g)
	}
}
