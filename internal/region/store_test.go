package region

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSectionIndexBijection(t *testing.T) {
	seen := make([]bool, 4096)
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				i := SectionIndex(x, y, z)
				if i < 0 || i >= 4096 {
					t.Fatalf("index out of range: %d", i)
				}
				if seen[i] {
					t.Fatalf("index %d produced twice", i)
				}
				seen[i] = true
			}
		}
	}
	for i, s := range seen {
		if !s {
			t.Fatalf("index %d never produced", i)
		}
	}
}

func TestMissingRegionReportsAir(t *testing.T) {
	resolve := func(string) int { return 0 }
	s := New(t.TempDir(), resolve, resolve, zerolog.Nop())

	if id := s.GetBlockID(0, 0, 0); id != 0 {
		t.Fatalf("expected air (0) for missing region, got %d", id)
	}
	if sl := s.GetSkyLight(0, 0, 0); sl != int(absentSkyLight) {
		t.Fatalf("expected absent sky light sentinel, got %d", sl)
	}
}

func TestChunkRegionCoordMath(t *testing.T) {
	cases := []struct {
		block, want int
	}{
		{0, 0}, {15, 0}, {16, 1}, {-1, -1}, {-16, -1}, {-17, -2},
	}
	for _, c := range cases {
		if got := ChunkCoord(c.block); got != c.want {
			t.Errorf("ChunkCoord(%d) = %d, want %d", c.block, got, c.want)
		}
	}
}
