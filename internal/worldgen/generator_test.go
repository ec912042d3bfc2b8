package worldgen

import (
	"testing"

	"github.com/Ptchwir3/Aetharia/internal/tile"
)

func TestGenerateDeterministic(t *testing.T) {
	g1 := New(12345)
	g2 := New(12345)

	c1 := g1.Generate(3, -1)
	c2 := g2.Generate(3, -1)

	if *c1 != *c2 {
		t.Fatalf("expected byte-identical chunks for the same seed and coordinates")
	}
}

func TestGenerateSameGeneratorTwice(t *testing.T) {
	g := New(42)
	a := g.Generate(5, 5)
	b := g.Generate(5, 5)
	if *a != *b {
		t.Fatalf("regenerating a chunk on the same generator must be byte-identical")
	}
}

func TestGenerateAsymmetricCoordinates(t *testing.T) {
	g := New(7)
	a := g.Generate(2, 9)
	b := g.Generate(9, 2)

	same := true
	for y := 0; y < tile.ChunkSize; y++ {
		for x := 0; x < tile.ChunkSize; x++ {
			if a.At(x, y) != b.At(x, y) {
				same = false
			}
		}
	}
	if same {
		t.Fatalf("expected (chunkX,chunkY)=(2,9) to differ from (9,2)")
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a := New(1).Generate(0, 0)
	b := New(2).Generate(0, 0)

	diff := 0
	for y := 0; y < tile.ChunkSize; y++ {
		for x := 0; x < tile.ChunkSize; x++ {
			if a.At(x, y) != b.At(x, y) {
				diff++
			}
		}
	}
	if diff == 0 {
		t.Fatalf("expected different seeds to produce different terrain")
	}
}

func TestOnlyValidTilesAppear(t *testing.T) {
	g := New(999)
	for _, coord := range [][2]int{{0, 0}, {-1, -1}, {4, -3}, {-5, 2}} {
		c := g.Generate(coord[0], coord[1])
		for y := 0; y < tile.ChunkSize; y++ {
			for x := 0; x < tile.ChunkSize; x++ {
				tl := c.At(x, y)
				if !tile.Valid(int(tl)) {
					t.Fatalf("invalid tile %d at chunk (%d,%d) local (%d,%d)", tl, coord[0], coord[1], x, y)
				}
			}
		}
	}
}

func TestNegativeCoordinatesWrapCorrectly(t *testing.T) {
	// worldX = -1 must map to chunkX = -1, local x = 31, not chunkX = 0.
	if got := tile.WorldToChunk(-1); got != -1 {
		t.Errorf("WorldToChunk(-1) = %d, want -1", got)
	}
	if got := tile.WorldToLocal(-1); got != tile.ChunkSize-1 {
		t.Errorf("WorldToLocal(-1) = %d, want %d", got, tile.ChunkSize-1)
	}
	if got := tile.WorldToChunk(-33); got != -2 {
		t.Errorf("WorldToChunk(-33) = %d, want -2", got)
	}
	if got := tile.WorldToLocal(-33); got != 31 {
		t.Errorf("WorldToLocal(-33) = %d, want 31", got)
	}
}

func TestCaveProbabilityIsBounded(t *testing.T) {
	g := New(55)
	// Scan a deep chunk; caves should be a minority of deep stone cells,
	// never the entirety of them or none of the many samples.
	c := g.Generate(0, 10) // chunk 10 => worldY 320..351, comfortably past caveDepthThreshold everywhere stone forms
	stone, air := 0, 0
	for y := 0; y < tile.ChunkSize; y++ {
		for x := 0; x < tile.ChunkSize; x++ {
			switch c.At(x, y) {
			case tile.Stone:
				stone++
			case tile.Air:
				air++
			}
		}
	}
	if stone == 0 {
		t.Fatalf("expected deep chunk to contain stone")
	}
	if air == 0 || air >= stone {
		t.Errorf("expected caves to hollow a minority of deep stone, got %d air vs %d stone", air, stone)
	}
}
