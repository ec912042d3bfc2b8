// Package worldgen implements Aetharia's deterministic terrain generator:
// a pure function of (seed, chunkX, chunkY) that produces a chunk's tiles
// with no dependency on the wall clock, on any other chunk, or on
// randomness beyond its own deterministic PRNG streams.
package worldgen

import (
	"math"

	"github.com/Ptchwir3/Aetharia/internal/tile"
)

const (
	seaLevel  = -2
	seaBand   = 2 // |S(worldX) - seaLevel| <= seaBand gets sand
	dirtDepth = 4

	treeProbability = 0.15
	treeTrunkTop    = 1
	treeTrunkBottom = 4
	treeLeavesRow   = 5

	caveDepthThreshold = 8
	caveProbability    = 0.08

	// Arbitrary but fixed salts deriving separate pseudorandom streams
	// from the shared seed for the per-column tree draw and the per-cell
	// cave draw.
	treeSalt int64 = 0x7EE5
	caveSalt int64 = 0x1CA4E

	elevationOctaves     = 4
	elevationFrequency   = 0.04
	elevationPersistence = 0.5
	elevationAmplitude   = 8.0
)

// Generator produces chunks for a single world seed.
type Generator struct {
	seed      int64
	elevation *noiseField
}

// New returns a Generator for the given world seed.
func New(seed int64) *Generator {
	return &Generator{seed: seed, elevation: newNoiseField(seed)}
}

// Seed returns the generator's world seed.
func (g *Generator) Seed() int64 { return g.seed }

// Generate synthesizes the chunk at (chunkX, chunkY). Calling Generate
// twice with the same coordinates on the same Generator, or on any other
// Generator built from the same seed, produces a byte-identical chunk.
func (g *Generator) Generate(chunkX, chunkY int) *tile.Chunk {
	c := tile.NewChunk(chunkX, chunkY)

	for lx := 0; lx < tile.ChunkSize; lx++ {
		worldX := chunkX*tile.ChunkSize + lx
		surface := g.surfaceHeight(worldX)
		plantsTree := g.hasTree(worldX)
		sandy := absInt(surface-seaLevel) <= seaBand

		for ly := 0; ly < tile.ChunkSize; ly++ {
			worldY := chunkY*tile.ChunkSize + ly
			depth := worldY - surface

			t := baseTileAt(depth)

			// Step 3: flood remaining air below sea level with water.
			if t == tile.Air && worldY > seaLevel {
				t = tile.Water
			}

			// Step 4: sand replaces the exposed surface layer near a
			// shoreline.
			if sandy && depth == 0 && t == tile.Grass {
				t = tile.Sand
			}

			// Step 5: trees replace air in the trunk/canopy rows of a
			// column chosen to bear one.
			if plantsTree && t == tile.Air {
				aboveSurface := surface - worldY
				switch {
				case aboveSurface >= treeTrunkTop && aboveSurface <= treeTrunkBottom:
					t = tile.Wood
				case aboveSurface == treeLeavesRow:
					t = tile.Leaves
				}
			}

			// Step 6: deep stone is occasionally hollowed into a cave.
			if t == tile.Stone && depth > caveDepthThreshold {
				if g.caveDraw(worldX, worldY) < caveProbability {
					t = tile.Air
				}
			}

			c.Set(lx, ly, t)
		}
	}

	return c
}

// baseTileAt implements step 2: the height-only tile assignment before any
// of the conditional overlays are applied.
func baseTileAt(depth int) tile.Tile {
	switch {
	case depth < 0:
		return tile.Air
	case depth == 0:
		return tile.Grass
	case depth <= dirtDepth:
		return tile.Dirt
	default:
		return tile.Stone
	}
}

// surfaceHeight computes S(worldX): a stack of noise octaves sampled at
// fixed phases, mapped to an integer roughly in [-8, 8].
func (g *Generator) surfaceHeight(worldX int) int {
	n := g.elevation.octaveAt(float64(worldX), elevationOctaves, elevationFrequency, elevationPersistence)
	return int(math.Round(n * elevationAmplitude))
}

// hasTree decides, once per world column, whether that column bears a
// tree. It is a pure function of (seed, worldX): independent of which
// chunk is being generated, so a column's tree presence is identical
// whether requested from the chunk above or the chunk below it.
func (g *Generator) hasTree(worldX int) bool {
	rng := newCellRNG(combineSeed(g.seed, int64(worldX), treeSalt))
	return rng.float64() < treeProbability
}

// caveDraw returns the per-cell pseudorandom draw used to decide whether a
// deep stone cell hollows into a cave.
func (g *Generator) caveDraw(worldX, worldY int) float64 {
	rng := newCellRNG(combineSeed(g.seed, int64(worldX), caveSalt^int64(worldY)))
	return rng.float64()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
