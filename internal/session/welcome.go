package session

import (
	"fmt"

	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/tile"
	"github.com/Ptchwir3/Aetharia/internal/worldstore"
)

// welcomeChunkRadius is fixed at 1 so the welcome frame always carries the
// immediate 3x3 neighborhood around spawn, independent of requestChunk's
// wider Chebyshev radius (spec.md §6 vs §4.6 — see SPEC_FULL.md's Open
// Questions Resolved).
const welcomeChunkRadius = 1

// buildWelcomeChunks returns the 3x3 grid of merged chunks around
// (spawnChunkX, spawnChunkY), keyed "cx,cy" per spec.md §6's welcome frame.
func buildWelcomeChunks(store *worldstore.Store, spawnChunkX, spawnChunkY int) map[string]codec.ChunkPayload {
	chunks := make(map[string]codec.ChunkPayload, 9)
	for dx := -welcomeChunkRadius; dx <= welcomeChunkRadius; dx++ {
		for dy := -welcomeChunkRadius; dy <= welcomeChunkRadius; dy++ {
			cx, cy := spawnChunkX+dx, spawnChunkY+dy
			key := fmt.Sprintf("%d,%d", cx, cy)
			chunks[key] = codec.ChunkPayloadFrom(store.GetChunkMerged(cx, cy))
		}
	}
	return chunks
}

const (
	defaultChunkSize = tile.ChunkSize
	defaultTileSize  = 32
)
