// Package worldstore implements the World State Store: a sparse override
// map layered atop procedurally generated terrain. It is the sole writer
// of world mutations and the read path every other component uses to see
// the combined (generated + overridden) world.
package worldstore

import (
	"sync"

	"github.com/Ptchwir3/Aetharia/internal/tile"
	"github.com/Ptchwir3/Aetharia/internal/worldgen"
)

// Coord is a world tile coordinate.
type Coord struct {
	X, Y int
}

// ChunkCache is an optional cache of generated (un-overridden) chunks,
// adapted from the teacher's Redis persistence hook (see SPEC_FULL.md).
// A nil ChunkCache means no caching; the store always falls back to
// regenerating on demand so correctness never depends on the cache.
type ChunkCache interface {
	GetChunk(chunkX, chunkY int) (*tile.Chunk, bool)
	PutChunk(chunkX, chunkY int, c *tile.Chunk)
}

// MutationSink is the write-through persistence hook named in spec.md §6:
// an observer notified of every successful override write, so a future
// store can replay current world state without needing historical replay.
type MutationSink interface {
	RecordOverride(x, y int, t tile.Tile)
}

// Store owns the override map and mediates every tile read and write.
// Writes are serialized by a single mutex (single-writer discipline);
// reads take the same lock in shared mode so two concurrent writes to one
// cell produce one winner and readers never observe a torn tile.
type Store struct {
	mu        sync.RWMutex
	overrides map[Coord]tile.Tile
	gen       *worldgen.Generator
	cache     ChunkCache
	sink      MutationSink
}

// New returns a Store generating terrain from the given seed.
func New(seed int64) *Store {
	return &Store{
		overrides: make(map[Coord]tile.Tile),
		gen:       worldgen.New(seed),
	}
}

// SetCache installs an optional generated-chunk cache.
func (s *Store) SetCache(c ChunkCache) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = c
}

// SetMutationSink installs an optional persistence observer.
func (s *Store) SetMutationSink(sink MutationSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// GetTile returns the tile at (x, y): the override if present, otherwise
// the generated terrain's cell.
func (s *Store) GetTile(x, y int) tile.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getTileLocked(x, y)
}

func (s *Store) getTileLocked(x, y int) tile.Tile {
	if t, ok := s.overrides[Coord{X: x, Y: y}]; ok {
		return t
	}
	chunkX, chunkY := tile.WorldToChunk(x), tile.WorldToChunk(y)
	lx, ly := tile.WorldToLocal(x), tile.WorldToLocal(y)
	return s.generatedChunk(chunkX, chunkY).At(lx, ly)
}

// PlaceTile validates t and writes it as an override at (x, y). It
// reports false (with no state change) if t is out of range.
func (s *Store) PlaceTile(x, y int, t tile.Tile) bool {
	if !tile.Valid(int(t)) {
		return false
	}
	s.mu.Lock()
	s.overrides[Coord{X: x, Y: y}] = t
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		sink.RecordOverride(x, y, t)
	}
	return true
}

// RemoveTile stores an Air override at (x, y). Unlike a map delete, this
// keeps the read path O(1) and stable even when the generated tile at
// that coordinate would also be Air.
func (s *Store) RemoveTile(x, y int) bool {
	return s.PlaceTile(x, y, tile.Air)
}

// LoadOverrides installs a batch of overrides directly, bypassing the
// mutation sink — used once at startup to replay a persisted override
// set (spec.md §6's recovery path) without re-persisting what was just
// loaded from persistence.
func (s *Store) LoadOverrides(overrides map[Coord]tile.Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c, t := range overrides {
		if tile.Valid(int(t)) {
			s.overrides[c] = t
		}
	}
}

// HasOverride reports whether (x, y) currently has an explicit override,
// and if so, what it is. It distinguishes a cell that is air by generation
// from one holding an explicit Air override (e.g. after RemoveTile).
func (s *Store) HasOverride(x, y int) (tile.Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.overrides[Coord{X: x, Y: y}]
	return t, ok
}

// GetChunkMerged returns a fresh chunk grid with every applicable override
// layered on top of the generated terrain.
func (s *Store) GetChunkMerged(chunkX, chunkY int) *tile.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base := s.generatedChunk(chunkX, chunkY)
	merged := *base // copy: Chunk is a fixed-size array value

	for lx := 0; lx < tile.ChunkSize; lx++ {
		worldX := chunkX*tile.ChunkSize + lx
		for ly := 0; ly < tile.ChunkSize; ly++ {
			worldY := chunkY*tile.ChunkSize + ly
			if t, ok := s.overrides[Coord{X: worldX, Y: worldY}]; ok {
				merged.Set(lx, ly, t)
			}
		}
	}
	return &merged
}

// generatedChunk consults the cache, then the generator, for the raw
// (un-overridden) chunk. Caller must hold s.mu (read or write).
func (s *Store) generatedChunk(chunkX, chunkY int) *tile.Chunk {
	if s.cache != nil {
		if c, ok := s.cache.GetChunk(chunkX, chunkY); ok {
			return c
		}
	}
	c := s.gen.Generate(chunkX, chunkY)
	if s.cache != nil {
		s.cache.PutChunk(chunkX, chunkY, c)
	}
	return c
}

// OverrideCount returns the number of cells currently overridden, for
// debug introspection.
func (s *Store) OverrideCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.overrides)
}
