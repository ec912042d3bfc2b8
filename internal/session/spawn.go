package session

import (
	"github.com/Ptchwir3/Aetharia/internal/tile"
)

// spawnScanRadius bounds the vertical scan for a safe spawn column, per
// SPEC_FULL.md's resolution of spec.md §9's "limited vertical range".
const spawnScanRadius = 64

// TileReader is the read-only view of the World State Store the spawn
// probe needs.
type TileReader interface {
	GetTile(x, y int) tile.Tile
}

// findSpawnY scans the column at spawnX outward from worldY=0 for the
// first AIR-above-solid pair and returns that AIR row. If none is found
// within spawnScanRadius, it falls back to y=0 per spec.md §9 — a
// pathological seed may place the avatar inside solid terrain there, but
// the Physics Simulator's unstick step corrects it on the first tick.
func findSpawnY(world TileReader, spawnX int) int {
	for dy := 0; dy <= spawnScanRadius; dy++ {
		if y, ok := trySpawnRow(world, spawnX, dy); ok {
			return y
		}
		if dy == 0 {
			continue
		}
		if y, ok := trySpawnRow(world, spawnX, -dy); ok {
			return y
		}
	}
	return 0
}

func trySpawnRow(world TileReader, spawnX, y int) (int, bool) {
	if !world.GetTile(spawnX, y).Solid() && world.GetTile(spawnX, y+1).Solid() {
		return y, true
	}
	return 0, false
}
