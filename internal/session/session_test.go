package session

import (
	"testing"
	"time"

	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/tile"
	"github.com/Ptchwir3/Aetharia/internal/worldstore"
)

type fakeTileWorld struct {
	solid map[[2]int]bool
}

func (w *fakeTileWorld) GetTile(x, y int) tile.Tile {
	if w.solid[[2]int{x, y}] {
		return tile.Stone
	}
	return tile.Air
}

func TestFindSpawnYLandsOnFirstAirAboveSolid(t *testing.T) {
	w := &fakeTileWorld{solid: map[[2]int]bool{{0, 5}: true}}
	if y := findSpawnY(w, 0); y != 4 {
		t.Errorf("findSpawnY = %d, want 4", y)
	}
}

func TestFindSpawnYFallsBackToZeroWhenNoneFound(t *testing.T) {
	w := &fakeTileWorld{solid: map[[2]int]bool{}} // nothing but air anywhere
	if y := findSpawnY(w, 0); y != 0 {
		t.Errorf("findSpawnY = %d, want fallback 0", y)
	}
}

func TestFindSpawnYScansBothDirectionsFromZero(t *testing.T) {
	// Only a solid floor far below zero, still within the scan radius.
	w := &fakeTileWorld{solid: map[[2]int]bool{{0, 40}: true}}
	if y := findSpawnY(w, 0); y != 39 {
		t.Errorf("findSpawnY = %d, want 39", y)
	}

	// Only a solid floor far above zero, still within the scan radius.
	w = &fakeTileWorld{solid: map[[2]int]bool{{0, -40}: true}}
	if y := findSpawnY(w, 0); y != -41 {
		t.Errorf("findSpawnY = %d, want -41", y)
	}
}

func TestBuildWelcomeChunksCovers3x3Grid(t *testing.T) {
	store := worldstore.New(1)
	chunks := buildWelcomeChunks(store, 0, 0)
	if len(chunks) != 9 {
		t.Fatalf("expected 9 chunks in welcome grid, got %d", len(chunks))
	}
	for _, key := range []string{"-1,-1", "0,0", "1,1", "-1,1", "1,-1"} {
		if _, ok := chunks[key]; !ok {
			t.Errorf("expected chunk key %q in welcome grid", key)
		}
	}
}

func TestRateLimitedDropsMessageWithinInterval(t *testing.T) {
	p := player.New("s1", "A", 0, 0)
	now := time.Now()
	p.RecordMessage(now)

	if !rateLimited(p, now.Add(10*time.Millisecond)) {
		t.Errorf("expected message 10ms later to be rate limited")
	}
	if rateLimited(p, now.Add(60*time.Millisecond)) {
		t.Errorf("expected message 60ms later to be accepted")
	}
}

func TestFreshPlayerFirstMessageNeverRateLimited(t *testing.T) {
	p := player.New("s1", "A", 0, 0)
	if rateLimited(p, time.Now()) {
		t.Errorf("expected a freshly created player's first message to be accepted")
	}
}
