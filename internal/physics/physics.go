// Package physics implements the fixed-tick Physics Simulator: the sole
// authority for vertical player motion and collision. It runs on its own
// timer, independent of inbound session traffic, and is the only writer
// of a player's Y. Vertical velocity and onGround are written here too,
// and also by a jump (player.ApplyJump) from the move handler.
package physics

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/tile"
)

const (
	// TickPeriod is the fixed physics tick rate: 20 ticks/sec.
	TickPeriod = 50 * time.Millisecond
	dt         = 0.05 // seconds, matches TickPeriod

	Gravity        = 30.0  // tiles/s^2
	MaxFallSpeed   = 25.0  // tiles/s
	JumpImpulse    = -14.0 // tiles/s, negative is up

	footLeftOffset  = 0.1
	footRightOffset = 0.9
	centerOffset    = 0.5

	unstickMaxScan = 10

	correctionEpsilon = 0.01
)

// TileReader is the read-only view of the World State Store the simulator
// needs to sample collision.
type TileReader interface {
	GetTile(x, y int) tile.Tile
}

// Notifier is the outbound side of the simulator: private corrections to
// the player that moved, and zone-scoped motion broadcasts to everyone
// else in that zone.
type Notifier interface {
	PositionCorrection(sessionID string, y float64, onGround bool)
	PlayerMovedExceptSelf(sessionID, zoneID string, x, y float64)
}

// Simulator runs the fixed-tick gravity and collision loop over every
// player in a registry.
type Simulator struct {
	registry *player.Registry
	world    TileReader
	notify   Notifier
	ticks    atomic.Int64
}

// New returns a Simulator wired to the given registry, world reader, and
// outbound notifier.
func New(registry *player.Registry, world TileReader, notify Notifier) *Simulator {
	return &Simulator{registry: registry, world: world, notify: notify}
}

// Run ticks every TickPeriod until ctx is cancelled. It is meant to be
// started in its own goroutine; callers awaiting its completion should
// watch ctx.Done() rather than Run's return, matching the teacher's
// ticker-loop pattern in the copied engine.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick advances every player by one fixed step. Exported so tests can
// drive the simulator deterministically without a real clock.
func (s *Simulator) Tick() {
	for _, p := range s.registry.All() {
		s.stepPlayer(p)
	}
	s.ticks.Add(1)
}

// Ticks returns the number of completed tick steps, for debug
// introspection (spec.md §6 AETHARIA_DEBUG, resolved in SPEC_FULL.md).
func (s *Simulator) Ticks() int64 {
	return s.ticks.Load()
}

func (s *Simulator) stepPlayer(p *player.Player) {
	x, _ := p.Position()

	oldY, newY := p.ApplyPhysicsStep(func(_, y, v float64, onGround bool) (float64, float64, bool) {
		return s.integrate(x, y, v, onGround)
	})

	if math.Abs(newY-oldY) > correctionEpsilon {
		_, _, onGround := p.Physics()
		s.notify.PositionCorrection(p.ID, newY, onGround)
		s.notify.PlayerMovedExceptSelf(p.ID, p.CurrentZone(), x, newY)
	}
}

// integrate performs steps 1-4 of the physics tick for one player and
// returns its new (y, verticalVelocity, onGround).
func (s *Simulator) integrate(x, y, v float64, onGround bool) (float64, float64, bool) {
	// Step 1: gravity.
	v = math.Min(v+Gravity*dt, MaxFallSpeed)

	// Step 2: candidate position.
	yCandidate := y + v*dt

	// Step 3: collision against the footprint at two horizontal offsets.
	leftX := int(math.Floor(x + footLeftOffset))
	rightX := int(math.Floor(x + footRightOffset))

	blocked := false
	switch {
	case v > 0:
		row := int(math.Floor(yCandidate + 1.0))
		if s.footprintSolid(leftX, rightX, row) {
			y = float64(row) - 1
			v = 0
			onGround = true
			blocked = true
		}
	case v < 0:
		row := int(math.Floor(yCandidate))
		if s.footprintSolid(leftX, rightX, row) {
			y = float64(row) + 1
			v = 0
			blocked = true
		}
	}

	if !blocked {
		y = yCandidate
		onGround = v == 0 && s.footprintSolid(leftX, rightX, int(math.Floor(y))+1)
	}

	// Step 4: unstick if the avatar's center is embedded in solid terrain.
	if newY, unstuck := s.unstick(x, y); unstuck {
		y = newY
		v = 0
		onGround = false
	}

	return y, v, onGround
}

func (s *Simulator) footprintSolid(leftX, rightX, row int) bool {
	return s.world.GetTile(leftX, row).Solid() || s.world.GetTile(rightX, row).Solid()
}

// unstick implements step 4: if the avatar's center cell is solid, scan
// upward up to unstickMaxScan rows for the first non-solid row and report
// it as the new y.
func (s *Simulator) unstick(x, y float64) (float64, bool) {
	cx := int(math.Floor(x + centerOffset))
	cy := int(math.Floor(y + centerOffset))

	if !s.world.GetTile(cx, cy).Solid() {
		return y, false
	}

	for i := 1; i <= unstickMaxScan; i++ {
		row := cy - i
		if !s.world.GetTile(cx, row).Solid() {
			return float64(row), true
		}
	}
	return y, false
}
