package session

import (
	"time"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/player"
)

// rateLimited reports whether a message arriving at now must be dropped
// silently per spec.md §4.10 — too close to p's previously accepted
// message from the same session.
func rateLimited(p *player.Player, now time.Time) bool {
	return p.TimeSinceLastMessage(now) < abuse.MinMessageInterval
}
