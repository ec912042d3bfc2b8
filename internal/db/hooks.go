package db

import "github.com/Ptchwir3/Aetharia/internal/tile"

// MutationSink composes the Postgres durable log and the Redis
// other-node visibility stream behind the single worldstore.MutationSink
// interface, so the World State Store only ever needs one hook regardless
// of which backing stores are actually configured.
type MutationSink struct {
	Postgres *Postgres
	Redis    *Redis
}

// RecordOverride implements worldstore.MutationSink.
func (s MutationSink) RecordOverride(x, y int, t tile.Tile) {
	if s.Postgres != nil {
		s.Postgres.RecordOverride(x, y, t)
	}
	if s.Redis != nil {
		s.Redis.PublishOverride(x, y, t)
	}
}
