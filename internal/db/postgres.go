// Package db adapts the teacher's reserved Postgres/Redis connection
// pools (originally stubbed "TODO: add game persistence methods") into
// the persistence hook spec.md §6 names: a write-through observer of the
// World State Store and a periodic Player Registry snapshot writer. Both
// are optional — the core runs with them absent, exactly as the
// teacher's --no-db flag allows, since nothing in the read path depends
// on either being wired.
package db

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/tile"
)

// Postgres manages the connection pool backing the world-override
// write-through log and player snapshot table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgreSQL connection pool. An empty
// connString is a valid no-op configuration: Postgres{} with a nil pool,
// so every method below becomes a safe no-op rather than a startup error.
func NewPostgres(connString string) (*Postgres, error) {
	if connString == "" {
		return &Postgres{}, nil
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(context.Background(), schemaSQL); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("db: connected to PostgreSQL")
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool. Safe to call on a nil *Postgres or
// one built from an empty connString.
func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// IsConnected returns true if the database is connected.
func (p *Postgres) IsConnected() bool {
	return p != nil && p.pool != nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS world_overrides (
	x INT NOT NULL,
	y INT NOT NULL,
	tile SMALLINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (x, y)
);
CREATE TABLE IF NOT EXISTS player_snapshots (
	session_id TEXT PRIMARY KEY,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// RecordOverride implements worldstore.MutationSink: an upsert of one
// override cell, replayable in order of updated_at to reconstruct the
// current override map without needing the original mutation history
// (spec.md §1 Non-goals: lossless replay is explicitly not required).
func (p *Postgres) RecordOverride(x, y int, t tile.Tile) {
	if !p.IsConnected() {
		return
	}
	_, err := p.pool.Exec(context.Background(),
		`INSERT INTO world_overrides (x, y, tile) VALUES ($1, $2, $3)
		 ON CONFLICT (x, y) DO UPDATE SET tile = $3, updated_at = now()`,
		x, y, int16(t))
	if err != nil {
		log.Printf("db: failed to record override (%d,%d): %v", x, y, err)
	}
}

// LoadOverrides returns every persisted override, for recovery before a
// restarted node accepts sessions.
func (p *Postgres) LoadOverrides(ctx context.Context) (map[[2]int]tile.Tile, error) {
	out := make(map[[2]int]tile.Tile)
	if !p.IsConnected() {
		return out, nil
	}
	rows, err := p.pool.Query(ctx, `SELECT x, y, tile FROM world_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var x, y int
		var t int16
		if err := rows.Scan(&x, &y, &t); err != nil {
			return nil, err
		}
		out[[2]int{x, y}] = tile.Tile(t)
	}
	return out, rows.Err()
}

// SnapshotWriter periodically persists every live player's externally
// visible fields, adapted from the teacher's reserved
// "SaveGameEvent"/"GetGameEvents" methods into spec.md §6's "periodic
// snapshot of Player Registry".
type SnapshotWriter struct {
	pg       *Postgres
	registry *player.Registry
	period   time.Duration
}

// NewSnapshotWriter returns a writer that snapshots registry every period.
func NewSnapshotWriter(pg *Postgres, registry *player.Registry, period time.Duration) *SnapshotWriter {
	return &SnapshotWriter{pg: pg, registry: registry, period: period}
}

// Run persists a snapshot every period until ctx is cancelled. A no-op
// loop (ticks and discards) when pg has no live connection, so callers
// don't need a separate "persistence enabled" branch.
func (w *SnapshotWriter) Run(ctx context.Context) {
	if w.period <= 0 {
		return
	}
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.snapshotOnce()
		}
	}
}

func (w *SnapshotWriter) snapshotOnce() {
	if !w.pg.IsConnected() {
		return
	}
	for _, p := range w.registry.All() {
		snap := p.Snapshot()
		data, err := json.Marshal(snap)
		if err != nil {
			continue
		}
		_, err = w.pg.pool.Exec(context.Background(),
			`INSERT INTO player_snapshots (session_id, data) VALUES ($1, $2)
			 ON CONFLICT (session_id) DO UPDATE SET data = $2, updated_at = now()`,
			snap.ID, data)
		if err != nil {
			log.Printf("db: failed to snapshot player %s: %v", snap.ID, err)
		}
	}
}
