// Package session implements the Session Manager: WebSocket accept,
// handshake (spawn probe, welcome, zone join), heartbeat, and the
// teardown path on disconnect. It is adapted from the teacher's
// internal/ws.Handler/Client read/write pump split, generalized from a
// single game room to the Zone Index and Player Registry.
package session

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Ptchwir3/Aetharia/internal/broadcast"
	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/physics"
	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/router"
	"github.com/Ptchwir3/Aetharia/internal/tile"
	"github.com/Ptchwir3/Aetharia/internal/worldstore"
	"github.com/Ptchwir3/Aetharia/internal/zone"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096

	sendBuffer = 256

	// spawnColumnX is where every new session's spawn probe scans, per
	// spec.md §4.8. A fixed column keeps spawn deterministic for a given
	// seed rather than introducing client-chosen or random spawn points,
	// neither of which the spec asks for.
	spawnColumnX = 0
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Manager owns everything a connecting session needs wired together: the
// canonical tables (registry, store, zones), the outbound fan-out (hub),
// and the inbound dispatcher (router).
type Manager struct {
	Registry  *player.Registry
	Store     *worldstore.Store
	Zones     *zone.Index
	Hub       *broadcast.Hub
	Router    *router.Router
	Physics   *physics.Simulator
	Heartbeat time.Duration
}

// NewManager returns a Manager with the given heartbeat period. A
// heartbeat of zero falls back to the spec's default of 30s.
func NewManager(registry *player.Registry, store *worldstore.Store, zones *zone.Index, hub *broadcast.Hub, r *router.Router, sim *physics.Simulator, heartbeat time.Duration) *Manager {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Manager{Registry: registry, Store: store, Zones: zones, Hub: hub, Router: r, Physics: sim, Heartbeat: heartbeat}
}

// Accept upgrades an HTTP request to a WebSocket session and runs the
// accept sequence from spec.md §4.8: allocate a session id, spawn the
// player, assign a zone, send welcome + existingPlayers, broadcast
// playerJoined, then start the read/write pumps.
func (m *Manager) Accept(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("session: upgrade failed: %v", err)
		return
	}

	sessionID := uuid.NewString()
	spawnY := findSpawnY(m.Store, spawnColumnX)

	p := player.New(sessionID, "Traveler", float64(spawnColumnX), float64(spawnY))
	m.Registry.Add(sessionID, p)

	chunkX, chunkY := tile.WorldToChunk(spawnColumnX), tile.WorldToChunk(spawnY)
	zoneID := m.Zones.Assign(sessionID, chunkX, chunkY)
	p.SetZone(zoneID)

	client := &broadcast.Client{SessionID: sessionID, Send: make(chan []byte, sendBuffer)}
	m.Hub.Register(client)

	snap := p.Snapshot()
	m.Hub.SendToSession(sessionID, codec.Welcome{
		Type:   "welcome",
		ID:     snap.ID,
		Name:   snap.Name,
		Color:  snap.Color,
		X:      snap.X,
		Y:      snap.Y,
		Zone:   zoneID,
		Chunks: buildWelcomeChunks(m.Store, chunkX, chunkY),
		WorldConfig: codec.WorldConfig{
			ChunkSize: defaultChunkSize,
			TileSize:  defaultTileSize,
		},
	})
	m.Hub.SendToSession(sessionID, codec.ExistingPlayers{Type: "existingPlayers", Players: m.existingPlayers(zoneID, sessionID)})
	m.Hub.ToZone(zoneID, codec.PlayerJoined{
		Type: "playerJoined", ID: snap.ID, Name: snap.Name, Color: snap.Color, X: snap.X, Y: snap.Y,
	}, sessionID)

	log.Printf("session: %s joined zone %s at spawn (%d,%d)", sessionID, zoneID, spawnColumnX, spawnY)

	s := &liveSession{
		manager:    m,
		sessionID:  sessionID,
		conn:       conn,
		client:     client,
		player:     p,
		pingPeriod: m.Heartbeat,
		pongWait:   m.Heartbeat + writeWait,
	}
	go s.writePump()
	go s.readPump()
}

func (m *Manager) existingPlayers(zoneID, excludeSessionID string) []codec.PlayerSummary {
	members := m.Zones.Members(zoneID)
	out := make([]codec.PlayerSummary, 0, len(members))
	for _, id := range members {
		if id == excludeSessionID {
			continue
		}
		if p, ok := m.Registry.Get(id); ok {
			snap := p.Snapshot()
			out = append(out, codec.PlayerSummary{ID: snap.ID, Name: snap.Name, Color: snap.Color, X: snap.X, Y: snap.Y})
		}
	}
	return out
}

// disconnect tears a session down: remove it from the zone and registry
// and announce its departure to its last zone. Safe to call more than
// once; a second call finds nothing left to remove.
func (m *Manager) disconnect(sessionID string) {
	zoneID, hadZone := m.Zones.CurrentZone(sessionID)
	var snap player.Snapshot
	if p, ok := m.Registry.Get(sessionID); ok {
		snap = p.Snapshot()
	}

	m.Zones.Remove(sessionID)
	m.Registry.Remove(sessionID)
	m.Hub.Unregister(sessionID)

	if hadZone {
		m.Hub.ToZone(zoneID, codec.PlayerLeft{Type: "playerLeft", ID: snap.ID, Name: snap.Name, Color: snap.Color}, "")
	}
	log.Printf("session: %s disconnected", sessionID)
}
