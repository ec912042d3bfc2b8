// Package broadcast implements the Broadcaster: zone-scoped fan-out over
// live sessions. It is adapted from the teacher's internal/ws.Hub —
// session registration/removal plus a zone-scoped send path that
// serializes each message once and reuses it across every recipient —
// generalized from game-room membership to the Zone Index.
package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/zone"
)

// Client is the send-side handle to one connected session: a buffered
// channel drained by that session's own write pump.
type Client struct {
	SessionID string
	Send      chan []byte
}

// Hub tracks every live session's send channel and fans broadcasts out to
// zone members by consulting the Zone Index for membership.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	zones   *zone.Index
}

// NewHub returns a Hub that resolves zone membership through zones.
func NewHub(zones *zone.Index) *Hub {
	return &Hub{clients: make(map[string]*Client), zones: zones}
}

// Register adds a newly accepted session's send channel.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.SessionID] = c
}

// Unregister removes a session and closes its send channel so its write
// pump can exit.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[sessionID]; ok {
		delete(h.clients, sessionID)
		close(c.Send)
	}
}

// ToZone serializes frame once and writes it to every session in zoneID
// except excludeSessionID (pass "" to exclude nobody). A write to a
// session whose buffer is full, or that has already disconnected, is
// dropped — the next heartbeat cycle tears that session down.
func (h *Hub) ToZone(zoneID string, frame any, excludeSessionID string) {
	members := h.zones.Members(zoneID)
	if len(members) == 0 {
		return
	}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("broadcast: failed to marshal zone frame: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sessionID := range members {
		if sessionID == excludeSessionID {
			continue
		}
		h.sendLocked(sessionID, data)
	}
}

// SendToSession delivers frame privately to one session, used for
// per-recipient replies and the physics loop's positionCorrection.
func (h *Hub) SendToSession(sessionID string, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("broadcast: failed to marshal private frame: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendLocked(sessionID, data)
}

func (h *Hub) sendLocked(sessionID string, data []byte) {
	c, ok := h.clients[sessionID]
	if !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
		// Buffer full: drop. The session is torn down by the next failed
		// heartbeat rather than blocking every other recipient here.
	}
}

// Count returns the number of registered sessions, for debug introspection.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PhysicsNotifier adapts the Hub to the Physics Simulator's Notifier
// interface: a positionCorrection needs the player's current x, which the
// simulator doesn't carry (it only ever mutates y), so this looks it up
// from the Player Registry at emission time.
type PhysicsNotifier struct {
	Hub      *Hub
	Registry *player.Registry
}

func (n *PhysicsNotifier) PositionCorrection(sessionID string, y float64, onGround bool) {
	x := 0.0
	if p, ok := n.Registry.Get(sessionID); ok {
		x, _ = p.Position()
	}
	n.Hub.SendToSession(sessionID, codec.PositionCorrection{
		Type: "positionCorrection", X: x, Y: y, OnGround: onGround,
	})
}

func (n *PhysicsNotifier) PlayerMovedExceptSelf(sessionID, zoneID string, x, y float64) {
	n.Hub.ToZone(zoneID, codec.PlayerMoved{
		Type: "playerMoved", ID: sessionID, X: x, Y: y,
	}, sessionID)
}
