// Package router implements the Message Router: the exhaustive,
// type-dispatched handling of every inbound frame a session can send.
// It is modeled on the teacher's ActionHandler/HandlerRegistry split —
// one small interface per message type, registered once at startup, so an
// unrecognized type can never silently fall through to a default case.
package router

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/tile"
	"github.com/Ptchwir3/Aetharia/internal/worldstore"
	"github.com/Ptchwir3/Aetharia/internal/zone"
)

// Broadcaster is the outbound fan-out the router needs: zone-scoped
// delivery, optionally excluding the sender.
type Broadcaster interface {
	ToZone(zoneID string, frame any, excludeSessionID string)
}

// Sender delivers a frame privately to the session that sent the message
// currently being handled.
type Sender interface {
	Send(frame any)
}

// Context bundles everything a Handler needs to validate and process one
// message, without handlers reaching into global state.
type Context struct {
	SessionID string
	Player    *player.Player
	Registry  *player.Registry
	Store     *worldstore.Store
	Zones     *zone.Index
	Broadcast Broadcaster
	Sender    Sender
	Now       func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) fail(message string) {
	c.Sender.Send(codec.NewErrorFrame(message))
}

// Handler processes exactly one wire message type.
type Handler interface {
	Type() string
	Handle(ctx *Context, raw json.RawMessage)
}

// Router dispatches a decoded frame to the registered Handler for its type.
type Router struct {
	handlers map[string]Handler
}

// New returns a Router with every built-in handler registered.
func New() *Router {
	r := &Router{handlers: make(map[string]Handler)}
	for _, h := range []Handler{
		moveHandler{},
		chatHandler{},
		requestChunkHandler{},
		placeBlockHandler{},
		removeBlockHandler{},
		setProfileHandler{},
		identifyHandler{},
		interactHandler{},
	} {
		r.Register(h)
	}
	return r
}

// Register adds or replaces the handler for its reported type.
func (r *Router) Register(h Handler) {
	r.handlers[h.Type()] = h
}

// Dispatch decodes raw's type and routes it to the matching handler. An
// unrecognized type replies with an error to the sender only; it is never
// broadcast. A malformed frame (not JSON, or no type) is logged and
// dropped without a reply. A handler panic is isolated to this
// one session: it is recovered and logged here so the process and every
// other session keep running, but Dispatch reports it as fatal so the
// caller tears this session's connection down, per spec.md §7.
func (r *Router) Dispatch(ctx *Context, raw []byte) (fatal bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("router: recovered panic handling message from %s: %v", ctx.SessionID, rec)
			fatal = true
		}
	}()

	typ, err := codec.Decode(raw)
	if err != nil {
		log.Printf("router: bad frame from %s: %v", ctx.SessionID, err)
		return false
	}

	h, ok := r.handlers[typ]
	if !ok {
		ctx.fail("Unknown message type: " + typ)
		return false
	}
	h.Handle(ctx, raw)
	return false
}

// assignZone recomputes the zone for (worldX, worldY) and, if it differs
// from the session's current zone, performs the transfer notifications
// described in spec §4.6: playerLeft to the old zone, playerJoined
// (excluding the mover) to the new zone, and a private zoneChanged.
func assignZone(ctx *Context, worldX, worldY float64) {
	chunkX := tile.WorldToChunk(int(worldX))
	chunkY := tile.WorldToChunk(int(worldY))

	oldZone, hadZone := ctx.Zones.CurrentZone(ctx.SessionID)
	newZone := ctx.Zones.Assign(ctx.SessionID, chunkX, chunkY)
	ctx.Player.SetZone(newZone)

	if hadZone && oldZone == newZone {
		return
	}

	snap := ctx.Player.Snapshot()
	if hadZone {
		ctx.Broadcast.ToZone(oldZone, codec.PlayerLeft{
			Type: "playerLeft", ID: snap.ID, Name: snap.Name, Color: snap.Color,
		}, "")
	}
	ctx.Broadcast.ToZone(newZone, codec.PlayerJoined{
		Type: "playerJoined", ID: snap.ID, Name: snap.Name, Color: snap.Color, X: snap.X, Y: snap.Y,
	}, ctx.SessionID)
	ctx.Sender.Send(codec.ZoneChanged{Type: "zoneChanged", Zone: newZone})
}
