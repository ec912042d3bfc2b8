package router

import (
	"encoding/json"
	"math"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/physics"
)

type moveHandler struct{}

func (moveHandler) Type() string { return "move" }

func (moveHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.MoveParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed move")
		return
	}
	if !codec.IsFinite(p.X) {
		ctx.fail("Invalid position")
		return
	}

	oldX, oldY := ctx.Player.Position()
	if !abuse.ValidMoveDelta(oldX, p.X) {
		ctx.fail("Movement too large")
		return
	}

	if blocked := horizontallyBlocked(ctx, p.X, oldY); blocked {
		// Position unchanged, but a jump may still apply and the caller
		// still expects an authoritative playerMoved for responsiveness.
		applyJump(ctx, p)
		broadcastMoved(ctx, oldX, oldY)
		return
	}

	ctx.Player.SetX(p.X)
	applyJump(ctx, p)

	assignZone(ctx, p.X, oldY)
	broadcastMoved(ctx, p.X, oldY)
}

func applyJump(ctx *Context, p codec.MoveParams) {
	if !p.Jump {
		return
	}
	ctx.Player.ApplyJump(physics.JumpImpulse)
}

func horizontallyBlocked(ctx *Context, candidateX, y float64) bool {
	col := int(math.Floor(candidateX))
	feetRow := int(math.Floor(y))
	headRow := feetRow - 1
	return ctx.Store.GetTile(col, feetRow).Solid() || ctx.Store.GetTile(col, headRow).Solid()
}

func broadcastMoved(ctx *Context, x, y float64) {
	zoneID := ctx.Player.CurrentZone()
	ctx.Broadcast.ToZone(zoneID, codec.PlayerMoved{
		Type: "playerMoved", ID: ctx.Player.ID, X: x, Y: y,
	}, "")
}
