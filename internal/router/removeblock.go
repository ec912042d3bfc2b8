package router

import (
	"encoding/json"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/tile"
)

type removeBlockHandler struct{}

func (removeBlockHandler) Type() string { return "removeBlock" }

func (removeBlockHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.RemoveBlockParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed removeBlock")
		return
	}

	px, py := ctx.Player.Position()
	reach := abuse.BlockRange(ctx.Player.Agent())
	if !abuse.WithinBlockRange(px, py, p.X, p.Y, reach) {
		ctx.fail("Out of range")
		return
	}

	if ctx.Store.GetTile(p.X, p.Y) == tile.Air {
		ctx.fail("No block to remove at that position")
		return
	}

	ctx.Store.RemoveTile(p.X, p.Y)

	zoneID := ctx.Player.CurrentZone()
	ctx.Broadcast.ToZone(zoneID, codec.BlockUpdate{
		Type: "blockUpdate", X: p.X, Y: p.Y, Tile: int(tile.Air), PlacedBy: ctx.Player.ID,
	}, "")
}
