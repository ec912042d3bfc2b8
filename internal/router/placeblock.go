package router

import (
	"encoding/json"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/tile"
)

type placeBlockHandler struct{}

func (placeBlockHandler) Type() string { return "placeBlock" }

func (placeBlockHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.PlaceBlockParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed placeBlock")
		return
	}
	if !abuse.ValidTile(p.Tile) {
		ctx.fail("Invalid tile")
		return
	}

	px, py := ctx.Player.Position()
	reach := abuse.BlockRange(ctx.Player.Agent())
	if !abuse.WithinBlockRange(px, py, p.X, p.Y, reach) {
		ctx.fail("Out of range")
		return
	}

	if !ctx.Store.PlaceTile(p.X, p.Y, tile.Tile(p.Tile)) {
		ctx.fail("Invalid tile")
		return
	}

	zoneID := ctx.Player.CurrentZone()
	ctx.Broadcast.ToZone(zoneID, codec.BlockUpdate{
		Type: "blockUpdate", X: p.X, Y: p.Y, Tile: p.Tile, PlacedBy: ctx.Player.ID,
	}, "")
}
