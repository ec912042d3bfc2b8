package router

import (
	"encoding/json"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/codec"
	"github.com/Ptchwir3/Aetharia/internal/tile"
)

type requestChunkHandler struct{}

func (requestChunkHandler) Type() string { return "requestChunk" }

func (requestChunkHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.RequestChunkParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed requestChunk")
		return
	}

	x, y := ctx.Player.Position()
	playerChunkX, playerChunkY := tile.WorldToChunk(int(x)), tile.WorldToChunk(int(y))

	if !abuse.WithinChunkRadius(playerChunkX, playerChunkY, p.ChunkX, p.ChunkY) {
		ctx.fail("Chunk out of range")
		return
	}

	chunk := ctx.Store.GetChunkMerged(p.ChunkX, p.ChunkY)
	ctx.Sender.Send(codec.ChunkData{Type: "chunkData", Chunk: codec.ChunkPayloadFrom(chunk)})
}
