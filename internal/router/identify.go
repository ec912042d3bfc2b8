package router

import (
	"encoding/json"

	"github.com/Ptchwir3/Aetharia/internal/codec"
)

type identifyHandler struct{}

func (identifyHandler) Type() string { return "identify" }

func (identifyHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.IdentifyParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed identify")
		return
	}
	ctx.Player.SetIsAgent(p.IsAI)
}
