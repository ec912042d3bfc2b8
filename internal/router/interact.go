package router

import (
	"encoding/json"

	"github.com/Ptchwir3/Aetharia/internal/codec"
)

// interactHandler is reserved per spec §4.6: it always reports
// not_implemented and has no other side effect.
type interactHandler struct{}

func (interactHandler) Type() string { return "interact" }

func (interactHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.InteractParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed interact")
		return
	}
	ctx.Sender.Send(codec.InteractResult{Type: "interactResult", Result: "not_implemented"})
}
