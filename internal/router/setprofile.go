package router

import (
	"encoding/json"
	"strings"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/codec"
)

type setProfileHandler struct{}

func (setProfileHandler) Type() string { return "setProfile" }

func (setProfileHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.SetProfileParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed setProfile")
		return
	}

	name := strings.TrimSpace(codec.SanitizeString(p.Name))
	name = codec.Truncate(name, abuse.MaxNameLength)

	color := p.Color
	if color != "" && !abuse.ValidColor(color) {
		color = ""
	}

	if !ctx.Player.SetProfile(name, color) {
		return
	}

	snap := ctx.Player.Snapshot()
	zoneID := ctx.Player.CurrentZone()
	ctx.Broadcast.ToZone(zoneID, codec.ProfileUpdate{
		Type: "profileUpdate", ID: snap.ID, Name: snap.Name, Color: snap.Color,
	}, "")
}
