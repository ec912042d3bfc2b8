package router

import (
	"encoding/json"
	"strings"

	"github.com/Ptchwir3/Aetharia/internal/abuse"
	"github.com/Ptchwir3/Aetharia/internal/codec"
)

type chatHandler struct{}

func (chatHandler) Type() string { return "chat" }

func (chatHandler) Handle(ctx *Context, raw json.RawMessage) {
	var p codec.ChatParams
	if err := json.Unmarshal(raw, &p); err != nil {
		ctx.fail("Malformed chat")
		return
	}

	message := strings.TrimSpace(codec.SanitizeString(p.Message))
	message = codec.Truncate(message, abuse.MaxChatLength)
	if message == "" {
		return
	}

	message = moderateChat(message)

	zoneID := ctx.Player.CurrentZone()
	ctx.Broadcast.ToZone(zoneID, codec.ChatMessage{
		Type:      "chatMessage",
		ID:        ctx.Player.ID,
		Message:   message,
		Timestamp: ctx.now().UnixMilli(),
	}, "")
}
