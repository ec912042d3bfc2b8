// Package codec implements the Wire Codec: the JSON frame shapes exchanged
// with sessions, and the string/number hygiene helpers that handlers apply
// to the inbound fields they use.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Ptchwir3/Aetharia/internal/tile"
)

// Envelope is the outer shape of every inbound and outbound frame: a type
// discriminator plus whatever the type-specific payload needs.
type Envelope struct {
	Type string `json:"type"`
}

// Decode returns a raw frame's type discriminator; the handler for that
// type re-unmarshals the same raw bytes into its own payload type. A frame
// with no type field, or that isn't a JSON object, is a bad frame.
func Decode(raw []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("malformed frame: %w", err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("missing type field")
	}
	return env.Type, nil
}

// Inbound payloads, one struct per client-emitted frame in spec §4.6.
type MoveParams struct {
	X    float64  `json:"x"`
	Jump bool     `json:"jump,omitempty"`
	Y    *float64 `json:"y,omitempty"`
}

type ChatParams struct {
	Message string `json:"message"`
}

type RequestChunkParams struct {
	ChunkX int `json:"chunkX"`
	ChunkY int `json:"chunkY"`
}

type PlaceBlockParams struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Tile int `json:"tile"`
}

type RemoveBlockParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type SetProfileParams struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

type IdentifyParams struct {
	IsAI bool `json:"isAI"`
}

type InteractParams struct {
	Target string `json:"target"`
	Action string `json:"action"`
}

// Outbound frames, one struct per server-emitted frame in spec §6. Each
// embeds its own "type" tag so json.Marshal produces a self-describing
// frame with no separate envelope wrapping required.

type ChunkPayload struct {
	X     int              `json:"x"`
	Y     int              `json:"y"`
	Tiles [][]int          `json:"tiles"`
}

type WorldConfig struct {
	ChunkSize int `json:"chunkSize"`
	TileSize  int `json:"tileSize"`
}

type Welcome struct {
	Type        string                  `json:"type"`
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Color       string                  `json:"color"`
	X           float64                 `json:"x"`
	Y           float64                 `json:"y"`
	Zone        string                  `json:"zone"`
	Chunks      map[string]ChunkPayload `json:"chunks"`
	WorldConfig WorldConfig             `json:"worldConfig"`
}

type PlayerSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type ExistingPlayers struct {
	Type    string          `json:"type"`
	Players []PlayerSummary `json:"players"`
}

type PlayerJoined struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type PlayerLeft struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PlayerMoved struct {
	Type string  `json:"type"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type PositionCorrection struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	OnGround bool    `json:"onGround"`
}

type ProfileUpdate struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ChunkData struct {
	Type  string       `json:"type"`
	Chunk ChunkPayload `json:"chunk"`
}

type ChatMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type BlockUpdate struct {
	Type      string `json:"type"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Tile      int    `json:"tile"`
	PlacedBy  string `json:"placedBy"`
}

type ZoneChanged struct {
	Type string `json:"type"`
	Zone string `json:"zone"`
}

type InteractResult struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorFrame(message string) ErrorFrame {
	return ErrorFrame{Type: "error", Message: message}
}

// ChunkPayloadFrom converts a generated/merged chunk into its wire shape.
func ChunkPayloadFrom(c *tile.Chunk) ChunkPayload {
	rows := make([][]int, tile.ChunkSize)
	for lx := 0; lx < tile.ChunkSize; lx++ {
		row := make([]int, tile.ChunkSize)
		for ly := 0; ly < tile.ChunkSize; ly++ {
			row[ly] = int(c.At(lx, ly))
		}
		rows[lx] = row
	}
	return ChunkPayload{X: c.X, Y: c.Y, Tiles: rows}
}

// SanitizeString strips U+0000..U+001F and U+007F from s, per spec §4.9's
// rejection of control code points in user-supplied string fields.
func SanitizeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= 0x1F || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// IsFinite reports whether f is a valid wire number: not NaN, not Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsWholeNumber reports whether f carries no fractional part, for fields
// the wire format declares as integers even though JSON numbers decode to
// float64 by default in the client's serializer.
func IsWholeNumber(f float64) bool {
	return f == math.Trunc(f)
}
