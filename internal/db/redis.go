package db

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ptchwir3/Aetharia/internal/tile"
)

// mutationChannel is the pub/sub channel other nodes could subscribe to
// for visibility into this node's mutation stream (spec.md §1: eventual
// consistency across nodes is explicitly not guaranteed, so no other node
// is required to subscribe — this is visibility, not replication).
const mutationChannel = "aetharia:overrides"

// Redis manages the connection backing the generated-chunk cache
// mentioned in spec.md §4.2 ("cache, if present, is invalidated only at
// process end") and the override mutation pub/sub channel.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a new Redis client. An empty addr is a valid no-op
// configuration: every method below becomes a safe no-op.
func NewRedis(addr string) (*Redis, error) {
	if addr == "" {
		return &Redis{}, nil
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	log.Println("db: connected to Redis")
	return &Redis{client: client}, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	if r != nil && r.client != nil {
		return r.client.Close()
	}
	return nil
}

// IsConnected returns true if Redis is connected.
func (r *Redis) IsConnected() bool {
	return r != nil && r.client != nil
}

type cachedChunk struct {
	X     int       `json:"x"`
	Y     int       `json:"y"`
	Tiles [][]int16 `json:"tiles"`
}

func chunkKey(chunkX, chunkY int) string {
	return "aetharia:chunk:" + itoa(chunkX) + ":" + itoa(chunkY)
}

func itoa(v int) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// GetChunk implements worldstore.ChunkCache: a best-effort read-through
// lookup. A cache miss or a Redis error both report false — correctness
// never depends on this succeeding, only the teacher's generated-chunk
// cache coherence concern does.
func (r *Redis) GetChunk(chunkX, chunkY int) (*tile.Chunk, bool) {
	if !r.IsConnected() {
		return nil, false
	}
	raw, err := r.client.Get(context.Background(), chunkKey(chunkX, chunkY)).Bytes()
	if err != nil {
		return nil, false
	}
	var cc cachedChunk
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, false
	}
	c := tile.NewChunk(cc.X, cc.Y)
	for lx, row := range cc.Tiles {
		for ly, t := range row {
			c.Set(lx, ly, tile.Tile(t))
		}
	}
	return c, true
}

// PutChunk implements worldstore.ChunkCache. Failures are logged and
// otherwise ignored: a cache write is never on the critical path of a
// correct read.
func (r *Redis) PutChunk(chunkX, chunkY int, c *tile.Chunk) {
	if !r.IsConnected() {
		return
	}
	cc := cachedChunk{X: c.X, Y: c.Y, Tiles: make([][]int16, tile.ChunkSize)}
	for lx := 0; lx < tile.ChunkSize; lx++ {
		row := make([]int16, tile.ChunkSize)
		for ly := 0; ly < tile.ChunkSize; ly++ {
			row[ly] = int16(c.At(lx, ly))
		}
		cc.Tiles[lx] = row
	}
	data, err := json.Marshal(cc)
	if err != nil {
		return
	}
	if err := r.client.Set(context.Background(), chunkKey(chunkX, chunkY), data, 0).Err(); err != nil {
		log.Printf("db: failed to cache chunk (%d,%d): %v", chunkX, chunkY, err)
	}
}

type mutationEvent struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Tile int   `json:"tile"`
	At   int64 `json:"at"`
}

// PublishOverride publishes a mutation event to mutationChannel. Used
// alongside Postgres.RecordOverride as the other half of the persistence
// hook's write-through path: Postgres is the durable log, Redis is the
// other-node visibility stream spec.md §1 describes as out of scope to
// actually consume.
func (r *Redis) PublishOverride(x, y int, t tile.Tile) {
	if !r.IsConnected() {
		return
	}
	data, err := json.Marshal(mutationEvent{X: x, Y: y, Tile: int(t), At: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	if err := r.client.Publish(context.Background(), mutationChannel, data).Err(); err != nil {
		log.Printf("db: failed to publish override (%d,%d): %v", x, y, err)
	}
}
