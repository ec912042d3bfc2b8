package session

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Ptchwir3/Aetharia/internal/broadcast"
	"github.com/Ptchwir3/Aetharia/internal/player"
	"github.com/Ptchwir3/Aetharia/internal/router"
)

// liveSession is the accepted connection's read/write pump pair, adapted
// from the teacher's ws.Client readPump/writePump split.
type liveSession struct {
	manager   *Manager
	sessionID string
	conn      *websocket.Conn
	client    *broadcast.Client
	player    *player.Player

	// pingPeriod and pongWait are derived from the Manager's configured
	// heartbeat interval (spec.md §6 AETHARIA_HEARTBEAT) at accept time.
	pingPeriod time.Duration
	pongWait   time.Duration
}

// Send implements router.Sender: marshal and hand off to this session's
// own outbound buffer, non-blocking.
func (s *liveSession) Send(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("session: failed to marshal reply to %s: %v", s.sessionID, err)
		return
	}
	select {
	case s.client.Send <- data:
	default:
	}
}

var _ router.Sender = (*liveSession)(nil)

func (s *liveSession) readPump() {
	defer func() {
		s.manager.disconnect(s.sessionID)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("session: %s read error: %v", s.sessionID, err)
			}
			return
		}
		if s.dispatch(message) {
			return
		}
	}
}

// dispatch applies the rate limiter, then routes the message. It reports
// whether the connection must be torn down (a recovered handler panic).
func (s *liveSession) dispatch(message []byte) (fatal bool) {
	now := time.Now()
	if rateLimited(s.player, now) {
		return false
	}
	s.player.RecordMessage(now)

	ctx := &router.Context{
		SessionID: s.sessionID,
		Player:    s.player,
		Registry:  s.manager.Registry,
		Store:     s.manager.Store,
		Zones:     s.manager.Zones,
		Broadcast: s.manager.Hub,
		Sender:    s,
	}
	return s.manager.Router.Dispatch(ctx, message)
}

func (s *liveSession) writePump() {
	ticker := time.NewTicker(s.pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.client.Send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := s.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(s.client.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-s.client.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
