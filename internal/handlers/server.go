// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mglvn/uno/internal/game"
	"github.com/mglvn/uno/internal/models"
)

const writeTimeout = 3 * time.Second

// sendBuffer bounds how many events may queue for one slow client
// before further events are dropped for it.
const sendBuffer = 32

// Server owns the room registry and the websocket fan-out.
type Server struct {
	Logger *logrus.Logger
	Rooms  *game.RoomStore

	mu      sync.Mutex
	writers map[*websocket.Conn]chan []byte
}

// NewServer wires a registry whose rooms broadcast through this
// server's websocket writer. The clock is injectable so the automated
// seat's pacing can be controlled in tests.
func NewServer(logger *logrus.Logger, clock quartz.Clock, botDelay time.Duration) *Server {
	s := &Server{
		Logger:  logger,
		writers: make(map[*websocket.Conn]chan []byte),
	}
	s.Rooms = game.NewRoomStore(game.RoomConfig{
		Clock:     clock,
		BotDelay:  botDelay,
		FillDelay: botDelay,
		Broadcast: s.broadcast,
	})
	return s
}

// broadcast marshals an event once and queues it on each member's
// writer. A single goroutine writes per connection, so every client
// sees events in the order the room fired them. It is called with the
// room lock held and must not touch the room; members is a snapshot
// taken by the room.
func (s *Server) broadcast(members []*models.Player, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.Logger.Errorf("failed to marshal %s event: %v", ev.Type, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		ch, ok := s.writers[m.Conn]
		if !ok {
			ch = make(chan []byte, sendBuffer)
			s.writers[m.Conn] = ch
			go s.writeLoop(m.Conn, ch)
		}
		select {
		case ch <- data:
		default:
			s.Logger.Warnf("dropping %s event for slow player %s", ev.Type, m.ID)
		}
	}
}

// writeLoop drains one connection's queue until dropWriter closes it.
func (s *Server) writeLoop(conn *websocket.Conn, ch <-chan []byte) {
	for data := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			s.Logger.Warnf("websocket write failed: %v", err)
		}
	}
}

// dropWriter retires a connection's writer once its read loop ends.
// Enqueues look the channel up under mu, so once the entry is gone no
// send can race the close.
func (s *Server) dropWriter(conn *websocket.Conn) {
	s.mu.Lock()
	ch, ok := s.writers[conn]
	delete(s.writers, conn)
	s.mu.Unlock()
	if ok {
		close(ch)
	}
}
