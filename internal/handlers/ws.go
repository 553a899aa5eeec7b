// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mglvn/uno/internal/middleware"
	"github.com/mglvn/uno/internal/models"
)

// Message is an inbound client intent.
type Message struct {
	Type  string       `json:"type"`            // join, play or draw
	Room  string       `json:"room"`
	Name  string       `json:"name,omitempty"`  // join only
	Card  *models.Card `json:"card,omitempty"`  // play only
	Color models.Color `json:"color,omitempty"` // required when playing a wild
}

// WSHandler upgrades the connection, assigns it a fresh identity, and
// feeds intents into the room registry until the client goes away. The
// connection id is the sole actor credential.
func WSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != "game" {
			logger.Warnf("client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "client must use the 'game' subprotocol")
			return
		}

		connID := uuid.New()
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readMessages(ctx, c, s, connID, logger)

		// The transport-level disconnect intent: drop the player from
		// every room they occupy.
		s.Rooms.DisconnectPlayer(connID)
		s.dropWriter(c)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readMessages decodes intents off the socket and routes them into the
// registry. Malformed payloads and unknown rooms are dropped without an
// error surfacing to the client.
func readMessages(ctx context.Context, c *websocket.Conn, s *Server, connID uuid.UUID, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from %s: %v", connID, err)
			continue
		}

		switch msg.Type {
		case "join":
			if msg.Room == "" || msg.Name == "" {
				logger.Debugf("join from %s missing room or name", connID)
				continue
			}
			s.Rooms.Join(msg.Room, &models.Player{
				ID:   connID,
				Name: msg.Name,
				Conn: c,
			})
		case "play":
			if msg.Card == nil {
				logger.Debugf("play from %s missing card", connID)
				continue
			}
			if room, ok := s.Rooms.Get(msg.Room); ok {
				room.HandlePlay(connID, *msg.Card, msg.Color)
			}
		case "draw":
			if room, ok := s.Rooms.Get(msg.Room); ok {
				room.HandleDraw(connID)
			}
		default:
			logger.Debugf("unknown intent %q from %s", msg.Type, connID)
		}
	}
}
