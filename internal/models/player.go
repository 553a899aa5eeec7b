package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat in a room. The automated seat carries the reserved
// identity and no connection.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Hand      []Card          `json:"hand"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}
