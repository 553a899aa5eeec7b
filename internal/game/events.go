// internal/game/events.go
package game

import "github.com/mglvn/uno/internal/models"

// EventType identifies a room-scoped broadcast.
type EventType string

const (
	EventPlayers EventType = "players" // membership changed
	EventStart   EventType = "start"   // dealing finished, game underway
	EventUpdate  EventType = "update"  // a play or draw was accepted
	EventWin     EventType = "win"     // a hand was emptied
)

// Event is a broadcast payload delivered to every member of a room.
// Turn is a pointer so seat index 0 survives omitempty.
type Event struct {
	Type    EventType                `json:"type"`
	Players []string                 `json:"players,omitempty"`
	Hands   map[string][]models.Card `json:"hands,omitempty"`
	Discard []models.Card            `json:"discard,omitempty"`
	Turn    *int                     `json:"turn,omitempty"`
	Winner  string                   `json:"winner,omitempty"`
}

// BroadcastFunc delivers an event to the given members. Implementations
// receive a snapshot taken under the room lock and must not call back
// into the room.
type BroadcastFunc func(members []*models.Player, ev Event)
