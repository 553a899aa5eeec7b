// internal/game/room_store.go
package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mglvn/uno/internal/models"
)

// DefaultBotDelay paces the automated seat so humans can follow along.
const DefaultBotDelay = time.Second

// RoomConfig carries the collaborators every room is built with.
type RoomConfig struct {
	Clock     quartz.Clock
	BotDelay  time.Duration // delay before the automated seat moves
	FillDelay time.Duration // grace before the automated seat is added
	Broadcast BroadcastFunc
}

// RoomStore is the session registry. It owns every live room plus a
// per-player reverse index, so a disconnect touches only the rooms the
// player actually occupies.
type RoomStore struct {
	mu         sync.Mutex
	rooms      map[string]*Room
	membership map[uuid.UUID]map[string]struct{}
	cfg        RoomConfig
}

// NewRoomStore initializes an empty registry. Zero config fields fall
// back to the real clock and the default delays.
func NewRoomStore(cfg RoomConfig) *RoomStore {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.BotDelay <= 0 {
		cfg.BotDelay = DefaultBotDelay
	}
	if cfg.FillDelay <= 0 {
		cfg.FillDelay = DefaultBotDelay
	}
	return &RoomStore{
		rooms:      make(map[string]*Room),
		membership: make(map[uuid.UUID]map[string]struct{}),
		cfg:        cfg,
	}
}

// Join routes a player into the named room, creating it lazily on the
// first join to an unseen identifier.
func (s *RoomStore) Join(roomID string, p *models.Player) *Room {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		room = newRoom(roomID, s.cfg)
		room.OnFinish = s.dropRoom
		s.rooms[roomID] = room
		log.Infof("registry: created room %s", roomID)
	}
	if _, ok := s.membership[p.ID]; !ok {
		s.membership[p.ID] = make(map[string]struct{})
	}
	s.membership[p.ID][roomID] = struct{}{}
	s.mu.Unlock()

	room.Join(p)
	return room
}

// Get looks up a live room. Intents for unknown rooms are the caller's
// no-op.
func (s *RoomStore) Get(roomID string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

// Len reports how many rooms are live.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// DisconnectPlayer removes the player from every room they occupy,
// destroying rooms that fall below two seats. No win is declared.
func (s *RoomStore) DisconnectPlayer(playerID uuid.UUID) {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.membership[playerID]))
	for id := range s.membership[playerID] {
		if room, ok := s.rooms[id]; ok {
			rooms = append(rooms, room)
		}
	}
	delete(s.membership, playerID)
	s.mu.Unlock()

	for _, room := range rooms {
		if remaining := room.RemovePlayer(playerID); remaining >= 0 && remaining < 2 {
			s.dropRoom(room.ID)
		}
	}
}

// dropRoom deletes a room from the registry and marks it dead; any
// pending scheduled move for it becomes a no-op.
func (s *RoomStore) dropRoom(roomID string) {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if ok {
		delete(s.rooms, roomID)
		for _, ids := range s.membership {
			delete(ids, roomID)
		}
	}
	s.mu.Unlock()

	if ok {
		room.Close()
		log.Infof("registry: destroyed room %s", roomID)
	}
}
