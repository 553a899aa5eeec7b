// internal/game/room.go
package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mglvn/uno/internal/models"
)

// RoomState tracks where a room is in its lifecycle.
type RoomState int

const (
	StateWaitingForPlayers RoomState = iota
	StateDealing
	StateInProgress
	StateFinished
)

const handSize = 7

// Room is one isolated game session, identified by a player-supplied
// string. All state lives behind mu; public methods lock, broadcast
// under the lock through a membership snapshot, and run the terminal
// callback only after unlocking.
type Room struct {
	ID string

	mu        sync.Mutex
	state     RoomState
	players   []*models.Player
	deck      *Deck
	discard   []models.Card
	turn      int
	direction int
	closed    bool

	botPending bool

	clock     quartz.Clock
	botDelay  time.Duration
	fillDelay time.Duration

	broadcast BroadcastFunc

	// OnFinish is invoked outside the lock when the room reaches a
	// terminal state and should be removed from the registry.
	OnFinish func(roomID string)
}

func newRoom(id string, cfg RoomConfig) *Room {
	return &Room{
		ID:        id,
		state:     StateWaitingForPlayers,
		deck:      NewDeck(),
		direction: 1,
		clock:     cfg.Clock,
		botDelay:  cfg.BotDelay,
		fillDelay: cfg.FillDelay,
		broadcast: cfg.Broadcast,
	}
}

// Join seats a player, or refreshes their connection when that id is
// already seated. A lone human arms the deferred fill of the automated
// seat; dealing starts as soon as two or more empty hands are seated.
func (r *Room) Join(p *models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state == StateFinished {
		return
	}
	for _, seated := range r.players {
		if seated.ID == p.ID {
			seated.Conn = p.Conn
			seated.Connected = true
			log.Infof("room %s: player %q rejoined", r.ID, seated.Name)
			r.fireLocked(r.playersEvent())
			return
		}
	}
	p.Connected = true
	r.players = append(r.players, p)
	log.Infof("room %s: player %q joined (%d seated)", r.ID, p.Name, len(r.players))
	r.fireLocked(r.playersEvent())

	if len(r.players) == 1 {
		r.scheduleBotFillLocked()
	}
	r.maybeDealLocked()
}

// HandlePlay applies a play intent from the given actor. Illegal and
// out-of-turn plays are dropped without a broadcast or an error.
func (r *Room) HandlePlay(playerID uuid.UUID, card models.Card, chosen models.Color) {
	r.mu.Lock()
	won := r.playLocked(playerID, card, chosen)
	botNext := !won && r.state == StateInProgress && r.currentIsBotLocked()
	r.mu.Unlock()

	if won {
		r.finish()
	} else if botNext {
		r.scheduleBotMove()
	}
}

// HandleDraw gives the current player one card from the deck. The turn
// pointer does not move; the player may follow up with a play.
func (r *Room) HandleDraw(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Seats can empty between a disconnect and the registry's teardown.
	if r.closed || r.state != StateInProgress || len(r.players) < 2 || r.players[r.turn].ID != playerID {
		return
	}
	drawn := r.drawLocked(1)
	if len(drawn) == 0 {
		return
	}
	r.players[r.turn].Hand = append(r.players[r.turn].Hand, drawn...)
	r.fireLocked(r.updateEvent())
}

// RemovePlayer unseats a player and reports how many seats remain, or
// -1 when the player was not seated. The caller destroys the room when
// fewer than two seats remain; no win is declared.
func (r *Room) RemovePlayer(playerID uuid.UUID) int {
	r.mu.Lock()
	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.mu.Unlock()
		return -1
	}
	name := r.players[idx].Name
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	// Keep the turn pointer on the seat that held it, or wrap to 0 when
	// the departed seat was last in line.
	if idx < r.turn {
		r.turn--
	}
	if r.turn >= len(r.players) {
		r.turn = 0
	}
	log.Infof("room %s: player %q left (%d seated)", r.ID, name, len(r.players))
	r.fireLocked(r.playersEvent())
	remaining := len(r.players)
	botNext := r.state == StateInProgress && remaining >= 2 && r.currentIsBotLocked()
	r.mu.Unlock()

	if botNext {
		r.scheduleBotMove()
	}
	return remaining
}

// Close marks the room dead so pending scheduled moves no-op.
func (r *Room) Close() {
	r.mu.Lock()
	r.closed = true
	r.state = StateFinished
	r.mu.Unlock()
}

// playLocked performs the full play transition: ownership, legality and
// possession checks, discard, effect resolution, win detection. Returns
// true when the play emptied the actor's hand.
func (r *Room) playLocked(playerID uuid.UUID, card models.Card, chosen models.Color) bool {
	// Seats can empty between a disconnect and the registry's teardown.
	if r.closed || r.state != StateInProgress || len(r.players) < 2 {
		return false
	}
	actor := r.players[r.turn]
	if actor.ID != playerID {
		log.Debugf("room %s: out-of-turn play from %s dropped", r.ID, playerID)
		return false
	}
	top := r.discard[len(r.discard)-1]
	if !IsLegalPlay(card, top) {
		log.Debugf("room %s: illegal play %s %s on %s %s dropped", r.ID, card.Color, card.Value, top.Color, top.Value)
		return false
	}
	if card.IsWild() && !validWildColor(chosen) {
		log.Debugf("room %s: wild without a chosen color dropped", r.ID)
		return false
	}
	if !removeCard(actor, card) {
		log.Debugf("room %s: play of a card not in hand dropped", r.ID)
		return false
	}

	played := models.Card{Color: card.Color, Value: card.Value}
	if played.IsWild() {
		played.Chosen = chosen
	}
	r.discard = append(r.discard, played)

	eff := resolveTurn(r.turn, r.direction, len(r.players), played.Value)
	if eff.DrawTarget >= 0 {
		target := r.players[eff.DrawTarget]
		target.Hand = append(target.Hand, r.drawLocked(eff.DrawCount)...)
	}
	r.turn = eff.NextTurn
	r.direction = eff.Direction

	if len(actor.Hand) == 0 {
		r.state = StateFinished
		log.Infof("room %s: %q wins", r.ID, actor.Name)
		r.fireLocked(Event{Type: EventWin, Winner: actor.Name})
		return true
	}
	r.fireLocked(r.updateEvent())
	return false
}

// scheduleBotFillLocked arms the automated-seat fill. If the room still
// holds exactly one human when the delay elapses, "Computer" takes seat
// index 1 and dealing begins; otherwise the task is a no-op.
func (r *Room) scheduleBotFillLocked() {
	r.clock.AfterFunc(r.fillDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || r.state == StateFinished || len(r.players) != 1 || r.hasBotLocked() {
			return
		}
		r.players = append(r.players, &models.Player{ID: BotID, Name: BotName, Connected: true})
		log.Infof("room %s: seated %s", r.ID, BotName)
		r.fireLocked(r.playersEvent())
		r.maybeDealLocked()
	})
}

// maybeDealLocked starts a fresh game once at least two seats are
// filled and every hand is empty: shuffle, seven cards per seat in
// order, and a non-black card flipped as the sole discard entry.
func (r *Room) maybeDealLocked() {
	if len(r.players) < 2 {
		return
	}
	for _, p := range r.players {
		if len(p.Hand) > 0 {
			return
		}
	}
	r.state = StateDealing
	r.deck.Shuffle()
	for _, p := range r.players {
		hand, err := r.deck.Draw(handSize)
		if err != nil {
			log.Errorf("room %s: deck exhausted while dealing to %d players", r.ID, len(r.players))
			r.state = StateWaitingForPlayers
			return
		}
		p.Hand = hand
	}
	// Flip until a colored card seeds the discard pile; wilds flipped
	// on the way slide back under the deck.
	for {
		cards, err := r.deck.Draw(1)
		if err != nil {
			log.Errorf("room %s: deck exhausted before a discard card was flipped", r.ID)
			r.state = StateWaitingForPlayers
			return
		}
		if !cards[0].IsWild() {
			r.discard = []models.Card{cards[0]}
			break
		}
		r.deck.pushBottom(cards[0])
	}
	r.turn = 0
	r.direction = 1
	r.state = StateInProgress
	log.Infof("room %s: dealt %d hands, game started", r.ID, len(r.players))
	r.fireLocked(r.startEvent())
}

// drawLocked takes up to n cards from the deck, folding the discard
// pile (minus its top card) back in when the deck runs dry. A deck
// that stays dry yields fewer cards than asked.
func (r *Room) drawLocked(n int) []models.Card {
	var drawn []models.Card
	for i := 0; i < n; i++ {
		cards, err := r.deck.Draw(1)
		if err != nil {
			r.reshuffleLocked()
			if cards, err = r.deck.Draw(1); err != nil {
				log.Warnf("room %s: deck exhausted, drew %d of %d card(s)", r.ID, len(drawn), n)
				break
			}
		}
		drawn = append(drawn, cards[0])
	}
	return drawn
}

// reshuffleLocked recycles every discard entry except the top back into
// the deck, clearing chosen wild colors on the way in.
func (r *Room) reshuffleLocked() {
	if len(r.discard) < 2 {
		return
	}
	recycled := make([]models.Card, len(r.discard)-1)
	for i, c := range r.discard[:len(r.discard)-1] {
		c.Chosen = ""
		recycled[i] = c
	}
	r.discard = []models.Card{r.discard[len(r.discard)-1]}
	r.deck.Refill(recycled)
	log.Infof("room %s: reshuffled %d discarded card(s) into the deck", r.ID, len(recycled))
}

func (r *Room) currentIsBotLocked() bool {
	return len(r.players) > 0 && r.players[r.turn].ID == BotID
}

func (r *Room) hasBotLocked() bool {
	for _, p := range r.players {
		if p.ID == BotID {
			return true
		}
	}
	return false
}

// fireLocked snapshots the connected membership and hands the event to
// the transport. The broadcast function must not re-enter the room.
func (r *Room) fireLocked(ev Event) {
	if r.broadcast == nil {
		return
	}
	members := make([]*models.Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Connected && p.Conn != nil {
			members = append(members, p)
		}
	}
	r.broadcast(members, ev)
}

func (r *Room) finish() {
	if r.OnFinish != nil {
		r.OnFinish(r.ID)
	}
}

func (r *Room) playersEvent() Event {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}
	return Event{Type: EventPlayers, Players: names}
}

func (r *Room) startEvent() Event {
	ev := r.updateEvent()
	ev.Type = EventStart
	ev.Players = r.playersEvent().Players
	return ev
}

func (r *Room) updateEvent() Event {
	turn := r.turn
	discard := make([]models.Card, len(r.discard))
	copy(discard, r.discard)
	return Event{
		Type:    EventUpdate,
		Hands:   r.handsLocked(),
		Discard: discard,
		Turn:    &turn,
	}
}

func (r *Room) handsLocked() map[string][]models.Card {
	hands := make(map[string][]models.Card, len(r.players))
	for _, p := range r.players {
		hand := make([]models.Card, len(p.Hand))
		copy(hand, p.Hand)
		hands[p.ID.String()] = hand
	}
	return hands
}

// removeCard removes one copy of card from the player's hand, reporting
// whether it was held. Duplicates stay put.
func removeCard(p *models.Player, card models.Card) bool {
	for i, c := range p.Hand {
		if c.Same(card) {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}
