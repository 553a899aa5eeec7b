// internal/game/bot.go
package game

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mglvn/uno/internal/models"
)

// BotID is the reserved identity of the automated seat. At most one
// automated seat exists per room.
var BotID = uuid.Nil

// BotName is the display name of the automated seat.
const BotName = "Computer"

// chooseBotMove picks the automated seat's move in a single pass with
// no lookahead: the first legal card in hand order, or a draw when
// nothing is playable. A wild is assigned the color of the first
// non-wild card in hand, falling back to red when the hand holds
// nothing else.
func chooseBotMove(hand []models.Card, top models.Card) (models.Card, models.Color, bool) {
	for _, c := range hand {
		if !IsLegalPlay(c, top) {
			continue
		}
		if c.IsWild() {
			return c, wildColorFor(hand), true
		}
		return c, "", true
	}
	return models.Card{}, "", false
}

func wildColorFor(hand []models.Card) models.Color {
	for _, c := range hand {
		if !c.IsWild() {
			return c.Color
		}
	}
	return models.Red
}

// scheduleBotMove arms the automated seat's next move after the
// configured delay, so observers see the preceding move land first. At
// most one move is pending per room; the move re-validates the room
// when it fires and no-ops if the room died or the turn moved on.
func (r *Room) scheduleBotMove() {
	r.mu.Lock()
	if r.closed || r.botPending {
		r.mu.Unlock()
		return
	}
	r.botPending = true
	r.mu.Unlock()
	r.clock.AfterFunc(r.botDelay, r.runBotMove)
}

// runBotMove applies the policy through the room's internal transitions
// directly; it never round-trips through the transport layer.
func (r *Room) runBotMove() {
	r.mu.Lock()
	r.botPending = false
	if r.closed || r.state != StateInProgress || !r.currentIsBotLocked() {
		r.mu.Unlock()
		return
	}
	bot := r.players[r.turn]
	top := r.discard[len(r.discard)-1]

	var won bool
	stalled := false
	if card, chosen, ok := chooseBotMove(bot.Hand, top); ok {
		won = r.playLocked(BotID, card, chosen)
	} else if drawn := r.drawLocked(1); len(drawn) > 0 {
		bot.Hand = append(bot.Hand, drawn...)
		log.Debugf("room %s: %s drew a card", r.ID, BotName)
		r.fireLocked(r.updateEvent())
	} else {
		// Deck and discard are both spent; rescheduling would spin the
		// timer forever with nothing to do.
		stalled = true
		log.Warnf("room %s: %s has no playable card and nothing to draw", r.ID, BotName)
	}
	// A draw leaves the bot as the current seat; give it another go
	// after the same delay.
	botAgain := !won && !stalled && r.state == StateInProgress && r.currentIsBotLocked()
	r.mu.Unlock()

	if won {
		r.finish()
	} else if botAgain {
		r.scheduleBotMove()
	}
}
