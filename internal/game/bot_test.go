// internal/game/bot_test.go
package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mglvn/uno/internal/models"
)

func TestChooseBotMove(t *testing.T) {
	top := models.Card{Color: models.Red, Value: "5"}

	t.Run("first legal card in hand order", func(t *testing.T) {
		hand := []models.Card{
			{Color: models.Blue, Value: "1"},
			{Color: models.Red, Value: "9"},
			{Color: models.Green, Value: "5"},
		}
		card, chosen, ok := chooseBotMove(hand, top)
		require.True(t, ok)
		assert.Equal(t, models.Card{Color: models.Red, Value: "9"}, card)
		assert.Empty(t, chosen)
	})

	t.Run("wild takes the color of the first non-wild card", func(t *testing.T) {
		hand := []models.Card{
			{Color: models.Black, Value: models.ValueWild},
			{Color: models.Blue, Value: "1"},
		}
		card, chosen, ok := chooseBotMove(hand, top)
		require.True(t, ok)
		assert.True(t, card.IsWild())
		assert.Equal(t, models.Blue, chosen)
	})

	t.Run("wild alone falls back to red", func(t *testing.T) {
		hand := []models.Card{{Color: models.Black, Value: models.ValueWildDrawFour}}
		_, chosen, ok := chooseBotMove(hand, top)
		require.True(t, ok)
		assert.Equal(t, models.Red, chosen)
	})

	t.Run("no legal card means draw", func(t *testing.T) {
		hand := []models.Card{
			{Color: models.Blue, Value: "1"},
			{Color: models.Green, Value: "2"},
		}
		_, _, ok := chooseBotMove(hand, top)
		assert.False(t, ok)
	})

	t.Run("wild top matches by chosen color", func(t *testing.T) {
		wildTop := models.Card{Color: models.Black, Value: models.ValueWild, Chosen: models.Green}
		hand := []models.Card{
			{Color: models.Blue, Value: "1"},
			{Color: models.Green, Value: "2"},
		}
		card, _, ok := chooseBotMove(hand, wildTop)
		require.True(t, ok)
		assert.Equal(t, models.Card{Color: models.Green, Value: "2"}, card)
	})
}

// startBotGame seats alice against the automated seat and returns the
// room with alice at seat 0 holding a rigged hand.
func startBotGame(t *testing.T) (*Room, *models.Player, *mockBroadcaster, func(time.Duration)) {
	t.Helper()
	store, mb, clock := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	a := seatedPlayer("alice")
	room := store.Join("r1", a)
	clock.Advance(time.Second).MustWait(ctx)

	require.True(t, func() bool {
		room.mu.Lock()
		defer room.mu.Unlock()
		return room.state == StateInProgress && room.hasBotLocked()
	}())

	advance := func(d time.Duration) {
		clock.Advance(d).MustWait(ctx)
	}
	return room, a, mb, advance
}

func TestBotPlaysAfterDelay(t *testing.T) {
	room, a, mb, advance := startBotGame(t)

	rig(room, func() {
		room.discard = []models.Card{{Color: models.Red, Value: "5"}}
		a.Hand = []models.Card{
			{Color: models.Red, Value: "7"},
			{Color: models.Blue, Value: "1"},
		}
		room.players[1].Hand = []models.Card{
			{Color: models.Red, Value: "9"},
			{Color: models.Blue, Value: "2"},
		}
	})

	room.HandlePlay(a.ID, models.Card{Color: models.Red, Value: "7"}, "")
	require.Equal(t, 1, *mb.last().Turn)
	before := mb.count()

	advance(time.Second)

	update := mb.last()
	require.Equal(t, EventUpdate, update.Type)
	assert.Greater(t, mb.count(), before)
	assert.Len(t, update.Hands[BotID.String()], 1)
	assert.Equal(t, models.Card{Color: models.Red, Value: "9"},
		update.Discard[len(update.Discard)-1])
	assert.Equal(t, 0, *update.Turn)
}

func TestBotDrawsWhenNothingIsLegal(t *testing.T) {
	room, a, mb, advance := startBotGame(t)

	rig(room, func() {
		room.discard = []models.Card{{Color: models.Red, Value: "5"}}
		a.Hand = []models.Card{
			{Color: models.Red, Value: "7"},
			{Color: models.Blue, Value: "1"},
		}
		room.players[1].Hand = []models.Card{{Color: models.Blue, Value: "3"}}
		// Pin the next draw so the follow-up move has a legal card.
		room.deck.cards[0] = models.Card{Color: models.Red, Value: "2"}
	})

	room.HandlePlay(a.ID, models.Card{Color: models.Red, Value: "7"}, "")
	advance(time.Second)

	update := mb.last()
	require.Equal(t, EventUpdate, update.Type)
	assert.Len(t, update.Hands[BotID.String()], 2)
	assert.Equal(t, 1, *update.Turn, "a draw leaves the automated seat current")

	// The rescheduled move fires after another delay and plays the
	// card it just drew.
	advance(time.Second)
	update = mb.last()
	assert.Equal(t, models.Card{Color: models.Red, Value: "2"},
		update.Discard[len(update.Discard)-1])
	assert.Equal(t, 0, *update.Turn)
}

// When the deck is dry and the discard holds only its top card, a
// stuck automated seat must not keep rearming its timer.
func TestBotStopsReschedulingWhenNothingToDraw(t *testing.T) {
	room, a, mb, advance := startBotGame(t)

	rig(room, func() {
		room.deck.Draw(room.deck.Len())
		room.discard = []models.Card{{Color: models.Red, Value: "5"}}
		room.turn = 1
		a.Hand = []models.Card{{Color: models.Red, Value: "7"}}
		room.players[1].Hand = []models.Card{{Color: models.Blue, Value: "3"}}
	})
	before := mb.count()

	room.scheduleBotMove()
	advance(time.Second)

	assert.Equal(t, before, mb.count())
	rig(room, func() {
		assert.False(t, room.botPending)
		assert.Len(t, room.players[1].Hand, 1)
	})
}

func TestBotWinBroadcastsAndDestroysRoom(t *testing.T) {
	store, mb, clock := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a := seatedPlayer("alice")
	room := store.Join("r1", a)
	clock.Advance(time.Second).MustWait(ctx)

	rig(room, func() {
		room.discard = []models.Card{{Color: models.Red, Value: "5"}}
		a.Hand = []models.Card{
			{Color: models.Red, Value: "7"},
			{Color: models.Blue, Value: "1"},
		}
		room.players[1].Hand = []models.Card{{Color: models.Red, Value: "9"}}
	})

	room.HandlePlay(a.ID, models.Card{Color: models.Red, Value: "7"}, "")
	clock.Advance(time.Second).MustWait(ctx)

	win := mb.last()
	assert.Equal(t, EventWin, win.Type)
	assert.Equal(t, BotName, win.Winner)
	_, ok := store.Get("r1")
	assert.False(t, ok)
}

func TestPendingBotMoveNoOpsAfterRoomDies(t *testing.T) {
	store, mb, clock := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a := seatedPlayer("alice")
	room := store.Join("r1", a)
	clock.Advance(time.Second).MustWait(ctx)

	rig(room, func() {
		room.discard = []models.Card{{Color: models.Red, Value: "5"}}
		a.Hand = []models.Card{
			{Color: models.Red, Value: "7"},
			{Color: models.Blue, Value: "1"},
		}
	})
	room.HandlePlay(a.ID, models.Card{Color: models.Red, Value: "7"}, "")

	// Alice drops before the scheduled move fires; the room dies.
	store.DisconnectPlayer(a.ID)
	before := mb.count()
	clock.Advance(time.Second).MustWait(ctx)

	assert.Equal(t, before, mb.count())
	_, ok := store.Get("r1")
	assert.False(t, ok)
}
