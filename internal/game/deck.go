// internal/game/deck.go
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/mglvn/uno/internal/models"
)

// ErrEmptyDeck is returned when a draw asks for more cards than remain.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is the face-down draw pile for a single room.
type Deck struct {
	cards []models.Card
	rng   *rand.Rand
}

// NewDeck builds the full 108-card deck in deterministic color/value
// order: per color one "0" and two copies each of "1".."9", skip,
// reverse and draw2, plus four wilds and four wild-draw-fours.
func NewDeck() *Deck {
	values := []models.Value{
		"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		models.ValueSkip, models.ValueReverse, models.ValueDrawTwo,
	}
	cards := make([]models.Card, 0, 108)
	for _, color := range models.Colors {
		for _, v := range values {
			cards = append(cards, models.Card{Color: color, Value: v})
			if v != "0" {
				cards = append(cards, models.Card{Color: color, Value: v})
			}
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards,
			models.Card{Color: models.Black, Value: models.ValueWild},
			models.Card{Color: models.Black, Value: models.ValueWildDrawFour},
		)
	}
	return &Deck{
		cards: cards,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Len reports how many cards remain.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Shuffle reorders the remaining cards with a uniform Fisher-Yates pass.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the n front cards. It fails with ErrEmptyDeck
// when fewer than n remain, leaving the deck untouched.
func (d *Deck) Draw(n int) ([]models.Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	drawn := make([]models.Card, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn, nil
}

// Refill returns cards to the pile and reshuffles.
func (d *Deck) Refill(cards []models.Card) {
	d.cards = append(d.cards, cards...)
	d.Shuffle()
}

// pushBottom slides a single card under the pile.
func (d *Deck) pushBottom(c models.Card) {
	d.cards = append(d.cards, c)
}
