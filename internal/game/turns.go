// internal/game/turns.go
package game

import "github.com/mglvn/uno/internal/models"

// turnEffect is the fully resolved outcome of one play: the seat that
// acts next, the direction from here on, and any forced draw.
type turnEffect struct {
	NextTurn   int
	Direction  int
	DrawTarget int // seat index forced to draw, -1 when none
	DrawCount  int
}

// resolveTurn computes how a played card moves the turn pointer across
// the given number of seats. A reverse flips the direction before the
// base advance; with only two seats it degenerates to an extra turn for
// the player who reversed. A skip advances twice. A draw2/wilddraw4
// feeds the base-next seat and then advances past it; the drawing seat
// does not play. Effects resolve exactly once per play.
func resolveTurn(turn, direction, seats int, value models.Value) turnEffect {
	if value == models.ValueReverse {
		direction = -direction
	}
	advance := func(i int) int { return (i + direction + seats) % seats }

	next := advance(turn)
	if value == models.ValueSkip {
		next = advance(next)
	}
	if value == models.ValueReverse && seats == 2 {
		// +1 and -1 coincide mod 2, so the flip alone changes nothing;
		// the reverse acts as a skip and the turn comes straight back.
		next = advance(next)
	}

	eff := turnEffect{Direction: direction, DrawTarget: -1}
	switch value {
	case models.ValueDrawTwo:
		eff.DrawTarget, eff.DrawCount = next, 2
		next = advance(next)
	case models.ValueWildDrawFour:
		eff.DrawTarget, eff.DrawCount = next, 4
		next = advance(next)
	}
	eff.NextTurn = next
	return eff
}
