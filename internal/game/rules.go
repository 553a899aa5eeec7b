// internal/game/rules.go
package game

import "github.com/mglvn/uno/internal/models"

// IsLegalPlay reports whether card may be played on top of the discard
// pile. A play is legal when the colors match, the values match, or the
// card is wild. A wild on top matches by the color its player chose;
// that rule binds every seat, human or automated.
func IsLegalPlay(card, top models.Card) bool {
	if card.IsWild() {
		return true
	}
	if top.IsWild() && top.Chosen != "" {
		return card.Color == top.Chosen
	}
	return card.Color == top.Color || card.Value == top.Value
}

// validWildColor reports whether the named color may be assigned to a
// played wild.
func validWildColor(c models.Color) bool {
	for _, col := range models.Colors {
		if c == col {
			return true
		}
	}
	return false
}
