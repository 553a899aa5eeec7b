package models

// Color is a card color. Black is reserved for wild cards.
type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	Yellow Color = "yellow"
	Black  Color = "black"
)

// Colors lists the four playable colors in deck order.
var Colors = [...]Color{Red, Green, Blue, Yellow}

// Value is a card face value: "0".."9" or one of the action values below.
type Value string

const (
	ValueSkip         Value = "skip"
	ValueReverse      Value = "reverse"
	ValueDrawTwo      Value = "draw2"
	ValueWild         Value = "wild"
	ValueWildDrawFour Value = "wilddraw4"
)

// Card is an immutable card value. Chosen is set only while a played
// wild sits on the discard pile, carrying the color its player named.
type Card struct {
	Color  Color `json:"color"`
	Value  Value `json:"value"`
	Chosen Color `json:"chosen,omitempty"`
}

// Same reports whether two cards are the same deck card, ignoring any
// chosen wild color.
func (c Card) Same(o Card) bool {
	return c.Color == o.Color && c.Value == o.Value
}

// IsWild reports whether the card is a black (wild) card.
func (c Card) IsWild() bool {
	return c.Color == Black
}
