package card

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ColorSupport turns ANSI coloring of DisplayString on or off.
	ColorSupport = os.Getenv("SOLITAIRE_DISABLE_COLOR") != "on"

	ErrBadToken = errors.New("unrecognized card token")
)

// Suit is the suit group of a card: four playable suits and two sentinels.
type Suit uint8

const (
	// Empty means no card occupies a cell. It is the zero value.
	Empty Suit = iota
	// FaceDown marks a collected set of four marker cards.
	FaceDown
	Spade
	Club
	Heart
	Diamond
)

func (s Suit) String() string {
	switch s {
	case Spade:
		return "SPADE"
	case Club:
		return "CLUB"
	case Heart:
		return "HEART"
	case Diamond:
		return "DIAMOND"
	case Empty:
		return "EMPTY"
	case FaceDown:
		return "BACK"
	}
	return fmt.Sprintf("Suit(%d)", uint8(s))
}

// Color is the color of a playable suit.
type Color uint8

const (
	NoColor Color = iota
	Red
	Black
)

// Color returns NoColor for the sentinel suits.
func (s Suit) Color() Color {
	switch s {
	case Heart, Diamond:
		return Red
	case Spade, Club:
		return Black
	}
	return NoColor
}

// Rank is a card rank. The numeric ranks carry their face value so that
// adjacency in the descending chain is a difference of one.
type Rank int8

const (
	None   Rank = 0
	Marker Rank = 1
	Six    Rank = 6
	Seven  Rank = 7
	Eight  Rank = 8
	Nine   Rank = 9
	Ten    Rank = 10
)

// Numeric reports whether r is one of the chain ranks 6..10.
func (r Rank) Numeric() bool {
	return r >= Six && r <= Ten
}

func (r Rank) String() string {
	switch r {
	case None:
		return "NON"
	case Marker:
		return "HUMAN"
	case Six:
		return "SIX"
	case Seven:
		return "SEV"
	case Eight:
		return "OCT"
	case Nine:
		return "NIN"
	case Ten:
		return "TEN"
	}
	return fmt.Sprintf("Rank(%d)", int8(r))
}

// Card is an immutable (suit, rank) pair. The zero value is EmptyCard.
type Card struct {
	suit Suit
	rank Rank
}

var (
	EmptyCard    = Card{Empty, None}
	FaceDownCard = Card{FaceDown, None}
)

// New creates a card. It performs no validation.
func New(s Suit, r Rank) Card {
	return Card{suit: s, rank: r}
}

func (c Card) Suit() Suit { return c.suit }
func (c Card) Rank() Rank { return c.rank }

func (c Card) IsEmpty() bool    { return c.suit == Empty }
func (c Card) IsFaceDown() bool { return c.suit == FaceDown }

// Follows reports whether other may sit directly below c in a column.
// A marker only stacks on an identical marker; a numeric card needs an
// opposite-colored card exactly one rank lower.
func (c Card) Follows(other Card) bool {
	switch {
	case c.rank == None:
		return false
	case c.rank == Marker:
		return c == other
	case !c.rank.Numeric() || !other.rank.Numeric():
		return false
	}
	cc, oc := c.suit.Color(), other.suit.Color()
	if cc == NoColor || oc == NoColor || cc == oc {
		return false
	}
	return c.rank-1 == other.rank
}

func (c Card) String() string {
	return c.suit.String() + "." + c.rank.String()
}
