package board

import (
	"errors"
	"maps"

	"github.com/samber/lo"

	"github.com/exasolitaire/solitaire/card"
)

var ErrInvalidComposition = errors.New("layout does not hold a playable deck")

// DeckComposition is the one legal starting deck: four markers of every
// suit and two of each numeric rank in hearts and spades.
var DeckComposition = func() map[card.Card]int {
	d := map[card.Card]int{}
	for _, s := range []card.Suit{card.Club, card.Spade, card.Heart, card.Diamond} {
		d[card.New(s, card.Marker)] = 4
	}
	for _, s := range []card.Suit{card.Heart, card.Spade} {
		for _, r := range []card.Rank{card.Ten, card.Nine, card.Eight, card.Seven, card.Six} {
			d[card.New(s, r)] = 2
		}
	}
	return d
}()

// Composition counts the non-empty cards on the board.
func (b *Board) Composition() map[card.Card]int {
	occupied := lo.Filter(b.layout[:], func(c card.Card, _ int) bool {
		return !c.IsEmpty()
	})
	return lo.CountValues(occupied)
}

// IsValidComposition reports whether the board holds exactly the starting
// deck. Callers should gate solving on it for boards read from outside.
func (b *Board) IsValidComposition() bool {
	return maps.Equal(b.Composition(), DeckComposition)
}

// IsPlayableComposition is like IsValidComposition but also accepts boards
// where the four markers of some suits were already collected, each such
// suit being replaced by one face-down card.
func (b *Board) IsPlayableComposition() bool {
	have := b.Composition()
	faceDown := have[card.FaceDownCard]
	delete(have, card.FaceDownCard)
	for c, n := range DeckComposition {
		if c.Rank() == card.Marker && have[c] == 0 {
			faceDown--
			have[c] = n
		}
	}
	return faceDown == 0 && maps.Equal(have, DeckComposition)
}

// CompositionDiff lists, per card, how many more (positive) or fewer
// (negative) the board holds than the deck. It is empty for a valid board.
func (b *Board) CompositionDiff() map[card.Card]int {
	have := b.Composition()
	diff := map[card.Card]int{}
	for c, n := range have {
		if d := n - DeckComposition[c]; d != 0 {
			diff[c] = d
		}
	}
	for c, n := range DeckComposition {
		if _, ok := have[c]; !ok {
			diff[c] = -n
		}
	}
	return diff
}
