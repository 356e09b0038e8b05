package card

import (
	"fmt"
	"strings"
)

var suitLetters = map[byte]Suit{
	'S': Spade,
	'C': Club,
	'H': Heart,
	'D': Diamond,
}

var rankLetters = map[byte]Rank{
	'M': Marker,
	'T': Ten,
	'9': Nine,
	'8': Eight,
	'7': Seven,
	'6': Six,
}

// SuitFromLetter maps S, C, H, D to a playable suit.
func SuitFromLetter(b byte) (Suit, bool) {
	s, ok := suitLetters[b]
	return s, ok
}

// RankFromLetter maps M, T, 9, 8, 7, 6 to a rank.
func RankFromLetter(b byte) (Rank, bool) {
	r, ok := rankLetters[b]
	return r, ok
}

// Token is the compact notation for a card: suit letter then rank letter
// ("HT", "S9", "DM"), "X" for a face-down card and "." for an empty cell.
func (c Card) Token() string {
	switch c.suit {
	case Empty:
		return "."
	case FaceDown:
		return "X"
	}
	var sb strings.Builder
	sb.WriteByte(c.suit.String()[0])
	switch c.rank {
	case Marker:
		sb.WriteByte('M')
	case Ten:
		sb.WriteByte('T')
	default:
		sb.WriteByte(byte('0' + c.rank))
	}
	return sb.String()
}

// FromString parses a card token. It accepts upper or lower case.
func FromString(tok string) (Card, error) {
	t := strings.ToUpper(strings.TrimSpace(tok))
	switch t {
	case ".", "-", "--":
		return EmptyCard, nil
	case "X":
		return FaceDownCard, nil
	}
	if len(t) == 3 && strings.HasSuffix(t, "10") {
		// accept H10 as well as HT
		t = strings.TrimSuffix(t, "10") + "T"
	}
	if len(t) != 2 {
		return EmptyCard, fmt.Errorf("%w: %q", ErrBadToken, tok)
	}
	s, ok := SuitFromLetter(t[0])
	if !ok {
		return EmptyCard, fmt.Errorf("%w: bad suit in %q", ErrBadToken, tok)
	}
	r, ok := RankFromLetter(t[1])
	if !ok {
		return EmptyCard, fmt.Errorf("%w: bad rank in %q", ErrBadToken, tok)
	}
	return New(s, r), nil
}

// DisplayString renders a fixed-width, optionally colored cell for board
// printouts.
func (c Card) DisplayString() string {
	var name string
	switch {
	case c.rank == Marker:
		name = c.suit.String()[:3]
	case c.rank == None:
		name = "---"
	default:
		prefix := "B"
		if c.suit.Color() == Red {
			prefix = "R"
		}
		name = fmt.Sprintf("%s%02d", prefix, int(c.rank))
	}
	if !ColorSupport {
		return name
	}
	switch {
	case c.suit.Color() == Red:
		return "\033[31m" + name + "\033[0m"
	case c.suit == FaceDown:
		return "\033[43m" + name + "\033[0m"
	default:
		return "\033[2m" + name + "\033[0m"
	}
}
