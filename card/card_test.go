package card

import (
	"testing"

	"github.com/matryer/is"
)

var playable = []Suit{Spade, Club, Heart, Diamond}
var numeric = []Rank{Ten, Nine, Eight, Seven, Six}

func TestFollowsNeverReflexiveForNumeric(t *testing.T) {
	is := is.New(t)
	for _, s := range playable {
		for _, r := range numeric {
			c := New(s, r)
			is.True(!c.Follows(c))
		}
	}
}

func TestMarkerFollowsOnlyItself(t *testing.T) {
	is := is.New(t)
	all := []Card{EmptyCard, FaceDownCard}
	for _, s := range playable {
		all = append(all, New(s, Marker))
		for _, r := range numeric {
			all = append(all, New(s, r))
		}
	}
	for _, s := range playable {
		m := New(s, Marker)
		for _, other := range all {
			is.Equal(m.Follows(other), m == other)
		}
	}
}

func TestFollows(t *testing.T) {
	is := is.New(t)
	testcases := []struct {
		upper   Card
		lower   Card
		follows bool
	}{
		{New(Heart, Ten), New(Spade, Nine), true},
		{New(Spade, Ten), New(Diamond, Nine), true},
		{New(Club, Seven), New(Heart, Six), true},
		{New(Heart, Ten), New(Diamond, Nine), false},
		{New(Spade, Ten), New(Club, Nine), false},
		{New(Spade, Nine), New(Heart, Ten), false},
		{New(Spade, Ten), New(Heart, Eight), false},
		{New(Spade, Six), EmptyCard, false},
		{New(Spade, Six), FaceDownCard, false},
		{New(Spade, Ten), New(Heart, Marker), false},
		{EmptyCard, EmptyCard, false},
		{FaceDownCard, FaceDownCard, false},
	}
	for _, tc := range testcases {
		is.Equal(tc.upper.Follows(tc.lower), tc.follows)
	}
}

func TestSentinels(t *testing.T) {
	is := is.New(t)
	is.True(EmptyCard.IsEmpty())
	is.True(!EmptyCard.IsFaceDown())
	is.True(FaceDownCard.IsFaceDown())
	is.True(!FaceDownCard.IsEmpty())
	is.Equal(New(Heart, Marker), New(Heart, Marker))
	is.Equal(Empty.Color(), NoColor)
}

func TestTokens(t *testing.T) {
	is := is.New(t)
	testcases := []struct {
		tok  string
		card Card
	}{
		{"HT", New(Heart, Ten)},
		{"s9", New(Spade, Nine)},
		{"H10", New(Heart, Ten)},
		{"DM", New(Diamond, Marker)},
		{"C6", New(Club, Six)},
		{"X", FaceDownCard},
		{".", EmptyCard},
	}
	for _, tc := range testcases {
		c, err := FromString(tc.tok)
		is.NoErr(err)
		is.Equal(c, tc.card)
	}
	for _, c := range []Card{New(Heart, Ten), New(Club, Seven), New(Spade, Marker), FaceDownCard, EmptyCard} {
		back, err := FromString(c.Token())
		is.NoErr(err)
		is.Equal(back, c)
	}
	for _, bad := range []string{"", "Z9", "H5", "HTT", "10"} {
		_, err := FromString(bad)
		is.True(err != nil)
	}
}

func TestDisplayStringUncolored(t *testing.T) {
	is := is.New(t)
	old := ColorSupport
	ColorSupport = false
	defer func() { ColorSupport = old }()
	is.Equal(New(Heart, Ten).DisplayString(), "R10")
	is.Equal(New(Spade, Six).DisplayString(), "B06")
	is.Equal(New(Club, Marker).DisplayString(), "CLU")
	is.Equal(EmptyCard.DisplayString(), "---")
}
