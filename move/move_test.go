package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

type coordTestStruct struct {
	input  string
	output Coord
}

var coordTests = []coordTestStruct{
	{"1:1", Coord{1, 1}},
	{"9:9", Coord{9, 9}},
	{"3:7", Coord{3, 7}},
	{"fc", FreeCell},
	{"FC", FreeCell},
}

func TestParseCoord(t *testing.T) {
	for _, tc := range coordTests {
		c, err := ParseCoord(tc.input)
		if err != nil {
			t.Errorf("For %v got error %v", tc.input, err)
			continue
		}
		if c != tc.output {
			t.Errorf("For %v expected %v got %v", tc.input, tc.output, c)
		}
	}
}

func TestParseCoordErrors(t *testing.T) {
	is := is.New(t)
	for _, bad := range []string{"0:1", "10:1", "1:10", "-1:-1", "a:b", "1-1", ""} {
		_, err := ParseCoord(bad)
		is.True(errors.Is(err, ErrBadCoord))
	}
}

func TestOnLayout(t *testing.T) {
	is := is.New(t)
	is.True(FreeCell.OnLayout())
	is.True(Coord{1, 1}.OnLayout())
	is.True(!Coord{0, 1}.OnLayout())
	is.True(!Coord{1, 0}.OnLayout())
	is.True(!Coord{-1, 0}.OnLayout())
	is.True(!Coord{-1, -2}.OnLayout())
}

func TestMoveStrings(t *testing.T) {
	is := is.New(t)
	moves := []Move{
		New(Coord{3, 4}, FreeCell),
		New(FreeCell, Coord{9, 1}),
		New(Coord{1, 2}, Coord{2, 6}),
	}
	s := FormatMoves(moves)
	is.Equal(s, "3:4>fc fc>9:1 1:2>2:6")
	back, err := ParseMoves(s)
	is.NoErr(err)
	is.Equal(back, moves)

	_, err = ParseMove("3:4")
	is.True(errors.Is(err, ErrBadMove))
	_, err = ParseMove("3:4>12:1")
	is.True(errors.Is(err, ErrBadCoord))
}
