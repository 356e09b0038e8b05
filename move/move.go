package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	// Columns and Rows bound the tableau. Both are 1-indexed.
	Columns = 9
	Rows    = 9
)

var (
	// FreeCell is the single holding cell outside the tableau.
	FreeCell = Coord{Col: -1, Row: -1}

	ErrBadCoord = errors.New("badly formatted coordinate")
	ErrBadMove  = errors.New("badly formatted move")
)

var reCoord *regexp.Regexp

func init() {
	reCoord = regexp.MustCompile(`^(?P<col>[0-9]+):(?P<row>[0-9]+)$`)
}

// Coord is a (column, row) position. It is not necessarily on the layout;
// use OnLayout to check.
type Coord struct {
	Col int
	Row int
}

// IsFreeCell reports whether c is the free cell.
func (c Coord) IsFreeCell() bool {
	return c == FreeCell
}

// OnLayout reports whether c is the free cell or a tableau cell.
func (c Coord) OnLayout() bool {
	if c.IsFreeCell() {
		return true
	}
	return c.Col >= 1 && c.Col <= Columns && c.Row >= 1 && c.Row <= Rows
}

// Above is the cell one row up in the same column.
func (c Coord) Above() Coord {
	return Coord{Col: c.Col, Row: c.Row - 1}
}

// Offset shifts c down by n rows.
func (c Coord) Offset(n int) Coord {
	return Coord{Col: c.Col, Row: c.Row + n}
}

func (c Coord) String() string {
	if c.IsFreeCell() {
		return "fc"
	}
	return fmt.Sprintf("%d:%d", c.Col, c.Row)
}

// ParseCoord parses "col:row" or "fc".
func ParseCoord(s string) (Coord, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "fc" {
		return FreeCell, nil
	}
	m := reCoord.FindStringSubmatch(s)
	if m == nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	col, _ := strconv.Atoi(m[1])
	row, _ := strconv.Atoi(m[2])
	c := Coord{Col: col, Row: row}
	if !c.OnLayout() {
		return Coord{}, fmt.Errorf("%w: %q is off the layout", ErrBadCoord, s)
	}
	return c, nil
}

// Move picks up the card (and any run below it) at Start and drops it at End.
type Move struct {
	Start Coord
	End   Coord
}

func New(start, end Coord) Move {
	return Move{Start: start, End: end}
}

func (m Move) String() string {
	return m.Start.String() + ">" + m.End.String()
}

// ParseMove parses the String form, e.g. "3:4>fc".
func ParseMove(s string) (Move, error) {
	parts := strings.Split(strings.TrimSpace(s), ">")
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	start, err := ParseCoord(parts[0])
	if err != nil {
		return Move{}, err
	}
	end, err := ParseCoord(parts[1])
	if err != nil {
		return Move{}, err
	}
	return Move{Start: start, End: end}, nil
}

// FormatMoves joins moves with single spaces.
func FormatMoves(moves []Move) string {
	return strings.Join(lo.Map(moves, func(m Move, _ int) string {
		return m.String()
	}), " ")
}

// ParseMoves is the inverse of FormatMoves.
func ParseMoves(s string) ([]Move, error) {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, f := range fields {
		m, err := ParseMove(f)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
