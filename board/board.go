package board

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/exasolitaire/solitaire/card"
	"github.com/exasolitaire/solitaire/move"
)

// LayoutSize is the number of cells: the free cell plus the 9x9 tableau.
const LayoutSize = 1 + move.Columns*move.Rows

const freeCellIdx = 0

var ErrOffLayout = errors.New("coordinate is not on the layout")

// A Layout holds every cell of the board. Index 0 is the free cell; the
// tableau follows column by column. A Layout is comparable and is the
// canonical identity of a position: empty cells carry card.EmptyCard, so two
// layouts are equal exactly when their sets of occupied cells are equal.
type Layout [LayoutSize]card.Card

// Index returns the layout index of c, or false if c is off the layout.
func Index(c move.Coord) (int, bool) {
	if c.IsFreeCell() {
		return freeCellIdx, true
	}
	if !c.OnLayout() {
		return 0, false
	}
	return 1 + (c.Col-1)*move.Rows + (c.Row - 1), true
}

// CoordAt is the inverse of Index.
func CoordAt(idx int) move.Coord {
	if idx == freeCellIdx {
		return move.FreeCell
	}
	idx--
	return move.Coord{Col: idx/move.Rows + 1, Row: idx%move.Rows + 1}
}

// Board is a layout plus the moves attempted to reach it. The history is
// only used to report solutions; it never takes part in equality.
type Board struct {
	layout Layout
	moves  []move.Move
}

// NewGame returns a board with every cell empty. The zero card is
// card.EmptyCard, so a zero Layout is already empty.
func NewGame() *Board {
	return &Board{}
}

// FromColumns fills columns from row 1 down; cols[0] is column 1. The free
// cell gets free.
func FromColumns(cols [][]card.Card, free card.Card) (*Board, error) {
	if len(cols) > move.Columns {
		return nil, fmt.Errorf("too many columns: %d", len(cols))
	}
	b := NewGame()
	for i, col := range cols {
		if len(col) > move.Rows {
			return nil, fmt.Errorf("column %d has %d cards", i+1, len(col))
		}
		for j, cd := range col {
			b.layout[1+i*move.Rows+j] = cd
		}
	}
	b.layout[freeCellIdx] = free
	return b, nil
}

// FromLayout builds a board with an empty history.
func FromLayout(l Layout) *Board {
	return &Board{layout: l}
}

// Get returns the card at c. The boolean is false for coordinates outside
// the layout; those are never treated as empty.
func (b *Board) Get(c move.Coord) (card.Card, bool) {
	idx, ok := Index(c)
	if !ok {
		return card.EmptyCard, false
	}
	return b.layout[idx], true
}

// Set places cd at c.
func (b *Board) Set(c move.Coord, cd card.Card) error {
	idx, ok := Index(c)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOffLayout, c)
	}
	b.layout[idx] = cd
	return nil
}

// At and SetAt address cells by layout index.
func (b *Board) At(idx int) card.Card {
	return b.layout[idx]
}

func (b *Board) SetAt(idx int, cd card.Card) {
	b.layout[idx] = cd
}

// Layout returns a copy of the cells.
func (b *Board) Layout() Layout {
	return b.layout
}

// Moves returns a copy of the move history.
func (b *Board) Moves() []move.Move {
	return slices.Clone(b.moves)
}

func (b *Board) NumMoves() int {
	return len(b.moves)
}

// AddMove appends to the history without touching the layout.
func (b *Board) AddMove(m move.Move) {
	b.moves = append(b.moves, m)
}

// Clone deep-copies the layout and the history.
func (b *Board) Clone() *Board {
	return &Board{
		layout: b.layout,
		moves:  slices.Clone(b.moves),
	}
}

// Equal compares layouts only.
func (b *Board) Equal(o *Board) bool {
	return b.layout == o.layout
}

// IsSolved reports whether the free cell is empty, exactly four columns are
// collected (face-down at row 1) and exactly four columns hold an unbroken
// five-card chain from row 1. The remaining column is not checked.
func (b *Board) IsSolved() bool {
	if !b.layout[freeCellIdx].IsEmpty() {
		return false
	}
	chains, collected := 0, 0
	for col := 1; col <= move.Columns; col++ {
		if b.chainFromTop(col) {
			chains++
		}
		if top, _ := b.Get(move.Coord{Col: col, Row: 1}); top.IsFaceDown() {
			collected++
		}
	}
	return chains == 4 && collected == 4
}

const solvedChainLength = 5

func (b *Board) chainFromTop(col int) bool {
	last, ok := b.Get(move.Coord{Col: col, Row: 1})
	if !ok || last.IsEmpty() || last.IsFaceDown() {
		return false
	}
	for row := 2; row <= solvedChainLength; row++ {
		next, ok := b.Get(move.Coord{Col: col, Row: row})
		if !ok || next.IsEmpty() || next.IsFaceDown() {
			return false
		}
		if !last.Follows(next) {
			return false
		}
		last = next
	}
	return true
}

// ToDisplayText renders the tableau row by row, then the free cell.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	for row := 1; row <= move.Rows; row++ {
		cells := make([]string, 0, move.Columns)
		for col := 1; col <= move.Columns; col++ {
			c, _ := b.Get(move.Coord{Col: col, Row: row})
			cells = append(cells, c.DisplayString())
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}
	sb.WriteString(b.layout[freeCellIdx].DisplayString())
	sb.WriteString("\n")
	return sb.String()
}

func (b *Board) String() string {
	return b.ToDisplayText()
}
