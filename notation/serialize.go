package notation

import (
	"slices"
	"strconv"
	"strings"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/card"
	"github.com/exasolitaire/solitaire/move"
)

// Serialize writes the canonical notation for b. Trailing empty rows are
// left out, runs of empty cells are compressed and the move history is not
// recorded.
func Serialize(b *board.Board) string {
	rows := make([]string, 0, move.Rows)
	for row := 1; row <= move.Rows; row++ {
		rows = append(rows, rowString(b, row))
	}
	emptyRow := strconv.Itoa(move.Columns)
	for len(rows) > 1 && rows[len(rows)-1] == emptyRow {
		rows = rows[:len(rows)-1]
	}

	free, _ := b.Get(move.FreeCell)
	return strings.Join(rows, "/") + " " + freeCellToken(free)
}

// SerializeWithOpcodes appends opcodes in name order.
func SerializeWithOpcodes(b *board.Board, opcodes map[string]string) string {
	s := Serialize(b)
	if len(opcodes) == 0 {
		return s
	}
	names := make([]string, 0, len(opcodes))
	for k := range opcodes {
		names = append(names, k)
	}
	slices.Sort(names)
	ops := make([]string, 0, len(names))
	for _, k := range names {
		ops = append(ops, k+" "+opcodes[k])
	}
	return s + " " + strings.Join(ops, ";") + ";"
}

func freeCellToken(c card.Card) string {
	if c.IsEmpty() {
		return "-"
	}
	return c.Token()
}

func rowString(b *board.Board, row int) string {
	var sb strings.Builder
	empties := 0
	for col := 1; col <= move.Columns; col++ {
		c, _ := b.Get(move.Coord{Col: col, Row: row})
		if c.IsEmpty() {
			empties++
			continue
		}
		if empties > 0 {
			sb.WriteString(strconv.Itoa(empties))
			empties = 0
		}
		sb.WriteString(c.Token())
	}
	if empties > 0 {
		sb.WriteString(strconv.Itoa(empties))
	}
	return sb.String()
}
