// Package movegen holds the rules of the game: which moves are legal, how
// a move changes the board, and when a column of markers is collected.
package movegen

import (
	"errors"
	"fmt"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/card"
	"github.com/exasolitaire/solitaire/move"
)

var ErrIllegalMove = errors.New("illegal move")

// collectSize is how many identical markers make a collected stack.
const collectSize = 4

// liftRun returns the layout indices of the cards picked up by grabbing
// start: the card itself and, for tableau cells, every card below it down
// to the first empty cell. ok is false if the grab itself is illegal.
func liftRun(b *board.Board, start move.Coord) (run []int, ok bool) {
	idx, ok := board.Index(start)
	if !ok {
		return nil, false
	}
	origin := b.At(idx)
	if origin.IsEmpty() || origin.IsFaceDown() {
		return nil, false
	}
	run = []int{idx}
	if start.IsFreeCell() {
		return run, true
	}
	last := origin
	for row := start.Row + 1; row <= move.Rows; row++ {
		nidx, _ := board.Index(move.Coord{Col: start.Col, Row: row})
		next := b.At(nidx)
		if next.IsEmpty() {
			break
		}
		if !last.Follows(next) {
			return nil, false
		}
		run = append(run, nidx)
		last = next
	}
	return run, true
}

// lifted reports whether idx is one of the cells in run.
func lifted(run []int, idx int) bool {
	for _, r := range run {
		if r == idx {
			return true
		}
	}
	return false
}

// canDrop decides whether the run headed by origin may land on end. Cells
// in run are treated as already empty.
func canDrop(b *board.Board, run []int, origin card.Card, end move.Coord) bool {
	cardAt := func(c move.Coord) (card.Card, bool) {
		idx, ok := board.Index(c)
		if !ok {
			return card.EmptyCard, false
		}
		if lifted(run, idx) {
			return card.EmptyCard, true
		}
		return b.At(idx), true
	}
	target, ok := cardAt(end)
	if !ok || !target.IsEmpty() {
		return false
	}
	switch {
	case end.Row == 1:
		return true
	case end.IsFreeCell():
		return len(run) == 1
	}
	above, ok := cardAt(end.Above())
	return ok && above.Follows(origin)
}

// IsLegal reports whether m may be played on b.
func IsLegal(b *board.Board, m move.Move) bool {
	if m.Start == m.End {
		return false
	}
	run, ok := liftRun(b, m.Start)
	if !ok {
		return false
	}
	return canDrop(b, run, b.At(run[0]), m.End)
}

// Generate lists every legal move, start-major in layout order.
func Generate(b *board.Board) []move.Move {
	var moves []move.Move
	for si := 0; si < board.LayoutSize; si++ {
		start := board.CoordAt(si)
		run, ok := liftRun(b, start)
		if !ok {
			continue
		}
		origin := b.At(si)
		for ei := 0; ei < board.LayoutSize; ei++ {
			if ei == si {
				continue
			}
			end := board.CoordAt(ei)
			if canDrop(b, run, origin, end) {
				moves = append(moves, move.New(start, end))
			}
		}
	}
	return moves
}

// Play records m in b's history and, if m is legal, carries it out. The
// history entry is kept even when m turns out to be illegal; the return
// value tells whether the layout changed.
func Play(b *board.Board, m move.Move) bool {
	b.AddMove(m)
	if !IsLegal(b, m) {
		return false
	}
	for off := 0; off < move.Rows; off++ {
		oi, ok := board.Index(m.Start.Offset(off))
		if !ok {
			break
		}
		ti, ok := board.Index(m.End.Offset(off))
		if !ok {
			break
		}
		oc := b.At(oi)
		if oc.IsEmpty() {
			break
		}
		b.SetAt(ti, oc)
		b.SetAt(oi, card.EmptyCard)
	}
	if !m.End.IsFreeCell() {
		Consolidate(b, m.End.Col)
	}
	return true
}

// Consolidate turns four identical markers at the top of col into a single
// face-down card. It returns whether it did so.
func Consolidate(b *board.Board, col int) bool {
	head, ok := b.Get(move.Coord{Col: col, Row: 1})
	if !ok || head.Rank() != card.Marker {
		return false
	}
	for row := 2; row <= collectSize; row++ {
		c, ok := b.Get(move.Coord{Col: col, Row: row})
		if !ok || c != head {
			return false
		}
	}
	for row := 2; row <= collectSize; row++ {
		idx, _ := board.Index(move.Coord{Col: col, Row: row})
		b.SetAt(idx, card.EmptyCard)
	}
	idx, _ := board.Index(move.Coord{Col: col, Row: 1})
	b.SetAt(idx, card.FaceDownCard)
	return true
}

// Replay plays moves on a copy of b and returns the board after each move.
// It stops at the first illegal move.
func Replay(b *board.Board, moves []move.Move) ([]*board.Board, error) {
	cur := b.Clone()
	boards := make([]*board.Board, 0, len(moves))
	for i, m := range moves {
		cur = cur.Clone()
		if !Play(cur, m) {
			return boards, fmt.Errorf("%w: %v at step %d", ErrIllegalMove, m, i+1)
		}
		boards = append(boards, cur)
	}
	return boards, nil
}
