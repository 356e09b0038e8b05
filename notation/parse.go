// Package notation reads and writes single-line layouts of the form
//
//	<row1>/<row2>/.../<row9> <freecell> [opcodes]
//
// Each row lists columns 1 to 9. Cards are a suit letter followed by a rank
// letter (HT, S9, DM), X is a face-down card and a number is a run of empty
// cells. Missing trailing rows are empty.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/card"
	"github.com/exasolitaire/solitaire/move"
)

var ErrBadNotation = errors.New("bad layout notation")

type ParsedLayout struct {
	*board.Board
	Opcodes map[string]string
}

// Parse returns a board from the given notation string.
func Parse(s string) (*ParsedLayout, error) {
	fields := strings.SplitN(strings.TrimSpace(s), " ", 3)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: must have at least 2 space-separated fields", ErrBadNotation)
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) > move.Rows {
		return nil, fmt.Errorf("%w: %d rows, at most %d allowed", ErrBadNotation, len(rows), move.Rows)
	}

	b := board.NewGame()
	for i, row := range rows {
		cards, err := rowToCards(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		for col, c := range cards {
			if err := b.Set(move.Coord{Col: col + 1, Row: i + 1}, c); err != nil {
				return nil, err
			}
		}
	}

	free, err := card.FromString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("free cell: %w", err)
	}
	if err := b.Set(move.FreeCell, free); err != nil {
		return nil, err
	}

	opcodes := map[string]string{}
	if len(fields) == 3 {
		for _, op := range strings.Split(fields[2], ";") {
			op = strings.TrimSpace(op)
			if len(op) == 0 {
				continue
			}
			opWithParams := strings.SplitN(op, " ", 2)
			switch opWithParams[0] {
			case "id", "note":
				if len(opWithParams) != 2 {
					return nil, fmt.Errorf("%w: wrong number of arguments for %s operation",
						ErrBadNotation, opWithParams[0])
				}
				opcodes[opWithParams[0]] = strings.TrimSpace(opWithParams[1])
			default:
				log.Debug().Str("op", opWithParams[0]).Msg("ignoring-unknown-opcode")
			}
		}
	}
	return &ParsedLayout{Board: b, Opcodes: opcodes}, nil
}

// rowToCards expands one row into exactly move.Columns cards.
func rowToCards(row string) ([]card.Card, error) {
	cards := make([]card.Card, 0, move.Columns)
	row = strings.ToUpper(row)
	lastN := ""
	flush := func() error {
		if lastN == "" {
			return nil
		}
		n, err := strconv.Atoi(lastN)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: empty run of zero cells", ErrBadNotation)
		}
		for i := 0; i < n; i++ {
			cards = append(cards, card.EmptyCard)
		}
		lastN = ""
		return nil
	}

	for i := 0; i < len(row); i++ {
		ch := row[i]
		switch {
		case ch >= '0' && ch <= '9':
			lastN += string(ch)
			continue
		case ch == 'X':
			if err := flush(); err != nil {
				return nil, err
			}
			cards = append(cards, card.FaceDownCard)
		default:
			if err := flush(); err != nil {
				return nil, err
			}
			if i+1 >= len(row) {
				return nil, fmt.Errorf("%w: dangling %q", ErrBadNotation, string(ch))
			}
			c, err := card.FromString(row[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
			i++
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(cards) != move.Columns {
		return nil, fmt.Errorf("%w: row has %d cells, want %d", ErrBadNotation, len(cards), move.Columns)
	}
	return cards, nil
}
