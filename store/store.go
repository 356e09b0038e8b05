// Package store keeps solved layouts in a sqlite file so that a layout is
// only ever searched once.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/notation"
)

var ErrNotFound = errors.New("layout not in store")

const schema = `
CREATE TABLE IF NOT EXISTS solutions (
	key TEXT PRIMARY KEY,
	layout TEXT NOT NULL,
	moves TEXT NOT NULL,
	nodes INTEGER NOT NULL,
	created_at INTEGER NOT NULL
)`

// Solution is a stored result.
type Solution struct {
	Layout    string
	Moves     []move.Move
	Nodes     uint64
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path. ":memory:" gives a private
// in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection avoids busy errors and
	// keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-solution-store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Key is the content key of a layout. Only the cells matter; the move
// history of b does not.
func Key(b *board.Board) string {
	return strconv.FormatUint(xxhash.Sum64String(notation.Serialize(b)), 16)
}

// Get returns the stored solution for the layout of b, or ErrNotFound.
func (s *Store) Get(ctx context.Context, b *board.Board) (*Solution, error) {
	layout := notation.Serialize(b)
	row := s.db.QueryRowContext(ctx,
		`SELECT layout, moves, nodes, created_at FROM solutions WHERE key = ?`, Key(b))

	var (
		stored  string
		moves   string
		nodes   int64
		created int64
	)
	err := row.Scan(&stored, &moves, &nodes, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if stored != layout {
		log.Warn().Str("stored", stored).Str("wanted", layout).Msg("store-key-collision")
		return nil, ErrNotFound
	}
	parsed, err := move.ParseMoves(moves)
	if err != nil {
		return nil, fmt.Errorf("stored moves for %s: %w", layout, err)
	}
	return &Solution{
		Layout:    stored,
		Moves:     parsed,
		Nodes:     uint64(nodes),
		CreatedAt: time.Unix(created, 0),
	}, nil
}

// Put records a solution for the layout of b, replacing any earlier one.
func (s *Store) Put(ctx context.Context, b *board.Board, moves []move.Move, nodes uint64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO solutions (key, layout, moves, nodes, created_at) VALUES (?, ?, ?, ?, ?)`,
		Key(b), notation.Serialize(b), move.FormatMoves(moves), int64(nodes), time.Now().Unix())
	return err
}

// Count returns the number of stored solutions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solutions`).Scan(&n)
	return n, err
}
