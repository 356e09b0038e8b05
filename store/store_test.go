package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/movegen"
)

func sample(t *testing.T, s board.SampleLayout) *board.Board {
	t.Helper()
	b, err := board.FromSample(s)
	require.NoError(t, err)
	return b
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "solutions.db"))
	require.NoError(t, err)
	defer s.Close()

	b := sample(t, board.OneMoveFromSolved)
	_, err = s.Get(ctx, b)
	require.ErrorIs(t, err, ErrNotFound)

	moves, err := move.ParseMoves("9:1>4:5")
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, b, moves, 17))

	sol, err := s.Get(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, moves, sol.Moves)
	assert.Equal(t, uint64(17), sol.Nodes)
	assert.False(t, sol.CreatedAt.IsZero())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	b := sample(t, board.Solved)
	require.NoError(t, s.Put(ctx, b, nil, 5))
	require.NoError(t, s.Put(ctx, b, []move.Move{}, 0))

	sol, err := s.Get(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, sol.Moves)
	assert.Equal(t, uint64(0), sol.Nodes)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestKeyIgnoresHistory(t *testing.T) {
	a := sample(t, board.FourMovesFromSolved)
	b := a.Clone()
	moves, err := move.ParseMoves("9:4>8:4")
	require.NoError(t, err)
	require.True(t, movegen.Play(b, moves[0]))

	assert.NotEqual(t, Key(a), Key(b))
	// an illegal attempt only grows the history
	c := a.Clone()
	require.False(t, movegen.Play(c, move.New(move.Coord{Col: 1, Row: 1}, move.Coord{Col: 2, Row: 1})))
	assert.Equal(t, Key(a), Key(c))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "solutions.db")
	b := sample(t, board.OneMoveFromSolved)
	moves, err := move.ParseMoves("9:1>4:5")
	require.NoError(t, err)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, b, moves, 3))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	sol, err := s.Get(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, moves, sol.Moves)
}
