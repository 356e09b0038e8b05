package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/card"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/movegen"
)

func sample(t *testing.T, s board.SampleLayout) *board.Board {
	t.Helper()
	b, err := board.FromSample(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func mustMoves(t *testing.T, s string) []move.Move {
	t.Helper()
	moves, err := move.ParseMoves(s)
	if err != nil {
		t.Fatal(err)
	}
	return moves
}

// twoMarkers can never be solved but has plenty of moves.
func twoMarkers(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.FromColumns([][]card.Card{
		{card.New(card.Heart, card.Marker)},
		{card.New(card.Spade, card.Marker)},
	}, card.EmptyCard)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSolveAlreadySolved(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	moves, err := s.Solve(context.Background(), sample(t, board.Solved))
	is.NoErr(err)
	is.Equal(len(moves), 0)
	is.Equal(s.Stats().Expanded, uint64(0))
}

func TestSolveNoMoves(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	moves, err := s.Solve(context.Background(), board.NewGame())
	is.True(errors.Is(err, ErrNoSolution))
	is.Equal(len(moves), 0)
	is.Equal(s.Stats().Expanded, uint64(1))
	is.Equal(s.Stats().Generated, uint64(0))
}

func TestSolveOneMove(t *testing.T) {
	is := is.New(t)
	b := sample(t, board.OneMoveFromSolved)
	before := b.Layout()

	s := NewSolver()
	moves, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	is.Equal(moves, mustMoves(t, "9:1>4:5"))
	// the input board is left alone
	is.Equal(b.Layout(), before)
	is.Equal(b.NumMoves(), 0)
}

func TestSolveFourMoves(t *testing.T) {
	is := is.New(t)
	b := sample(t, board.FourMovesFromSolved)

	s := NewSolver()
	moves, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	// the marker run in column 5 joins the marker at 9:1, collecting column 9
	is.Equal(moves, mustMoves(t, "9:4>8:4 9:3>7:4 9:2>6:4 5:1>9:2"))

	boards, err := movegen.Replay(b, moves)
	is.NoErr(err)
	is.True(boards[len(boards)-1].IsSolved())

	st := s.Stats()
	is.Equal(st.MaxDepth, 3)
	is.True(st.Generated >= st.Expanded)
	is.True(st.Visited > 0)
}

func TestSolveKeepsExistingHistory(t *testing.T) {
	is := is.New(t)
	b := sample(t, board.FourMovesFromSolved)
	is.True(movegen.Play(b, mustMoves(t, "9:4>8:4")[0]))

	moves, err := NewSolver().Solve(context.Background(), b)
	is.NoErr(err)
	// only the moves found by the search are returned
	is.Equal(len(moves), 3)
	boards, err := movegen.Replay(b, moves)
	is.NoErr(err)
	is.True(boards[len(boards)-1].IsSolved())
}

func TestSolveDepthLimitZero(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	s.SetDepthLimit(0)
	moves, err := s.Solve(context.Background(), twoMarkers(t))
	is.True(errors.Is(err, ErrDepthLimit))
	is.Equal(len(moves), 0)
	is.Equal(s.Stats().Expanded, uint64(1))
	is.True(s.Stats().DepthPruned > 0)

	// a solution one move away is still found, since the root is expanded
	moves, err = s.Solve(context.Background(), sample(t, board.OneMoveFromSolved))
	is.NoErr(err)
	is.Equal(len(moves), 1)
}

func TestSolveDepthLimitBoundsExpansion(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	s.SetDepthLimit(3)
	var calls uint64
	s.SetObserver(ObserverFunc(func(p Progress) {
		calls++
		is.True(p.Depth <= 3)
	}))
	moves, err := s.Solve(context.Background(), twoMarkers(t))
	is.True(errors.Is(err, ErrDepthLimit))
	is.Equal(len(moves), 0)
	is.True(s.Stats().MaxDepth <= 3)
	is.Equal(calls, s.Stats().Expanded)
}

func TestSolveTimeout(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	s.SetTimeLimit(time.Nanosecond)
	moves, err := s.Solve(context.Background(), sample(t, board.Opening))
	is.True(errors.Is(err, ErrTimeout))
	is.Equal(len(moves), 0)
	is.True(!s.IsSolving())
}

func TestSolveContextDeadline(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := NewSolver().Solve(ctx, sample(t, board.Opening))
	is.True(errors.Is(err, ErrTimeout))
}

func TestSolveCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSolver().Solve(ctx, sample(t, board.Opening))
	is.True(errors.Is(err, context.Canceled))
}

func TestSolveVisitedLimit(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	s.SetMaxVisited(5)
	moves, err := s.Solve(context.Background(), sample(t, board.Opening))
	is.True(errors.Is(err, ErrVisitedLimit))
	is.Equal(len(moves), 0)
	is.Equal(s.Stats().Visited, 5)
}

func TestObserverDoesNotChangeResult(t *testing.T) {
	is := is.New(t)
	b := sample(t, board.FourMovesFromSolved)

	plain, err := NewSolver().Solve(context.Background(), b)
	is.NoErr(err)

	s := NewSolver()
	var seen []Progress
	s.SetObserver(ObserverFunc(func(p Progress) {
		seen = append(seen, p)
	}))
	observed, err := s.Solve(context.Background(), b)
	is.NoErr(err)
	is.Equal(plain, observed)
	is.Equal(uint64(len(seen)), s.Stats().Expanded)
	for i, p := range seen {
		is.Equal(p.Expanded, uint64(i+1))
	}
}

func TestPackageSolve(t *testing.T) {
	is := is.New(t)
	moves := Solve(sample(t, board.OneMoveFromSolved), DefaultTimeLimit, DefaultDepthLimit)
	is.Equal(moves, mustMoves(t, "9:1>4:5"))

	moves = Solve(board.NewGame(), DefaultTimeLimit, DefaultDepthLimit)
	is.True(moves != nil)
	is.Equal(len(moves), 0)
}

func TestVisitedLimitFromMemory(t *testing.T) {
	is := is.New(t)
	is.Equal(VisitedLimitFromMemory(0), 0)
	is.True(VisitedLimitFromMemory(0.25) >= 0)
	is.True(VisitedLimitFromMemory(0.5) >= VisitedLimitFromMemory(0.25))
}

func TestObserverSeesSolvingExpansion(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	var calls uint64
	s.SetObserver(ObserverFunc(func(p Progress) {
		calls++
	}))
	moves, err := s.Solve(context.Background(), sample(t, board.OneMoveFromSolved))
	is.NoErr(err)
	is.Equal(len(moves), 1)
	is.Equal(s.Stats().Expanded, uint64(1))
	is.Equal(calls, uint64(1))
}

func TestConfigureZeroKeepsDefaults(t *testing.T) {
	is := is.New(t)
	s := NewSolverWithOptions(Options{})
	is.Equal(s.timeLimit, DefaultTimeLimit)
	is.Equal(s.depthLimit, DefaultDepthLimit)

	moves, err := s.Solve(context.Background(), sample(t, board.FourMovesFromSolved))
	is.NoErr(err)
	is.Equal(len(moves), 4)
}

func TestConfigureClearsObserver(t *testing.T) {
	is := is.New(t)
	s := NewSolverWithOptions(Options{ProgressInterval: 10})
	is.Equal(s.observer, Observer(LogObserver{Interval: 10}))
	s.Configure(Options{TimeLimit: time.Minute})
	is.Equal(s.observer, nil)
}

func TestIncrementalKeysMatchFullHash(t *testing.T) {
	is := is.New(t)
	s := NewSolver()
	moves, err := s.Solve(context.Background(), sample(t, board.FourMovesFromSolved))
	is.NoErr(err)

	// every layout in the visited table sits under its full hash
	for key, l := range s.visited.table {
		is.Equal(key, s.zobrist.Hash(l[:]))
	}
	is.Equal(s.Stats().Collisions, uint64(0))
	is.Equal(len(moves), 4)
}
