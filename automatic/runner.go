// Package automatic solves whole puzzle collections unattended and
// summarizes how the solver did.
package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/movegen"
	"github.com/exasolitaire/solitaire/puzzles"
	"github.com/exasolitaire/solitaire/solver"
	"github.com/exasolitaire/solitaire/store"
)

var (
	SolvedCounter *expvar.Int
	IsSolving     *expvar.Int
)

func init() {
	SolvedCounter = expvar.NewInt("solvedCounter")
	IsSolving = expvar.NewInt("isSolving")
}

var ErrBadSolution = errors.New("solution does not reach a solved layout")

// Result is the outcome for one puzzle.
type Result struct {
	Name   string
	Board  *board.Board
	Moves  []move.Move
	Stats  solver.Stats
	Err    error
	Cached bool
}

func (r Result) Record() puzzles.SolutionRecord {
	return puzzles.NewSolutionRecord(r.Name, r.Board, r.Moves, r.Stats, r.Err)
}

// Runner solves puzzles in parallel. Each solve gets its own Solver, so
// nothing but the optional store is shared between goroutines.
type Runner struct {
	cfg     *config.Config
	store   *store.Store
	threads int
}

// NewRunner returns a runner. st may be nil.
func NewRunner(cfg *config.Config, st *store.Store) *Runner {
	return &Runner{
		cfg:     cfg,
		store:   st,
		threads: max(cfg.GetInt(config.ConfigParallelism), 1),
	}
}

func (r *Runner) SetThreads(n int) {
	r.threads = max(n, 1)
}

// Run solves every puzzle in c. Results come back in collection order.
// Per-puzzle failures are reported in the results; the returned error is
// only set if ctx was cancelled.
func (r *Runner) Run(ctx context.Context, c *puzzles.Collection) ([]Result, error) {
	IsSolving.Add(1)
	defer IsSolving.Add(-1)
	log.Info().Int("puzzles", len(c.Puzzles)).Int("threads", r.threads).Msg("batch-starting")

	results := make([]Result, len(c.Puzzles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.threads)
	for i := range c.Puzzles {
		i := i
		p := &c.Puzzles[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.solveOne(gctx, p)
			if errors.Is(results[i].Err, context.Canceled) {
				return results[i].Err
			}
			return nil
		})
	}
	err := g.Wait()
	log.Info().Err(err).Msg("batch-finished")
	return results, err
}

func (r *Runner) solveOne(ctx context.Context, p *puzzles.Puzzle) Result {
	res := Result{Name: p.Name, Board: board.NewGame()}
	b, err := p.Board()
	if err != nil {
		res.Err = err
		return res
	}
	res.Board = b
	if !b.IsPlayableComposition() {
		res.Err = board.ErrInvalidComposition
		return res
	}

	if r.store != nil {
		sol, err := r.store.Get(ctx, b)
		if err == nil {
			res.Moves = sol.Moves
			res.Stats = solver.Stats{Expanded: sol.Nodes}
			res.Cached = true
			res.Err = verify(b, sol.Moves)
			return res
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Str("puzzle", p.Name).Msg("store-lookup-failed")
		}
	}

	s := solver.NewSolverWithOptions(r.cfg.SolverOptions())
	res.Moves, res.Err = s.Solve(ctx, b)
	res.Stats = s.Stats()
	if res.Err == nil {
		res.Err = verify(b, res.Moves)
	}
	if res.Err != nil {
		log.Info().Str("puzzle", p.Name).Err(res.Err).Msg("puzzle-not-solved")
		return res
	}
	SolvedCounter.Add(1)
	if r.store != nil {
		if err := r.store.Put(ctx, b, res.Moves, res.Stats.Expanded); err != nil {
			log.Err(err).Str("puzzle", p.Name).Msg("store-put-failed")
		}
	}
	log.Info().Str("puzzle", p.Name).Int("moves", len(res.Moves)).
		Float64("seconds", res.Stats.Duration.Seconds()).Msg("puzzle-solved")
	return res
}

// verify replays moves on b and checks the end result.
func verify(b *board.Board, moves []move.Move) error {
	boards, err := movegen.Replay(b, moves)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadSolution, err)
	}
	last := b
	if len(boards) > 0 {
		last = boards[len(boards)-1]
	}
	if !last.IsSolved() {
		return ErrBadSolution
	}
	return nil
}
