// Package solver searches for a sequence of moves that takes a layout to
// the solved state.
package solver

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/movegen"
	"github.com/exasolitaire/solitaire/zobrist"
)

const (
	DefaultTimeLimit  = 180 * time.Second
	DefaultDepthLimit = 1000

	// approximate cost of one retained position: the layout in the visited
	// table plus a board waiting on the frontier.
	bytesPerPosition = 512
)

var (
	ErrNoSolution   = errors.New("no solution found")
	ErrTimeout      = errors.New("solver time limit exceeded")
	ErrDepthLimit   = errors.New("no solution within depth limit")
	ErrVisitedLimit = errors.New("visited position limit reached")
)

// Options holds the limits a caller may set in one go.
type Options struct {
	TimeLimit  time.Duration
	DepthLimit int
	MaxVisited int
	// ProgressInterval installs a LogObserver when non-zero.
	ProgressInterval uint64
}

// Stats describes the work done by the last call to Solve.
type Stats struct {
	Expanded    uint64
	Generated   uint64
	Duplicates  uint64
	DepthPruned uint64
	Collisions  uint64
	Visited     int
	MaxDepth    int
	Duration    time.Duration
}

// node is a frontier entry. key is the zobrist key of board's layout.
type node struct {
	board *board.Board
	key   uint64
}

// Solver runs a depth-first search over layouts. Positions are never
// expanded twice within a call to Solve.
type Solver struct {
	zobrist *zobrist.Zobrist
	visited *visitedTable

	timeLimit  time.Duration
	depthLimit int
	maxVisited int
	observer   Observer

	stats   Stats
	solving atomic.Bool
}

// NewSolver returns a solver with the default limits.
func NewSolver() *Solver {
	s := &Solver{}
	s.Init()
	return s
}

// Init initializes the solver
func (s *Solver) Init() {
	s.zobrist = &zobrist.Zobrist{}
	s.zobrist.Initialize(board.LayoutSize)
	s.visited = newVisitedTable()
	s.timeLimit = DefaultTimeLimit
	s.depthLimit = DefaultDepthLimit
}

// NewSolverWithOptions returns a solver configured with o.
func NewSolverWithOptions(o Options) *Solver {
	s := NewSolver()
	s.Configure(o)
	return s
}

// Configure applies o. A zero TimeLimit or DepthLimit keeps the default;
// a zero ProgressInterval removes any observer.
func (s *Solver) Configure(o Options) {
	timeLimit, depthLimit := o.TimeLimit, o.DepthLimit
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	if depthLimit <= 0 {
		depthLimit = DefaultDepthLimit
	}
	s.SetTimeLimit(timeLimit)
	s.SetDepthLimit(depthLimit)
	s.SetMaxVisited(o.MaxVisited)
	if o.ProgressInterval > 0 {
		s.SetObserver(LogObserver{Interval: o.ProgressInterval})
	} else {
		s.SetObserver(nil)
	}
}

func (s *Solver) SetTimeLimit(d time.Duration) {
	s.timeLimit = d
}

// SetDepthLimit sets the longest move history a position may have and
// still be expanded. Negative values are treated as zero.
func (s *Solver) SetDepthLimit(n int) {
	s.depthLimit = max(n, 0)
}

// SetMaxVisited caps the number of distinct positions kept. Zero means no
// cap.
func (s *Solver) SetMaxVisited(n int) {
	s.maxVisited = max(n, 0)
}

func (s *Solver) SetObserver(o Observer) {
	s.observer = o
}

func (s *Solver) Stats() Stats {
	return s.stats
}

func (s *Solver) IsSolving() bool {
	return s.solving.Load()
}

// VisitedLimitFromMemory turns a fraction of system memory into a cap on
// retained positions.
func VisitedLimitFromMemory(fraction float64) int {
	if fraction <= 0 {
		return 0
	}
	total := memory.TotalMemory()
	if total == 0 {
		return 0
	}
	return int(fraction * float64(total) / float64(bytesPerPosition))
}

// Solve returns the moves that solve b, in order. b itself is not
// modified. A layout that is already solved yields no moves and no error.
func (s *Solver) Solve(ctx context.Context, b *board.Board) ([]move.Move, error) {
	s.solving.Store(true)
	defer s.solving.Store(false)

	s.stats = Stats{}
	tstart := time.Now()
	defer func() {
		s.stats.Duration = time.Since(tstart)
		s.stats.Visited = s.visited.len()
		s.stats.Collisions = s.visited.collisions
	}()

	log.Debug().
		Int("depth-limit", s.depthLimit).
		Float64("time-limit-sec", s.timeLimit.Seconds()).
		Int("max-visited", s.maxVisited).
		Msg("solve-config")

	if b.IsSolved() {
		return []move.Move{}, nil
	}

	s.visited.reset()
	root := b.Clone()
	rootLayout := root.Layout()
	rootKey := s.zobrist.Hash(rootLayout[:])
	s.visited.insert(rootKey, rootLayout)
	rootMoves := root.NumMoves()

	frontier := []node{{board: root, key: rootKey}}
	depthCut := false

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrTimeout
			}
			return nil, err
		}
		if time.Since(tstart) > s.timeLimit {
			log.Info().Uint64("expanded", s.stats.Expanded).Msg("solve-timed-out")
			return nil, ErrTimeout
		}

		top := frontier[len(frontier)-1]
		frontier[len(frontier)-1] = node{}
		frontier = frontier[:len(frontier)-1]
		parent := top.board

		depth := parent.NumMoves() - rootMoves
		if depth > s.depthLimit {
			depthCut = true
			s.stats.DepthPruned++
			continue
		}
		s.stats.Expanded++
		s.stats.MaxDepth = max(s.stats.MaxDepth, depth)
		if s.observer != nil {
			s.observer.NodeExpanded(Progress{
				Depth:    depth,
				Frontier: len(frontier),
				Visited:  s.visited.len(),
				Expanded: s.stats.Expanded,
				Elapsed:  time.Since(tstart),
			})
		}

		parentLayout := parent.Layout()
		for _, m := range movegen.Generate(parent) {
			child := parent.Clone()
			movegen.Play(child, m)
			s.stats.Generated++

			l := child.Layout()
			key := s.zobrist.Update(top.key, parentLayout[:], l[:])
			if !s.visited.insert(key, l) {
				s.stats.Duplicates++
				continue
			}
			if child.IsSolved() {
				moves := child.Moves()[rootMoves:]
				log.Info().
					Int("moves", len(moves)).
					Uint64("expanded", s.stats.Expanded).
					Int("visited", s.visited.len()).
					Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
					Msg("solve-found")
				return moves, nil
			}
			if s.maxVisited > 0 && s.visited.len() >= s.maxVisited {
				log.Info().Int("visited", s.visited.len()).Msg("solve-visited-limit")
				return nil, ErrVisitedLimit
			}
			frontier = append(frontier, node{board: child, key: key})
		}
	}

	log.Info().
		Uint64("expanded", s.stats.Expanded).
		Int("visited", s.visited.len()).
		Bool("depth-cut", depthCut).
		Msg("solve-exhausted")
	if depthCut {
		return nil, ErrDepthLimit
	}
	return nil, ErrNoSolution
}

// Solve is a convenience wrapper returning only the moves. An unsolvable
// layout, or one that could not be solved within the limits, yields an
// empty sequence.
func Solve(b *board.Board, timeLimit time.Duration, depthLimit int) []move.Move {
	s := NewSolver()
	s.SetTimeLimit(timeLimit)
	s.SetDepthLimit(depthLimit)
	moves, err := s.Solve(context.Background(), b)
	if err != nil {
		log.Debug().Err(err).Msg("solve-failed")
		return []move.Move{}
	}
	return moves
}
