package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/card"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/movegen"
	"github.com/exasolitaire/solitaire/notation"
	"github.com/exasolitaire/solitaire/puzzles"
	"github.com/exasolitaire/solitaire/solver"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) setBoard(b *board.Board, name string) {
	sc.board = b
	sc.puzzleName = name
	sc.solution = nil
	sc.lastStats = solver.Stats{}
}

func (sc *ShellController) boardText() string {
	return sc.board.ToDisplayText() + "\n" + notation.Serialize(sc.board)
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) newBoard(cmd *shellcmd) (*Response, error) {
	if sc.solving() {
		return nil, errSolving
	}
	sc.setBoard(board.NewGame(), "")
	return msg(sc.boardText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need a layout to load")
	}
	if sc.solving() {
		return nil, errSolving
	}
	parsed, err := notation.Parse(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	sc.setBoard(parsed.Board, parsed.Opcodes["id"])
	return msg(sc.boardText()), nil
}

func (sc *ShellController) open(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: open <collection.yaml> <puzzle-name>")
	}
	if sc.solving() {
		return nil, errSolving
	}
	c, err := puzzles.LoadCollection(sc.config, cmd.args[0])
	if err != nil {
		return nil, err
	}
	p, err := c.Find(cmd.args[1])
	if err != nil {
		return nil, err
	}
	b, err := p.Board()
	if err != nil {
		return nil, err
	}
	sc.setBoard(b, p.Name)
	out := sc.boardText()
	if p.Notes != "" {
		out += "\n" + p.Notes
	}
	return msg(out), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	return msg(sc.boardText()), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <col:row|fc> <card>")
	}
	if sc.solving() {
		return nil, errSolving
	}
	coord, err := move.ParseCoord(cmd.args[0])
	if err != nil {
		return nil, err
	}
	c, err := card.FromString(cmd.args[1])
	if err != nil {
		return nil, err
	}
	if err := sc.board.Set(coord, c); err != nil {
		return nil, err
	}
	sc.solution = nil
	return msg(sc.boardText()), nil
}

func (sc *ShellController) valid(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	switch {
	case sc.board.IsValidComposition():
		return msg("valid starting deck"), nil
	case sc.board.IsPlayableComposition():
		return msg("valid deck with collected markers"), nil
	}
	var sb strings.Builder
	sb.WriteString("invalid deck:")
	for c, n := range sc.board.CompositionDiff() {
		fmt.Fprintf(&sb, " %s%+d", c.Token(), n)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	moves := movegen.Generate(sc.board)
	if len(moves) == 0 {
		return msg("no legal moves"), nil
	}
	var sb strings.Builder
	for i, m := range moves {
		fmt.Fprintf(&sb, "%3d: %s\n", i+1, m)
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <from>'>'<to>")
	}
	if sc.solving() {
		return nil, errSolving
	}
	m, err := move.ParseMove(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if !movegen.IsLegal(sc.board, m) {
		return nil, fmt.Errorf("%w: %v", movegen.ErrIllegalMove, m)
	}
	movegen.Play(sc.board, m)
	sc.solution = nil
	return msg(sc.boardText()), nil
}

func (sc *ShellController) solverOptions(cmd *shellcmd) (solver.Options, error) {
	opts := sc.config.SolverOptions()
	maxtime, err := cmd.options.IntDefault("maxtime", int(opts.TimeLimit/time.Second))
	if err != nil {
		return opts, err
	}
	depth, err := cmd.options.IntDefault("depth", opts.DepthLimit)
	if err != nil {
		return opts, err
	}
	opts.TimeLimit = time.Duration(maxtime) * time.Second
	opts.DepthLimit = depth
	return opts, nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if sc.solving() {
		return nil, errSolving
	}
	if !sc.board.IsPlayableComposition() {
		return nil, board.ErrInvalidComposition
	}
	opts, err := sc.solverOptions(cmd)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()

	if moves, ok := sc.storeLookup(ctx, sc.board); ok {
		sc.solution = moves
		return msg(fmt.Sprintf("Solution (from store, %d moves): %s",
			len(moves), move.FormatMoves(moves))), nil
	}

	sc.solver.Configure(opts)
	moves, err := sc.solver.Solve(ctx, sc.board)
	sc.lastStats = sc.solver.Stats()
	if err != nil {
		return nil, err
	}
	sc.solution = moves
	if sc.store != nil {
		if err := sc.store.Put(ctx, sc.board, moves, sc.lastStats.Expanded); err != nil {
			log.Err(err).Msg("store-put-failed")
		}
	}
	return msg(fmt.Sprintf("Solution (%d moves, %d positions, %.2fs): %s",
		len(moves), sc.lastStats.Expanded, sc.lastStats.Duration.Seconds(),
		move.FormatMoves(moves))), nil
}

func (sc *ShellController) replay(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoBoard
	}
	if sc.solution == nil {
		return nil, errors.New("nothing to replay; run `solve` first")
	}
	boards, err := movegen.Replay(sc.board, sc.solution)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return msg("already solved"), nil
	}
	step := len(boards)
	if cmd.args != nil {
		step, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		if step < 1 || step > len(boards) {
			return nil, fmt.Errorf("step must be between 1 and %d", len(boards))
		}
	}
	return msg(fmt.Sprintf("After move %d (%s):\n%s", step, sc.solution[step-1],
		boards[step-1].ToDisplayText())), nil
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("please provide a filename to save to")
	}
	if sc.board == nil {
		return nil, errNoBoard
	}
	if sc.solution == nil {
		return nil, errors.New("nothing to export; run `solve` first")
	}
	filename := cmd.args[0]
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := sc.puzzleName
	if name == "" {
		name = "untitled"
	}
	if err := puzzles.WriteSolution(f, name, sc.board, sc.solution, sc.lastStats); err != nil {
		return nil, err
	}
	return msg("solution written to " + filename), nil
}
