package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/solver"
	"github.com/exasolitaire/solitaire/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("no board; use `new`, `load` or `open` first")
	errSolving           = errors.New("already solving; please wait")
	errQuit              = errors.New("sending quit signal")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	execPath   string
	gitVersion string

	board      *board.Board
	puzzleName string
	solution   []move.Move
	lastStats  solver.Stats

	solver *solver.Solver
	store  *store.Store
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	prompt := "solitaire"
	if os.Getenv("SOLITAIRE_DISABLE_COLOR") != "on" {
		prompt = "\033[31m" + prompt + "\033[0m"
	}
	sc := newController(cfg, execPath, gitVersion)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt + "> ",
		HistoryFile:     "/tmp/solitaire_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()

	if path := cfg.GetString(config.ConfigStorePath); path != "" {
		st, err := store.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("could-not-open-solution-store")
		} else {
			sc.store = st
		}
	}
	return sc
}

// newController builds a controller without a terminal or store.
func newController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	return &ShellController{
		out:        os.Stderr,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		solver:     solver.NewSolver(),
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) solving() bool {
	return sc.solver != nil && sc.solver.IsSolving()
}

// extractFields splits a line into a command, its positional arguments and
// its -name value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 && !isNumber(fields[i]) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			name := fields[i][1:]
			options[name] = append(options[name], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumber(s string) bool {
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newBoard(cmd)
	case "load":
		return sc.load(cmd)
	case "open":
		return sc.open(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "set":
		return sc.set(cmd)
	case "valid":
		return sc.valid(cmd)
	case "gen":
		return sc.generate(cmd)
	case "play":
		return sc.play(cmd)
	case "solve":
		return sc.solve(cmd)
	case "replay":
		return sc.replay(cmd)
	case "export":
		return sc.export(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Info().Msgf("command %v not found", cmd.cmd)
		return nil, fmt.Errorf("command %v not found", cmd.cmd)
	}
}

// Execute runs a single command line, such as one given on the command
// line instead of the interactive loop.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if errors.Is(err, errQuit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup releases the store and anything else the shell opened.
func (sc *ShellController) Cleanup() {
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-store")
		}
	}
}

func (sc *ShellController) storeLookup(ctx context.Context, b *board.Board) ([]move.Move, bool) {
	if sc.store == nil {
		return nil, false
	}
	sol, err := sc.store.Get(ctx, b)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Msg("store-lookup-failed")
		}
		return nil, false
	}
	return sol.Moves, true
}
