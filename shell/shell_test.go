package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/puzzles"
)

const oneMove = "HTSTHTSTXXXXS6/S9H9S9H95/H8S8H8S85/S7H7S7H75/H6S6H66 -"

func testController() *ShellController {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigVisitedMemoryFraction, 0)
	cfg.Set(config.ConfigProgressInterval, 0)
	sc := newController(cfg, ".", "test")
	sc.out = &strings.Builder{}
	return sc
}

func run(t *testing.T, sc *ShellController, line string) (*Response, error) {
	t.Helper()
	sig := make(chan os.Signal, 1)
	return sc.standardModeSwitch(line, sig)
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"solve -maxtime 30",
			&shellcmd{"solve", nil, CmdOptions{"maxtime": {"30"}}},
			nil},
		{"replay 3",
			&shellcmd{"replay", []string{"3"}, CmdOptions{}},
			nil},
		{"load HT8/9 - id 'my deal'",
			&shellcmd{"load", []string{"HT8/9", "-", "id", "my deal"}, CmdOptions{}},
			nil},
		{"set 1:1 -1", &shellcmd{"set", []string{"1:1", "-1"}, CmdOptions{}}, nil},
		{"solve -depth", nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func TestNoBoard(t *testing.T) {
	is := is.New(t)
	sc := testController()
	for _, line := range []string{"show", "solve", "gen", "valid", "replay", "set 1:1 HT"} {
		_, err := run(t, sc, line)
		is.Equal(err, errNoBoard)
	}
}

func TestLoadSolveReplay(t *testing.T) {
	is := is.New(t)
	sc := testController()

	_, err := run(t, sc, "load "+oneMove)
	is.NoErr(err)

	resp, err := run(t, sc, "valid")
	is.NoErr(err)
	is.Equal(resp.message, "valid deck with collected markers")

	resp, err = run(t, sc, "solve -maxtime 10")
	is.NoErr(err)
	is.True(strings.HasSuffix(resp.message, "9:1>4:5"))

	resp, err = run(t, sc, "replay")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "After move 1 (9:1>4:5)"))

	_, err = run(t, sc, "replay 2")
	is.True(err != nil)
}

func TestSetAndPlay(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := run(t, sc, "new")
	is.NoErr(err)

	_, err = run(t, sc, "set 1:1 HT")
	is.NoErr(err)
	_, err = run(t, sc, "set fc S9")
	is.NoErr(err)
	_, err = run(t, sc, "set 10:1 S9")
	is.True(err != nil)
	_, err = run(t, sc, "set 1:2 QQ")
	is.True(err != nil)

	resp, err := run(t, sc, "show")
	is.NoErr(err)
	is.True(strings.HasSuffix(resp.message, "HT8 S9"))

	_, err = run(t, sc, "play fc>1:2")
	is.NoErr(err)
	_, err = run(t, sc, "play 1:1>fc")
	is.True(err != nil)

	resp, err = run(t, sc, "valid")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "invalid deck:"))

	_, err = run(t, sc, "solve")
	is.True(err != nil)
}

func TestGenerate(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := run(t, sc, "load HT8 -")
	is.NoErr(err)
	resp, err := run(t, sc, "gen")
	is.NoErr(err)
	// the free cell and the top of the eight empty columns
	is.Equal(len(strings.Split(resp.message, "\n")), 9)

	_, err = run(t, sc, "new")
	is.NoErr(err)
	resp, err = run(t, sc, "gen")
	is.NoErr(err)
	is.Equal(resp.message, "no legal moves")
}

func TestOpenAndExport(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	coll := filepath.Join(dir, "set.yaml")
	is.NoErr(os.WriteFile(coll, []byte("puzzles:\n  - name: last-six\n    layout: "+oneMove+"\n    notes: easy\n"), 0o644))

	sc := testController()
	resp, err := run(t, sc, "open "+coll+" last-six")
	is.NoErr(err)
	is.True(strings.HasSuffix(resp.message, "easy"))

	_, err = run(t, sc, "open "+coll+" nope")
	is.True(err != nil)

	out := filepath.Join(dir, "solution.yaml")
	_, err = run(t, sc, "export "+out)
	is.True(err != nil)

	_, err = run(t, sc, "solve")
	is.NoErr(err)
	_, err = run(t, sc, "export "+out)
	is.NoErr(err)

	data, err := os.ReadFile(out)
	is.NoErr(err)
	var rec puzzles.SolutionRecord
	is.NoErr(yaml.Unmarshal(data, &rec))
	is.Equal(rec.Name, "last-six")
	is.Equal(rec.Moves, []string{"9:1>4:5"})
}

func TestScript(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	result := filepath.Join(dir, "result.txt")
	script := filepath.Join(dir, "solve.lua")
	is.NoErr(os.WriteFile(script, []byte(`
solitaire_load("`+oneMove+`")
local r = solitaire_solve("-depth 5")
local bad = solitaire_set("99:1", "HT")
local json = require("json")
local f = io.open("`+result+`", "w")
f:write(r .. "\n" .. bad .. "\n" .. json.encode({solved = true}))
f:close()
`), 0o644))

	sc := testController()
	_, err := run(t, sc, "script "+script)
	is.NoErr(err)

	data, err := os.ReadFile(result)
	is.NoErr(err)
	lines := strings.Split(string(data), "\n")
	is.True(strings.HasSuffix(lines[0], "9:1>4:5"))
	is.True(strings.HasPrefix(lines[1], "ERROR:"))
	is.Equal(lines[2], `{"solved":true}`)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := testController()
	resp, err := run(t, sc, "help")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "solve"))
	resp, err = run(t, sc, "help solve")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "-maxtime"))
	_, err = run(t, sc, "help nothing")
	is.True(err != nil)
}

func TestExit(t *testing.T) {
	is := is.New(t)
	sc := testController()
	sig := make(chan os.Signal, 1)
	_, err := sc.standardModeSwitch("exit", sig)
	is.Equal(err, errQuit)
	is.Equal(len(sig), 1)
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter()
	matches, n := c.Do([]rune("sol"), 3)
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("ve")})

	matches, n = c.Do([]rune("solve -m"), 8)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("axtime")})
}

func TestSolveZeroLimitsUseDefaults(t *testing.T) {
	is := is.New(t)
	sc := testController()
	_, err := run(t, sc, "load "+oneMove)
	is.NoErr(err)
	resp, err := run(t, sc, "solve -maxtime 0 -depth 0")
	is.NoErr(err)
	is.True(strings.HasSuffix(resp.message, "9:1>4:5"))
}
