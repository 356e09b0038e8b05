// Package puzzles reads named layouts from YAML collections and writes
// solutions back out as YAML.
package puzzles

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/exasolitaire/solitaire/board"
	"github.com/exasolitaire/solitaire/cache"
	"github.com/exasolitaire/solitaire/config"
	"github.com/exasolitaire/solitaire/move"
	"github.com/exasolitaire/solitaire/notation"
	"github.com/exasolitaire/solitaire/solver"
)

var ErrPuzzleNotFound = errors.New("puzzle not found")

type Puzzle struct {
	Name   string `yaml:"name"`
	Layout string `yaml:"layout"`
	Notes  string `yaml:"notes,omitempty"`
}

// Board parses the puzzle's layout.
func (p *Puzzle) Board() (*board.Board, error) {
	parsed, err := notation.Parse(p.Layout)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", p.Name, err)
	}
	return parsed.Board, nil
}

type Collection struct {
	Puzzles []Puzzle `yaml:"puzzles"`
}

// ReadCollection decodes a collection and checks that every layout parses.
func ReadCollection(r io.Reader) (*Collection, error) {
	c := &Collection{}
	if err := yaml.NewDecoder(r).Decode(c); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for i := range c.Puzzles {
		p := &c.Puzzles[i]
		if p.Name == "" {
			return nil, fmt.Errorf("puzzle %d has no name", i+1)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate puzzle name %s", p.Name)
		}
		seen[p.Name] = true
		if _, err := p.Board(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func collectionPath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(cfg.GetString(config.ConfigDataPath), "puzzles", path)
}

func loadCollection(cfg *config.Config, key string) (any, error) {
	f, err := os.Open(key)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCollection(f)
}

// LoadCollection reads the collection at path through the object cache. A
// relative path that does not exist is looked up in the puzzles directory
// under the data path.
func LoadCollection(cfg *config.Config, path string) (*Collection, error) {
	obj, err := cache.Load(cfg, collectionPath(cfg, path), loadCollection)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Collection)
	if !ok {
		return nil, fmt.Errorf("cache holds %T for %s", obj, path)
	}
	return c, nil
}

func (c *Collection) Find(name string) (*Puzzle, error) {
	for i := range c.Puzzles {
		if c.Puzzles[i].Name == name {
			return &c.Puzzles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPuzzleNotFound, name)
}

// SolutionRecord is the exported form of one solve.
type SolutionRecord struct {
	Name     string   `yaml:"name"`
	Layout   string   `yaml:"layout"`
	Solved   bool     `yaml:"solved"`
	Moves    []string `yaml:"moves"`
	Error    string   `yaml:"error,omitempty"`
	Expanded uint64   `yaml:"expanded"`
	Visited  int      `yaml:"visited"`
	MaxDepth int      `yaml:"max_depth"`
	Seconds  float64  `yaml:"seconds"`
}

// NewSolutionRecord builds a record for b. A nil err with no moves means b
// was already solved.
func NewSolutionRecord(name string, b *board.Board, moves []move.Move, st solver.Stats, err error) SolutionRecord {
	rec := SolutionRecord{
		Name:     name,
		Layout:   notation.Serialize(b),
		Solved:   err == nil,
		Moves:    make([]string, 0, len(moves)),
		Expanded: st.Expanded,
		Visited:  st.Visited,
		MaxDepth: st.MaxDepth,
		Seconds:  st.Duration.Seconds(),
	}
	for _, m := range moves {
		rec.Moves = append(rec.Moves, m.String())
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// WriteSolution writes a single solved layout as YAML.
func WriteSolution(w io.Writer, name string, b *board.Board, moves []move.Move, st solver.Stats) error {
	return writeYAML(w, NewSolutionRecord(name, b, moves, st, nil))
}

// WriteReport writes a list of records as YAML.
func WriteReport(w io.Writer, records []SolutionRecord) error {
	return writeYAML(w, struct {
		Solutions []SolutionRecord `yaml:"solutions"`
	}{records})
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
