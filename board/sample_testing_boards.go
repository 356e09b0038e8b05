package board

// This file contains some sample layouts, used mostly for testing.

import (
	"fmt"
	"strings"

	"github.com/exasolitaire/solitaire/card"
)

// SampleLayout lists columns one per line, top card first. A line starting
// with "fc:" holds the free cell. "." keeps a gap in a column.
type SampleLayout string

const (
	// FourMovesFromSolved is a full deck where the last column holds one
	// marker of every suit; dealing them onto their stacks in order
	// collects all four sets.
	FourMovesFromSolved SampleLayout = `
HT S9 H8 S7 H6
ST H9 S8 H7 S6
HT S9 H8 S7 H6
ST H9 S8 H7 S6
CM CM CM
SM SM SM
HM HM HM
DM DM DM
CM SM HM DM
`
	// Solved has four collected stacks and four finished chains.
	Solved SampleLayout = `
HT S9 H8 S7 H6
ST H9 S8 H7 S6
HT S9 H8 S7 H6
ST H9 S8 H7 S6
X
X
X
X
`
	// OneMoveFromSolved needs the six in column 9 dropped onto column 4.
	OneMoveFromSolved SampleLayout = `
HT S9 H8 S7 H6
ST H9 S8 H7 S6
HT S9 H8 S7 H6
ST H9 S8 H7
X
X
X
X
S6
`
	// Opening is a full deal of the standard deck, four cards per column.
	Opening SampleLayout = `
HM S8 DM H7
S6 CM HT SM
H9 DM S7 CM
SM HM S9 H6
CM ST H8 DM
HT S6 HM SM
DM H9 S8 CM
H7 SM ST HM
S7 H8 S9 H6
`
)

// FromSample parses a SampleLayout.
func FromSample(s SampleLayout) (*Board, error) {
	var cols [][]card.Card
	free := card.EmptyCard
	for _, line := range strings.Split(string(s), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "fc:"); ok {
			c, err := card.FromString(rest)
			if err != nil {
				return nil, err
			}
			free = c
			continue
		}
		var col []card.Card
		for _, tok := range strings.Fields(line) {
			c, err := card.FromString(tok)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", len(cols)+1, err)
			}
			col = append(col, c)
		}
		cols = append(cols, col)
	}
	return FromColumns(cols, free)
}
