package solver

import (
	"github.com/exasolitaire/solitaire/board"
)

// visitedTable is the set of positions already produced during a search.
// It is keyed by zobrist hash; the full layout is kept so that two
// positions sharing a key are still told apart.
type visitedTable struct {
	table    map[uint64]board.Layout
	overflow map[uint64][]board.Layout
	size     int

	lookups uint64
	hits    uint64
	// collisions counts distinct layouts that landed on an occupied key.
	collisions uint64
}

func newVisitedTable() *visitedTable {
	t := &visitedTable{}
	t.reset()
	return t
}

func (t *visitedTable) reset() {
	t.table = make(map[uint64]board.Layout)
	t.overflow = make(map[uint64][]board.Layout)
	t.size = 0
	t.lookups = 0
	t.hits = 0
	t.collisions = 0
}

// insert adds l under key. It returns false if l was already present.
func (t *visitedTable) insert(key uint64, l board.Layout) bool {
	t.lookups++
	existing, ok := t.table[key]
	if !ok {
		t.table[key] = l
		t.size++
		return true
	}
	if existing == l {
		t.hits++
		return false
	}
	for _, o := range t.overflow[key] {
		if o == l {
			t.hits++
			return false
		}
	}
	t.collisions++
	t.overflow[key] = append(t.overflow[key], l)
	t.size++
	return true
}

func (t *visitedTable) len() int {
	return t.size
}
