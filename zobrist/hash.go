package zobrist

import (
	"lukechampine.com/frand"

	"github.com/exasolitaire/solitaire/card"
)

const bignum = 1<<63 - 2

// There are six suits (including sentinels) and ranks fit below 16.
const (
	numSuits = 6
	numRanks = 16
	// MaxCards is the number of distinct card values a position table holds.
	MaxCards = numSuits * numRanks
)

// seed makes tables identical across runs, so hashes can be logged and
// compared between processes.
var seed = [32]byte{
	's', 'o', 'l', 'i', 't', 'a', 'i', 'r', 'e', '-', 'z', 'o', 'b', 'r', 'i', 's',
	't', '-', 't', 'a', 'b', 'l', 'e', 's', '-', 'v', '1', 0, 0, 0, 0, 0,
}

// generate a zobrist hash for a tableau position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
// Empty cells contribute nothing, so the key only depends on the set of
// occupied (cell, card) pairs and not on how the position was reached.
type Zobrist struct {
	posTable [][MaxCards]uint64
	numCells int
}

func cardIndex(c card.Card) int {
	return int(c.Suit())*numRanks + int(c.Rank())
}

// Initialize builds tables for a layout of numCells cells.
func (z *Zobrist) Initialize(numCells int) {
	rng := frand.NewCustom(seed[:], 1024, 12)
	z.numCells = numCells
	z.posTable = make([][MaxCards]uint64, numCells)
	for i := 0; i < numCells; i++ {
		for j := 0; j < MaxCards; j++ {
			z.posTable[i][j] = rng.Uint64n(bignum) + 1
		}
	}
}

// Hash computes the key of a full layout.
func (z *Zobrist) Hash(squares []card.Card) uint64 {
	key := uint64(0)
	for i, c := range squares {
		if c.IsEmpty() {
			continue
		}
		key ^= z.posTable[i][cardIndex(c)]
	}
	return key
}

// Toggle adds c at cell idx to key, or removes it if it was there. Empty
// cards are a no-op.
func (z *Zobrist) Toggle(key uint64, idx int, c card.Card) uint64 {
	if c.IsEmpty() {
		return key
	}
	return key ^ z.posTable[idx][cardIndex(c)]
}

// Replace updates key for cell idx changing from prev to next.
func (z *Zobrist) Replace(key uint64, idx int, prev, next card.Card) uint64 {
	return z.Toggle(z.Toggle(key, idx, prev), idx, next)
}

// Update turns key, the hash of prev, into the hash of next. Only cells
// that differ are touched, so a move costs a few table lookups.
func (z *Zobrist) Update(key uint64, prev, next []card.Card) uint64 {
	for i := range prev {
		if prev[i] != next[i] {
			key = z.Replace(key, i, prev[i], next[i])
		}
	}
	return key
}
