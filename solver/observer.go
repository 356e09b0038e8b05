package solver

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Progress is a snapshot handed to an Observer after each expansion.
type Progress struct {
	Depth    int
	Frontier int
	Visited  int
	Expanded uint64
	Elapsed  time.Duration
}

// An Observer is told about every expanded position. It must not keep the
// solver waiting; it has no way to influence the search.
type Observer interface {
	NodeExpanded(p Progress)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p Progress)

func (f ObserverFunc) NodeExpanded(p Progress) { f(p) }

// LogObserver logs a progress line every Interval expansions.
type LogObserver struct {
	Interval uint64
}

func (o LogObserver) NodeExpanded(p Progress) {
	if o.Interval == 0 || p.Expanded%o.Interval != 0 {
		return
	}
	log.Debug().
		Int("depth", p.Depth).
		Int("visited", p.Visited).
		Int("frontier", p.Frontier).
		Uint64("expanded", p.Expanded).
		Float64("elapsed-sec", p.Elapsed.Seconds()).
		Msg("solve-progress")
}
