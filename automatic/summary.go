package automatic

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/exasolitaire/solitaire/stats"
)

const histogramBins = 10

// Summary aggregates the results of a batch. Times cover freshly solved
// puzzles only; cached answers took no search.
type Summary struct {
	Total  int
	Solved int
	Cached int
	Failed int

	MeanSeconds   float64
	StdevSeconds  float64
	MedianSeconds float64
	// half-width of the 95% confidence interval on MeanSeconds
	Interval95   float64
	MeanExpanded float64
	Failures     map[string]string

	times []float64
}

func Summarize(results []Result) Summary {
	sum := Summary{Total: len(results), Failures: map[string]string{}}
	expanded := &stats.Statistic{}
	for _, r := range results {
		switch {
		case r.Err != nil:
			sum.Failed++
			sum.Failures[r.Name] = r.Err.Error()
		case r.Cached:
			sum.Solved++
			sum.Cached++
		default:
			sum.Solved++
			sum.times = append(sum.times, r.Stats.Duration.Seconds())
			expanded.Push(float64(r.Stats.Expanded))
		}
	}
	if len(sum.times) == 0 {
		return sum
	}
	sum.MeanSeconds, sum.StdevSeconds = stat.MeanStdDev(sum.times, nil)
	if len(sum.times) == 1 {
		sum.StdevSeconds = 0
	}
	sorted := slices.Clone(sum.times)
	slices.Sort(sorted)
	sum.MedianSeconds = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	sum.MeanExpanded = expanded.Mean()

	timeStat := &stats.Statistic{}
	for _, t := range sum.times {
		timeStat.Push(t)
	}
	sum.Interval95 = timeStat.Interval(95)
	return sum
}

func (s Summary) String() string {
	var sb strings.Builder
	p := message.NewPrinter(language.English)
	fmt.Fprintf(&sb, "Puzzles: %d  Solved: %d (cached %d)  Failed: %d\n",
		s.Total, s.Solved, s.Cached, s.Failed)
	if len(s.times) > 0 {
		fmt.Fprintf(&sb, "Solve time: mean %.3fs ± %.3fs (95%%), stdev %.3fs, median %.3fs\n",
			s.MeanSeconds, s.Interval95, s.StdevSeconds, s.MedianSeconds)
		p.Fprintf(&sb, "Positions expanded: mean %.0f\n", s.MeanExpanded)
	}
	names := lo.Keys(s.Failures)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %s\n", name, s.Failures[name])
	}
	return sb.String()
}

// WriteHistogram draws solve times as a text histogram. It writes nothing
// if no puzzle was searched.
func (s Summary) WriteHistogram(w io.Writer) error {
	if len(s.times) == 0 {
		return nil
	}
	h := histogram.Hist(histogramBins, s.times)
	return histogram.Fprint(w, h, histogram.Linear(40))
}
