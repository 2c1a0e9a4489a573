package scan

import (
	"errors"
	"sort"

	"github.com/projectdiscovery/pingx/pkg/probe"
)

// ErrNoResults is returned when a summary is requested for an empty
// result set.
var ErrNoResults = errors.New("no results to summarize")

// Summary aggregates one scan pass.
type Summary struct {
	// Results holds the pass results sorted by address, ascending
	// lexicographic on the textual form.
	Results     []probe.Result
	Alive       int
	Dead        int
	Total       int
	SuccessRate float64
}

// Summarize sorts results by address and computes alive/dead counts
// and the success rate. An empty result set is rejected: there is no
// meaningful rate for zero probes. The input slice is not modified.
func Summarize(results []probe.Result) (*Summary, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	sorted := make([]probe.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Address < sorted[j].Address
	})

	summary := &Summary{Results: sorted, Total: len(sorted)}
	for _, result := range sorted {
		if result.Reachable {
			summary.Alive++
		}
	}
	summary.Dead = summary.Total - summary.Alive
	summary.SuccessRate = float64(summary.Alive) / float64(summary.Total) * 100
	return summary, nil
}
