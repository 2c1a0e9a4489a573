// Package monitor re-probes a fixed address set on an interval,
// tracking a bounded reachability history per host.
package monitor

import (
	"context"
	"sort"
	"time"

	"github.com/projectdiscovery/pingx/pkg/probe"
	"github.com/projectdiscovery/pingx/pkg/scan"
)

// uptimeReportEvery controls how often the rolling uptime table is
// emitted, in cycles.
const uptimeReportEvery = 10

// Reporter receives monitoring progress; rendering lives with the
// caller.
type Reporter interface {
	// CycleStart is invoked at the top of every cycle.
	CycleStart(cycle int, start time.Time, total int)
	// HostResult is invoked after each sequential probe within a
	// cycle, before the next host is probed.
	HostResult(index, total int, result probe.Result)
	// CycleSummary is invoked once per completed cycle.
	CycleSummary(cycle int, start time.Time, summary *scan.Summary)
	// Uptime is invoked every tenth cycle with rolling per-host
	// uptime.
	Uptime(stats []HostStats)
	// Waiting is invoked before the inter-cycle sleep.
	Waiting(cycle int, interval time.Duration)
}

// HostStats is the per-host view of a history window.
type HostStats struct {
	Address   string
	Successes int
	Total     int
	Uptime    float64
}

// Monitor drives round-robin reachability checks until cancelled.
//
// Hosts within a cycle are probed sequentially: each host is probed
// and reported before the next one starts. That trades throughput for
// live per-host progress and keeps the history map single-writer, so
// it carries no lock.
type Monitor struct {
	prober    probe.Prober
	reporter  Reporter
	addresses []string
	interval  time.Duration

	checkCount int
	history    map[string]*Window
}

// New returns a monitor probing addresses every interval. Every
// address gets exactly one history window, shared by duplicates.
func New(prober probe.Prober, reporter Reporter, addresses []string, interval time.Duration) *Monitor {
	if reporter == nil {
		reporter = nopReporter{}
	}
	history := make(map[string]*Window, len(addresses))
	for _, address := range addresses {
		if _, ok := history[address]; !ok {
			history[address] = &Window{}
		}
	}
	return &Monitor{
		prober:    prober,
		reporter:  reporter,
		addresses: addresses,
		interval:  interval,
		history:   history,
	}
}

// Run executes check cycles until ctx is cancelled, then returns the
// final per-host statistics accumulated up to that point. Cycles are
// strictly sequential; the inter-cycle sleep reacts to cancellation
// immediately.
func (m *Monitor) Run(ctx context.Context) []HostStats {
	for {
		m.runCycle(ctx)
		if ctx.Err() != nil {
			return m.Stats()
		}

		m.reporter.Waiting(m.checkCount, m.interval)

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return m.Stats()
		case <-timer.C:
		}
	}
}

func (m *Monitor) runCycle(ctx context.Context) {
	m.checkCount++
	start := time.Now()
	m.reporter.CycleStart(m.checkCount, start, len(m.addresses))

	results := make([]probe.Result, 0, len(m.addresses))
	for i, address := range m.addresses {
		if ctx.Err() != nil {
			return
		}
		result := m.prober.Probe(ctx, address)
		results = append(results, result)
		m.reporter.HostResult(i+1, len(m.addresses), result)
		m.history[address].Append(result.Reachable)
	}

	summary, err := scan.Summarize(results)
	if err != nil {
		return
	}
	m.reporter.CycleSummary(m.checkCount, start, summary)

	if m.checkCount%uptimeReportEvery == 0 {
		m.reporter.Uptime(m.Stats())
	}
}

// Stats snapshots every host's history window, sorted by address.
func (m *Monitor) Stats() []HostStats {
	stats := make([]HostStats, 0, len(m.history))
	for address, window := range m.history {
		stats = append(stats, HostStats{
			Address:   address,
			Successes: window.Successes(),
			Total:     window.Len(),
			Uptime:    window.Uptime(),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Address < stats[j].Address
	})
	return stats
}

// CheckCount returns how many cycles have started.
func (m *Monitor) CheckCount() int {
	return m.checkCount
}

type nopReporter struct{}

func (nopReporter) CycleStart(int, time.Time, int)             {}
func (nopReporter) HostResult(int, int, probe.Result)          {}
func (nopReporter) CycleSummary(int, time.Time, *scan.Summary) {}
func (nopReporter) Uptime([]HostStats)                         {}
func (nopReporter) Waiting(int, time.Duration)                 {}
