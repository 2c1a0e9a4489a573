package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdiscovery/pingx/pkg/probe"
	"github.com/projectdiscovery/pingx/pkg/scan"
)

// recordingReporter counts reporter callbacks and can cancel the
// monitor after a fixed number of completed cycles.
type recordingReporter struct {
	cancel       context.CancelFunc
	stopAfter    int
	cancelInWait bool

	cycleStarts   int
	hostResults   int
	cycleSummarys int
	uptimeCalls   int
	waitingCalls  int
	lastSummary   *scan.Summary
}

func (r *recordingReporter) CycleStart(int, time.Time, int) { r.cycleStarts++ }

func (r *recordingReporter) HostResult(int, int, probe.Result) { r.hostResults++ }

func (r *recordingReporter) CycleSummary(cycle int, _ time.Time, summary *scan.Summary) {
	r.cycleSummarys++
	r.lastSummary = summary
	if !r.cancelInWait && r.stopAfter > 0 && cycle >= r.stopAfter {
		r.cancel()
	}
}

func (r *recordingReporter) Uptime([]HostStats) { r.uptimeCalls++ }

func (r *recordingReporter) Waiting(cycle int, _ time.Duration) {
	r.waitingCalls++
	if r.cancelInWait && r.stopAfter > 0 && cycle >= r.stopAfter {
		r.cancel()
	}
}

func TestMonitorRunsCyclesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &recordingReporter{cancel: cancel, stopAfter: 3}

	mon := New(aliveProber(), reporter, []string{"10.0.0.1", "10.0.0.2"}, time.Millisecond)
	stats := mon.Run(ctx)

	assert.Equal(t, 3, reporter.cycleStarts)
	assert.Equal(t, 6, reporter.hostResults)
	assert.Equal(t, 3, mon.CheckCount())

	require.Len(t, stats, 2)
	for _, stat := range stats {
		assert.Equal(t, 3, stat.Total)
		assert.Equal(t, 3, stat.Successes)
		assert.InDelta(t, 100.0, stat.Uptime, 0.001)
	}
}

func TestMonitorHistoryWindowHoldsLastTenCycles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &recordingReporter{cancel: cancel, stopAfter: 15}

	// Fail the first five cycles, succeed afterwards; after 15 cycles
	// only the successes of cycles 6-15 may remain in the window.
	cycle := 0
	prober := probe.ProberFunc(func(_ context.Context, address string) probe.Result {
		cycle++
		if cycle <= 5 {
			return probe.Result{Address: address, Detail: probe.DetailUnreachable}
		}
		return probe.Result{Address: address, Reachable: true, Detail: probe.DetailAlive}
	})

	mon := New(prober, reporter, []string{"10.0.0.1"}, time.Millisecond)
	stats := mon.Run(ctx)

	require.Len(t, stats, 1)
	assert.Equal(t, 10, stats[0].Total)
	assert.Equal(t, 10, stats[0].Successes)
	assert.InDelta(t, 100.0, stats[0].Uptime, 0.001)
}

func TestMonitorEmitsUptimeEveryTenthCycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &recordingReporter{cancel: cancel, stopAfter: 20}

	mon := New(aliveProber(), reporter, []string{"10.0.0.1"}, time.Millisecond)
	mon.Run(ctx)

	assert.Equal(t, 20, reporter.cycleSummarys)
	assert.Equal(t, 2, reporter.uptimeCalls)
}

func TestMonitorCancelDuringSleepReportsAllHosts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &recordingReporter{cancel: cancel, stopAfter: 1, cancelInWait: true}

	addresses := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	mon := New(aliveProber(), reporter, addresses, time.Hour)
	stats := mon.Run(ctx)

	require.Len(t, stats, len(addresses))
	for i, stat := range stats {
		assert.Equal(t, addresses[i], stat.Address)
		assert.Equal(t, 1, stat.Total)
	}
}

func TestMonitorCancelBeforeFirstCycleStillReportsHosts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mon := New(aliveProber(), nil, []string{"10.0.0.1", "10.0.0.2"}, time.Millisecond)
	stats := mon.Run(ctx)

	require.Len(t, stats, 2)
	for _, stat := range stats {
		assert.Zero(t, stat.Total)
		assert.Zero(t, stat.Uptime)
	}
}

func TestMonitorProbesSequentially(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &recordingReporter{cancel: cancel, stopAfter: 2}

	inFlight := 0
	prober := probe.ProberFunc(func(_ context.Context, address string) probe.Result {
		inFlight++
		assert.Equal(t, 1, inFlight)
		time.Sleep(time.Millisecond)
		inFlight--
		return probe.Result{Address: address, Reachable: true, Detail: probe.DetailAlive}
	})

	mon := New(prober, reporter, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, time.Millisecond)
	mon.Run(ctx)
}

func TestMonitorSummaryUsesCycleResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := &recordingReporter{cancel: cancel, stopAfter: 1}

	prober := probe.ProberFunc(func(_ context.Context, address string) probe.Result {
		reachable := address == "10.0.0.1"
		detail := probe.DetailUnreachable
		if reachable {
			detail = probe.DetailAlive
		}
		return probe.Result{Address: address, Reachable: reachable, Detail: detail}
	})

	mon := New(prober, reporter, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"}, time.Millisecond)
	mon.Run(ctx)

	require.NotNil(t, reporter.lastSummary)
	assert.Equal(t, 1, reporter.lastSummary.Alive)
	assert.Equal(t, 4, reporter.lastSummary.Total)
	assert.InDelta(t, 25.0, reporter.lastSummary.SuccessRate, 0.001)
}

func aliveProber() probe.Prober {
	return probe.ProberFunc(func(_ context.Context, address string) probe.Result {
		return probe.Result{Address: address, Reachable: true, Detail: probe.DetailAlive}
	})
}
