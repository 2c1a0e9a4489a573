package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
	"github.com/rs/xid"

	"github.com/projectdiscovery/pingx/pkg/expand"
	"github.com/projectdiscovery/pingx/pkg/monitor"
	"github.com/projectdiscovery/pingx/pkg/probe"
	"github.com/projectdiscovery/pingx/pkg/scan"
)

// Runner contains the internal logic of the program
type Runner struct {
	options   *Options
	addresses []string
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	specs := append([]string{}, options.Targets...)
	if options.TargetFile != "" {
		fileSpecs, err := readTargetFile(options.TargetFile)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("could not read target list %s", options.TargetFile)
		}
		specs = append(specs, fileSpecs...)
	}

	addresses, errs := expand.Targets(specs)
	for _, err := range errs {
		gologger.Warning().Msgf("skipping target: %s", err)
	}
	if len(addresses) == 0 {
		return nil, errorutil.New("no valid targets to check")
	}

	return &Runner{options: options, addresses: addresses}, nil
}

// Run the instance
func (r *Runner) Run(ctx context.Context) error {
	gologger.Verbose().Msgf("using scan id %s", xid.New().String())

	prober := probe.NewICMPProber(time.Duration(r.options.Timeout)*time.Second, r.options.Count)

	if r.options.Monitor {
		return r.monitor(ctx, prober)
	}
	return r.check(ctx, prober)
}

// Close the runner instance
func (r *Runner) Close() {}

// check performs a single parallel scan pass over all addresses.
// Dead hosts are a result, not a failure: the pass succeeds no matter
// how many targets are unreachable.
func (r *Runner) check(ctx context.Context, prober probe.Prober) error {
	concurrency := min(r.options.Concurrency, len(r.addresses))
	gologger.Info().Msgf("checking %d address(es) with %d concurrent probes", len(r.addresses), concurrency)

	scanner := scan.NewScanner(prober, concurrency)
	if r.options.Verbose {
		scanner.OnResult = func(result probe.Result, completed, total int) {
			gologger.Verbose().Msgf("[%3d/%3d] %s %s", completed, total, statusMark(result.Reachable), result.Address)
		}
	}

	start := time.Now()
	results, err := scanner.Scan(ctx, r.addresses)
	if err != nil {
		gologger.Warning().Msgf("scan interrupted: %s", err)
	}

	summary, err := scan.Summarize(results)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not summarize scan")
	}

	if r.options.Silent {
		gologger.Silent().Msgf("%d/%d hosts alive", summary.Alive, summary.Total)
	} else {
		printResultTable(summary)
	}
	gologger.Info().Msgf("completed in %.2f seconds", time.Since(start).Seconds())
	return nil
}

// monitor runs round-robin checks until ctx is cancelled, then prints
// the final per-host statistics accumulated so far.
func (r *Runner) monitor(ctx context.Context, prober probe.Prober) error {
	gologger.Info().Msgf("starting round robin monitoring of %d address(es)", len(r.addresses))
	gologger.Info().Msgf("check interval: %ds, probe timeout: %ds, count: %d", r.options.Interval, r.options.Timeout, r.options.Count)
	gologger.Info().Msgf("press Ctrl+C to stop monitoring")

	mon := monitor.New(prober, &consoleReporter{}, r.addresses, time.Duration(r.options.Interval)*time.Second)
	stats := mon.Run(ctx)

	gologger.Silent().Msgf("\nFinal Statistics:")
	for _, stat := range stats {
		gologger.Silent().Msgf("  %s: %d/%d successful (%.1f%% uptime)", stat.Address, stat.Successes, stat.Total, stat.Uptime)
	}
	return nil
}

func readTargetFile(path string) ([]string, error) {
	if !fileutil.FileExists(path) {
		return nil, fmt.Errorf("file %s does not exist", path)
	}
	lines, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var specs []string
	for line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specs = append(specs, line)
	}
	return specs, nil
}

func printResultTable(summary *scan.Summary) {
	separator := strings.Repeat("=", 60)
	gologger.Silent().Msgf("%s", separator)
	gologger.Silent().Msgf("%-20s %-10s %s", "IP Address", "Status", "Details")
	gologger.Silent().Msgf("%s", separator)
	for _, result := range summary.Results {
		gologger.Silent().Msgf("%-20s %s %s", result.Address, statusLabel(result.Reachable), result.Detail)
	}
	gologger.Silent().Msgf("%s", separator)
	gologger.Silent().Msgf("Summary: %d/%d hosts alive, %d/%d hosts unreachable", summary.Alive, summary.Total, summary.Dead, summary.Total)
	gologger.Silent().Msgf("Success rate: %.1f%%", summary.SuccessRate)
}

// statusLabel renders a fixed-width colored ALIVE/DEAD cell. Padding
// happens before colorizing so ANSI codes don't skew the columns.
func statusLabel(reachable bool) string {
	if reachable {
		return au.Green(fmt.Sprintf("%-10s", "ALIVE")).String()
	}
	return au.Red(fmt.Sprintf("%-10s", "DEAD")).String()
}

func statusMark(reachable bool) string {
	if reachable {
		return au.Green("✓").String()
	}
	return au.Red("✗").String()
}

// consoleReporter renders monitor progress on the terminal.
type consoleReporter struct{}

func (c *consoleReporter) CycleStart(cycle int, _ time.Time, total int) {
	gologger.Silent().Msgf("\nChecking %d address(es)...", total)
}

func (c *consoleReporter) HostResult(index, total int, result probe.Result) {
	gologger.Silent().Msgf("  [%3d/%3d] %s %s", index, total, statusMark(result.Reachable), result.Address)
}

func (c *consoleReporter) CycleSummary(cycle int, start time.Time, summary *scan.Summary) {
	gologger.Silent().Msgf("\n[%s] Check #%d results:", start.Format("2006-01-02 15:04:05"), cycle)
	gologger.Silent().Msgf("%s", strings.Repeat("-", 60))
	for _, result := range summary.Results {
		gologger.Silent().Msgf("  %-18s %s %s", result.Address, statusLabel(result.Reachable), result.Detail)
	}
	gologger.Silent().Msgf("  Status: %d/%d alive (%.1f%%)", summary.Alive, summary.Total, summary.SuccessRate)
}

func (c *consoleReporter) Uptime(stats []monitor.HostStats) {
	gologger.Silent().Msgf("\n  Uptime statistics (last %d checks):", windowSize(stats))
	for _, stat := range stats {
		gologger.Silent().Msgf("    %s: %.1f%% uptime", stat.Address, stat.Uptime)
	}
}

func (c *consoleReporter) Waiting(cycle int, interval time.Duration) {
	gologger.Silent().Msgf("  Next check in %s... (check #%d)", interval, cycle)
}

func windowSize(stats []monitor.HostStats) int {
	size := 0
	for _, stat := range stats {
		if stat.Total > size {
			size = stat.Total
		}
	}
	return size
}
