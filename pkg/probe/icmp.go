package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// graceTimeout is the extra wall-clock budget a probe gets beyond its
// configured timeout before it is cut off as a hard timeout.
const graceTimeout = 2 * time.Second

// ICMPProber sends ICMP echo requests using pro-bing.
type ICMPProber struct {
	Timeout time.Duration
	Count   int
	// Privileged switches to raw-socket mode, which requires
	// root/admin on most systems. The default unprivileged mode uses
	// UDP-based ICMP and works without elevated permissions on Linux
	// and macOS.
	Privileged bool
}

// NewICMPProber returns a prober sending count echo packets per probe
// with the given per-probe timeout, in unprivileged mode.
func NewICMPProber(timeout time.Duration, count int) *ICMPProber {
	return &ICMPProber{Timeout: timeout, Count: count}
}

// Probe sends ICMP echo requests to address and reports whether any
// reply came back within the timeout.
func (p *ICMPProber) Probe(ctx context.Context, address string) Result {
	pinger, err := probing.NewPinger(address)
	if err != nil {
		return Result{Address: address, Detail: errorDetail(err)}
	}
	pinger.Count = p.Count
	pinger.Timeout = p.Timeout
	pinger.SetPrivileged(p.Privileged)

	// Hard ceiling: the probe may never outlive timeout + grace even
	// if the underlying pinger misbehaves.
	ctx, cancel := context.WithTimeout(ctx, p.Timeout+graceTimeout)
	defer cancel()

	runErr := pinger.RunWithContext(ctx)
	return verdict(address, pinger.Statistics(), runErr, ctx.Err())
}

// verdict maps a finished pro-bing run onto the closed detail set. A
// run that exhausted its reply window without an error is reported as
// not reachable; Timeout is reserved for hitting the hard ceiling.
func verdict(address string, stats *probing.Statistics, runErr, ctxErr error) Result {
	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return Result{Address: address, Detail: DetailTimeout}
	case runErr != nil:
		return Result{Address: address, Detail: errorDetail(runErr)}
	case stats != nil && stats.PacketsRecv > 0:
		return Result{Address: address, Reachable: true, Detail: DetailAlive, RTT: stats.AvgRtt}
	default:
		return Result{Address: address, Detail: DetailUnreachable}
	}
}

func errorDetail(err error) string {
	return fmt.Sprintf("Error: %s", err)
}
