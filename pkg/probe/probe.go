package probe

import (
	"context"
	"time"
)

// Detail values reported for a single probe attempt. The set is closed:
// anything that is not one of the three fixed strings is an error
// detail of the form "Error: <cause>".
const (
	DetailAlive       = "Alive"
	DetailUnreachable = "Not reachable"
	DetailTimeout     = "Timeout"
)

// Result is the outcome of one probe against one address.
type Result struct {
	Address   string
	Reachable bool
	Detail    string
	RTT       time.Duration
}

// Prober issues a single reachability probe against an address.
//
// Implementations must return within their configured timeout plus a
// bounded grace period and never hang indefinitely; a probe that runs
// out of time reports a timeout result instead.
type Prober interface {
	Probe(ctx context.Context, address string) Result
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, address string) Result

func (f ProberFunc) Probe(ctx context.Context, address string) Result {
	return f(ctx, address)
}
