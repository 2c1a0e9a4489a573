// Package scan runs reachability probes over an address list with
// bounded concurrency and aggregates the outcome of a pass.
package scan

import (
	"context"
	"sync"

	syncutil "github.com/projectdiscovery/utils/sync"

	"github.com/projectdiscovery/pingx/pkg/probe"
)

// Scanner probes address lists in parallel, keeping at most
// concurrency probes in flight; the rest queue.
type Scanner struct {
	prober      probe.Prober
	concurrency int

	// OnResult, when set, is invoked after every completed probe with
	// running completion counters. Invocations are serialized.
	OnResult func(result probe.Result, completed, total int)
}

// NewScanner returns a scanner backed by prober with the given
// concurrency cap.
func NewScanner(prober probe.Prober, concurrency int) *Scanner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scanner{prober: prober, concurrency: concurrency}
}

// Scan probes every address and returns one result per address, in
// completion order. Duplicate addresses are probed independently. The
// call blocks until every started probe has finished; cancelling ctx
// stops new probes from starting while in-flight ones run to
// completion, so a cancelled scan returns the results collected so
// far together with the context error.
func (s *Scanner) Scan(ctx context.Context, addresses []string) ([]probe.Result, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	size := s.concurrency
	if len(addresses) < size {
		size = len(addresses)
	}
	awg, err := syncutil.New(syncutil.WithSize(size))
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make([]probe.Result, 0, len(addresses))
	)
	total := len(addresses)

	for _, address := range addresses {
		select {
		case <-ctx.Done():
			awg.Wait()
			return results, ctx.Err()
		default:
		}

		awg.Add()
		go func(address string) {
			defer awg.Done()
			result := s.prober.Probe(ctx, address)

			mu.Lock()
			defer mu.Unlock()
			results = append(results, result)
			if s.OnResult != nil {
				s.OnResult(result, len(results), total)
			}
		}(address)
	}

	awg.Wait()
	return results, nil
}
