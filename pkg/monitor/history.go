package monitor

// windowCapacity bounds how many recent check outcomes are kept per
// host.
const windowCapacity = 10

// Window is a bounded FIFO of reachability outcomes for one host.
// The zero value is an empty window ready for use.
type Window struct {
	outcomes []bool
}

// Append records an outcome, evicting the oldest one once the window
// is full.
func (w *Window) Append(reachable bool) {
	w.outcomes = append(w.outcomes, reachable)
	if len(w.outcomes) > windowCapacity {
		w.outcomes = w.outcomes[1:]
	}
}

// Len returns the number of recorded outcomes.
func (w *Window) Len() int {
	return len(w.outcomes)
}

// Successes returns how many recorded outcomes were reachable.
func (w *Window) Successes() int {
	n := 0
	for _, reachable := range w.outcomes {
		if reachable {
			n++
		}
	}
	return n
}

// Uptime returns the success percentage over the recorded outcomes,
// or 0 for an empty window.
func (w *Window) Uptime() float64 {
	if len(w.outcomes) == 0 {
		return 0
	}
	return float64(w.Successes()) / float64(len(w.outcomes)) * 100
}

// Outcomes returns a copy of the recorded outcomes, oldest first.
func (w *Window) Outcomes() []bool {
	outcomes := make([]bool, len(w.outcomes))
	copy(outcomes, w.outcomes)
	return outcomes
}
