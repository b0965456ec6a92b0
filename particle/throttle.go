package particle

import "time"

// Throttle gates kinematics on constrained devices. A zero Interval never throttles.
type Throttle struct {
	Interval time.Duration
	last     time.Duration
	primed   bool
}

// Allow reports whether a step may run at elapsed and records it if so.
func (t *Throttle) Allow(elapsed time.Duration) bool {
	if t.Interval <= 0 {
		return true
	}
	if t.primed && elapsed-t.last < t.Interval {
		return false
	}
	t.last = elapsed
	t.primed = true
	return true
}

func (t *Throttle) Reset() {
	t.last = 0
	t.primed = false
}
