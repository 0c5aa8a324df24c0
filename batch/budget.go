package batch

import "time"

// waitBudget bounds the cumulative time one Next call may spend waiting.
// The timer is created on first use so calls that never wait stay cheap.
type waitBudget struct {
	start   time.Time
	timeout time.Duration
	timer   *time.Timer
}

func newWaitBudget(timeout time.Duration) *waitBudget {
	return &waitBudget{start: time.Now(), timeout: timeout}
}

// expired reports whether the budget is used up without waiting.
func (w *waitBudget) expired() bool {
	return time.Since(w.start) >= w.timeout
}

// C returns a channel that fires when the budget runs out.
func (w *waitBudget) C() <-chan time.Time {
	if w.timer == nil {
		w.timer = time.NewTimer(w.timeout - time.Since(w.start))
	}

	return w.timer.C
}

func (w *waitBudget) stop() {
	if w.timer != nil {
		w.timer.Stop()
	}
}
