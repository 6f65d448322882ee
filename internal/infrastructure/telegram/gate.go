package telegram

import (
	"sync"
	"time"
)

// rateGate bounds how many messages may enter the pipeline per rolling
// window. Every admitted message costs one LLM call and up to three more
// downstream, so the gate is what keeps a busy channel from burning the
// API budget.
type rateGate struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

func newRateGate(limit int, window time.Duration) *rateGate {
	return &rateGate{limit: limit, window: window, now: time.Now}
}

// Allow reports whether one more message fits in the current window and
// charges it when it does. Messages refused here are dropped, not queued.
func (g *rateGate) Allow() bool {
	if g.limit <= 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-g.window)
	kept := g.stamps[:0]
	for _, ts := range g.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	g.stamps = kept

	if len(g.stamps) >= g.limit {
		return false
	}
	g.stamps = append(g.stamps, g.now())
	return true
}
