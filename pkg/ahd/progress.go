package ahd

import "sync"

// A ProgressFunc is told how far through the run we are, in [0,1]. If it
// returns true the caller wants to cancel; no more tiles get started, and
// the run ends with ErrCancelled.
type ProgressFunc func(progress float64) (cancel bool)

// progressTracker is the only mutable state shared between workers.
// Reported values never go down, and 1.0 is only reported by finish().
type progressTracker struct {
	mu        sync.Mutex
	value     float64
	report    ProgressFunc
	cancelled bool
}

func newProgressTracker(f ProgressFunc) *progressTracker {
	return &progressTracker{report: f}
}

func (p *progressTracker)send(v float64) {
	if p.report != nil && p.report(v) {
		p.cancelled = true
	}
}

func (p *progressTracker)start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send(p.value)
}

// advance adds delta, saturating at 1.0.
func (p *progressTracker)advance(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if delta <= 0 {
		return
	}
	p.value += delta
	if p.value >= 1.0 {
		p.value = 1.0
		return // held back for finish()
	}
	p.send(p.value)
}

func (p *progressTracker)finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = 1.0
	p.send(p.value)
}

func (p *progressTracker)isCancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}
