package core

import "github.com/huangsam/repopulse/schema"

// progressTracker emits status events and never lets the percentage go backwards.
type progressTracker struct {
	fn   schema.ProgressFunc
	last int
}

func newProgressTracker(fn schema.ProgressFunc) *progressTracker {
	return &progressTracker{fn: fn}
}

// emit sends an event, raising progress to at least the last emitted value.
func (p *progressTracker) emit(step schema.AnalysisStep, message string, progress int) {
	progress = min(max(progress, p.last), 100)
	p.last = progress
	if p.fn != nil {
		p.fn(schema.AnalysisStatus{Step: step, Message: message, Progress: progress})
	}
}

// interpolate maps fetched/limit onto the [lo, hi] progress range.
func interpolate(lo, hi, fetched, limit int) int {
	if limit <= 0 {
		return lo
	}
	fetched = min(max(fetched, 0), limit)
	return lo + (hi-lo)*fetched/limit
}
