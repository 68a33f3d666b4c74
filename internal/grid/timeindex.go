package grid

import (
	"fmt"
	"time"
)

// TimeIndex locates frames along a time dimension.
type TimeIndex struct {
	times []time.Time
}

// NewTimeIndex wraps the time coordinate values of a dataset, in storage order.
func NewTimeIndex(times ...time.Time) *TimeIndex {
	return &TimeIndex{times: times}
}

// Len returns the number of time steps.
func (t *TimeIndex) Len() int {
	return len(t.times)
}

// At returns the time of step i.
func (t *TimeIndex) At(i int) (time.Time, error) {
	if i < 0 || i >= len(t.times) {
		return time.Time{}, fmt.Errorf("time index %d out of range [0,%d)", i, len(t.times))
	}
	return t.times[i], nil
}

// Nearest returns the step closest to ts among those at or after ts.
// ok is false when every step precedes ts.
func (t *TimeIndex) Nearest(ts time.Time) (int, bool) {
	best := -1
	var bestDelta time.Duration
	for i, step := range t.times {
		delta := step.Sub(ts)
		if delta < 0 {
			continue
		}
		if best < 0 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	return best, best >= 0
}

// Dates returns the distinct calendar dates (UTC midnight) in storage order.
func (t *TimeIndex) Dates() []time.Time {
	seen := make(map[time.Time]bool)
	dates := make([]time.Time, 0)
	for _, step := range t.times {
		u := step.UTC()
		d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	return dates
}
