package risk

import "time"

// RateLimiter bounds the number of orders admitted inside a trailing
// window. Allow is read-only with respect to admission: the gate calls it
// during validation and only commits a timestamp when a fill is actually
// recorded, so repeated previews never consume capacity.
//
// Not safe for concurrent use on its own; the Manager's mutex is the
// single mutual-exclusion domain for all gate state.
type RateLimiter struct {
	window time.Duration
	cap    int
	times  []time.Time
}

func NewRateLimiter(perWindow int, window time.Duration) *RateLimiter {
	return &RateLimiter{window: window, cap: perWindow}
}

// Allow prunes expired entries and reports whether another order fits in
// the window. An entry exactly window old is expired (exclusive boundary).
func (r *RateLimiter) Allow(now time.Time) bool {
	r.prune(now)
	return len(r.times) < r.cap
}

// Note commits an admitted order's timestamp into the window.
func (r *RateLimiter) Note(now time.Time) {
	r.times = append(r.times, now)
}

// Len reports current window occupancy after pruning.
func (r *RateLimiter) Len(now time.Time) int {
	r.prune(now)
	return len(r.times)
}

func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	j := 0
	for _, t := range r.times {
		if t.After(cutoff) {
			r.times[j] = t
			j++
		}
	}
	r.times = r.times[:j]
}
