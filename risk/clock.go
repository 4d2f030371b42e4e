package risk

import "time"

// Clock supplies the gate's notion of now. Every time-sensitive check
// (rate window, cooldown, rollover, market hours) reads through it, so
// tests can drive a synthetic clock instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
