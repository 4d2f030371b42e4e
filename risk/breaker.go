package risk

import "time"

// Breaker is a two-state latch that halts all trading once tripped.
// There is no timeout and no automatic recovery: a tripped breaker stays
// tripped until an operator calls Reset. Who is allowed to reset is the
// caller's problem; the latch itself has no notion of authorization.
//
// Serialized by the Manager's mutex.
type Breaker struct {
	tripped   bool
	reason    string
	trippedAt time.Time
}

// Tripped reports whether the latch is set.
func (b *Breaker) Tripped() bool { return b.tripped }

// Reason returns the trip reason, empty when NORMAL.
func (b *Breaker) Reason() string { return b.reason }

// TrippedAt returns when the latch was set, zero when NORMAL.
func (b *Breaker) TrippedAt() time.Time { return b.trippedAt }

// Trip sets the latch. Returns false if it was already tripped; the
// original reason is kept in that case.
func (b *Breaker) Trip(now time.Time, reason string) bool {
	if b.tripped {
		return false
	}
	b.tripped = true
	b.reason = reason
	b.trippedAt = now
	return true
}

// Reset clears the latch. Returns false when there was nothing to reset.
func (b *Breaker) Reset() bool {
	if !b.tripped {
		return false
	}
	b.tripped = false
	b.reason = ""
	b.trippedAt = time.Time{}
	return true
}
