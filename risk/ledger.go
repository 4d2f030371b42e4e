package risk

import "time"

// Ledger accumulates realized PnL and trade count for the current trading
// day. Counters reset at the day boundary; Rollover must run before any
// daily-limit check so yesterday's ceiling cannot latch into today.
//
// Serialized by the Manager's mutex.
type Ledger struct {
	loc *time.Location

	day       time.Time // local midnight anchoring the trading day
	pnl       float64
	trades    int
	lastOrder time.Time
}

// LedgerSnapshot is a point-in-time copy of the ledger counters.
type LedgerSnapshot struct {
	Day       time.Time
	PnL       float64
	Trades    int
	LastOrder time.Time
}

func NewLedger(loc *time.Location, now time.Time) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{loc: loc, day: dayOpen(loc, now)}
}

// dayOpen returns the local midnight for now in loc.
func dayOpen(loc *time.Location, now time.Time) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Rollover resets the counters when now has crossed into a new trading
// day. Reports whether a reset happened.
func (l *Ledger) Rollover(now time.Time) bool {
	open := dayOpen(l.loc, now)
	if open.Equal(l.day) {
		return false
	}
	l.day = open
	l.pnl = 0
	l.trades = 0
	l.lastOrder = time.Time{}
	return true
}

// RecordTrade bumps the trade counter and stamps the last-order time.
func (l *Ledger) RecordTrade(now time.Time) {
	l.trades++
	l.lastOrder = now
}

// AddPnL folds a realized PnL delta into the day's total and returns the
// new total.
func (l *Ledger) AddPnL(delta float64) float64 {
	l.pnl += delta
	return l.pnl
}

// Restore seeds the counters from a persisted day record, used at startup
// so a restart cannot forget limits already consumed today.
func (l *Ledger) Restore(pnl float64, trades int) {
	l.pnl = pnl
	l.trades = trades
}

// SinceLastOrder returns the elapsed time since the last recorded order.
// With no order yet this trading day it returns a very large duration,
// so cooldown checks pass.
func (l *Ledger) SinceLastOrder(now time.Time) time.Duration {
	if l.lastOrder.IsZero() {
		return time.Duration(1<<62 - 1)
	}
	return now.Sub(l.lastOrder)
}

func (l *Ledger) Snapshot() LedgerSnapshot {
	return LedgerSnapshot{Day: l.day, PnL: l.pnl, Trades: l.trades, LastOrder: l.lastOrder}
}

func (l *Ledger) PnL() float64 { return l.pnl }

func (l *Ledger) Trades() int { return l.trades }

func (l *Ledger) Location() *time.Location { return l.loc }
