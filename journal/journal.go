// journal/journal.go
package journal

import "time"

// Status is the outcome of an order attempt as recorded in the audit trail.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusRejected  Status = "REJECTED"
	StatusSimulated Status = "SIMULATED"
	StatusFailed    Status = "FAILED"
)

// TradeRecord is one order attempt. Records are append-only: written once
// per attempt, never updated or deleted.
type TradeRecord struct {
	Time     time.Time
	OrderID  string
	Symbol   string
	Side     string
	Quantity int64
	Price    float64
	Kind     string
	Status   Status
	PnL      float64
	Strategy string
}

// BreakerEvent is a circuit-breaker state transition.
type BreakerEvent struct {
	Time   time.Time
	Action string // "TRIP" or "RESET"
	Reason string
}

// DayStat is the durable counter set for one trading day, keyed by the
// day in YYYY-MM-DD form. It lets a restarted process pick up the limits
// it has already consumed.
type DayStat struct {
	Day    string
	PnL    float64
	Trades int
}

// DayKey formats t as a DayStat key in the given location.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}

// Journal is a durable, append-only audit sink. AppendTrade/AppendEvent
// must not return nil unless the record is safely on stable storage; the
// gate refuses to advance its counters when an append fails.
type Journal interface {
	AppendTrade(TradeRecord) error
	AppendEvent(BreakerEvent) error

	SaveDay(DayStat) error
	LoadDay(day string) (DayStat, bool, error)

	TailTrades(n int) ([]TradeRecord, error)
	TradesBySymbol(symbol string, n int) ([]TradeRecord, error)

	Close() error
}
