package risk

import (
	"fmt"
	"time"
)

// Limits is the immutable set of thresholds the gate enforces. It is
// supplied by configuration at construction and only ever read.
type Limits struct {
	// Daily limits
	MaxDailyLoss   float64 // account currency, e.g. 10000
	MaxDailyTrades int     // e.g. 50

	// Order limits
	MaxOrderValue float64 // single-order notional cap
	// MarketPriceEstimate values MARKET orders, which carry no price.
	// Deliberately conservative; tune per deployment currency.
	MarketPriceEstimate float64

	// Time-based limits
	MaxOrdersPerMinute int
	Cooldown           time.Duration // minimum spacing between orders

	// Instrument-class rules
	MaxDerivativeQty    int64 // per-order quantity cap for FUT/CE/PE
	MaxEquityPositions  int
	MaxFuturesPositions int
	MaxOptionsPositions int
}

// Default returns the limit set the gate ships with. Values mirror a
// cautious intraday retail account.
func Default() Limits {
	return Limits{
		MaxDailyLoss:        10000,
		MaxDailyTrades:      50,
		MaxOrderValue:       50000,
		MarketPriceEstimate: 1000,
		MaxOrdersPerMinute:  10,
		Cooldown:            2 * time.Second,
		MaxDerivativeQty:    1000,
		MaxEquityPositions:  10,
		MaxFuturesPositions: 5,
		MaxOptionsPositions: 8,
	}
}

func (l Limits) Validate() error {
	if l.MaxDailyLoss <= 0 {
		return fmt.Errorf("max daily loss must be positive")
	}
	if l.MaxDailyTrades <= 0 {
		return fmt.Errorf("max daily trades must be positive")
	}
	if l.MaxOrderValue <= 0 {
		return fmt.Errorf("max order value must be positive")
	}
	if l.MarketPriceEstimate <= 0 {
		return fmt.Errorf("market price estimate must be positive")
	}
	if l.MaxOrdersPerMinute <= 0 {
		return fmt.Errorf("max orders per minute must be positive")
	}
	if l.Cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative")
	}
	if l.MaxDerivativeQty <= 0 {
		return fmt.Errorf("max derivative quantity must be positive")
	}
	return nil
}
