package market

// Position is a read-mostly snapshot of an open position as reported by
// the brokerage. The gate caches it for position-count checks; it never
// mutates one.
type Position struct {
	Symbol       string
	Quantity     int64
	AveragePrice float64
	CurrentPrice float64
	UnrealizedPL float64
	Class        InstrumentClass
}
