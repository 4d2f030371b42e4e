package broker

import (
	"context"

	"github.com/tradegate/riskgate/market"
)

// Broker is the boundary the gate's caller talks to after admission.
// Wire protocol, sessions, and credentials all live behind it; the gate
// itself never dials out.
type Broker interface {
	PlaceOrder(ctx context.Context, o market.Order) (orderID string, err error)
	Positions(ctx context.Context) ([]market.Position, error)
}
