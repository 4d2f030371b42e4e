package broker

import (
	"context"
	"sync"

	"github.com/tradegate/riskgate/market"
	"github.com/tradegate/riskgate/pkg/id"
)

// Sim is the dry-run broker: it places nothing and hands back synthetic
// time-sortable order ids. Used when the gate runs in dry-run mode and by
// the demo command.
type Sim struct {
	mu        sync.Mutex
	positions []market.Position
}

func NewSim() *Sim { return &Sim{} }

func (s *Sim) PlaceOrder(ctx context.Context, o market.Order) (string, error) {
	return "SIM-" + id.New(), nil
}

func (s *Sim) Positions(ctx context.Context) ([]market.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]market.Position, len(s.positions))
	copy(out, s.positions)
	return out, nil
}

// SetPositions seeds the simulated position snapshot.
func (s *Sim) SetPositions(ps []market.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append(s.positions[:0:0], ps...)
}
