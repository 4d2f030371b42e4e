package journal

import (
	"fmt"
	"sync"
)

// Memory is an in-process Journal for tests and dry runs. Nothing
// survives a restart; it exists so the gate can be exercised without a
// database on disk.
type Memory struct {
	mu     sync.Mutex
	trades []TradeRecord
	events []BreakerEvent
	days   map[string]DayStat

	// FailAppends makes every append return an error, for testing the
	// gate's sink-unavailable path.
	FailAppends bool
}

func NewMemory() *Memory {
	return &Memory{days: make(map[string]DayStat)}
}

func (m *Memory) AppendTrade(t TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAppends {
		return fmt.Errorf("journal sink unavailable")
	}
	m.trades = append(m.trades, t)
	return nil
}

func (m *Memory) AppendEvent(e BreakerEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAppends {
		return fmt.Errorf("journal sink unavailable")
	}
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) SaveDay(d DayStat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[d.Day] = d
	return nil
}

func (m *Memory) LoadDay(day string) (DayStat, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.days[day]
	return d, ok, nil
}

func (m *Memory) TailTrades(n int) ([]TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := len(m.trades) - n
	if start < 0 {
		start = 0
	}
	out := make([]TradeRecord, len(m.trades)-start)
	copy(out, m.trades[start:])
	return out, nil
}

func (m *Memory) TradesBySymbol(symbol string, n int) ([]TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TradeRecord
	for _, r := range m.trades {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

// Events returns a copy of all breaker events, oldest first.
func (m *Memory) Events() []BreakerEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BreakerEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *Memory) Close() error { return nil }
