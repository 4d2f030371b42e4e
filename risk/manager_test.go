package risk

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradegate/riskgate/journal"
	"github.com/tradegate/riskgate/market"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) Set(t time.Time)         { c.t = t }

type stubCalendar bool

func (s stubCalendar) IsOpen(time.Time) bool { return bool(s) }

var testStart = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

// testLimits has cooldown disabled so tests opt in to it explicitly.
func testLimits() Limits {
	lim := Default()
	lim.Cooldown = 0
	return lim
}

func newTestGate(t *testing.T, lim Limits, opts ...Option) (*Manager, *journal.Memory, *fakeClock) {
	t.Helper()

	j := journal.NewMemory()
	clk := &fakeClock{t: testStart}
	opts = append([]Option{WithClock(clk)}, opts...)
	m, err := New(lim, j, opts...)
	require.NoError(t, err)
	return m, j, clk
}

func equityOrder(symbol string, qty int64, price float64) market.Order {
	kind := market.Market
	if price > 0 {
		kind = market.Limit
	}
	return market.Order{
		Symbol:   symbol,
		Exchange: "NSE",
		Side:     market.Buy,
		Quantity: qty,
		Kind:     kind,
		Price:    price,
		Class:    market.Equity,
	}
}

func TestValidateIsIdempotentPreview(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestGate(t, testLimits())
	o := equityOrder("RELIANCE", 10, 2500)

	first := m.Validate(o)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Validate(o))
	}
	assert.Equal(t, 0, m.Status().DailyTrades)
}

func TestRecordFillIncrementsTradeCount(t *testing.T) {
	t.Parallel()

	m, _, clk := newTestGate(t, testLimits())
	o := equityOrder("INFY", 5, 1500)

	for i := 1; i <= 3; i++ {
		require.NoError(t, m.RecordFill(o, fmt.Sprintf("OID-%d", i), journal.StatusPlaced))
		assert.Equal(t, i, m.Status().DailyTrades)
		clk.Advance(10 * time.Second)
	}
}

func TestBreakerLatchPersistsUntilReset(t *testing.T) {
	t.Parallel()

	m, j, _ := newTestGate(t, testLimits())
	o := equityOrder("SBIN", 10, 700)

	require.NoError(t, m.TripBreaker("manual emergency stop"))
	for i := 0; i < 10; i++ {
		d := m.Validate(o)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonCircuitOpen, d.Reason)
	}

	ok, err := m.ResetBreaker()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, m.Validate(o).Allowed)

	// A second reset has nothing to do.
	ok, err = m.ResetBreaker()
	require.NoError(t, err)
	assert.False(t, ok)

	events := j.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "TRIP", events[0].Action)
	assert.Equal(t, "manual emergency stop", events[0].Reason)
	assert.Equal(t, "RESET", events[1].Action)
}

func TestRateLimitWindowBoundary(t *testing.T) {
	t.Parallel()

	lim := testLimits()
	lim.MaxOrdersPerMinute = 10
	m, _, clk := newTestGate(t, lim)
	o := equityOrder("TATAMOTORS", 1, 900)

	for i := 0; i < 10; i++ {
		require.NoError(t, m.RecordFill(o, fmt.Sprintf("OID-%d", i), journal.StatusPlaced))
		clk.Advance(time.Second)
	}

	d := m.Validate(o)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonRateLimit, d.Reason)

	// Advance until the oldest timestamp ages out of the 60s window.
	clk.Set(testStart.Add(60 * time.Second))
	assert.True(t, m.Validate(o).Allowed)
}

func TestLossLimitTripsBreaker(t *testing.T) {
	t.Parallel()

	m, j, _ := newTestGate(t, testLimits())
	o := equityOrder("HDFC", 10, 1600)

	require.NoError(t, m.UpdatePnL(-4000))
	assert.False(t, m.Status().CircuitBreakerActive)
	assert.Equal(t, 6000.0, m.Status().RemainingLossBuffer)

	require.NoError(t, m.UpdatePnL(-6000))
	s := m.Status()
	assert.True(t, s.CircuitBreakerActive)
	assert.Equal(t, "daily loss limit exceeded", s.TripReason)

	d := m.Validate(o)
	assert.Equal(t, ReasonCircuitOpen, d.Reason)

	events := j.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "TRIP", events[0].Action)
}

func TestDayRolloverResetsDailyLimits(t *testing.T) {
	t.Parallel()

	lim := testLimits()
	lim.MaxDailyTrades = 3
	m, _, clk := newTestGate(t, lim)
	o := equityOrder("WIPRO", 2, 500)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.RecordFill(o, fmt.Sprintf("OID-%d", i), journal.StatusPlaced))
		clk.Advance(time.Minute)
	}

	d := m.Validate(o)
	assert.Equal(t, ReasonDailyTradeLimit, d.Reason)

	// Next trading day: counters reset before the checks run.
	clk.Set(time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC))
	assert.True(t, m.Validate(o).Allowed)
	assert.Equal(t, 0, m.Status().DailyTrades)
}

func TestDayRolloverClearsLossLatch(t *testing.T) {
	t.Parallel()

	m, _, clk := newTestGate(t, testLimits())
	o := equityOrder("ITC", 5, 400)

	// Accumulate a loss just under the trip threshold.
	require.NoError(t, m.UpdatePnL(-9999))
	d := m.Validate(o)
	assert.True(t, d.Allowed)

	clk.Set(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	assert.Zero(t, m.Status().DailyPnL)
}

func TestCooldownBetweenOrders(t *testing.T) {
	t.Parallel()

	lim := testLimits()
	lim.Cooldown = 2 * time.Second
	m, _, clk := newTestGate(t, lim)
	o := equityOrder("LT", 3, 3500)

	require.NoError(t, m.RecordFill(o, "OID-1", journal.StatusPlaced))

	clk.Advance(time.Second)
	d := m.Validate(o)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonCooldown, d.Reason)

	clk.Advance(time.Second)
	assert.True(t, m.Validate(o).Allowed)
}

func TestRejectionOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	lim := testLimits()
	lim.MaxOrdersPerMinute = 2
	m, _, clk := newTestGate(t, lim)

	small := equityOrder("BHEL", 1, 100)
	require.NoError(t, m.RecordFill(small, "OID-1", journal.StatusPlaced))
	clk.Advance(time.Second)
	require.NoError(t, m.RecordFill(small, "OID-2", journal.StatusPlaced))

	// Over the rate limit AND over the value limit: the chain checks the
	// rate first, so that is the reason reported.
	huge := equityOrder("BHEL", 1000, 5000)
	d := m.Validate(huge)
	assert.Equal(t, ReasonRateLimit, d.Reason)
}

func TestMarketClosedRejection(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestGate(t, testLimits(), WithCalendar(stubCalendar(false)))
	o := equityOrder("RELIANCE", 1, 2500)

	d := m.Validate(o)
	assert.Equal(t, ReasonMarketClosed, d.Reason)
	assert.False(t, m.Status().MarketOpen)

	// The breaker outranks the calendar in the chain.
	require.NoError(t, m.TripBreaker("halt"))
	assert.Equal(t, ReasonCircuitOpen, m.Validate(o).Reason)
}

func TestInvalidOrderShapes(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestGate(t, testLimits())

	zero := equityOrder("INFY", 0, 1500)
	assert.Equal(t, ReasonInvalidOrder, m.Validate(zero).Reason)

	noPrice := market.Order{Symbol: "INFY", Side: market.Buy, Quantity: 5, Kind: market.Limit, Class: market.Equity}
	assert.Equal(t, ReasonInvalidOrder, m.Validate(noPrice).Reason)

	negative := market.Order{Symbol: "INFY", Side: market.Buy, Quantity: 5, Kind: market.Limit, Price: -1, Class: market.Equity}
	assert.Equal(t, ReasonInvalidOrder, m.Validate(negative).Reason)
}

func TestOrderValueLimit(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestGate(t, testLimits())

	over := equityOrder("MRF", 1, 120000)
	assert.Equal(t, ReasonValueLimit, m.Validate(over).Reason)

	// MARKET orders are valued with the conservative estimate (1000).
	marketOver := equityOrder("MRF", 51, 0)
	assert.Equal(t, ReasonValueLimit, m.Validate(marketOver).Reason)

	marketOK := equityOrder("MRF", 50, 0)
	assert.True(t, m.Validate(marketOK).Allowed)
}

func TestInstrumentClassRules(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestGate(t, testLimits())

	badSymbol := market.Order{Symbol: "NIFTY", Side: market.Buy, Quantity: 50, Kind: market.Limit, Price: 100, Class: market.Future}
	assert.Equal(t, ReasonClassRule, m.Validate(badSymbol).Reason)

	tooMany := market.Order{Symbol: "NIFTY24AUGFUT", Side: market.Buy, Quantity: 1001, Kind: market.Limit, Price: 10, Class: market.Future}
	assert.Equal(t, ReasonClassRule, m.Validate(tooMany).Reason)

	ok := market.Order{Symbol: "NIFTY24AUG24000CE", Side: market.Buy, Quantity: 75, Kind: market.Limit, Price: 120, Class: market.CallOption}
	assert.True(t, m.Validate(ok).Allowed)
}

func TestPositionCountCap(t *testing.T) {
	t.Parallel()

	lim := testLimits()
	lim.MaxEquityPositions = 2
	m, _, _ := newTestGate(t, lim)
	o := equityOrder("DRREDDY", 1, 6000)

	assert.True(t, m.Validate(o).Allowed)

	m.UpdatePositions([]market.Position{
		{Symbol: "INFY", Quantity: 10, Class: market.Equity},
		{Symbol: "TCS", Quantity: 5, Class: market.Equity},
	})
	d := m.Validate(o)
	assert.Equal(t, ReasonPositionLimit, d.Reason)
	assert.Equal(t, 2, m.Status().PositionsCount)
}

func TestRecordFillFailsLoudlyWhenSinkDown(t *testing.T) {
	t.Parallel()

	m, j, _ := newTestGate(t, testLimits())
	o := equityOrder("INFY", 5, 1500)

	j.FailAppends = true
	err := m.RecordFill(o, "OID-1", journal.StatusPlaced)
	require.Error(t, err)

	// Nothing was committed: counters and trail still agree.
	assert.Equal(t, 0, m.Status().DailyTrades)

	j.FailAppends = false
	require.NoError(t, m.RecordFill(o, "OID-1", journal.StatusPlaced))
	assert.Equal(t, 1, m.Status().DailyTrades)
}

func TestCountersRestoredAtStartup(t *testing.T) {
	t.Parallel()

	j := journal.NewMemory()
	clk := &fakeClock{t: testStart}
	require.NoError(t, j.SaveDay(journal.DayStat{Day: "2025-03-04", PnL: -2500, Trades: 12}))

	m, err := New(testLimits(), j, WithClock(clk))
	require.NoError(t, err)

	s := m.Status()
	assert.Equal(t, -2500.0, s.DailyPnL)
	assert.Equal(t, 12, s.DailyTrades)

	// A stale snapshot from another day is ignored.
	clk2 := &fakeClock{t: testStart.AddDate(0, 0, 3)}
	m2, err := New(testLimits(), j, WithClock(clk2))
	require.NoError(t, err)
	assert.Equal(t, 0, m2.Status().DailyTrades)
}

func TestSubmitRecordsOutcomes(t *testing.T) {
	t.Parallel()

	m, j, clk := newTestGate(t, testLimits())

	// Admitted and placed.
	d, err := m.Submit(equityOrder("INFY", 5, 1500), func(market.Order) (string, error) {
		return "BROKER-1", nil
	})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	clk.Advance(time.Second)

	// Rejected: audited but consumes no limits.
	d, err = m.Submit(equityOrder("MRF", 1, 120000), func(market.Order) (string, error) {
		t.Fatal("place must not be called for a rejected order")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, ReasonValueLimit, d.Reason)
	clk.Advance(time.Second)

	// Admitted but the brokerage call fails: the attempt still counts.
	d, err = m.Submit(equityOrder("INFY", 5, 1500), func(market.Order) (string, error) {
		return "", fmt.Errorf("exchange rejected session")
	})
	require.Error(t, err)
	assert.True(t, d.Allowed)

	assert.Equal(t, 2, m.Status().DailyTrades)

	tail, err := j.TailTrades(10)
	require.NoError(t, err)
	require.Len(t, tail, 3)
	assert.Equal(t, journal.StatusPlaced, tail[0].Status)
	assert.Equal(t, "BROKER-1", tail[0].OrderID)
	assert.Equal(t, journal.StatusRejected, tail[1].Status)
	assert.Equal(t, journal.StatusFailed, tail[2].Status)

	// Fill and rejection records share the strategy convention: blank tags
	// are defaulted on both paths.
	assert.Equal(t, "unknown", tail[0].Strategy)
	assert.Equal(t, "unknown", tail[1].Strategy)
}

func TestSubmitDryRunRecordsSimulated(t *testing.T) {
	t.Parallel()

	m, j, clk := newTestGate(t, testLimits(), WithDryRun(true))

	d, err := m.Submit(equityOrder("INFY", 5, 1500), func(market.Order) (string, error) {
		return "SIM-1", nil
	})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, m.Status().DailyTrades)
	clk.Advance(time.Second)

	// A simulator failure is still a FAILED attempt, dry run or not.
	_, err = m.Submit(equityOrder("INFY", 5, 1500), func(market.Order) (string, error) {
		return "", fmt.Errorf("simulator unavailable")
	})
	require.Error(t, err)

	tail, err := j.TailTrades(2)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, journal.StatusSimulated, tail[0].Status)
	assert.Equal(t, "SIM-1", tail[0].OrderID)
	assert.Equal(t, journal.StatusFailed, tail[1].Status)
}

func TestSubmitSerializesLastSlot(t *testing.T) {
	t.Parallel()

	lim := testLimits()
	lim.MaxDailyTrades = 1
	m, _, _ := newTestGate(t, lim)

	place := func(market.Order) (string, error) { return "OID", nil }

	done := make(chan Decision, 2)
	for i := 0; i < 2; i++ {
		go func() {
			d, _ := m.Submit(equityOrder("INFY", 1, 100), place)
			done <- d
		}()
	}

	admitted := 0
	for i := 0; i < 2; i++ {
		if d := <-done; d.Allowed {
			admitted++
		}
	}
	// Exactly one of the two concurrent orders may take the last slot.
	assert.Equal(t, 1, admitted)
	assert.Equal(t, 1, m.Status().DailyTrades)
}
