package risk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradegate/riskgate/journal"
	"github.com/tradegate/riskgate/market"
)

// Manager is the admission gate. Every proposed order runs through a
// fixed, short-circuiting chain of checks; every fill and every breaker
// transition lands in the append-only journal.
//
// All mutable state (rate window, daily ledger, breaker, position cache)
// lives behind one mutex, so a check-then-commit pair for one order is
// serialized against all other orders. Validate is read-only and safe to
// call repeatedly as a preview; Submit holds the lock across
// validate-then-record for real executions.
type Manager struct {
	mu      sync.Mutex
	limits  Limits
	clock   Clock
	cal     market.Calendar // nil disables the market-hours check
	journal journal.Journal

	loc       *time.Location
	rate      *RateLimiter
	ledger    *Ledger
	breaker   Breaker
	positions []market.Position
	dryRun    bool

	log *logrus.Entry
}

// Option configures optional Manager collaborators.
type Option func(*Manager)

// WithClock injects a time source, used by tests to drive synthetic time.
func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

// WithCalendar sets the market-hours oracle. Without one the hours check
// is skipped entirely.
func WithCalendar(c market.Calendar) Option { return func(m *Manager) { m.cal = c } }

// WithLocation sets the timezone anchoring the trading-day boundary.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) { m.loc = loc }
}

// WithLogger replaces the default logger entry.
func WithLogger(e *logrus.Entry) Option { return func(m *Manager) { m.log = e } }

// WithDryRun marks the gate as simulation-only: Submit records successful
// placements with status SIMULATED instead of PLACED, so a dry-run audit
// trail is never mistaken for real fills.
func WithDryRun(on bool) Option { return func(m *Manager) { m.dryRun = on } }

// New builds a Manager and restores today's durable counters from the
// journal, so a restarted process remembers the limits it has already
// consumed.
func New(lim Limits, j journal.Journal, opts ...Option) (*Manager, error) {
	if err := lim.Validate(); err != nil {
		return nil, fmt.Errorf("risk limits: %w", err)
	}
	if j == nil {
		return nil, fmt.Errorf("journal is required")
	}

	m := &Manager{
		limits:  lim,
		clock:   SystemClock(),
		journal: j,
		rate:    NewRateLimiter(lim.MaxOrdersPerMinute, time.Minute),
		log:     logrus.WithField("component", "riskgate"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loc == nil {
		m.loc = time.UTC
	}

	now := m.clock.Now()
	m.ledger = NewLedger(m.loc, now)
	key := journal.DayKey(now, m.ledger.Location())
	stat, ok, err := j.LoadDay(key)
	if err != nil {
		return nil, fmt.Errorf("restore day counters: %w", err)
	}
	if ok {
		m.ledger.Restore(stat.PnL, stat.Trades)
		m.log.WithFields(logrus.Fields{
			"day": key, "pnl": stat.PnL, "trades": stat.Trades,
		}).Info("restored daily counters")
	}
	metricDailyTrades.Set(float64(m.ledger.Trades()))

	return m, nil
}

// Validate runs the admission chain for order without committing anything.
// Calling it N times with unchanged state yields the same decision N
// times; only RecordFill consumes limits.
func (m *Manager) Validate(o market.Order) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.rolloverLocked(now)
	d := m.validateLocked(o, now)
	if !d.Allowed {
		metricOrdersRejected.WithLabelValues(string(d.Reason)).Inc()
		m.log.WithFields(logrus.Fields{
			"symbol": o.Symbol, "reason": d.Reason,
		}).Info("order rejected")
	}
	return d
}

// validateLocked is the fixed admission chain. Order matters: later checks
// assume earlier invariants (cooldown assumes the breaker is closed), and
// the first failure determines the reported reason.
func (m *Manager) validateLocked(o market.Order, now time.Time) Decision {
	if m.breaker.Tripped() {
		return reject(ReasonCircuitOpen,
			fmt.Sprintf("circuit breaker active - trading suspended (%s)", m.breaker.Reason()))
	}

	if m.cal != nil && !m.cal.IsOpen(now) {
		return reject(ReasonMarketClosed, "market is closed for trading")
	}

	if m.ledger.Trades() >= m.limits.MaxDailyTrades {
		return reject(ReasonDailyTradeLimit,
			fmt.Sprintf("daily trade limit reached (%d)", m.limits.MaxDailyTrades))
	}
	if m.ledger.PnL() <= -m.limits.MaxDailyLoss {
		return reject(ReasonDailyLossLimit,
			fmt.Sprintf("daily loss limit reached (%.2f)", m.limits.MaxDailyLoss))
	}

	if !m.rate.Allow(now) {
		return reject(ReasonRateLimit,
			fmt.Sprintf("order rate limit exceeded (%d/min)", m.limits.MaxOrdersPerMinute))
	}

	if err := o.Validate(); err != nil {
		return reject(ReasonInvalidOrder, err.Error())
	}

	if v := o.Value(m.limits.MarketPriceEstimate); v > m.limits.MaxOrderValue {
		return reject(ReasonValueLimit,
			fmt.Sprintf("order value %.2f exceeds maximum %.2f", v, m.limits.MaxOrderValue))
	}

	if o.Class.Derivative() {
		if !o.HasClassSuffix() {
			return reject(ReasonClassRule,
				fmt.Sprintf("symbol %q does not encode a derivatives contract", o.Symbol))
		}
		if o.Quantity > m.limits.MaxDerivativeQty {
			return reject(ReasonClassRule,
				fmt.Sprintf("derivative quantity %d exceeds cap %d", o.Quantity, m.limits.MaxDerivativeQty))
		}
	}

	if m.ledger.SinceLastOrder(now) < m.limits.Cooldown {
		return reject(ReasonCooldown,
			fmt.Sprintf("cooldown period active, wait %s between orders", m.limits.Cooldown))
	}

	if d := m.checkPositionCapLocked(o); !d.Allowed {
		return d
	}

	return allow()
}

// checkPositionCapLocked enforces per-class open-position caps against the
// cached brokerage snapshot. With no snapshot the check passes.
func (m *Manager) checkPositionCapLocked(o market.Order) Decision {
	if len(m.positions) == 0 {
		return allow()
	}

	var max int
	switch o.Class {
	case market.Equity:
		max = m.limits.MaxEquityPositions
	case market.Future:
		max = m.limits.MaxFuturesPositions
	default:
		max = m.limits.MaxOptionsPositions
	}
	if max <= 0 {
		return allow()
	}

	count := 0
	for _, p := range m.positions {
		if p.Class == o.Class && p.Quantity != 0 {
			count++
		}
	}
	if count >= max {
		return reject(ReasonPositionLimit,
			fmt.Sprintf("open %s positions %d at cap %d", o.Class, count, max))
	}
	return allow()
}

// RecordFill commits the effects of one real order attempt: the audit
// record, the trade counter, the cooldown stamp, and the rate window.
// Call it exactly once per attempt, including failed and simulated ones.
// The audit append happens first; if the sink is down, nothing is
// mutated and the error is returned, so counters and trail never
// disagree.
func (m *Manager) RecordFill(o market.Order, orderID string, status journal.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordFillLocked(o, orderID, status, m.clock.Now())
}

// strategyTag normalizes the audit-trail strategy field so rejection and
// fill records share one convention: every record carries a tag, even
// when the order left it blank.
func strategyTag(o market.Order) string {
	if o.Strategy == "" {
		return "unknown"
	}
	return o.Strategy
}

func (m *Manager) recordFillLocked(o market.Order, orderID string, status journal.Status, now time.Time) error {
	m.rolloverLocked(now)

	rec := journal.TradeRecord{
		Time:     now,
		OrderID:  orderID,
		Symbol:   o.Symbol,
		Side:     string(o.Side),
		Quantity: o.Quantity,
		Price:    o.Price,
		Kind:     string(o.Kind),
		Status:   status,
		Strategy: strategyTag(o),
	}
	if err := m.journal.AppendTrade(rec); err != nil {
		return fmt.Errorf("append trade record: %w", err)
	}

	m.ledger.RecordTrade(now)
	m.rate.Note(now)

	metricOrdersAdmitted.Inc()
	metricDailyTrades.Set(float64(m.ledger.Trades()))
	metricRateWindow.Set(float64(m.rate.Len(now)))

	m.log.WithFields(logrus.Fields{
		"symbol": o.Symbol, "side": o.Side, "quantity": o.Quantity,
		"order_id": orderID, "status": status,
	}).Info("trade recorded")

	if err := m.saveDayLocked(now); err != nil {
		// The trail holds the truth; counters stay advanced in memory and
		// can be rebuilt from it.
		return fmt.Errorf("persist day counters: %w", err)
	}
	return nil
}

// UpdatePnL folds a realized PnL delta into the daily ledger and trips
// the circuit breaker when the daily loss limit is breached.
func (m *Manager) UpdatePnL(delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.rolloverLocked(now)

	pnl := m.ledger.AddPnL(delta)
	m.log.WithFields(logrus.Fields{"delta": delta, "daily_pnl": pnl}).Info("daily pnl updated")

	saveErr := m.saveDayLocked(now)

	var tripErr error
	if pnl <= -m.limits.MaxDailyLoss {
		tripErr = m.tripLocked(now, "daily loss limit exceeded")
	}
	return errors.Join(saveErr, tripErr)
}

// TripBreaker halts all trading until ResetBreaker. Intended for manual
// or emergency-stop use; the loss-limit path trips automatically.
func (m *Manager) TripBreaker(reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tripLocked(m.clock.Now(), reason)
}

func (m *Manager) tripLocked(now time.Time, reason string) error {
	if !m.breaker.Trip(now, reason) {
		return nil // already tripped, keep the original reason
	}
	metricBreakerTripped.Set(1)
	m.log.WithField("reason", reason).Error("CIRCUIT BREAKER TRIPPED - all trading suspended until manual reset")

	ev := journal.BreakerEvent{Time: now, Action: "TRIP", Reason: reason}
	if err := m.journal.AppendEvent(ev); err != nil {
		// The latch is set regardless; losing the event is reported, not
		// traded through.
		return fmt.Errorf("append breaker event: %w", err)
	}
	return nil
}

// ResetBreaker clears a tripped breaker. Returns false when the breaker
// was not tripped. Authorization is the caller's responsibility.
func (m *Manager) ResetBreaker() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.breaker.Reset() {
		return false, nil
	}
	metricBreakerTripped.Set(0)
	m.log.Warn("circuit breaker reset - trading resumed")

	ev := journal.BreakerEvent{Time: m.clock.Now(), Action: "RESET", Reason: "manual reset"}
	if err := m.journal.AppendEvent(ev); err != nil {
		return true, fmt.Errorf("append breaker event: %w", err)
	}
	return true, nil
}

// PlaceFunc hands an admitted order to the brokerage and returns its
// order id.
type PlaceFunc func(market.Order) (string, error)

// Submit runs validate-then-place-then-record as one critical section, so
// two concurrent orders can never both squeeze through the same remaining
// slot of a daily or rate limit. A rejected order is appended to the
// audit trail with status REJECTED but consumes no limits; a placed or
// failed attempt is recorded like any RecordFill.
func (m *Manager) Submit(o market.Order, place PlaceFunc) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.rolloverLocked(now)

	d := m.validateLocked(o, now)
	if !d.Allowed {
		metricOrdersRejected.WithLabelValues(string(d.Reason)).Inc()
		rec := journal.TradeRecord{
			Time:     now,
			Symbol:   o.Symbol,
			Side:     string(o.Side),
			Quantity: o.Quantity,
			Price:    o.Price,
			Kind:     string(o.Kind),
			Status:   journal.StatusRejected,
			Strategy: strategyTag(o),
		}
		if err := m.journal.AppendTrade(rec); err != nil {
			return d, fmt.Errorf("append rejection record: %w", err)
		}
		return d, nil
	}

	orderID, placeErr := place(o)
	status := journal.StatusPlaced
	if m.dryRun {
		status = journal.StatusSimulated
	}
	if placeErr != nil {
		status = journal.StatusFailed
	}
	recErr := m.recordFillLocked(o, orderID, status, now)
	return d, errors.Join(placeErr, recErr)
}

// RiskStatus is the operator-facing snapshot of the gate.
type RiskStatus struct {
	DailyPnL             float64
	DailyTrades          int
	CircuitBreakerActive bool
	TripReason           string
	PositionsCount       int
	MarketOpen           bool
	DailyLossLimit       float64
	DailyTradeLimit      int
	RemainingLossBuffer  float64
	RemainingTradeBuffer int
}

// Status reports current counters, buffers, and breaker state.
func (m *Manager) Status() RiskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.rolloverLocked(now)

	open := true
	if m.cal != nil {
		open = m.cal.IsOpen(now)
	}
	return RiskStatus{
		DailyPnL:             m.ledger.PnL(),
		DailyTrades:          m.ledger.Trades(),
		CircuitBreakerActive: m.breaker.Tripped(),
		TripReason:           m.breaker.Reason(),
		PositionsCount:       len(m.positions),
		MarketOpen:           open,
		DailyLossLimit:       m.limits.MaxDailyLoss,
		DailyTradeLimit:      m.limits.MaxDailyTrades,
		RemainingLossBuffer:  m.limits.MaxDailyLoss + m.ledger.PnL(),
		RemainingTradeBuffer: m.limits.MaxDailyTrades - m.ledger.Trades(),
	}
}

// UpdatePositions refreshes the cached brokerage position snapshot used
// by the position-cap check.
func (m *Manager) UpdatePositions(ps []market.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append(m.positions[:0:0], ps...)
}

func (m *Manager) rolloverLocked(now time.Time) {
	if m.ledger.Rollover(now) {
		metricDailyTrades.Set(0)
		m.log.WithField("day", journal.DayKey(now, m.ledger.Location())).Info("trading day rolled over, daily counters reset")
	}
}

func (m *Manager) saveDayLocked(now time.Time) error {
	return m.journal.SaveDay(journal.DayStat{
		Day:    journal.DayKey(now, m.ledger.Location()),
		PnL:    m.ledger.PnL(),
		Trades: m.ledger.Trades(),
	})
}
