package risk

// Reason identifies why the gate rejected an order. Rejections are normal
// business outcomes returned as data; only infrastructure faults surface
// as errors.
type Reason string

const (
	ReasonCircuitOpen     Reason = "CIRCUIT_OPEN"
	ReasonMarketClosed    Reason = "MARKET_CLOSED"
	ReasonDailyTradeLimit Reason = "DAILY_TRADE_LIMIT"
	ReasonDailyLossLimit  Reason = "DAILY_LOSS_LIMIT"
	ReasonRateLimit       Reason = "RATE_LIMIT"
	ReasonInvalidOrder    Reason = "INVALID_ORDER"
	ReasonValueLimit      Reason = "VALUE_LIMIT"
	ReasonClassRule       Reason = "CLASS_RULE"
	ReasonCooldown        Reason = "COOLDOWN"
	ReasonPositionLimit   Reason = "POSITION_LIMIT"
)

// Decision is the result of running an order through the admission chain.
// The first failing check wins; Reason is empty when the order is admitted.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

func allow() Decision {
	return Decision{Allowed: true, Message: "order validation successful"}
}

func reject(reason Reason, msg string) Decision {
	return Decision{Reason: reason, Message: msg}
}
