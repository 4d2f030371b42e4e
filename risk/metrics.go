package risk

import "github.com/prometheus/client_golang/prometheus"

var (
	metricOrdersAdmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "riskgate_orders_admitted_total",
		Help: "Orders that passed every admission check",
	})
	metricOrdersRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "riskgate_orders_rejected_total",
		Help: "Orders rejected by the admission gate, by reason code",
	}, []string{"reason"})
	metricBreakerTripped = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "riskgate_breaker_tripped",
		Help: "1 while the circuit breaker is tripped, 0 otherwise",
	})
	metricRateWindow = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "riskgate_orders_in_window",
		Help: "Orders counted in the current rate-limit window",
	})
	metricDailyTrades = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "riskgate_daily_trades",
		Help: "Trades recorded in the current trading day",
	})
)

func init() {
	prometheus.MustRegister(
		metricOrdersAdmitted, metricOrdersRejected,
		metricBreakerTripped, metricRateWindow, metricDailyTrades,
	)
}
