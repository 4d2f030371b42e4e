package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tradegate/riskgate/logger"
	"github.com/tradegate/riskgate/risk"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve gate status, metrics, and breaker control over HTTP",
	Long: `Serve starts a small HTTP endpoint exposing /metrics for prometheus
scraping, /status with the gate's current risk snapshot, and POST
/breaker/trip and /breaker/reset to operate the running gate's circuit
breaker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fatal(err)
		}
		mgr, j, err := openGate(cfg)
		if err != nil {
			return fatal(err)
		}
		defer j.Close()

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           newServeMux(mgr),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.WithComponent("serve").WithField("addr", serveAddr).Info("listening")
		fmt.Printf("serving /metrics, /status, and /breaker on %s\n", serveAddr)
		return srv.ListenAndServe()
	},
}

// newServeMux wires the admin surface: prometheus metrics, a JSON status
// snapshot, and breaker control for the in-process gate.
func newServeMux(mgr *risk.Manager) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		s := mgr.Status()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"daily_pnl":              s.DailyPnL,
			"daily_trades":           s.DailyTrades,
			"circuit_breaker_active": s.CircuitBreakerActive,
			"trip_reason":            s.TripReason,
			"positions_count":        s.PositionsCount,
			"market_open":            s.MarketOpen,
			"daily_loss_limit":       s.DailyLossLimit,
			"daily_trade_limit":      s.DailyTradeLimit,
			"remaining_loss_buffer":  s.RemainingLossBuffer,
			"remaining_trade_buffer": s.RemainingTradeBuffer,
		})
	})

	mux.HandleFunc("/breaker/trip", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		reason := r.FormValue("reason")
		if reason == "" {
			reason = "manual emergency stop"
		}
		if err := mgr.TripBreaker(reason); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tripped": true, "reason": reason})
	})

	mux.HandleFunc("/breaker/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		ok, err := mgr.ResetBreaker()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"reset": ok})
	})

	return mux
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9109", "listen address")
	rootCmd.AddCommand(serveCmd)
}
