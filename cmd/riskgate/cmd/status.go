package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daily counters, buffers, and breaker state",
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

		s := mgr.Status()
		fmt.Printf("daily pnl:              %.2f\n", s.DailyPnL)
		fmt.Printf("daily trades:           %d / %d\n", s.DailyTrades, s.DailyTradeLimit)
		fmt.Printf("remaining loss buffer:  %.2f of %.2f\n", s.RemainingLossBuffer, s.DailyLossLimit)
		fmt.Printf("remaining trade buffer: %d\n", s.RemainingTradeBuffer)
		fmt.Printf("market open:            %v\n", s.MarketOpen)
		fmt.Printf("positions cached:       %d\n", s.PositionsCount)
		if s.CircuitBreakerActive {
			fmt.Printf("circuit breaker:        TRIPPED (%s)\n", s.TripReason)
		} else {
			fmt.Printf("circuit breaker:        normal\n")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
