package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradegate/riskgate/broker"
	"github.com/tradegate/riskgate/journal"
	"github.com/tradegate/riskgate/market"
	"github.com/tradegate/riskgate/risk"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a dry-run order flow through the gate",
	Long: `Demo submits a small batch of simulated orders through the full
admission pipeline against an in-memory journal and the dry-run broker.
Nothing touches a brokerage or disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lim := risk.Default()
		j := journal.NewMemory()
		// No calendar: the demo should work outside market hours.
		mgr, err := risk.New(lim, j, risk.WithDryRun(true))
		if err != nil {
			return fatal(err)
		}
		sim := broker.NewSim()
		ctx := context.Background()

		orders := []market.Order{
			{Symbol: "RELIANCE", Exchange: "NSE", Side: market.Buy, Quantity: 10, Kind: market.Limit, Price: 2500, Class: market.Equity, Strategy: "demo"},
			{Symbol: "INFY", Exchange: "NSE", Side: market.Sell, Quantity: 5, Kind: market.Market, Class: market.Equity, Strategy: "demo"},
			{Symbol: "NIFTY24AUGFUT", Exchange: "NFO", Side: market.Buy, Quantity: 5000, Kind: market.Limit, Price: 2, Class: market.Future, Strategy: "demo"},
			{Symbol: "TCS", Exchange: "NSE", Side: market.Buy, Quantity: 100, Kind: market.Limit, Price: 4000, Class: market.Equity, Strategy: "demo"},
		}

		for _, o := range orders {
			d, err := mgr.Submit(o, func(o market.Order) (string, error) {
				id, err := sim.PlaceOrder(ctx, o)
				return id, err
			})
			if err != nil {
				return fatal(err)
			}
			if d.Allowed {
				fmt.Printf("ADMIT  %-14s %s %d\n", o.Symbol, o.Side, o.Quantity)
			} else {
				fmt.Printf("REJECT %-14s %s %d  [%s] %s\n", o.Symbol, o.Side, o.Quantity, d.Reason, d.Message)
			}
		}

		s := mgr.Status()
		fmt.Printf("\ntrades today: %d, remaining trade buffer: %d\n", s.DailyTrades, s.RemainingTradeBuffer)

		tail, err := j.TailTrades(10)
		if err != nil {
			return fatal(err)
		}
		fmt.Println("audit tail:")
		for _, r := range tail {
			fmt.Printf("  %s %-9s %-14s %s %d @ %.2f (%s)\n",
				r.Time.Format("15:04:05"), r.Status, r.Symbol, r.Side, r.Quantity, r.Price, r.OrderID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
