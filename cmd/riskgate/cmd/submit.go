package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradegate/riskgate/market"
)

var submitFlags struct {
	symbol   string
	exchange string
	side     string
	qty      int64
	kind     string
	price    float64
	class    string
	strategy string
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an order through the gate to the configured broker",
	Long: `Submit runs the full admission chain and, when the order is admitted,
routes it to the configured broker and records the outcome in the audit
trail. With safety.dry_run set the order goes to the built-in simulator
and is recorded with status SIMULATED.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fatal(err)
		}
		b, err := openBroker(cfg)
		if err != nil {
			return fatal(err)
		}
		mgr, j, err := openGate(cfg)
		if err != nil {
			return fatal(err)
		}
		defer j.Close()

		o := market.Order{
			Symbol:   submitFlags.symbol,
			Exchange: submitFlags.exchange,
			Side:     market.Side(submitFlags.side),
			Quantity: submitFlags.qty,
			Kind:     market.OrderKind(submitFlags.kind),
			Price:    submitFlags.price,
			Class:    market.InstrumentClass(submitFlags.class),
			Strategy: submitFlags.strategy,
		}

		ctx := context.Background()
		d, err := mgr.Submit(o, func(o market.Order) (string, error) {
			return b.PlaceOrder(ctx, o)
		})
		if !d.Allowed {
			fmt.Printf("REJECT [%s]: %s\n", d.Reason, d.Message)
			return err
		}
		if err != nil {
			return fatal(err)
		}

		tail, terr := j.TailTrades(1)
		if terr == nil && len(tail) == 1 {
			fmt.Printf("ADMIT: %s %s %d recorded as %s (%s)\n",
				tail[0].Symbol, tail[0].Side, tail[0].Quantity, tail[0].Status, tail[0].OrderID)
		}
		return nil
	},
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitFlags.symbol, "symbol", "", "trading symbol (required)")
	f.StringVar(&submitFlags.exchange, "exchange", "NSE", "exchange segment")
	f.StringVar(&submitFlags.side, "side", "BUY", "BUY or SELL")
	f.Int64Var(&submitFlags.qty, "qty", 0, "order quantity (required)")
	f.StringVar(&submitFlags.kind, "type", "MARKET", "order type: MARKET, LIMIT, SL, SL-M")
	f.Float64Var(&submitFlags.price, "price", 0, "limit price")
	f.StringVar(&submitFlags.class, "class", "EQUITY", "instrument class: EQUITY, FUT, CE, PE")
	f.StringVar(&submitFlags.strategy, "strategy", "", "strategy tag for the audit trail")
	_ = submitCmd.MarkFlagRequired("symbol")
	_ = submitCmd.MarkFlagRequired("qty")

	rootCmd.AddCommand(submitCmd)
}
