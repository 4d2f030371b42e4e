package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradegate/riskgate/market"
)

var checkFlags struct {
	symbol   string
	exchange string
	side     string
	qty      int64
	kind     string
	price    float64
	class    string
	strategy string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Preview an order against the admission gate",
	Long: `Check runs an order through the full admission chain without
consuming any limits. Safe to repeat; the decision only changes when
gate state changes.`,
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

		o := market.Order{
			Symbol:   checkFlags.symbol,
			Exchange: checkFlags.exchange,
			Side:     market.Side(checkFlags.side),
			Quantity: checkFlags.qty,
			Kind:     market.OrderKind(checkFlags.kind),
			Price:    checkFlags.price,
			Class:    market.InstrumentClass(checkFlags.class),
			Strategy: checkFlags.strategy,
		}

		d := mgr.Validate(o)
		if d.Allowed {
			fmt.Printf("ADMIT: %s\n", d.Message)
			return nil
		}
		fmt.Printf("REJECT [%s]: %s\n", d.Reason, d.Message)
		return nil
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkFlags.symbol, "symbol", "", "trading symbol (required)")
	f.StringVar(&checkFlags.exchange, "exchange", "NSE", "exchange segment")
	f.StringVar(&checkFlags.side, "side", "BUY", "BUY or SELL")
	f.Int64Var(&checkFlags.qty, "qty", 0, "order quantity (required)")
	f.StringVar(&checkFlags.kind, "type", "MARKET", "order type: MARKET, LIMIT, SL, SL-M")
	f.Float64Var(&checkFlags.price, "price", 0, "limit price")
	f.StringVar(&checkFlags.class, "class", "EQUITY", "instrument class: EQUITY, FUT, CE, PE")
	f.StringVar(&checkFlags.strategy, "strategy", "", "strategy tag for the audit trail")
	_ = checkCmd.MarkFlagRequired("symbol")
	_ = checkCmd.MarkFlagRequired("qty")

	rootCmd.AddCommand(checkCmd)
}
