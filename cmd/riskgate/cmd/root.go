package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tradegate/riskgate/broker"
	"github.com/tradegate/riskgate/config"
	"github.com/tradegate/riskgate/journal"
	"github.com/tradegate/riskgate/logger"
	"github.com/tradegate/riskgate/risk"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "riskgate",
	Short: "Pre-trade admission gate for order flow",
	Long: `Riskgate sits between a trading decision and an order leaving to a
brokerage. It applies a fixed, explainable sequence of safety gates
(market hours, kill switch, daily limits, rate limits, order value,
instrument-class rules, cooldown) and durably records every decision
and fill for audit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// config.env carries environment overrides; absence is fine.
	_ = godotenv.Load("config.env")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
}

// loadConfig reads the configured file or falls back to defaults, then
// initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
	}
	logger.Init(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	return cfg, nil
}

// openJournal builds the configured audit-trail backend.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "jsonl":
		return journal.NewJSONL(cfg.Journal.Dir)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

// openGate wires the admission gate from configuration. Callers own
// closing the returned journal.
func openGate(cfg *config.Config) (*risk.Manager, journal.Journal, error) {
	lim, err := cfg.RiskLimits()
	if err != nil {
		return nil, nil, err
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return nil, nil, err
	}
	j, err := openJournal(cfg)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := risk.New(lim, j,
		risk.WithCalendar(cal),
		risk.WithLocation(cfg.Location()),
		risk.WithLogger(logger.WithComponent("riskgate")),
		risk.WithDryRun(cfg.Safety.DryRun),
	)
	if err != nil {
		j.Close()
		return nil, nil, err
	}
	return mgr, j, nil
}

// openBroker selects the order-placement backend. Only the dry-run
// simulator ships with the gate; live placement belongs to the broker
// integration in front of it.
func openBroker(cfg *config.Config) (broker.Broker, error) {
	if cfg.Safety.DryRun {
		return broker.NewSim(), nil
	}
	return nil, fmt.Errorf("no live broker configured; set safety.dry_run to route orders through the simulator")
}

func fatal(err error) error {
	fmt.Fprintln(os.Stderr, "error:", err)
	return err
}
