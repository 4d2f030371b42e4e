package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradegate/riskgate/journal"
)

var breakerCmd = &cobra.Command{
	Use:   "breaker",
	Short: "Record circuit-breaker transitions in the audit trail",
	Long: `Trip and reset run against a fresh gate instance: they append the
TRIP or RESET event to the configured audit trail and exit. They do not
reach into a separately running process; to operate a live gate, POST to
its serve endpoints /breaker/trip and /breaker/reset instead.`,
}

var breakerTripCmd = &cobra.Command{
	Use:   "trip [reason...]",
	Short: "Record a breaker TRIP event",
	RunE: func(cmd *cobra.Command, args []string) error {
		reason := strings.Join(args, " ")
		if reason == "" {
			reason = "manual emergency stop"
		}

		cfg, err := loadConfig()
		if err != nil {
			return fatal(err)
		}
		mgr, j, err := openGate(cfg)
		if err != nil {
			return fatal(err)
		}
		defer j.Close()

		if err := mgr.TripBreaker(reason); err != nil {
			return fatal(err)
		}
		fmt.Printf("breaker TRIP recorded in the audit trail: %s\n", reason)
		return nil
	},
}

var breakerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Record a breaker RESET event",
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

		ok, err := mgr.ResetBreaker()
		if err != nil {
			return fatal(err)
		}
		if !ok {
			// A fresh instance always comes up NORMAL; the operator action
			// still belongs in the trail.
			ev := journal.BreakerEvent{Time: time.Now(), Action: "RESET", Reason: "manual reset"}
			if err := j.AppendEvent(ev); err != nil {
				return fatal(err)
			}
		}
		fmt.Println("breaker RESET recorded in the audit trail")
		return nil
	},
}

func init() {
	breakerCmd.AddCommand(breakerTripCmd)
	breakerCmd.AddCommand(breakerResetCmd)
	rootCmd.AddCommand(breakerCmd)
}
