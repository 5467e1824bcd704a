package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quotewise/quote-cli/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Event scout operations",
}

var eventsScoutCmd = &cobra.Command{
	Use:   "scout <candidates-file>",
	Short: "Qualify and rank market event candidates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := events.LoadCandidates(args[0])
		if err != nil {
			return err
		}

		scout, err := newScout()
		if err != nil {
			return err
		}

		qualified, err := scout.Qualify(cmd.Context(), candidates, time.Now())
		if err != nil {
			return err
		}

		if len(qualified) == 0 {
			fmt.Println("No qualifying events in the lookahead window.")
			return nil
		}

		for _, e := range qualified {
			category := string(e.Category)
			if category == "" {
				category = "unclassified"
			}
			fmt.Printf("%3d days  %-20s %s\n", e.DaysRemaining, category, e.Name)
		}
		return nil
	},
}

func init() {
	eventsCmd.AddCommand(eventsScoutCmd)
	rootCmd.AddCommand(eventsCmd)
}
