package main

import (
	"context"
	"fmt"
	"time"

	"github.com/milk9111/campusmap/visits"
	"github.com/spf13/cobra"
)

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Print the visitor counter",
	RunE:  runVisits,
}

func init() {
	rootCmd.AddCommand(visitsCmd)
}

func runVisits(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.VisitsDB == "" {
		return fmt.Errorf("visitor counter is disabled (visits_db is empty)")
	}

	store, err := visits.Open(cfg.VisitsDB)
	if err != nil {
		return err
	}
	defer store.Close()

	return printVisits(cmd, store)
}

func printVisits(cmd *cobra.Command, store *visits.Store) error {
	ctx := context.Background()
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	last, err := store.Last(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Visitors: %d\n", n)
	if !last.IsZero() {
		fmt.Fprintf(out, "Last visit: %s\n", last.Local().Format(time.RFC1123))
	}
	return nil
}
