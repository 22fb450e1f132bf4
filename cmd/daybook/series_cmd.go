package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/notebook"
)

func seriesCmd() *cobra.Command {
	var startStr string
	cmd := &cobra.Command{
		Use:   "series <days>",
		Short: "Generate notes for a run of consecutive days",
		Long: `Generates one note per day for the given number of days, starting
today (or --start). Days that already have a note are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid day count %q", args[0])
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			start := time.Now()
			if startStr != "" {
				start, err = parseDate(cfg, startStr)
				if err != nil {
					return err
				}
			}
			created, err := notebook.MakeSeries(cfg, n, start)
			if err != nil {
				return err
			}
			fmt.Printf("Created %d note(s), skipped %d existing\n", len(created), n-len(created))
			return nil
		},
	}
	cmd.Flags().StringVar(&startStr, "start", "", "First day of the series (default today)")
	return cmd
}
