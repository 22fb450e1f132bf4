package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/notebook"
)

func noteCmd() *cobra.Command {
	var (
		dateStr string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Generate a note for today (or a given date)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			date := time.Now()
			if dateStr != "" {
				date, err = parseDate(cfg, dateStr)
				if err != nil {
					return err
				}
			}
			path, err := notebook.MakeNote(cfg, date, force)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "Date for the note (e.g. 2026-03-02)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing note")
	return cmd
}

// parseDate accepts the notebook's configured layout plus the ISO form.
func parseDate(cfg *config.Config, s string) (time.Time, error) {
	for _, layout := range []string{cfg.Notebook.DateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q (expected %s)", s, cfg.Notebook.DateLayout)
}
