package main

import (
	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/index"
	"github.com/sgx-labs/daybook/internal/watcher"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the notes directory and keep the index up to date",
		Long: `Watches the notes directory for changes and reindexes modified
notes automatically. Runs until interrupted (Ctrl+C).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return watcher.Watch(db, cfg)
		},
	}
}
