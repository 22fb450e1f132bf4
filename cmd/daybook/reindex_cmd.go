package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/index"
)

func reindexCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the notes on disk",
		Long: `Incremental by default: unchanged notes (by content hash) are
skipped and records for deleted notes are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, nb, err := loadNotebook()
			if err != nil {
				return err
			}
			db, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := db.Rebuild(nb, force)
			if err != nil {
				return err
			}
			fmt.Printf("Indexed %d, skipped %d, deleted %d", stats.Indexed, stats.Skipped, stats.Deleted)
			if stats.Failed > 0 {
				fmt.Printf(", failed %d", stats.Failed)
			}
			fmt.Println()
			if len(nb.Notes) > 0 && stats.Failed == len(nb.Notes) {
				return fmt.Errorf("all %d notes failed to index", stats.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Reindex everything regardless of changes")
	return cmd
}
