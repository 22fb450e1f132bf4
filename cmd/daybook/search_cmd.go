package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/index"
)

func searchCmd() *cobra.Command {
	var (
		project string
		topK    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across all notes",
		Long: `Searches the indexed (date, project, task, content) records.

  daybook search "database migration"
  daybook search --project "Client Alpha" deploy`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := index.Open(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := db.Search(query, index.SearchOptions{
				Project: project,
				Limit:   topK,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			if len(results) == 0 {
				fmt.Println("No results. Try 'daybook reindex' if notes changed recently.")
				return nil
			}
			for _, r := range results {
				heading := r.Project
				if r.Task != "" {
					heading += " / " + r.Task
				}
				fmt.Printf("%s  %s\n    %s\n", r.Date, heading, r.Snippet)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Restrict to one project")
	cmd.Flags().IntVar(&topK, "top-k", 20, "Number of results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
