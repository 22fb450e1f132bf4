// Package main is the entrypoint for the daybook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/notebook"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "daybook",
		Short: "Dated Markdown notebook manager",
		Long:  "daybook — generate, clean, search, and render a notebook of dated Markdown work notes.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(initCmd())
	root.AddCommand(noteCmd())
	root.AddCommand(seriesCmd())
	root.AddCommand(cleanCmd())
	root.AddCommand(renderCmd())
	root.AddCommand(extractCmd())
	root.AddCommand(projectsCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(reindexCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(versionCmd())

	// Global --notebook flag
	root.PersistentFlags().StringVar(&config.NotebookOverride, "notebook", "", "Notebook root path (overrides auto-detect)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the daybook version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("daybook %s\n", Version)
			return nil
		},
	}
}

// loadConfig resolves the notebook root and loads its config.
func loadConfig() (*config.Config, error) {
	root, err := config.ResolveRoot()
	if err != nil {
		return nil, err
	}
	return config.Load(root)
}

// loadNotebook loads the notebook, printing any per-file load errors.
// It fails only when every file failed, so bulk commands keep working
// over the notes that do parse.
func loadNotebook() (*config.Config, *notebook.Notebook, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	nb, err := notebook.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, le := range nb.Errors {
		fmt.Fprintf(os.Stderr, "  [ERROR] %s: %v\n", le.Rel, le.Err)
	}
	if len(nb.Notes) == 0 && len(nb.Errors) > 0 {
		return nil, nil, fmt.Errorf("no readable notes (%d failed)", len(nb.Errors))
	}
	return cfg, nb, nil
}
