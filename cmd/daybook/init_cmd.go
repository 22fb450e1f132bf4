package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/notebook"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new notebook (start here)",
		Long: `Seeds a notebook in the given directory (default: current directory).

What it creates:
  notes/      your dated Markdown notes
  rendered/   HTML output
  templates/  note.md, page.html, note.css (edit these to taste)
  .daybook/   config.toml, name registry, correction rules

Existing files are never overwritten, so a folder that already holds
notes can be adopted as-is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := os.Getwd()
			if err == nil && dir == "." {
				dir = abs
			}
			if err := notebook.Init(dir); err != nil {
				return err
			}
			fmt.Printf("Notebook created in %s\n", dir)
			fmt.Println("Next: daybook note  (generate today's note)")
			return nil
		},
	}
}
