package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/clean"
)

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Normalize headings and apply corrections across the notebook",
		Long: `Canonicalizes project and task headings against the name registry,
applies the regex corrections from .daybook/corrections.yaml, trims
trailing whitespace and collapses blank-line runs. Only changed files
are rewritten. Running clean twice changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, nb, err := loadNotebook()
			if err != nil {
				return err
			}

			reg, err := clean.LoadRegistry(cfg.RegistryPath())
			if err != nil {
				return err
			}
			rules, err := clean.LoadRules(cfg.RulesPath())
			if err != nil {
				return err
			}

			stats := nb.Clean(clean.NewEngine(reg, rules))
			for _, f := range stats.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "  [ERROR] %s: %v\n", f.Rel, f.Err)
			}
			if err := reg.Save(cfg.RegistryPath()); err != nil {
				return fmt.Errorf("save registry: %w", err)
			}

			fmt.Printf("Cleaned %d note(s), %d changed", stats.Files, stats.Changed)
			if len(stats.Failed) > 0 {
				fmt.Printf(", %d failed", len(stats.Failed))
			}
			fmt.Println()
			if stats.Files > 0 && len(stats.Failed) == stats.Files {
				return fmt.Errorf("all %d notes failed to clean", stats.Files)
			}
			return nil
		},
	}
}
