package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/clean"
	"github.com/sgx-labs/daybook/internal/notebook"
	"github.com/sgx-labs/daybook/internal/render"
)

func extractCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "extract [project]",
		Short: "Render one project's dated sections to its own HTML page",
		Long: `Collects everything recorded under a project across the whole
notebook, day by day, and renders it to rendered/<project>.html.

  daybook extract "Client Alpha"
  daybook extract --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("name one project or pass --all")
			}
			cfg, nb, err := loadNotebook()
			if err != nil {
				return err
			}
			r, err := render.New(cfg)
			if err != nil {
				return err
			}

			if all {
				paths, errs := r.RenderAllProjects(nb)
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  [ERROR] %v\n", e)
				}
				fmt.Printf("Rendered %d project page(s)\n", len(paths))
				if len(paths) == 0 && len(errs) > 0 {
					return fmt.Errorf("no project could be rendered")
				}
				return nil
			}

			name := args[0]
			path, err := r.RenderProject(nb, name)
			if errors.Is(err, notebook.ErrProjectNotFound) {
				// A name the registry knows is a real project that simply has
				// nothing written down, not a typo.
				reg, regErr := clean.LoadRegistry(cfg.RegistryPath())
				if regErr == nil && reg.HasProject(name) {
					fmt.Printf("Nothing recorded for %q yet\n", name)
					return nil
				}
				return err
			}
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Printf("Nothing recorded for %q yet\n", name)
				return nil
			}
			fmt.Printf("Rendered %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Extract every project")
	return cmd
}
