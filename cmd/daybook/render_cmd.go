package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/daybook/internal/render"
)

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render the whole notebook to a single HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, nb, err := loadNotebook()
			if err != nil {
				return err
			}
			r, err := render.New(cfg)
			if err != nil {
				return err
			}
			path, err := r.RenderNotebook(nb)
			if err != nil {
				return err
			}
			fmt.Printf("Rendered %s\n", path)
			return nil
		},
	}
}
