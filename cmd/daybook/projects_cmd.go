package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func projectsCmd() *cobra.Command {
	var tasks bool
	cmd := &cobra.Command{
		Use:   "projects [name]",
		Short: "List projects, or the dated tasks of one project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, nb, err := loadNotebook()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				entries := nb.TasksForProject(args[0])
				if len(entries) == 0 {
					fmt.Printf("No tasks recorded for %q\n", args[0])
					return nil
				}
				for _, e := range entries {
					fmt.Printf("%s  %s\n", e.Date, e.Task.Name())
				}
				return nil
			}

			for _, name := range nb.AllProjects() {
				if tasks {
					fmt.Printf("%s (%d tasks)\n", name, len(nb.TasksForProject(name)))
				} else {
					fmt.Println(name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tasks, "tasks", false, "Show task counts per project")
	return cmd
}
