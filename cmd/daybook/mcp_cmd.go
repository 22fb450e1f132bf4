package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/sgx-labs/daybook/internal/mcp"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Exposes the notebook to MCP clients (Claude Desktop, editors)
over stdio. Tools: search_notes, get_note, list_projects, project_tasks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mcpserver.Version = Version
			return mcpserver.Serve(cfg)
		},
	}
}
