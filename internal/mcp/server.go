// Package mcp implements the MCP server for daybook, exposing the
// notebook to MCP clients over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgx-labs/daybook/internal/config"
	"github.com/sgx-labs/daybook/internal/index"
	"github.com/sgx-labs/daybook/internal/notebook"
)

var (
	db           *index.DB
	cfg          *config.Config
	notebookRoot string
)

// Version is set by the caller (main) before calling Serve.
var Version = "dev"

// Serve starts the MCP server on stdio.
func Serve(c *config.Config) error {
	var err error
	cfg = c
	notebookRoot, _ = filepath.Abs(cfg.Root)

	db, err = index.Open(cfg)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer db.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "daybook",
		Version: Version,
	}, nil)

	registerTools(server)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Search the user's work notebook for what was done, when, and for which project. Use this to find prior work, decisions, or context on a topic.\n\nArgs:\n  query: Search terms (e.g. 'database migration')\n  project: Optional project name to narrow the search\n  top_k: Number of results (default 10, max 100)\n\nReturns ranked records with date, note path, project, task, and a snippet.",
	}, handleSearchNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_note",
		Description: "Read the full Markdown of one daily note. Use after search_notes when you need the complete text. Paths are relative to the notebook root.\n\nArgs:\n  path: Relative path from the notebook root (as returned by search_notes)\n\nReturns the note's full markdown.",
	}, handleGetNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List every project name that appears in the notebook. Use this to discover what the user works on before narrowing a search.\n\nReturns a sorted list of project names.",
	}, handleListProjects)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "project_tasks",
		Description: "List all tasks recorded for one project, in chronological order. Use this to build a timeline of work on a project.\n\nArgs:\n  project: Project name (case-insensitive)\n\nReturns dated task entries, oldest first.",
	}, handleProjectTasks)
}

// Tool input types

type searchInput struct {
	Query   string `json:"query" jsonschema:"Search terms"`
	Project string `json:"project,omitempty" jsonschema:"Optional project name filter"`
	TopK    int    `json:"top_k" jsonschema:"Number of results (default 10, max 100)"`
}

type getInput struct {
	Path string `json:"path" jsonschema:"Relative path from the notebook root"`
}

type emptyInput struct{}

type projectInput struct {
	Project string `json:"project" jsonschema:"Project name"`
}

// Tool handlers

func handleSearchNotes(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, any, error) {
	topK := clampTopK(input.TopK, 10)

	results, err := db.Search(input.Query, index.SearchOptions{
		Project: input.Project,
		Limit:   topK,
	})
	if err != nil {
		return textResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}
	if len(results) == 0 {
		return textResult("No results found. The index may be stale — try 'daybook reindex'."), nil, nil
	}

	data, _ := json.MarshalIndent(results, "", "  ")
	return textResult(string(data)), nil, nil
}

func handleGetNote(ctx context.Context, req *mcp.CallToolRequest, input getInput) (*mcp.CallToolResult, any, error) {
	safePath := safeNotebookPath(input.Path)
	if safePath == "" {
		return textResult("Error: path must be a relative path within the notebook."), nil, nil
	}

	content, err := os.ReadFile(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return textResult("File not found."), nil, nil
		}
		return textResult("Error reading file."), nil, nil
	}
	return textResult(string(content)), nil, nil
}

func handleListProjects(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	nb, err := notebook.Load(cfg)
	if err != nil {
		return textResult(fmt.Sprintf("Error loading notebook: %v", err)), nil, nil
	}
	projects := nb.AllProjects()
	if len(projects) == 0 {
		return textResult("The notebook has no projects yet."), nil, nil
	}
	data, _ := json.MarshalIndent(projects, "", "  ")
	return textResult(string(data)), nil, nil
}

// taskRecord is the wire form of one dated task entry.
type taskRecord struct {
	Date string `json:"date"`
	Path string `json:"path"`
	Task string `json:"task"`
}

func handleProjectTasks(ctx context.Context, req *mcp.CallToolRequest, input projectInput) (*mcp.CallToolResult, any, error) {
	nb, err := notebook.Load(cfg)
	if err != nil {
		return textResult(fmt.Sprintf("Error loading notebook: %v", err)), nil, nil
	}
	entries := nb.TasksForProject(input.Project)
	if len(entries) == 0 {
		return textResult(fmt.Sprintf("No tasks recorded for project %q.", input.Project)), nil, nil
	}

	records := make([]taskRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, taskRecord{
			Date: e.Date,
			Path: e.Rel,
			Task: e.Task.Name(),
		})
	}
	data, _ := json.MarshalIndent(records, "", "  ")
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func clampTopK(topK, defaultVal int) int {
	if topK <= 0 {
		return defaultVal
	}
	if topK > 100 {
		return 100
	}
	return topK
}

// safeNotebookPath resolves a relative path within the notebook,
// blocking traversal outside the root.
func safeNotebookPath(path string) string {
	if filepath.IsAbs(path) {
		return ""
	}
	full, err := filepath.Abs(filepath.Join(notebookRoot, filepath.FromSlash(path)))
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(full, notebookRoot+string(filepath.Separator)) && full != notebookRoot {
		return ""
	}
	return full
}
