package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mkraev/clipsync/internal/assistant"
	"github.com/mkraev/clipsync/internal/core"
	"github.com/mkraev/clipsync/internal/query"
	"github.com/mkraev/clipsync/internal/store"
)

// NewMCPServer creates an MCP server exposing the clipboard library and
// workflow engine as tools and resources.
func NewMCPServer(deps AppDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"clipsync",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("clipsync — local clipboard history, notes, and automation workflows."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("save_item",
			mcp.WithDescription("Store a piece of text in the clipboard library."),
			mcp.WithString("content", mcp.Description("The text content to store"), mcp.Required()),
			mcp.WithString("title", mcp.Description("Title for the item")),
			mcp.WithString("category", mcp.Description("One of clipboard, notes, snippets, prompts (default clipboard)")),
			mcp.WithArray("tags", mcp.Description("Optional tags")),
		),
		mcpSaveItem(deps),
	)

	s.AddTool(
		mcp.NewTool("search_items",
			mcp.WithDescription("Search the clipboard library by facet and free text, pinned items first."),
			mcp.WithString("query", mcp.Description("Free-text search over title, content, and tags")),
			mcp.WithString("facet", mcp.Description("Facet such as all, starred, untagged, recycle, a category name, or tag:<name> (default all)")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpSearchItems(deps),
	)

	s.AddTool(
		mcp.NewTool("get_item",
			mcp.WithDescription("Fetch a single item by id, including its full content."),
			mcp.WithString("id", mcp.Description("Item id"), mcp.Required()),
		),
		mcpGetItem(deps),
	)

	s.AddTool(
		mcp.NewTool("run_command",
			mcp.WithDescription("Run a slash command (e.g. /summarize) against an item and return the effect commands it produced."),
			mcp.WithString("command", mcp.Description("Slash command input"), mcp.Required()),
			mcp.WithString("item_id", mcp.Description("Item the command operates on")),
		),
		mcpRunCommand(deps),
	)

	s.AddTool(
		mcp.NewTool("list_workflows",
			mcp.WithDescription("List automation workflows with their triggers, commands, and enabled state."),
		),
		mcpListWorkflows(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"clipsync://counts",
			"Facet Counts",
			mcp.WithResourceDescription("Item counts per sidebar facet as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCounts(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"clipsync://tags",
			"Known Tags",
			mcp.WithResourceDescription("All tags on live items as a JSON array"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceTags(deps),
	)

	return s
}

func mcpSaveItem(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}

		category := core.Category(req.GetString("category", string(core.CategoryClipboard)))
		if !core.ValidCategory(category) {
			return mcpError(fmt.Sprintf("unknown category %q", category)), nil
		}

		it, err := deps.Items.Create(category, false)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to create item: %v", err)), nil
		}

		upd := store.UpdateRequest{Content: &content}
		if title := req.GetString("title", ""); title != "" {
			upd.Title = &title
		}
		if it, err = deps.Items.Update(it.ID, upd); err != nil {
			return mcpError(fmt.Sprintf("failed to store content: %v", err)), nil
		}

		for _, tag := range req.GetStringSlice("tags", nil) {
			if it, err = deps.Items.AddTag(it.ID, tag); err != nil {
				return mcpError(fmt.Sprintf("saved item %s but failed to tag: %v", it.ID, err)), nil
			}
		}

		return mcpText(fmt.Sprintf("Stored item %s", it.ID)), nil
	}
}

func mcpSearchItems(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		facet, err := query.ParseFacet(req.GetString("facet", "all"))
		if err != nil {
			return mcpError(fmt.Sprintf("invalid facet: %v", err)), nil
		}

		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		items := deps.Query.Query(facet, req.GetString("query", ""))
		if len(items) > limit {
			items = items[:limit]
		}

		type itemResult struct {
			ID        string   `json:"id"`
			Title     string   `json:"title"`
			Category  string   `json:"category"`
			Tags      []string `json:"tags,omitempty"`
			Pinned    bool     `json:"pinned,omitempty"`
			Starred   bool     `json:"starred,omitempty"`
			Snippet   string   `json:"snippet"`
			UpdatedAt string   `json:"updated_at"`
		}

		results := make([]itemResult, len(items))
		for i, it := range items {
			results[i] = itemResult{
				ID:        it.ID,
				Title:     it.Title,
				Category:  string(it.Category),
				Tags:      it.Tags,
				Pinned:    it.Pinned,
				Starred:   it.Starred,
				Snippet:   truncateRunes(it.SearchText(), 200),
				UpdatedAt: it.UpdatedAt.Format(time.RFC3339),
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetItem(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		it, err := deps.Items.Get(id)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get item: %v", err)), nil
		}

		b, err := json.Marshal(it)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal item: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRunCommand(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := req.RequireString("command")
		if err != nil {
			return mcpError("command is required"), nil
		}
		if !assistant.IsCommand(input) {
			return mcpError("command must start with /"), nil
		}

		m := assistant.MatchCommand(input, deps.Workflows.Commands())
		if m.Selected == nil {
			return mcpError(fmt.Sprintf("no workflow matches %q", input)), nil
		}

		res, err := deps.Workflows.Run(ctx, m.Selected.ID, req.GetString("item_id", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to run %s: %v", m.Selected.Name, err)), nil
		}

		b, err := json.Marshal(res)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListWorkflows(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type workflowSummary struct {
			ID       string   `json:"id"`
			Name     string   `json:"name"`
			Command  string   `json:"command,omitempty"`
			Triggers []string `json:"triggers,omitempty"`
			Enabled  bool     `json:"enabled"`
		}

		workflows := deps.Workflows.List()
		summaries := make([]workflowSummary, len(workflows))
		for i, w := range workflows {
			triggers := make([]string, len(w.Triggers))
			for j, t := range w.Triggers {
				triggers[j] = string(t)
			}
			summaries[i] = workflowSummary{
				ID:       w.ID,
				Name:     w.Name,
				Command:  w.Command,
				Triggers: triggers,
				Enabled:  w.Enabled,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal workflows: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCounts(deps AppDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Query.Counts())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal counts: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceTags(deps AppDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tags := deps.Items.Tags()
		if tags == nil {
			tags = []string{}
		}
		b, err := json.Marshal(tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
