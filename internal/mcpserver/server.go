// Package mcpserver exposes the vault facade as MCP tools, so an LLM coding
// agent can drive it programmatically — the same audience the teacher's own
// cmd/agent.go targets with its agent-mode mounts, now via the protocol
// github.com/mark3labs/mcp-go implements rather than a projected filesystem.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/SimoHellgren/tagumori/internal/vault"
)

// New builds an MCP server exposing query/add_tags/remove_tags tools over v.
func New(v *vault.Vault) *server.MCPServer {
	s := server.NewMCPServer("tagumori", "0.1.0")

	s.AddTool(queryTool(), queryHandler(v))
	s.AddTool(addTagsTool(), addTagsHandler(v))
	s.AddTool(removeTagsTool(), removeTagsHandler(v))

	return s
}

// Serve runs the server over stdio — the transport an MCP-driven coding
// agent expects.
func Serve(v *vault.Vault) error {
	return server.ServeStdio(New(v))
}

func queryTool() mcp.Tool {
	return mcp.NewTool("query",
		mcp.WithDescription("Search the vault for files matching select/exclude tag expressions and an optional path regex"),
		mcp.WithString("select", mcp.Description("comma-separated tag expressions to select, OR'd together")),
		mcp.WithString("exclude", mcp.Description("comma-separated tag expressions to exclude, OR'd together")),
		mcp.WithString("pattern", mcp.Description("regex applied to the file path, default matches everything")),
		mcp.WithBoolean("ignore_case", mcp.Description("fold case when matching pattern")),
		mcp.WithBoolean("ignore_tag_case", mcp.Description("fold case when matching tag names")),
		mcp.WithBoolean("invert_match", mcp.Description("invert the pattern match")),
	)
}

func queryHandler(v *vault.Vault) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		selects := splitCSV(req.GetString("select", ""))
		excludes := splitCSV(req.GetString("exclude", ""))
		pattern := req.GetString("pattern", ".*")
		ignoreCase := req.GetBool("ignore_case", false)
		ignoreTagCase := req.GetBool("ignore_tag_case", false)
		invertMatch := req.GetBool("invert_match", false)

		paths, err := v.ExecuteQuery(ctx, selects, excludes, ignoreTagCase, pattern, ignoreCase, invertMatch)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
	}
}

func addTagsTool() mcp.Tool {
	return mcp.NewTool("add_tags",
		mcp.WithDescription("Attach a comma-separated tag expression to one or more files, optionally applying tagalongs"),
		mcp.WithArray("files", mcp.Required(), mcp.Description("absolute file paths")),
		mcp.WithString("tags", mcp.Required(), mcp.Description("comma-separated tag expression, e.g. \"genre[rock]\"")),
		mcp.WithBoolean("apply_tagalongs", mcp.Description("materialize the tagalong closure after attaching (default true)")),
	)
}

func addTagsHandler(v *vault.Vault) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		files := req.GetStringSlice("files", nil)
		if len(files) == 0 {
			return mcp.NewToolResultError("files is required"), nil
		}
		tagExpr, err := req.RequireString("tags")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		applyTagalongs := req.GetBool("apply_tagalongs", true)

		if err := v.AddTagsToFiles(ctx, files, []string{tagExpr}, applyTagalongs); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("tagged %d file(s)", len(files))), nil
	}
}

func removeTagsTool() mcp.Tool {
	return mcp.NewTool("remove_tags",
		mcp.WithDescription("Detach a comma-separated tag expression's terminal nodes from one or more files"),
		mcp.WithArray("files", mcp.Required(), mcp.Description("absolute file paths")),
		mcp.WithString("tags", mcp.Required(), mcp.Description("comma-separated tag expression, e.g. \"genre[rock]\"")),
	)
}

func removeTagsHandler(v *vault.Vault) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		files := req.GetStringSlice("files", nil)
		if len(files) == 0 {
			return mcp.NewToolResultError("files is required"), nil
		}
		tagExpr, err := req.RequireString("tags")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := v.RemoveTagsFromFiles(ctx, files, []string{tagExpr}); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("untagged %d file(s)", len(files))), nil
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
