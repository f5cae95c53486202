package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mvanders/notedown/internal/vault"
)

// McpCmd serves the vault to MCP clients over stdio.
type McpCmd struct{}

type noteSearchArgs struct {
	Query string `json:"query" jsonschema:"Full-text query matched against note titles and content"`
}

type noteFetchArgs struct {
	ID string `json:"id" jsonschema:"The note ID, as returned by note_search"`
}

type noteCreateArgs struct {
	Title   string `json:"title" jsonschema:"Title for the new note"`
	Content string `json:"content,omitempty" jsonschema:"Optional markdown body"`
}

type mcpTools struct {
	vlt *vault.Vault
}

func (cmd *McpCmd) Run(cli *CLI, cfg *UserConfig) error {
	logger := setupStderrLogger(cli.Debug)
	slog.SetDefault(logger)

	v, err := cli.openVault(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	t := &mcpTools{vlt: v}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "notedown",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "note_search",
		Description: "Search notes by full-text query. Returns one line per hit: <id>\\t<title>\\t<snippet>.",
	}, t.handleSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "note_fetch",
		Description: "Fetch the full markdown content of a note by ID.",
	}, t.handleFetch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "note_create",
		Description: "Create a new note at the top level of the notebook.",
	}, t.handleCreate)

	slog.Debug("starting MCP server", "vault", v.Path())
	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func (t *mcpTools) handleSearch(ctx context.Context, req *mcp.CallToolRequest, args noteSearchArgs) (*mcp.CallToolResult, any, error) {
	slog.Debug("note_search called", "query", args.Query)

	hits, err := t.vlt.Search(args.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("search failed: %w", err)
	}

	var sb strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", h.NoteID, h.Title, h.Snippet)
	}
	if sb.Len() == 0 {
		sb.WriteString("no matches")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}, nil, nil
}

func (t *mcpTools) handleFetch(ctx context.Context, req *mcp.CallToolRequest, args noteFetchArgs) (*mcp.CallToolResult, any, error) {
	slog.Debug("note_fetch called", "id", args.ID)

	note, err := t.vlt.GetNote(args.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch failed: %w", err)
	}
	if note == nil {
		return nil, nil, fmt.Errorf("no note with id %s", args.ID)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: note.Content},
		},
	}, nil, nil
}

func (t *mcpTools) handleCreate(ctx context.Context, req *mcp.CallToolRequest, args noteCreateArgs) (*mcp.CallToolResult, any, error) {
	slog.Debug("note_create called", "title", args.Title)

	note, err := t.vlt.CreateNote("", args.Title)
	if err != nil {
		return nil, nil, fmt.Errorf("create failed: %w", err)
	}
	if args.Content != "" {
		content := args.Content
		if !strings.HasPrefix(content, "#") {
			content = "# " + args.Title + "\n\n" + content
		}
		if err := t.vlt.UpdateNoteContent(note.ID, content); err != nil {
			return nil, nil, fmt.Errorf("create failed: %w", err)
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "created " + note.ID},
		},
	}, nil, nil
}
