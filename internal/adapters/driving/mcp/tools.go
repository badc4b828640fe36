package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// defaultSearchLimit applies when the caller sends no limit.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search_nodes tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to look for in clause and item content (case-insensitive)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of nodes to return (default 10)"`
}

// SearchOutput is the output schema for the search_nodes tool.
type SearchOutput struct {
	Results []NodeOutput `json:"results"`
	Count   int          `json:"count"`
}

// GetNodeInput is the input schema for the get_node tool.
type GetNodeInput struct {
	ID int64 `json:"id" jsonschema:"node id as returned by search_nodes or law_toc"`
}

// TOCInput is the input schema for the law_toc tool.
type TOCInput struct {
	Code string `json:"code" jsonschema:"law code, e.g. 52/2014/QH13"`
}

// TOCOutput is the output schema for the law_toc tool.
type TOCOutput struct {
	Code    string     `json:"code"`
	Title   string     `json:"title"`
	Entries []TOCEntry `json:"entries"`
}

// TOCEntry is one line of a table of contents.
type TOCEntry struct {
	ID    int64  `json:"id"`
	Level string `json:"level"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"`
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// NodeOutput is a node as returned to the assistant.
type NodeOutput struct {
	ID       int64  `json:"id"`
	LawID    int64  `json:"law_id"`
	ParentID *int64 `json:"parent_id,omitempty"`
	Level    string `json:"level"`
	Label    string `json:"label,omitempty"`
	Title    string `json:"title,omitempty"`
	Path     string `json:"path"`
	Article  string `json:"article,omitempty"`
	Content  string `json:"content,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_nodes",
		Description: "Search clauses and items of imported Vietnamese laws by content",
	}, s.handleSearchNodes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_node",
		Description: "Fetch one chapter, article, clause or item by id",
	}, s.handleGetNode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "law_toc",
		Description: "List the structure of a law in document order",
	}, s.handleLawTOC)
}

func (s *Server) handleSearchNodes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	nodes, err := s.ports.Nodes.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]NodeOutput, len(nodes)),
		Count:   len(nodes),
	}
	for i := range nodes {
		output.Results[i] = toNodeOutput(&nodes[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetNode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNodeInput,
) (*mcp.CallToolResult, NodeOutput, error) {
	node, err := s.ports.Nodes.Get(ctx, input.ID)
	if err != nil {
		return nil, NodeOutput{}, err
	}
	return nil, toNodeOutput(node), nil
}

func (s *Server) handleLawTOC(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TOCInput,
) (*mcp.CallToolResult, TOCOutput, error) {
	details, err := s.ports.Laws.Get(ctx, input.Code)
	if err != nil {
		return nil, TOCOutput{}, err
	}
	nodes, err := s.ports.Laws.TOC(ctx, input.Code)
	if err != nil {
		return nil, TOCOutput{}, err
	}

	output := TOCOutput{
		Code:    details.Law.Code,
		Title:   details.Law.Title,
		Entries: make([]TOCEntry, len(nodes)),
	}
	for i := range nodes {
		n := &nodes[i]
		output.Entries[i] = TOCEntry{
			ID:    n.ID,
			Level: string(n.Level),
			Label: n.OrdinalLabel,
			Title: n.Heading,
			Path:  n.Path,
			Depth: strings.Count(n.SortKey, "."),
		}
	}
	return nil, output, nil
}

func toNodeOutput(n *domain.Node) NodeOutput {
	return NodeOutput{
		ID:       n.ID,
		LawID:    n.LawID,
		ParentID: n.ParentID,
		Level:    string(n.Level),
		Label:    n.OrdinalLabel,
		Title:    n.Title,
		Path:     n.Path,
		Article:  domain.ArticleNumberFromPath(n.Path),
		Content:  n.ContentText,
	}
}
