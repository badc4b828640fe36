package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for vnlaw resources.
const uriScheme = "vnlaw://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "laws",
		Name:        "laws",
		Description: "All imported laws and decrees",
		MIMEType:    "application/json",
	}, s.handleLawsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "nodes/{nodeId}",
		Name:        "node-text",
		Description: "Text of a single chapter, article, clause or item",
		MIMEType:    "text/plain",
	}, s.handleNodeResource)
}

func (s *Server) handleLawsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	laws, err := s.ports.Laws.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing laws: %w", err)
	}

	type lawInfo struct {
		ID      int64  `json:"id"`
		Code    string `json:"code"`
		DocType string `json:"doc_type"`
		Title   string `json:"title"`
	}
	infos := make([]lawInfo, len(laws))
	for i := range laws {
		infos[i] = lawInfo{
			ID:      laws[i].ID,
			Code:    laws[i].Code,
			DocType: string(laws[i].DocType),
			Title:   laws[i].Title,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling laws: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleNodeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractNodeID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	node, err := s.ports.Nodes.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	text := node.ContentText
	if heading := strings.TrimSpace(node.OrdinalLabel + " " + node.Heading); text == "" {
		text = heading
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}, nil
}

// extractNodeID parses the id from a URI like vnlaw://nodes/{nodeId}.
func extractNodeID(uri string) (int64, bool) {
	const prefix = uriScheme + "nodes/"
	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
