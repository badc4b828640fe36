package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
)

// Ensure NodeService implements the interface.
var _ driving.NodeService = (*NodeService)(nil)

// DefaultSearchLimit is used when a search asks for no particular limit.
const DefaultSearchLimit = 20

// NodeService reads individual nodes.
type NodeService struct {
	store driven.NodeReader
}

// NewNodeService creates a new node service.
func NewNodeService(store driven.NodeReader) *NodeService {
	return &NodeService{store: store}
}

// Get returns a node by id.
func (s *NodeService) Get(ctx context.Context, id int64) (*domain.Node, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetNode(ctx, id)
}

// Search returns nodes whose content contains query, ignoring case.
func (s *NodeService) Search(ctx context.Context, query string, limit int) ([]domain.Node, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	query = norm.NFC.String(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.store.SearchNodes(ctx, query, limit)
}
