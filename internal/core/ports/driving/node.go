package driving

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// NodeService reads individual nodes.
type NodeService interface {
	// Get returns a node by id.
	Get(ctx context.Context, id int64) (*domain.Node, error)

	// Search returns nodes whose content contains query.
	// A non-positive limit uses the default.
	Search(ctx context.Context, query string, limit int) ([]domain.Node, error)
}
