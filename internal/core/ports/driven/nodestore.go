package driven

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// NodeWriter writes law nodes during an import.
type NodeWriter interface {
	// InsertNode stores a node and returns its generated id.
	// The parent, if any, must already exist.
	InsertNode(ctx context.Context, node *domain.Node) (int64, error)

	// DeleteNodesByLevel removes every node of a law at one level and
	// returns the number of rows removed. Fails if a surviving node still
	// references a removed one as its parent.
	DeleteNodesByLevel(ctx context.Context, lawID int64, level domain.Level) (int64, error)

	// DeleteNodesByParentPresence removes the nodes of a law that have
	// (hasParent) or lack (!hasParent) a parent.
	DeleteNodesByParentPresence(ctx context.Context, lawID int64, hasParent bool) (int64, error)

	// CountNodes returns the number of nodes stored for a law.
	CountNodes(ctx context.Context, lawID int64) (int, error)
}

// NodeReader is the read side of the node store.
type NodeReader interface {
	// GetNode returns a node by id or domain.ErrNotFound.
	GetNode(ctx context.Context, id int64) (*domain.Node, error)

	// ListNodesByLaw returns every node of a law ordered by sort key.
	ListNodesByLaw(ctx context.Context, lawID int64) ([]domain.Node, error)

	// SearchNodes returns up to limit nodes whose content contains query,
	// ignoring case, ordered by law then sort key.
	SearchNodes(ctx context.Context, query string, limit int) ([]domain.Node, error)
}
