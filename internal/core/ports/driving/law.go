package driving

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// LawService exposes the law registry.
type LawService interface {
	// List returns every registered law.
	List(ctx context.Context) ([]domain.Law, error)

	// Get returns a law with its node count and import history.
	Get(ctx context.Context, code string) (*LawDetails, error)

	// TOC returns the nodes of a law in document order.
	TOC(ctx context.Context, code string) ([]domain.Node, error)
}

// LawDetails is a law with derived information for display.
type LawDetails struct {
	Law domain.Law

	// RelatedLawCode is the code of the related law, if any.
	RelatedLawCode string

	// NodeCount is the number of stored nodes.
	NodeCount int

	// Runs is the import history, newest first.
	Runs []domain.ImportRun
}
