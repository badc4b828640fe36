package driving

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// IngestService imports legal documents into the store.
type IngestService interface {
	// Import parses a document and persists its node tree in one
	// transaction. An existing code without req.Replace fails with
	// *domain.LawExistsError and writes nothing.
	Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error)

	// Preview parses a document without touching the store.
	Preview(ctx context.Context, req domain.ImportRequest) (*domain.Preview, error)
}
