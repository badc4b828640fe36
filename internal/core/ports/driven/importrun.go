package driven

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// ImportRunWriter records committed imports.
type ImportRunWriter interface {
	// RecordImportRun stores the audit record of an import.
	RecordImportRun(ctx context.Context, run *domain.ImportRun) error
}

// ImportRunReader lists recorded imports.
type ImportRunReader interface {
	// ListImportRuns returns the runs of a law, newest first.
	ListImportRuns(ctx context.Context, lawID int64) ([]domain.ImportRun, error)
}
