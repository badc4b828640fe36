package driven

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// LawRegistry reads and writes law records during an import.
type LawRegistry interface {
	// FindLawByCode returns the law with the given code or domain.ErrNotFound.
	FindLawByCode(ctx context.Context, code string) (*domain.Law, error)

	// CreateLaw inserts a law and returns its generated id.
	// A duplicate code is domain.ErrAlreadyExists.
	CreateLaw(ctx context.Context, law *domain.Law) (int64, error)

	// UpdateLaw overwrites the mutable columns of an existing law.
	UpdateLaw(ctx context.Context, law *domain.Law) error
}

// LawReader is the read side of the law registry.
type LawReader interface {
	// GetLawByCode returns the law with the given code or domain.ErrNotFound.
	GetLawByCode(ctx context.Context, code string) (*domain.Law, error)

	// GetLaw returns the law with the given id or domain.ErrNotFound.
	GetLaw(ctx context.Context, id int64) (*domain.Law, error)

	// ListLaws returns every law ordered by code.
	ListLaws(ctx context.Context) ([]domain.Law, error)
}
