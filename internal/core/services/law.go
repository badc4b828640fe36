package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
)

// Ensure LawService implements the interface.
var _ driving.LawService = (*LawService)(nil)

// LawReadStore is the subset of the store the read services need.
type LawReadStore interface {
	driven.LawReader
	driven.NodeReader
	driven.ImportRunReader
}

// LawService reads laws and their node trees.
type LawService struct {
	store LawReadStore
}

// NewLawService creates a new law service.
func NewLawService(store LawReadStore) *LawService {
	return &LawService{store: store}
}

// List returns every registered law.
func (s *LawService) List(ctx context.Context) ([]domain.Law, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListLaws(ctx)
}

// Get returns a law with its node count, related law code and import
// history.
func (s *LawService) Get(ctx context.Context, code string) (*driving.LawDetails, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	law, err := s.store.GetLawByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	nodes, err := s.store.ListNodesByLaw(ctx, law.ID)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	runs, err := s.store.ListImportRuns(ctx, law.ID)
	if err != nil {
		return nil, fmt.Errorf("listing import runs: %w", err)
	}

	details := &driving.LawDetails{
		Law:       *law,
		NodeCount: len(nodes),
		Runs:      runs,
	}
	if law.RelatedLawID != nil {
		related, err := s.store.GetLaw(ctx, *law.RelatedLawID)
		switch {
		case err == nil:
			details.RelatedLawCode = related.Code
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("loading related law: %w", err)
		}
	}
	return details, nil
}

// TOC returns the nodes of a law in sort-key order.
func (s *LawService) TOC(ctx context.Context, code string) ([]domain.Node, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	law, err := s.store.GetLawByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.store.ListNodesByLaw(ctx, law.ID)
}
