package mcp

import (
	"context"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
)

// mockNodeService is a mock implementation of driving.NodeService.
type mockNodeService struct {
	nodes     []domain.Node
	node      *domain.Node
	err       error
	lastLimit int
}

func (m *mockNodeService) Get(_ context.Context, _ int64) (*domain.Node, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.node, nil
}

func (m *mockNodeService) Search(_ context.Context, _ string, limit int) ([]domain.Node, error) {
	m.lastLimit = limit
	return m.nodes, m.err
}

// mockLawService is a mock implementation of driving.LawService.
type mockLawService struct {
	laws    []domain.Law
	details *driving.LawDetails
	toc     []domain.Node
	err     error
}

func (m *mockLawService) List(_ context.Context) ([]domain.Law, error) {
	return m.laws, m.err
}

func (m *mockLawService) Get(_ context.Context, _ string) (*driving.LawDetails, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

func (m *mockLawService) TOC(_ context.Context, _ string) ([]domain.Node, error) {
	return m.toc, m.err
}

func newTestServer(nodes *mockNodeService, laws *mockLawService) (*Server, error) {
	return NewServer(&Ports{Nodes: nodes, Laws: laws})
}
