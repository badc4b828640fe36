package mcp

import (
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server reads from.
type Ports struct {
	// Nodes searches and fetches structural nodes.
	Nodes driving.NodeService

	// Laws lists laws and builds tables of contents.
	Laws driving.LawService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Nodes == nil {
		return ErrMissingNodeService
	}
	if p.Laws == nil {
		return ErrMissingLawService
	}
	return nil
}
