// Package mcp exposes the law store to AI assistants over the Model
// Context Protocol. It is read-only: tools search and navigate nodes,
// resources list laws and return node text.
package mcp

import "errors"

var (
	// ErrMissingNodeService is returned when the node service is not provided.
	ErrMissingNodeService = errors.New("mcp: node service is required")

	// ErrMissingLawService is returned when the law service is not provided.
	ErrMissingLawService = errors.New("mcp: law service is required")
)
