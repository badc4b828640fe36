// Package domain defines the core business entities for vnlaw.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Law: A registered statute or decree, keyed by its official code
//   - Node: One persisted structural unit (Chương, Điều, Khoản, Điểm)
//   - ParsedDocument: The in-memory tree produced by the structural parser
//   - ImportRequest / ImportResult: The contract of one ingestion run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
