// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor: Turns a document file into plain text
//   - Transactor: Runs an import inside one store transaction
//   - IngestTx: Law registry, node writer and import-run log bound to a transaction
//   - LawReader, NodeReader, ImportRunReader: Read side of the store
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
