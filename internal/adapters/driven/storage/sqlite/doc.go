// Package sqlite provides a SQLite-based implementation of driven.Store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database holds three tables:
//
//   - laws: the law registry (driven.LawRegistry, driven.LawReader)
//   - law_nodes: the structural tree (driven.NodeWriter, driven.NodeReader)
//   - import_runs: the import audit log
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.vnlaw/data/laws.db
//
// # Integrity
//
// Foreign keys are enabled on every pooled connection through the DSN, so
// a node can never outlive its parent and deletes must run leaves first.
package sqlite
