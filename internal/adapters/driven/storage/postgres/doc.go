// Package postgres provides a PostgreSQL implementation of driven.Store
// using pgx. It mirrors the SQLite schema with native DATE and BIGSERIAL
// columns and is selected with storage.driver = "postgres".
package postgres
