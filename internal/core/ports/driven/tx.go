package driven

import "context"

// IngestTx is the set of write operations available inside one import
// transaction.
type IngestTx interface {
	LawRegistry
	NodeWriter
	ImportRunWriter
}

// Transactor runs a function inside a single store transaction.
//
// The transaction commits when fn returns nil and rolls back when fn
// returns an error or panics. The error from fn is returned unchanged so
// callers can match it with errors.Is and errors.As.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx IngestTx) error) error
}

// Store is a complete storage backend.
type Store interface {
	Transactor
	LawReader
	NodeReader
	ImportRunReader

	// Close releases the underlying connections.
	Close() error
}
