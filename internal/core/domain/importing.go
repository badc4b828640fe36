package domain

import "time"

// ImportRequest describes one ingestion run.
type ImportRequest struct {
	// Path is the document to import (PDF or plain text).
	Path string

	// Text is already-extracted text. When set, Path is only used for
	// code and title inference.
	Text string

	// Code is the law code. Inferred from the file name when empty.
	Code string

	// Title is inferred from the document when empty.
	Title string

	DocType          DocType
	RelatedLawCode   string
	IssuingBody      string
	PromulgationDate *time.Time

	// EffectiveStart and EffectiveEnd are stamped on every node.
	EffectiveStart time.Time
	EffectiveEnd   time.Time

	// Replace discards and regenerates the node tree of an existing code.
	Replace bool

	// PreferNative asks PDF extraction to try the pure-Go reader first.
	PreferNative bool
}

// ImportMode reports what an import did to the law registry.
type ImportMode string

const (
	ImportCreated  ImportMode = "created"
	ImportReplaced ImportMode = "replaced"
)

// ImportResult is returned by a successful import.
type ImportResult struct {
	// RunID identifies this import run.
	RunID string

	LawID   int64
	Code    string
	Title   string
	Mode    ImportMode
	Stats   Statistics
	Deleted int64
}

// ImportRun is the audit record of one committed import.
type ImportRun struct {
	ID         string
	LawID      int64
	Mode       ImportMode
	Articles   int
	Clauses    int
	Items      int
	Deleted    int64
	ImportedAt time.Time
}

// Preview is the result of a dry run: the parse without any store access.
type Preview struct {
	Code     string
	Title    string
	DocType  DocType
	Document *ParsedDocument
	Stats    Statistics
}
