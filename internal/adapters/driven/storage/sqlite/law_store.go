package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
)

// timestampLayout is used for import_runs.imported_at.
const timestampLayout = time.RFC3339Nano

const lawColumns = `id, code, doc_type, title, issuing_body, promulgation_date,
	related_law_id, effective_start, effective_end, status`

const nodeColumns = `id, law_id, parent_id, level, ordinal_label, heading, content_text,
	sort_key, path, title, effective_start, effective_end`

// ==================== Ingest Transaction ====================

// ingestTx implements driven.IngestTx on top of a *sql.Tx.
type ingestTx struct {
	q querier
}

var _ driven.IngestTx = (*ingestTx)(nil)

// FindLawByCode returns the law with the given code.
func (t *ingestTx) FindLawByCode(ctx context.Context, code string) (*domain.Law, error) {
	return getLawByCode(ctx, t.q, code)
}

// CreateLaw inserts a law and returns its id.
func (t *ingestTx) CreateLaw(ctx context.Context, law *domain.Law) (int64, error) {
	res, err := t.q.ExecContext(ctx, `
		INSERT INTO laws (code, doc_type, title, issuing_body, promulgation_date,
			related_law_id, effective_start, effective_end, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, law.Code, string(law.DocType), law.Title, nullString(law.IssuingBody),
		formatOptionalDate(law.PromulgationDate), nullInt64(law.RelatedLawID),
		formatDate(law.EffectiveStart), formatDate(law.EffectiveEnd), nullString(law.Status))
	if err != nil {
		return 0, fmt.Errorf("inserting law: %w", mapError(err))
	}
	return res.LastInsertId()
}

// UpdateLaw overwrites the mutable columns of a law.
func (t *ingestTx) UpdateLaw(ctx context.Context, law *domain.Law) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE laws SET doc_type = ?, title = ?, issuing_body = ?, promulgation_date = ?,
			related_law_id = ?, effective_start = ?, effective_end = ?, status = ?
		WHERE id = ?
	`, string(law.DocType), law.Title, nullString(law.IssuingBody),
		formatOptionalDate(law.PromulgationDate), nullInt64(law.RelatedLawID),
		formatDate(law.EffectiveStart), formatDate(law.EffectiveEnd), nullString(law.Status), law.ID)
	if err != nil {
		return fmt.Errorf("updating law: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertNode inserts a node and returns its id.
func (t *ingestTx) InsertNode(ctx context.Context, node *domain.Node) (int64, error) {
	res, err := t.q.ExecContext(ctx, `
		INSERT INTO law_nodes (law_id, parent_id, level, ordinal_label, heading, content_text,
			content_lower, sort_key, path, title, effective_start, effective_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, node.LawID, nullInt64(node.ParentID), string(node.Level), nullString(node.OrdinalLabel),
		nullString(node.Heading), nullString(node.ContentText), nullString(searchText(node.ContentText)),
		node.SortKey, node.Path, nullString(node.Title),
		formatDate(node.EffectiveStart), formatDate(node.EffectiveEnd))
	if err != nil {
		return 0, fmt.Errorf("inserting node: %w", err)
	}
	return res.LastInsertId()
}

// DeleteNodesByLevel removes the nodes of a law at one level.
func (t *ingestTx) DeleteNodesByLevel(ctx context.Context, lawID int64, level domain.Level) (int64, error) {
	res, err := t.q.ExecContext(ctx, "DELETE FROM law_nodes WHERE law_id = ? AND level = ?", lawID, string(level))
	if err != nil {
		return 0, fmt.Errorf("deleting %s nodes: %w", level, err)
	}
	return res.RowsAffected()
}

// DeleteNodesByParentPresence removes the nodes of a law with or without
// a parent.
func (t *ingestTx) DeleteNodesByParentPresence(ctx context.Context, lawID int64, hasParent bool) (int64, error) {
	query := "DELETE FROM law_nodes WHERE law_id = ? AND parent_id IS NULL"
	if hasParent {
		query = "DELETE FROM law_nodes WHERE law_id = ? AND parent_id IS NOT NULL"
	}
	res, err := t.q.ExecContext(ctx, query, lawID)
	if err != nil {
		return 0, fmt.Errorf("sweeping nodes: %w", err)
	}
	return res.RowsAffected()
}

// CountNodes returns the number of nodes of a law.
func (t *ingestTx) CountNodes(ctx context.Context, lawID int64) (int, error) {
	var n int
	if err := t.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM law_nodes WHERE law_id = ?", lawID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return n, nil
}

// RecordImportRun stores an import audit record.
func (t *ingestTx) RecordImportRun(ctx context.Context, run *domain.ImportRun) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO import_runs (id, law_id, mode, articles, clauses, items, deleted, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.LawID, string(run.Mode), run.Articles, run.Clauses, run.Items, run.Deleted,
		run.ImportedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("recording import run: %w", err)
	}
	return nil
}

// ==================== Read Side ====================

// GetLawByCode returns the law with the given code.
func (s *Store) GetLawByCode(ctx context.Context, code string) (*domain.Law, error) {
	return getLawByCode(ctx, s.db, code)
}

// GetLaw returns the law with the given id.
func (s *Store) GetLaw(ctx context.Context, id int64) (*domain.Law, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+lawColumns+" FROM laws WHERE id = ?", id)
	return scanLaw(row)
}

// ListLaws returns every law ordered by code.
func (s *Store) ListLaws(ctx context.Context) ([]domain.Law, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+lawColumns+" FROM laws ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("querying laws: %w", err)
	}
	defer rows.Close()

	var laws []domain.Law //nolint:prealloc // size unknown from query
	for rows.Next() {
		law, err := scanLaw(rows)
		if err != nil {
			return nil, err
		}
		laws = append(laws, *law)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating laws: %w", err)
	}
	return laws, nil
}

// GetNode returns a node by id.
func (s *Store) GetNode(ctx context.Context, id int64) (*domain.Node, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+nodeColumns+" FROM law_nodes WHERE id = ?", id)
	return scanNode(row)
}

// ListNodesByLaw returns the nodes of a law ordered by sort key.
func (s *Store) ListNodesByLaw(ctx context.Context, lawID int64) ([]domain.Node, error) {
	return s.queryNodes(ctx, "SELECT "+nodeColumns+" FROM law_nodes WHERE law_id = ? ORDER BY sort_key", lawID)
}

// SearchNodes returns nodes whose content contains query, ignoring case.
func (s *Store) SearchNodes(ctx context.Context, query string, limit int) ([]domain.Node, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	pattern := "%" + escapeLike(searchText(query)) + "%"
	return s.queryNodes(ctx, "SELECT "+nodeColumns+` FROM law_nodes
		WHERE content_lower LIKE ? ESCAPE '\'
		ORDER BY law_id, sort_key LIMIT ?`, pattern, limit)
}

// ListImportRuns returns the runs of a law, newest first.
func (s *Store) ListImportRuns(ctx context.Context, lawID int64) ([]domain.ImportRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, law_id, mode, articles, clauses, items, deleted, imported_at
		FROM import_runs WHERE law_id = ?
		ORDER BY imported_at DESC, rowid DESC
	`, lawID)
	if err != nil {
		return nil, fmt.Errorf("querying import runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ImportRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.ImportRun
		var mode, importedAt string
		if err := rows.Scan(&run.ID, &run.LawID, &mode, &run.Articles, &run.Clauses,
			&run.Items, &run.Deleted, &importedAt); err != nil {
			return nil, fmt.Errorf("scanning import run: %w", err)
		}
		run.Mode = domain.ImportMode(mode)
		if run.ImportedAt, err = time.Parse(timestampLayout, importedAt); err != nil {
			return nil, fmt.Errorf("parsing imported_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating import runs: %w", err)
	}
	return runs, nil
}

func (s *Store) queryNodes(ctx context.Context, query string, args ...any) ([]domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node //nolint:prealloc // size unknown from query
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return nodes, nil
}

// ==================== Scanning ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func getLawByCode(ctx context.Context, q querier, code string) (*domain.Law, error) {
	row := q.QueryRowContext(ctx, "SELECT "+lawColumns+" FROM laws WHERE code = ?", code)
	return scanLaw(row)
}

func scanLaw(row scanner) (*domain.Law, error) {
	var law domain.Law
	var docType, start, end string
	var issuingBody, promulgation, status sql.NullString
	var related sql.NullInt64
	if err := row.Scan(&law.ID, &law.Code, &docType, &law.Title, &issuingBody, &promulgation,
		&related, &start, &end, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning law: %w", err)
	}

	law.DocType = domain.DocType(docType)
	law.IssuingBody = issuingBody.String
	law.Status = status.String
	if related.Valid {
		id := related.Int64
		law.RelatedLawID = &id
	}

	var err error
	if law.EffectiveStart, err = parseDate(start); err != nil {
		return nil, err
	}
	if law.EffectiveEnd, err = parseDate(end); err != nil {
		return nil, err
	}
	if promulgation.Valid {
		d, err := parseDate(promulgation.String)
		if err != nil {
			return nil, err
		}
		law.PromulgationDate = &d
	}
	return &law, nil
}

func scanNode(row scanner) (*domain.Node, error) {
	var node domain.Node
	var level, start, end string
	var parent sql.NullInt64
	var label, heading, content, title sql.NullString
	if err := row.Scan(&node.ID, &node.LawID, &parent, &level, &label, &heading, &content,
		&node.SortKey, &node.Path, &title, &start, &end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}

	node.Level = domain.Level(level)
	node.OrdinalLabel = label.String
	node.Heading = heading.String
	node.ContentText = content.String
	node.Title = title.String
	if parent.Valid {
		id := parent.Int64
		node.ParentID = &id
	}

	var err error
	if node.EffectiveStart, err = parseDate(start); err != nil {
		return nil, err
	}
	if node.EffectiveEnd, err = parseDate(end); err != nil {
		return nil, err
	}
	return &node, nil
}

// searchText is the normalized form stored in content_lower and used for
// queries. SQLite's LIKE folds ASCII only, so Vietnamese case folding
// happens here.
func searchText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatOptionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
