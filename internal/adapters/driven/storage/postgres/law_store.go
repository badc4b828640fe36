package postgres

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jackc/pgx/v5"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
)

const lawColumns = `id, code, doc_type, title, issuing_body, promulgation_date,
	related_law_id, effective_start, effective_end, status`

const nodeColumns = `id, law_id, parent_id, level, ordinal_label, heading, content_text,
	sort_key, path, title, effective_start, effective_end`

type ingestTx struct {
	q querier
}

var _ driven.IngestTx = (*ingestTx)(nil)

func (t *ingestTx) FindLawByCode(ctx context.Context, code string) (*domain.Law, error) {
	return getLawByCode(ctx, t.q, code)
}

func (t *ingestTx) CreateLaw(ctx context.Context, law *domain.Law) (int64, error) {
	var id int64
	err := t.q.QueryRow(ctx, `
		INSERT INTO laws (code, doc_type, title, issuing_body, promulgation_date,
			related_law_id, effective_start, effective_end, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, law.Code, string(law.DocType), law.Title, nullString(law.IssuingBody), law.PromulgationDate,
		law.RelatedLawID, law.EffectiveStart, law.EffectiveEnd, nullString(law.Status)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting law: %w", mapError(err))
	}
	return id, nil
}

func (t *ingestTx) UpdateLaw(ctx context.Context, law *domain.Law) error {
	tag, err := t.q.Exec(ctx, `
		UPDATE laws SET doc_type = $1, title = $2, issuing_body = $3, promulgation_date = $4,
			related_law_id = $5, effective_start = $6, effective_end = $7, status = $8
		WHERE id = $9
	`, string(law.DocType), law.Title, nullString(law.IssuingBody), law.PromulgationDate,
		law.RelatedLawID, law.EffectiveStart, law.EffectiveEnd, nullString(law.Status), law.ID)
	if err != nil {
		return fmt.Errorf("updating law: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *ingestTx) InsertNode(ctx context.Context, node *domain.Node) (int64, error) {
	var id int64
	err := t.q.QueryRow(ctx, `
		INSERT INTO law_nodes (law_id, parent_id, level, ordinal_label, heading, content_text,
			content_lower, sort_key, path, title, effective_start, effective_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, node.LawID, node.ParentID, string(node.Level), nullString(node.OrdinalLabel),
		nullString(node.Heading), nullString(node.ContentText), nullString(searchText(node.ContentText)),
		node.SortKey, node.Path, nullString(node.Title), node.EffectiveStart, node.EffectiveEnd).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting node: %w", mapError(err))
	}
	return id, nil
}

func (t *ingestTx) DeleteNodesByLevel(ctx context.Context, lawID int64, level domain.Level) (int64, error) {
	tag, err := t.q.Exec(ctx, "DELETE FROM law_nodes WHERE law_id = $1 AND level = $2", lawID, string(level))
	if err != nil {
		return 0, fmt.Errorf("deleting %s nodes: %w", level, mapError(err))
	}
	return tag.RowsAffected(), nil
}

func (t *ingestTx) DeleteNodesByParentPresence(ctx context.Context, lawID int64, hasParent bool) (int64, error) {
	query := "DELETE FROM law_nodes WHERE law_id = $1 AND parent_id IS NULL"
	if hasParent {
		query = "DELETE FROM law_nodes WHERE law_id = $1 AND parent_id IS NOT NULL"
	}
	tag, err := t.q.Exec(ctx, query, lawID)
	if err != nil {
		return 0, fmt.Errorf("sweeping nodes: %w", mapError(err))
	}
	return tag.RowsAffected(), nil
}

func (t *ingestTx) CountNodes(ctx context.Context, lawID int64) (int, error) {
	var n int
	if err := t.q.QueryRow(ctx, "SELECT COUNT(*) FROM law_nodes WHERE law_id = $1", lawID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return n, nil
}

func (t *ingestTx) RecordImportRun(ctx context.Context, run *domain.ImportRun) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO import_runs (id, law_id, mode, articles, clauses, items, deleted, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.LawID, string(run.Mode), run.Articles, run.Clauses, run.Items, run.Deleted, run.ImportedAt)
	if err != nil {
		return fmt.Errorf("recording import run: %w", mapError(err))
	}
	return nil
}

// GetLawByCode returns the law with the given code.
func (s *Store) GetLawByCode(ctx context.Context, code string) (*domain.Law, error) {
	return getLawByCode(ctx, s.pool, code)
}

// GetLaw returns the law with the given id.
func (s *Store) GetLaw(ctx context.Context, id int64) (*domain.Law, error) {
	return scanLaw(s.pool.QueryRow(ctx, "SELECT "+lawColumns+" FROM laws WHERE id = $1", id))
}

// ListLaws returns every law ordered by code.
func (s *Store) ListLaws(ctx context.Context) ([]domain.Law, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+lawColumns+" FROM laws ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("querying laws: %w", err)
	}
	defer rows.Close()

	var laws []domain.Law
	for rows.Next() {
		law, err := scanLaw(rows)
		if err != nil {
			return nil, err
		}
		laws = append(laws, *law)
	}
	return laws, rows.Err()
}

// GetNode returns a node by id.
func (s *Store) GetNode(ctx context.Context, id int64) (*domain.Node, error) {
	return scanNode(s.pool.QueryRow(ctx, "SELECT "+nodeColumns+" FROM law_nodes WHERE id = $1", id))
}

// ListNodesByLaw returns the nodes of a law ordered by sort key.
func (s *Store) ListNodesByLaw(ctx context.Context, lawID int64) ([]domain.Node, error) {
	return s.queryNodes(ctx, "SELECT "+nodeColumns+" FROM law_nodes WHERE law_id = $1 ORDER BY sort_key COLLATE \"C\"", lawID)
}

// SearchNodes returns nodes whose content contains query, ignoring case.
func (s *Store) SearchNodes(ctx context.Context, query string, limit int) ([]domain.Node, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	pattern := "%" + escapeLike(searchText(query)) + "%"
	return s.queryNodes(ctx, "SELECT "+nodeColumns+` FROM law_nodes
		WHERE content_lower LIKE $1 ESCAPE '\'
		ORDER BY law_id, sort_key COLLATE "C" LIMIT $2`, pattern, lim)
}

// ListImportRuns returns the runs of a law, newest first.
func (s *Store) ListImportRuns(ctx context.Context, lawID int64) ([]domain.ImportRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, law_id, mode, articles, clauses, items, deleted, imported_at
		FROM import_runs WHERE law_id = $1
		ORDER BY imported_at DESC, id DESC
	`, lawID)
	if err != nil {
		return nil, fmt.Errorf("querying import runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ImportRun
	for rows.Next() {
		var run domain.ImportRun
		var mode string
		if err := rows.Scan(&run.ID, &run.LawID, &mode, &run.Articles, &run.Clauses,
			&run.Items, &run.Deleted, &run.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import run: %w", err)
		}
		run.Mode = domain.ImportMode(mode)
		run.ImportedAt = run.ImportedAt.UTC()
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) queryNodes(ctx context.Context, query string, args ...any) ([]domain.Node, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, rows.Err()
}

func getLawByCode(ctx context.Context, q querier, code string) (*domain.Law, error) {
	return scanLaw(q.QueryRow(ctx, "SELECT "+lawColumns+" FROM laws WHERE code = $1", code))
}

// scanLaw reads one law; pgx.Rows satisfies pgx.Row.
func scanLaw(row pgx.Row) (*domain.Law, error) {
	var law domain.Law
	var docType string
	var issuingBody, status *string
	if err := row.Scan(&law.ID, &law.Code, &docType, &law.Title, &issuingBody, &law.PromulgationDate,
		&law.RelatedLawID, &law.EffectiveStart, &law.EffectiveEnd, &status); err != nil {
		if err := mapError(err); err == domain.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("scanning law: %w", err)
	}
	law.DocType = domain.DocType(docType)
	if issuingBody != nil {
		law.IssuingBody = *issuingBody
	}
	if status != nil {
		law.Status = *status
	}
	return &law, nil
}

func scanNode(row pgx.Row) (*domain.Node, error) {
	var node domain.Node
	var level string
	var label, heading, content, title *string
	if err := row.Scan(&node.ID, &node.LawID, &node.ParentID, &level, &label, &heading, &content,
		&node.SortKey, &node.Path, &title, &node.EffectiveStart, &node.EffectiveEnd); err != nil {
		if err := mapError(err); err == domain.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("scanning node: %w", err)
	}
	node.Level = domain.Level(level)
	node.OrdinalLabel = deref(label)
	node.Heading = deref(heading)
	node.ContentText = deref(content)
	node.Title = deref(title)
	return &node, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// searchText is the form stored in content_lower and used for queries.
func searchText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
