package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driving"
	"github.com/custodia-labs/vnlaw/internal/logger"
	"github.com/custodia-labs/vnlaw/internal/structure"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService extracts, parses and persists legal documents.
type IngestService struct {
	extractor driven.TextExtractor
	store     driven.Transactor
	settings  driving.SettingsService
	now       func() time.Time
}

// NewIngestService creates a new ingest service. settings may be nil, in
// which case built-in decree defaults apply.
func NewIngestService(
	extractor driven.TextExtractor,
	store driven.Transactor,
	settings driving.SettingsService,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		store:     store,
		settings:  settings,
		now:       time.Now,
	}
}

// prepared is an import request after extraction, parsing and defaulting.
type prepared struct {
	code           string
	title          string
	docType        domain.DocType
	relatedLawCode string
	start          time.Time
	end            time.Time
	doc            *domain.ParsedDocument
	stats          domain.Statistics
}

// Preview parses a document without touching the store.
func (s *IngestService) Preview(ctx context.Context, req domain.ImportRequest) (*domain.Preview, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return &domain.Preview{
		Code:     p.code,
		Title:    p.title,
		DocType:  p.docType,
		Document: p.doc,
		Stats:    p.stats,
	}, nil
}

// Import parses a document and persists it in a single transaction.
//
// A new code creates the law. An existing code fails with
// *domain.LawExistsError unless req.Replace is set, in which case the law
// is updated in place and its node tree regenerated under the same id.
func (s *IngestService) Import(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &domain.ImportResult{
		RunID: uuid.NewString(),
		Code:  p.code,
		Title: p.title,
		Stats: p.stats,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx driven.IngestTx) error {
		lawID, mode, deleted, err := s.upsertLaw(ctx, tx, p, req)
		if err != nil {
			return err
		}
		result.LawID = lawID
		result.Mode = mode
		result.Deleted = deleted

		m := newMaterializer(tx, lawID, p.code, p.start, p.end)
		if err := m.write(ctx, p.doc); err != nil {
			return err
		}

		run := &domain.ImportRun{
			ID:         result.RunID,
			LawID:      lawID,
			Mode:       mode,
			Articles:   p.stats.Articles,
			Clauses:    p.stats.Clauses,
			Items:      p.stats.Items,
			Deleted:    deleted,
			ImportedAt: s.now().UTC(),
		}
		if err := tx.RecordImportRun(ctx, run); err != nil {
			return fmt.Errorf("recording import run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("imported law",
		"code", result.Code,
		"law_id", result.LawID,
		"mode", string(result.Mode),
		"articles", p.stats.Articles,
		"clauses", p.stats.Clauses,
		"items", p.stats.Items,
	)
	return result, nil
}

// upsertLaw creates the law or, on replace, updates it and clears its
// nodes. It returns the law id, what happened and how many nodes were
// removed.
func (s *IngestService) upsertLaw(
	ctx context.Context,
	tx driven.IngestTx,
	p *prepared,
	req domain.ImportRequest,
) (int64, domain.ImportMode, int64, error) {
	relatedID, err := s.resolveRelated(ctx, tx, p.relatedLawCode)
	if err != nil {
		return 0, "", 0, err
	}

	existing, err := tx.FindLawByCode(ctx, p.code)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		law := &domain.Law{
			Code:             p.code,
			DocType:          p.docType,
			Title:            p.title,
			IssuingBody:      req.IssuingBody,
			PromulgationDate: req.PromulgationDate,
			RelatedLawID:     relatedID,
			EffectiveStart:   p.start,
			EffectiveEnd:     p.end,
		}
		id, err := tx.CreateLaw(ctx, law)
		if err != nil {
			return 0, "", 0, fmt.Errorf("creating law %s: %w", p.code, err)
		}
		logger.Debug("created law %s (id=%d)", p.code, id)
		return id, domain.ImportCreated, 0, nil

	case err != nil:
		return 0, "", 0, fmt.Errorf("looking up law %s: %w", p.code, err)
	}

	if !req.Replace {
		count, err := tx.CountNodes(ctx, existing.ID)
		if err != nil {
			return 0, "", 0, fmt.Errorf("counting nodes of %s: %w", p.code, err)
		}
		return 0, "", 0, &domain.LawExistsError{Code: p.code, LawID: existing.ID, NodeCount: count}
	}

	existing.DocType = p.docType
	if relatedID != nil && *relatedID != existing.ID {
		existing.RelatedLawID = relatedID
	}
	if req.IssuingBody != "" {
		existing.IssuingBody = req.IssuingBody
	}
	if req.PromulgationDate != nil {
		existing.PromulgationDate = req.PromulgationDate
	}
	if err := tx.UpdateLaw(ctx, existing); err != nil {
		return 0, "", 0, fmt.Errorf("updating law %s: %w", p.code, err)
	}

	deleted, err := deleteLawNodes(ctx, tx, existing.ID)
	if err != nil {
		return 0, "", 0, err
	}
	logger.Debug("replacing law %s (id=%d): removed %d nodes", p.code, existing.ID, deleted)
	return existing.ID, domain.ImportReplaced, deleted, nil
}

// deleteLawNodes removes every node of a law, leaves first, then sweeps
// rows at levels the parser does not know about.
func deleteLawNodes(ctx context.Context, w driven.NodeWriter, lawID int64) (int64, error) {
	var total int64
	for _, level := range domain.DeletionOrder {
		n, err := w.DeleteNodesByLevel(ctx, lawID, level)
		if err != nil {
			return total, fmt.Errorf("deleting %s nodes: %w", level, err)
		}
		total += n
	}
	for _, hasParent := range []bool{true, false} {
		n, err := w.DeleteNodesByParentPresence(ctx, lawID, hasParent)
		if err != nil {
			return total, fmt.Errorf("sweeping nodes (has parent=%t): %w", hasParent, err)
		}
		total += n
	}
	return total, nil
}

// resolveRelated returns the id of the related law, or nil when no code
// was given or the code is unknown.
func (s *IngestService) resolveRelated(ctx context.Context, tx driven.LawRegistry, code string) (*int64, error) {
	if code == "" {
		return nil, nil
	}
	law, err := tx.FindLawByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("related law %s not found; leaving link empty", code)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up related law %s: %w", code, err)
	}
	return &law.ID, nil
}

// prepare extracts and parses the document and fills in every default.
func (s *IngestService) prepare(ctx context.Context, req domain.ImportRequest) (*prepared, error) {
	if req.Path == "" && req.Text == "" {
		return nil, fmt.Errorf("%w: no document given", domain.ErrInvalidInput)
	}

	text := req.Text
	if text == "" {
		if s.extractor == nil {
			return nil, domain.ErrNotImplemented
		}
		if req.PreferNative {
			ctx = driven.WithPreferNative(ctx)
		}
		var err error
		if text, err = s.extractor.Extract(ctx, req.Path); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", req.Path, err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	lines := structure.NormalizeLines(text)
	doc := structure.Parse(lines)

	p := &prepared{
		code:           strings.TrimSpace(req.Code),
		title:          strings.TrimSpace(req.Title),
		docType:        req.DocType,
		relatedLawCode: strings.TrimSpace(req.RelatedLawCode),
		start:          req.EffectiveStart,
		end:            req.EffectiveEnd,
		doc:            doc,
		stats:          doc.Statistics(),
	}
	if p.code == "" {
		p.code = structure.InferCode(req.Path)
	}
	if p.code == "" {
		return nil, fmt.Errorf("%w: law code is required", domain.ErrInvalidInput)
	}
	if p.title == "" {
		p.title = structure.InferTitle(lines, req.Path)
	}
	if p.docType == "" {
		p.docType = structure.InferDocType(req.Path)
	}

	if p.docType == domain.DocTypeDecree {
		if err := s.applyDecreeDefaults(p); err != nil {
			return nil, err
		}
	}
	if p.start.IsZero() {
		p.start = domain.DefaultEffectiveStart
	}
	if p.end.IsZero() {
		p.end = domain.DefaultEffectiveEnd
	}
	if p.end.Before(p.start) {
		return nil, fmt.Errorf("%w: effective end %s is before start %s", domain.ErrInvalidInput,
			p.end.Format(domain.DateLayout), p.start.Format(domain.DateLayout))
	}

	logger.Debug("prepared %s %q: %d articles, %d clauses, %d items",
		p.code, p.title, p.stats.Articles, p.stats.Clauses, p.stats.Items)
	return p, nil
}

func (s *IngestService) applyDecreeDefaults(p *prepared) error {
	defaults := domain.DefaultAppSettings().Decree
	if s.settings != nil {
		settings, err := s.settings.Get()
		if err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		defaults = settings.Decree
	}

	if p.relatedLawCode == "" {
		p.relatedLawCode = defaults.RelatedLawCode
	}
	if p.start.IsZero() && defaults.EffectiveStart != "" {
		start, err := time.Parse(domain.DateLayout, defaults.EffectiveStart)
		if err != nil {
			return fmt.Errorf("%w: decree effective start %q", domain.ErrInvalidInput, defaults.EffectiveStart)
		}
		p.start = start
	}
	return nil
}
