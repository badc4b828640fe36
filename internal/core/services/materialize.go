package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/core/ports/driven"
	"github.com/custodia-labs/vnlaw/internal/logger"
	"github.com/custodia-labs/vnlaw/internal/structure"
)

// maxOrdinal is the largest ordinal that fits a sort key segment.
const maxOrdinal = 999

// orphanChapterKey prefixes orphan articles in documents that also have
// chapters so they sort before chapter 001.
const orphanChapterKey = "000"

// materializer writes a parsed document as law nodes. Every node is
// inserted after its parent, and the parent id is carried down the walk
// instead of being read back from the store.
type materializer struct {
	w      driven.NodeWriter
	lawID  int64
	prefix string
	start  time.Time
	end    time.Time

	// articleSeq counts articles across the whole document and is the
	// fallback ordinal for unreadable article numbers.
	articleSeq int

	written int
}

func newMaterializer(w driven.NodeWriter, lawID int64, code string, start, end time.Time) *materializer {
	return &materializer{
		w:      w,
		lawID:  lawID,
		prefix: "/" + code,
		start:  start,
		end:    end,
	}
}

// write materializes doc. Orphan articles come first, then each chapter
// with its subtree.
func (m *materializer) write(ctx context.Context, doc *domain.ParsedDocument) error {
	orphanKey := ""
	if len(doc.Chapters) > 0 {
		orphanKey = orphanChapterKey
	}

	prev := 0
	for _, a := range doc.Orphans {
		var err error
		if prev, err = m.writeArticle(ctx, a, nil, orphanKey, m.prefix, prev); err != nil {
			return err
		}
	}

	prev = 0
	for i, ch := range doc.Chapters {
		n, ok := structure.ToOrdinal(ch.Number)
		ord := nextOrdinal(n, ok, i+1, prev, "chapter", ch.Number)
		prev = ord

		label := "Chương " + ch.Number
		node := &domain.Node{
			Level:        domain.LevelChapter,
			OrdinalLabel: label,
			Heading:      ch.Heading,
			SortKey:      sortSegment(ord),
			Path:         m.prefix + "/" + domain.ChapterSegment + ch.Number,
			Title:        firstNonEmpty(ch.Heading, label),
		}
		id, err := m.insert(ctx, node)
		if err != nil {
			return err
		}

		artPrev := 0
		for _, a := range ch.Articles {
			if artPrev, err = m.writeArticle(ctx, a, &id, node.SortKey, node.Path, artPrev); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeArticle writes an article and its clauses. It returns the ordinal
// used so the caller can keep siblings increasing.
func (m *materializer) writeArticle(
	ctx context.Context,
	a *domain.Article,
	parentID *int64,
	parentKey, parentPath string,
	prev int,
) (int, error) {
	m.articleSeq++
	n, ok := structure.ToOrdinal(a.Number)
	ord := nextOrdinal(n, ok, m.articleSeq, prev, "article", a.Number)

	label := "Điều " + a.Number
	node := &domain.Node{
		ParentID:     parentID,
		Level:        domain.LevelArticle,
		OrdinalLabel: label,
		Heading:      a.Heading,
		SortKey:      joinKey(parentKey, ord),
		Path:         parentPath + "/" + domain.ArticleSegment + a.Number,
		Title:        firstNonEmpty(a.Heading, label),
	}
	id, err := m.insert(ctx, node)
	if err != nil {
		return 0, err
	}

	clausePrev := 0
	for i, c := range a.Clauses {
		n, ok := structure.ToOrdinal(c.Number)
		cord := nextOrdinal(n, ok, i+1, clausePrev, "clause", c.Number)
		clausePrev = cord

		clabel := "Khoản " + c.Number
		cnode := &domain.Node{
			ParentID:     &id,
			Level:        domain.LevelClause,
			OrdinalLabel: clabel,
			ContentText:  c.Preamble,
			SortKey:      joinKey(node.SortKey, cord),
			Path:         node.Path + "/" + domain.ClauseSegment + c.Number,
			Title:        clabel,
		}
		cid, err := m.insert(ctx, cnode)
		if err != nil {
			return 0, err
		}

		itemPrev := 0
		for j, it := range c.Items {
			rank := structure.LetterRank(it.Letter)
			iord := nextOrdinal(rank, rank != structure.UnknownRank, j+1, itemPrev, "item", it.Letter)
			itemPrev = iord

			ilabel := "Điểm " + it.Letter
			inode := &domain.Node{
				ParentID:     &cid,
				Level:        domain.LevelItem,
				OrdinalLabel: ilabel,
				ContentText:  it.Text,
				SortKey:      joinKey(cnode.SortKey, iord),
				Path:         cnode.Path + "/" + domain.ItemSegment + it.Letter,
				Title:        ilabel,
			}
			if _, err := m.insert(ctx, inode); err != nil {
				return 0, err
			}
		}
	}
	return ord, nil
}

func (m *materializer) insert(ctx context.Context, node *domain.Node) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	node.LawID = m.lawID
	node.EffectiveStart = m.start
	node.EffectiveEnd = m.end

	id, err := m.w.InsertNode(ctx, node)
	if err != nil {
		return 0, fmt.Errorf("inserting %s %s: %w", node.Level, node.Path, err)
	}
	node.ID = id
	m.written++
	logger.Debug("inserted %s %s (id=%d, sort=%s)", node.Level, node.Path, id, node.SortKey)
	return id, nil
}

// nextOrdinal picks the ordinal of a sibling: the parsed value when ok,
// otherwise position. The result is always greater than prev so sort keys
// stay unique and ordered even for duplicate or out-of-order labels.
func nextOrdinal(parsed int, ok bool, position, prev int, kind, label string) int {
	ord := position
	if ok && parsed > 0 {
		ord = parsed
	} else {
		logger.Warn("unreadable %s label %q, using position %d", kind, label, position)
	}
	if ord <= prev {
		logger.Debug("%s %q out of order (%d after %d), renumbering", kind, label, ord, prev)
		ord = prev + 1
	}
	if ord > maxOrdinal {
		logger.Warn("%s %q ordinal %d exceeds %d; sort order may break", kind, label, ord, maxOrdinal)
	}
	return ord
}

func sortSegment(n int) string {
	return fmt.Sprintf("%03d", n)
}

func joinKey(parent string, n int) string {
	if parent == "" {
		return sortSegment(n)
	}
	return parent + "." + sortSegment(n)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
