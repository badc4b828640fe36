package structure

import (
	"strings"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/logger"
)

type parseState int

const (
	stateNone parseState = iota
	stateInArticle
	stateInClause
	stateInItem
)

// parser holds the state of a single Parse call.
type parser struct {
	doc   *domain.ParsedDocument
	state parseState

	chapter *domain.Chapter
	article *domain.Article

	clause    *domain.Clause
	clauseBuf []string

	itemLetter string
	itemBuf    []string

	// headingFor is a chapter whose header line carried no heading text.
	// The next plain line becomes its heading.
	headingFor *domain.Chapter

	dropped int
}

// ParseText normalizes text and parses it.
func ParseText(text string) *domain.ParsedDocument {
	return Parse(NormalizeLines(text))
}

// Parse builds the chapter/article/clause/item tree from normalized lines.
//
// Text before the first article header is discarded, and so is any line
// that arrives while no clause is open. Parse never fails; the worst case
// is an empty document.
func Parse(lines []string) *domain.ParsedDocument {
	p := &parser{doc: &domain.ParsedDocument{}}
	for _, line := range lines {
		p.step(Classify(line))
	}
	p.flushClause()

	stats := p.doc.Statistics()
	logger.Debugw("parsed document",
		"chapters", stats.Chapters,
		"articles", stats.Articles,
		"orphans", stats.OrphanArticles,
		"clauses", stats.Clauses,
		"items", stats.Items,
		"dropped_lines", p.dropped,
	)
	return p.doc
}

func (p *parser) step(c Classification) {
	if c.Kind != KindBlank && c.Kind != KindContinuation {
		p.headingFor = nil
	}

	switch c.Kind {
	case KindBlank:
		p.appendBlank()

	case KindChapter:
		p.flushClause()
		p.chapter = &domain.Chapter{Number: c.Label, Heading: c.Text}
		p.doc.Chapters = append(p.doc.Chapters, p.chapter)
		if c.Text == "" {
			p.headingFor = p.chapter
		}

	case KindArticle:
		p.flushClause()
		p.article = &domain.Article{Number: c.Label, Heading: c.Text}
		if p.chapter != nil {
			p.chapter.Articles = append(p.chapter.Articles, p.article)
		} else {
			p.doc.Orphans = append(p.doc.Orphans, p.article)
		}
		p.state = stateInArticle

	case KindClause:
		if p.article == nil {
			p.dropped++
			return
		}
		p.flushClause()
		p.clause = &domain.Clause{Number: c.Label}
		p.clauseBuf = appendText(nil, c.Text)
		p.state = stateInClause

	case KindItem:
		if p.article == nil || p.clause == nil {
			p.dropped++
			return
		}
		p.flushItem()
		p.itemLetter = c.Label
		p.itemBuf = appendText(nil, c.Text)
		p.state = stateInItem

	case KindContinuation:
		if p.headingFor != nil {
			p.headingFor.Heading = c.Text
			p.headingFor = nil
			return
		}
		switch p.state {
		case stateInItem:
			p.itemBuf = append(p.itemBuf, c.Text)
		case stateInClause:
			p.clauseBuf = append(p.clauseBuf, c.Text)
		default:
			p.dropped++
		}
	}
}

// appendBlank records a paragraph break in whichever body is open.
func (p *parser) appendBlank() {
	switch p.state {
	case stateInItem:
		p.itemBuf = append(p.itemBuf, "")
	case stateInClause:
		p.clauseBuf = append(p.clauseBuf, "")
	}
}

// flushItem attaches the open item to the open clause. Items whose body is
// empty are discarded.
func (p *parser) flushItem() {
	if p.state != stateInItem {
		return
	}
	if text := joinText(p.itemBuf); text != "" && p.clause != nil {
		p.clause.Items = append(p.clause.Items, &domain.Item{Letter: p.itemLetter, Text: text})
	}
	p.itemLetter = ""
	p.itemBuf = nil
	p.state = stateInClause
}

// flushClause closes the open item, fixes the clause preamble and attaches
// the clause to the open article.
func (p *parser) flushClause() {
	p.flushItem()
	if p.clause != nil && p.article != nil {
		p.clause.Preamble = joinText(p.clauseBuf)
		p.article.Clauses = append(p.article.Clauses, p.clause)
	}
	p.clause = nil
	p.clauseBuf = nil
	if p.article != nil {
		p.state = stateInArticle
	} else {
		p.state = stateNone
	}
}

func appendText(buf []string, s string) []string {
	if s == "" {
		return buf
	}
	return append(buf, s)
}

// joinText joins body lines with single spaces. Blank entries become
// paragraph breaks.
func joinText(buf []string) string {
	var b strings.Builder
	pendingBreak := false
	for _, ln := range buf {
		if ln == "" {
			pendingBreak = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if pendingBreak {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		pendingBreak = false
		b.WriteString(ln)
	}
	return b.String()
}
