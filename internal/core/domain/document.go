package domain

// ParsedDocument is the in-memory tree produced by the structural parser.
type ParsedDocument struct {
	// Chapters in document order.
	Chapters []*Chapter

	// Orphans are articles that appeared before any chapter header,
	// or every article of a document without chapters.
	Orphans []*Article
}

// Chapter is a Chương with its articles.
type Chapter struct {
	// Number is the numeral as written, e.g. "II" or "2".
	Number   string
	Heading  string
	Articles []*Article
}

// Article is a Điều with its clauses.
type Article struct {
	Number  string
	Heading string
	Clauses []*Clause
}

// Clause is a Khoản. Preamble is the text before its first item.
type Clause struct {
	Number   string
	Preamble string
	Items    []*Item
}

// Item is a lettered Điểm. Letter is lower-cased.
type Item struct {
	Letter string
	Text   string
}

// Statistics summarises a parsed document.
type Statistics struct {
	Chapters       int
	Articles       int
	OrphanArticles int
	Clauses        int
	Items          int
}

// Nodes returns the number of rows the document materializes to.
func (s Statistics) Nodes() int {
	return s.Chapters + s.Articles + s.Clauses + s.Items
}

// Statistics counts the nodes at every level.
func (d *ParsedDocument) Statistics() Statistics {
	var stats Statistics
	count := func(a *Article) {
		stats.Articles++
		stats.Clauses += len(a.Clauses)
		for _, c := range a.Clauses {
			stats.Items += len(c.Items)
		}
	}

	for _, ch := range d.Chapters {
		stats.Chapters++
		for _, a := range ch.Articles {
			count(a)
		}
	}
	for _, a := range d.Orphans {
		stats.OrphanArticles++
		count(a)
	}
	return stats
}

// AllArticles returns every article in document order: orphans first,
// then the articles of each chapter.
func (d *ParsedDocument) AllArticles() []*Article {
	articles := make([]*Article, 0, len(d.Orphans))
	articles = append(articles, d.Orphans...)
	for _, ch := range d.Chapters {
		articles = append(articles, ch.Articles...)
	}
	return articles
}
