package domain

import (
	"strings"
	"time"
)

// Level is the structural level of a node.
type Level string

const (
	// LevelChapter is a Chương, the top-level grouping of articles.
	LevelChapter Level = "CHUONG"

	// LevelArticle is a Điều, the primary addressable unit.
	LevelArticle Level = "DIEU"

	// LevelClause is a Khoản, a numbered subdivision of an article.
	LevelClause Level = "KHOAN"

	// LevelItem is a Điểm, a lettered subdivision of a clause.
	LevelItem Level = "DIEM"

	// Container levels written by other tools. The parser never produces
	// them but the delete sweep must remove them.
	LevelPart       Level = "PHAN"
	LevelSection    Level = "MUC"
	LevelSubsection Level = "TIEU_MUC"
)

// DeletionOrder lists levels from leaves to roots. Deleting a law's nodes
// in this order never removes a row that a surviving row still references
// as its parent.
var DeletionOrder = []Level{
	LevelItem,
	LevelClause,
	LevelArticle,
	LevelSubsection,
	LevelSection,
	LevelChapter,
	LevelPart,
}

// Node is one persisted structural unit of a law.
type Node struct {
	ID       int64
	LawID    int64
	ParentID *int64
	Level    Level

	// OrdinalLabel is the human label, e.g. "Điều 8".
	OrdinalLabel string

	// Heading is the short title of a chapter or article.
	Heading string

	// ContentText is the body of a clause (preamble) or item.
	// Containers leave it empty.
	ContentText string

	// SortKey orders nodes of one law in document order.
	SortKey string

	// Path is the slash-delimited route, e.g. "/52/2014/QH13/Dieu-8/Khoan-1".
	Path string

	Title          string
	EffectiveStart time.Time
	EffectiveEnd   time.Time
}

// Path segment prefixes. Downstream consumers match on these (for example
// the substring "Dieu-8"), so they are part of the wire contract.
const (
	ChapterSegment = "Chuong-"
	ArticleSegment = "Dieu-"
	ClauseSegment  = "Khoan-"
	ItemSegment    = "Diem-"
)

// PathRef is a node path broken into its components.
type PathRef struct {
	LawCode string
	Chapter string
	Article string
	Clause  string
	Item    string
}

// ParsePath splits a node path back into its components. Law codes may
// contain slashes, so every segment before the first structural segment
// belongs to the code.
func ParsePath(path string) (PathRef, error) {
	if !strings.HasPrefix(path, "/") {
		return PathRef{}, ErrInvalidInput
	}

	var ref PathRef
	var code []string
	structural := false
	for _, seg := range strings.Split(path[1:], "/") {
		switch {
		case strings.HasPrefix(seg, ChapterSegment) && len(seg) > len(ChapterSegment):
			ref.Chapter = seg[len(ChapterSegment):]
			structural = true
		case strings.HasPrefix(seg, ArticleSegment) && len(seg) > len(ArticleSegment):
			ref.Article = seg[len(ArticleSegment):]
			structural = true
		case strings.HasPrefix(seg, ClauseSegment) && len(seg) > len(ClauseSegment):
			ref.Clause = seg[len(ClauseSegment):]
			structural = true
		case strings.HasPrefix(seg, ItemSegment) && len(seg) > len(ItemSegment):
			ref.Item = seg[len(ItemSegment):]
			structural = true
		default:
			if structural {
				return PathRef{}, ErrInvalidInput
			}
			code = append(code, seg)
		}
	}

	ref.LawCode = strings.Join(code, "/")
	if ref.LawCode == "" {
		return PathRef{}, ErrInvalidInput
	}
	return ref, nil
}

// ArticleNumberFromPath returns the article label encoded in a node path,
// or "" when the path does not address an article or anything below it.
func ArticleNumberFromPath(path string) string {
	ref, err := ParsePath(path)
	if err != nil {
		return ""
	}
	return ref.Article
}
