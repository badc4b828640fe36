package structure

import (
	"regexp"
	"strings"
)

// LineKind tags the structural role of one normalized line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindChapter
	KindArticle
	KindClause
	KindItem
	KindContinuation
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindChapter:
		return "chapter"
	case KindArticle:
		return "article"
	case KindClause:
		return "clause"
	case KindItem:
		return "item"
	default:
		return "continuation"
	}
}

// Classification is the result of matching one line against the heading
// patterns.
type Classification struct {
	Kind LineKind

	// Label is the numeral or letter of a heading ("II", "8", "a").
	Label string

	// Text is the remainder after the label for headings, or the whole
	// line for continuations.
	Text string
}

// Heading numerals must be followed by punctuation, whitespace or the end of
// the line so that prose such as "Điều chỉnh ..." is not read as Article "c".
var (
	chapterPattern = regexp.MustCompile(`^(?i:chương|chuong)\s+([IVXLCDM]+|\d{1,3})(?:[.:]\s*|\s+|$)(.*)$`)
	articlePattern = regexp.MustCompile(`^(?i:điều|dieu)\s+([IVXLCDM]+|\d{1,3})(?:[.:]\s*|\s+|$)(.*)$`)
	clausePattern  = regexp.MustCompile(`^(?i:khoản|khoan)\s+(\d{1,2})(?:[.:]\s*|\s+|$)(.*)$`)

	// bareClausePattern matches "1. text" and "1) text".
	bareClausePattern = regexp.MustCompile(`^(\d{1,2})[.)](\s*)(.*)$`)

	// itemPattern needs punctuation after the letter so cross-references
	// such as "Điểm a khoản 1 Điều 5 ..." stay continuation text.
	itemPattern = regexp.MustCompile(`^(?i:điểm|diem)\s+([a-zA-ZđĐ])[).:]\s*(.*)$`)

	// bareItemPattern matches "a) text", optionally after a dash or bullet.
	bareItemPattern = regexp.MustCompile(`^(?:[-–•]\s*)?([a-zA-ZđĐ])\)\s*(.*)$`)
)

// Classify matches a normalized line against the heading patterns in fixed
// precedence: chapter, article, clause, item. The first match wins. Classify
// is pure; whether a heading is acceptable in the current parser state is
// decided by the caller.
func Classify(line string) Classification {
	line = strings.TrimSpace(line)
	if line == "" {
		return Classification{Kind: KindBlank}
	}

	if m := chapterPattern.FindStringSubmatch(line); m != nil {
		return Classification{Kind: KindChapter, Label: m[1], Text: strings.TrimSpace(m[2])}
	}
	if m := articlePattern.FindStringSubmatch(line); m != nil {
		return Classification{Kind: KindArticle, Label: m[1], Text: strings.TrimSpace(m[2])}
	}
	if m := clausePattern.FindStringSubmatch(line); m != nil {
		return Classification{Kind: KindClause, Label: m[1], Text: strings.TrimSpace(m[2])}
	}
	if m := bareClausePattern.FindStringSubmatch(line); m != nil {
		// "1.5 triệu đồng" is a decimal, not clause 1.
		if !(m[2] == "" && m[3] != "" && isDigitByte(m[3][0])) {
			return Classification{Kind: KindClause, Label: m[1], Text: strings.TrimSpace(m[3])}
		}
	}
	if m := itemPattern.FindStringSubmatch(line); m != nil {
		return Classification{Kind: KindItem, Label: strings.ToLower(m[1]), Text: strings.TrimSpace(m[2])}
	}
	if m := bareItemPattern.FindStringSubmatch(line); m != nil {
		return Classification{Kind: KindItem, Label: strings.ToLower(m[1]), Text: strings.TrimSpace(m[2])}
	}

	return Classification{Kind: KindContinuation, Text: line}
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
