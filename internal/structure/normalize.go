package structure

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// whitespaceRun matches any run of whitespace inside a line.
	whitespaceRun = regexp.MustCompile(`\s+`)

	// spaceBeforePunct matches whitespace preceding common punctuation,
	// a frequent PDF extraction artifact ("kết hôn , nam").
	spaceBeforePunct = regexp.MustCompile(`\s+([,.;:!?])`)
)

// NormalizeLines converts extracted text into trimmed logical lines.
//
// Line endings are unified and decomposed diacritics are recomposed (NFC)
// so heading patterns match text from extractors that emit combining marks.
// Whitespace is collapsed within each line and removed before punctuation.
// A run of blank (or whitespace-only) lines collapses to a single "" so
// paragraph breaks stay recoverable. Leading and trailing blanks are dropped.
func NormalizeLines(text string) []string {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.ReplaceAll(t, "\r", "\n")
	t = norm.NFC.String(t)

	raw := strings.Split(t, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(whitespaceRun.ReplaceAllString(ln, " "))
		ln = spaceBeforePunct.ReplaceAllString(ln, "$1")
		if ln == "" && (len(lines) == 0 || lines[len(lines)-1] == "") {
			continue
		}
		lines = append(lines, ln)
	}

	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
