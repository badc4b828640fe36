package structure

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

// titleScanLines bounds how far into the document InferTitle looks.
const titleScanLines = 50

var (
	// mottoPattern matches the national motto printed above every document
	// title ("CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM / Độc lập - Tự do - Hạnh phúc").
	mottoPattern = regexp.MustCompile(`(?i)cộng hòa|xã hội|độc lập|tự do|hạnh phúc`)

	codeSeparators = regexp.MustCompile(`[\s_\-]+`)
)

// InferTitle returns the first line among the first few normalized lines
// that is not motto boilerplate, or the base name of path.
func InferTitle(lines []string, path string) string {
	for i, ln := range lines {
		if i >= titleScanLines {
			break
		}
		if ln == "" || mottoPattern.MatchString(ln) {
			continue
		}
		return ln
	}
	return filepath.Base(path)
}

// InferCode derives a law code from a file name: the extension is dropped,
// the name split on whitespace, "_" and "-", upper-cased and joined with "/".
// "121-vbhn-vpqh.pdf" becomes "121/VBHN/VPQH".
func InferCode(path string) string {
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt":
		name = name[:len(name)-4]
	}

	var parts []string
	for _, p := range codeSeparators.Split(name, -1) {
		if p != "" {
			parts = append(parts, strings.ToUpper(p))
		}
	}
	return strings.Join(parts, "/")
}

// InferDocType guesses the document type from the file name. Names that
// mention "nghi" (nghị định) are decrees; everything else is a law.
func InferDocType(path string) domain.DocType {
	name := strings.ToLower(filepath.Base(path))
	for _, kw := range []string{"nghi", "nghidinh", "nghi-dinh", "nghi_dinh"} {
		if strings.Contains(name, kw) {
			return domain.DocTypeDecree
		}
	}
	return domain.DocTypeLaw
}
