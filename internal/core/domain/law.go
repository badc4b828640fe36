package domain

import (
	"strings"
	"time"
)

// DocType classifies a legal document.
type DocType string

const (
	// DocTypeLaw is a statute passed by the National Assembly (Luật).
	DocTypeLaw DocType = "LAW"

	// DocTypeDecree is a government decree (Nghị định), usually implementing a law.
	DocTypeDecree DocType = "DECREE"
)

// ParseDocType converts user input to a DocType.
func ParseDocType(s string) (DocType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(DocTypeLaw):
		return DocTypeLaw, nil
	case string(DocTypeDecree):
		return DocTypeDecree, nil
	default:
		return "", ErrInvalidInput
	}
}

// DateLayout is the calendar date format used for effective dates.
const DateLayout = "2006-01-02"

// Default validity window applied to nodes when the caller gives none.
var (
	DefaultEffectiveStart = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultEffectiveEnd   = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Law is the registry record of one legal document.
// It is created once per code and updated in place on later imports.
type Law struct {
	// ID is generated by the store.
	ID int64

	// Code is the unique business key, e.g. "121/VBHN-VPQH".
	Code string

	// DocType is LAW or DECREE.
	DocType DocType

	// Title is the display title.
	Title string

	// IssuingBody is the authority that issued the document, if known.
	IssuingBody string

	// PromulgationDate is the signing date, if known.
	PromulgationDate *time.Time

	// RelatedLawID links a decree to the law it implements.
	RelatedLawID *int64

	// EffectiveStart and EffectiveEnd bound the document's validity.
	EffectiveStart time.Time
	EffectiveEnd   time.Time

	// Status is a free-form lifecycle marker set by other tools.
	Status string
}
