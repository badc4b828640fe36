package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
	"github.com/custodia-labs/vnlaw/internal/extractors/pdf"
)

// Dry-run preview limits.
const (
	previewArticles = 3
	previewClauses  = 2
	previewItems    = 2
	itemTextWidth   = 60
	clauseTextWidth = 80
)

// importFlags holds the flag values of the import command.
var importFlags struct {
	code             string
	title            string
	docType          string
	relatedLawCode   string
	issuingBody      string
	promulgationDate string
	effectiveStart   string
	effectiveEnd     string
	replace          bool
	dryRun           bool
	preferNative     bool
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a law or decree from a PDF or text file",
	Long: `Extract the text of a Vietnamese law or decree, parse it into chapters,
articles, clauses and items, and store the tree in one transaction.

The law code defaults to the file name ("121-vbhn-vpqh.pdf" becomes
"121/VBHN/VPQH") and the title to the first heading line of the document.
File names containing "nghi", "nghidinh", "nghi-dinh" or "nghi_dinh" are
imported as decrees unless --doc-type is given.

Importing a code that already exists fails unless --replace is set, in
which case the stored tree is discarded and rebuilt.

Examples:
  vnlaw import 52-2014-qh13.pdf --title "Luật Hôn nhân và gia đình"
  vnlaw import nghi-dinh-126.pdf --related-law-code 52/2014/QH13
  vnlaw import luat.txt --code 52/2014/QH13 --replace
  vnlaw import luat.pdf --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.code, "code", "", "law code (default: inferred from the file name)")
	f.StringVar(&importFlags.title, "title", "", "law title (default: first heading line)")
	f.StringVar(&importFlags.docType, "doc-type", "", "document type: LAW or DECREE (default: inferred from the file name)")
	f.StringVar(&importFlags.relatedLawCode, "related-law-code", "", "code of the law this document implements")
	f.StringVar(&importFlags.issuingBody, "issuing-body", "", "issuing body, e.g. Quốc hội")
	f.StringVar(&importFlags.promulgationDate, "promulgation-date", "", "promulgation date (YYYY-MM-DD)")
	f.StringVar(&importFlags.effectiveStart, "effective-start", "", "effective start date (YYYY-MM-DD, default 1900-01-01)")
	f.StringVar(&importFlags.effectiveEnd, "effective-end", "", "effective end date (YYYY-MM-DD, default 9999-12-31)")
	f.BoolVar(&importFlags.replace, "replace", false, "replace the node tree of an existing law code")
	f.BoolVar(&importFlags.dryRun, "dry-run", false, "parse and print a summary without writing")
	f.BoolVar(&importFlags.preferNative, "prefer-native", false, "try the built-in PDF reader before pdftotext")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	req, err := buildImportRequest(args[0])
	if err != nil {
		return err
	}

	if importFlags.dryRun {
		// Previews only parse, so they work without a store.
		preview, err := ingestService.Preview(cmd.Context(), req)
		if err != nil {
			printExtractHint(cmd, err)
			return err
		}
		printPreview(cmd, preview)
		return nil
	}

	if storeErr != nil {
		return notConfigured("ingest")
	}
	res, err := ingestService.Import(cmd.Context(), req)
	if err != nil {
		printExtractHint(cmd, err)
		return err
	}
	printImportResult(cmd, res)
	return nil
}

// printExtractHint tells the user how to install pdftotext when PDF
// extraction failed without it.
func printExtractHint(cmd *cobra.Command, err error) {
	if errors.Is(err, pdf.ErrPDFToolNotFound) {
		cmd.PrintErrln(dimStyle.Render(pdf.InstallInstructions()))
	}
}

func buildImportRequest(path string) (domain.ImportRequest, error) {
	req := domain.ImportRequest{
		Path:           path,
		Code:           importFlags.code,
		Title:          importFlags.title,
		RelatedLawCode: importFlags.relatedLawCode,
		IssuingBody:    importFlags.issuingBody,
		Replace:        importFlags.replace,
		PreferNative:   importFlags.preferNative,
	}

	if importFlags.docType != "" {
		docType, err := domain.ParseDocType(importFlags.docType)
		if err != nil {
			return req, fmt.Errorf("%w: --doc-type must be LAW or DECREE, got %q", domain.ErrInvalidInput, importFlags.docType)
		}
		req.DocType = docType
	}

	var err error
	if req.EffectiveStart, err = parseDateFlag("effective-start", importFlags.effectiveStart); err != nil {
		return req, err
	}
	if req.EffectiveEnd, err = parseDateFlag("effective-end", importFlags.effectiveEnd); err != nil {
		return req, err
	}
	if importFlags.promulgationDate != "" {
		d, err := parseDateFlag("promulgation-date", importFlags.promulgationDate)
		if err != nil {
			return req, err
		}
		req.PromulgationDate = &d
	}
	return req, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value; empty yields the zero time.
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, name, value)
	}
	return t, nil
}

func printPreview(cmd *cobra.Command, p *domain.Preview) {
	tag := dryRunStyle.Render("[DRY RUN]")
	s := p.Stats
	cmd.Printf("%s Law code : %s\n", tag, p.Code)
	cmd.Printf("%s Title    : %s\n", tag, p.Title)
	cmd.Printf("%s Doc type : %s\n", tag, p.DocType)
	cmd.Printf("%s Parsed   : %d articles (in %d chapters + %d orphan articles)\n",
		tag, s.Articles, s.Chapters, s.OrphanArticles)
	cmd.Printf("%s Clauses  : %d\n", tag, s.Clauses)
	cmd.Printf("%s Items    : %d\n", tag, s.Items)

	for _, a := range previewArticleList(p.Document) {
		cmd.Printf("%s- Điều %s: %s (clauses: %d)\n", indent(1), a.Number, a.Heading, len(a.Clauses))
		for _, c := range firstClauses(a.Clauses) {
			if len(c.Items) == 0 {
				cmd.Printf("%s+ Khoản %s: %s\n", indent(3), c.Number, truncate(c.Preamble, clauseTextWidth))
				continue
			}
			cmd.Printf("%s+ Khoản %s (%d items)\n", indent(3), c.Number, len(c.Items))
			for _, it := range firstItems(c.Items) {
				cmd.Printf("%s* Điểm %s: %s\n", indent(5), it.Letter, truncate(it.Text, itemTextWidth))
			}
		}
	}
}

// previewArticleList returns the first articles in document order.
func previewArticleList(doc *domain.ParsedDocument) []*domain.Article {
	if doc == nil {
		return nil
	}
	articles := make([]*domain.Article, 0, previewArticles)
	articles = append(articles, doc.Orphans...)
	for _, ch := range doc.Chapters {
		if len(articles) >= previewArticles {
			break
		}
		articles = append(articles, ch.Articles...)
	}
	if len(articles) > previewArticles {
		articles = articles[:previewArticles]
	}
	return articles
}

func firstClauses(cs []*domain.Clause) []*domain.Clause {
	if len(cs) > previewClauses {
		return cs[:previewClauses]
	}
	return cs
}

func firstItems(items []*domain.Item) []*domain.Item {
	if len(items) > previewItems {
		return items[:previewItems]
	}
	return items
}

func printImportResult(cmd *cobra.Command, res *domain.ImportResult) {
	verb := "Imported"
	if res.Mode == domain.ImportReplaced {
		verb = "Re-imported"
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("%s law '%s' (id=%d) with %d articles and %d clauses.",
		verb, res.Code, res.LawID, res.Stats.Articles, res.Stats.Clauses)))

	details := []string{
		fmt.Sprintf("chapters: %d", res.Stats.Chapters),
		fmt.Sprintf("items: %d", res.Stats.Items),
	}
	if res.Mode == domain.ImportReplaced {
		details = append(details, fmt.Sprintf("replaced nodes: %d", res.Deleted))
	}
	details = append(details, "run: "+res.RunID)
	cmd.Println(dimStyle.Render(strings.Join(details, ", ")))
}
