package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

var lawCmd = &cobra.Command{
	Use:   "law",
	Short: "Browse imported laws",
}

var lawListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported laws",
	Args:  cobra.NoArgs,
	RunE:  runLawList,
}

var lawShowCmd = &cobra.Command{
	Use:   "show [code]",
	Short: "Show a law with its import history",
	Args:  cobra.ExactArgs(1),
	RunE:  runLawShow,
}

var lawTOCDepth int

var lawTOCCmd = &cobra.Command{
	Use:   "toc [code]",
	Short: "Print the table of contents of a law",
	Long: `Print the chapters, articles, clauses and items of a law in document
order. Use --depth to stop at a level (1 = chapters or top-level articles).`,
	Args: cobra.ExactArgs(1),
	RunE: runLawTOC,
}

func init() {
	lawTOCCmd.Flags().IntVar(&lawTOCDepth, "depth", 0, "maximum depth to print (0 = all)")
	lawCmd.AddCommand(lawListCmd)
	lawCmd.AddCommand(lawShowCmd)
	lawCmd.AddCommand(lawTOCCmd)
	rootCmd.AddCommand(lawCmd)
}

func runLawList(cmd *cobra.Command, _ []string) error {
	if lawService == nil {
		return notConfigured("law")
	}

	laws, err := lawService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list laws: %w", err)
	}
	if len(laws) == 0 {
		cmd.Println("No laws imported yet. Run 'vnlaw import <file>' to add one.")
		return nil
	}

	cmd.Println(headerStyle.Render("Laws:"))
	for i := range laws {
		l := &laws[i]
		cmd.Printf("  %-20s %-7s %s\n", l.Code, l.DocType, l.Title)
	}
	return nil
}

func runLawShow(cmd *cobra.Command, args []string) error {
	if lawService == nil {
		return notConfigured("law")
	}

	details, err := lawService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get law %q: %w", args[0], err)
	}

	l := details.Law
	lines := []string{
		headerStyle.Render(l.Title),
		fmt.Sprintf("Code:       %s", l.Code),
		fmt.Sprintf("ID:         %d", l.ID),
		fmt.Sprintf("Type:       %s", l.DocType),
	}
	if l.IssuingBody != "" {
		lines = append(lines, fmt.Sprintf("Issued by:  %s", l.IssuingBody))
	}
	if l.PromulgationDate != nil {
		lines = append(lines, fmt.Sprintf("Promulgated: %s", l.PromulgationDate.Format(domain.DateLayout)))
	}
	if details.RelatedLawCode != "" {
		lines = append(lines, fmt.Sprintf("Related to: %s", details.RelatedLawCode))
	}
	lines = append(lines,
		fmt.Sprintf("Effective:  %s to %s", l.EffectiveStart.Format(domain.DateLayout), l.EffectiveEnd.Format(domain.DateLayout)),
		fmt.Sprintf("Nodes:      %d", details.NodeCount),
	)
	cmd.Println(boxStyle.Render(strings.Join(lines, "\n")))

	if len(details.Runs) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println(headerStyle.Render("Import runs:"))
	for i := range details.Runs {
		r := &details.Runs[i]
		cmd.Printf("  %s  %-8s articles=%d clauses=%d items=%d deleted=%d  %s\n",
			r.ImportedAt.Local().Format("2006-01-02 15:04:05"), r.Mode,
			r.Articles, r.Clauses, r.Items, r.Deleted, dimStyle.Render(r.ID))
	}
	return nil
}

func runLawTOC(cmd *cobra.Command, args []string) error {
	if lawService == nil {
		return notConfigured("law")
	}

	nodes, err := lawService.TOC(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get table of contents for %q: %w", args[0], err)
	}
	if len(nodes) == 0 {
		cmd.Printf("Law %s has no nodes.\n", args[0])
		return nil
	}

	for i := range nodes {
		n := &nodes[i]
		depth := strings.Count(n.SortKey, ".")
		if lawTOCDepth > 0 && depth >= lawTOCDepth {
			continue
		}
		cmd.Printf("%s%s\n", indent(depth), tocLine(n))
	}
	return nil
}

// tocLine renders one node: containers show their heading, leaves a
// short excerpt of their text.
func tocLine(n *domain.Node) string {
	label := n.OrdinalLabel
	switch {
	case n.Heading != "":
		return fmt.Sprintf("%s. %s %s", label, n.Heading, dimStyle.Render(fmt.Sprintf("[%d]", n.ID)))
	case n.ContentText != "":
		return fmt.Sprintf("%s: %s %s", label, truncate(n.ContentText, clauseTextWidth), dimStyle.Render(fmt.Sprintf("[%d]", n.ID)))
	default:
		return fmt.Sprintf("%s %s", label, dimStyle.Render(fmt.Sprintf("[%d]", n.ID)))
	}
}
