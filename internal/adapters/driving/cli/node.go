package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vnlaw/internal/core/domain"
)

var (
	nodeSearchLimit int
	nodeSearchJSON  bool
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Read and search stored nodes",
}

var nodeGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a node by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeGet,
}

var nodeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search clause and item text",
	Long: `Search the text of every stored node for a substring. Matching ignores
case, including Vietnamese letters ("ĐIỀU KIỆN" finds "điều kiện").`,
	Args: cobra.ExactArgs(1),
	RunE: runNodeSearch,
}

func init() {
	nodeSearchCmd.Flags().IntVarP(&nodeSearchLimit, "limit", "n", 20, "maximum number of results")
	nodeSearchCmd.Flags().BoolVar(&nodeSearchJSON, "json", false, "output results as JSON")
	nodeCmd.AddCommand(nodeGetCmd)
	nodeCmd.AddCommand(nodeSearchCmd)
	rootCmd.AddCommand(nodeCmd)
}

func runNodeGet(cmd *cobra.Command, args []string) error {
	if nodeService == nil {
		return notConfigured("node")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: node id must be a number, got %q", domain.ErrInvalidInput, args[0])
	}

	node, err := nodeService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get node %d: %w", id, err)
	}

	cmd.Println(headerStyle.Render(fmt.Sprintf("%s %s", node.OrdinalLabel, node.Heading)))
	cmd.Printf("ID:       %d\n", node.ID)
	cmd.Printf("Level:    %s\n", node.Level)
	cmd.Printf("Path:     %s\n", node.Path)
	cmd.Printf("Sort key: %s\n", node.SortKey)
	if node.ParentID != nil {
		cmd.Printf("Parent:   %d\n", *node.ParentID)
	}
	cmd.Printf("Effective: %s to %s\n",
		node.EffectiveStart.Format(domain.DateLayout), node.EffectiveEnd.Format(domain.DateLayout))
	if node.ContentText != "" {
		cmd.Println()
		cmd.Println(node.ContentText)
	}
	return nil
}

func runNodeSearch(cmd *cobra.Command, args []string) error {
	if nodeService == nil {
		return notConfigured("node")
	}

	nodes, err := nodeService.Search(cmd.Context(), args[0], nodeSearchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if nodeSearchJSON {
		data, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(nodes) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println(headerStyle.Render("Results:"))
	for i := range nodes {
		n := &nodes[i]
		cmd.Printf("[%d] %s\n", n.ID, n.Path)
		cmd.Printf("    %s\n", truncate(n.ContentText, clauseTextWidth))
	}
	return nil
}
