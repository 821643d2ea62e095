package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ferrule-labs/scantext/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var (
	resultTitleStyle = lipgloss.NewStyle().Bold(true)
	resultScoreStyle = lipgloss.NewStyle().Faint(true)
	snippetStyle     = lipgloss.NewStyle().PaddingLeft(6)
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed scans",
	Long: `Searches the index semantically and prints the best matching
document per image, most relevant first. The snippet shown is the
highest-scoring chunk of that document.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 3, "maximum number of documents")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	if retriever == nil {
		return errors.New("search service not configured")
	}

	// The flag wins when given; otherwise the config file's limit applies.
	limit := searchLimit
	if !cmd.Flags().Changed("limit") && appConfig.Search.Limit > 0 {
		limit = appConfig.Search.Limit
	}
	opts := domain.SearchOptions{
		Limit:      limit,
		Oversample: appConfig.Search.Oversample,
	}
	results, err := retriever.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth()

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := resultTitleStyle.Render(results[i].DocumentID)
		score := resultScoreStyle.Render(fmt.Sprintf("(%.2f)", results[i].Score))
		cmd.Printf("  [%d] %s %s\n", i+1, title, score)

		snippet := snippetText(results[i].Text, width-8)
		if snippet != "" {
			cmd.Println(snippetStyle.Render(snippet))
		}
		cmd.Println()
	}

	return nil
}

// terminalWidth returns the stdout width, falling back to 80 columns
// when stdout is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// snippetText flattens OCR whitespace and truncates to max runes.
func snippetText(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if max < 10 {
		max = 10
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}
