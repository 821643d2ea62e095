package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ferrule-labs/scantext/internal/adapters/driving/tui"
	"github.com/ferrule-labs/scantext/internal/core/domain"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for searching scans.

Controls:
  Enter    - Search
  ↑/k, ↓/j - Navigate results
  n        - New search
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if err := initRuntime(); err != nil {
		return err
	}
	if retriever == nil {
		return errors.New("search service not configured")
	}

	// Panic recovery keeps the stack trace visible after the alt screen
	// is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n%s\n", r, debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Search: retriever,
		Index:  vectorIndex,
		SearchOptions: domain.SearchOptions{
			Limit:      appConfig.Search.Limit,
			Oversample: appConfig.Search.Oversample,
		},
	})
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
