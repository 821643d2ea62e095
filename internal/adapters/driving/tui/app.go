package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ferrule-labs/scantext/internal/core/domain"
	"github.com/ferrule-labs/scantext/internal/core/ports/driven"
)

// searchDone carries the outcome of an asynchronous search.
type searchDone struct {
	Results []domain.SearchResult
	Err     error
}

// statsLoaded carries the index statistics for the status bar.
type statsLoaded struct {
	Stats driven.IndexStats
	Err   error
}

// App is the TUI model following the Elm architecture. It runs a single
// search view: a query input on top, results below it, status bar at
// the bottom.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles
	keymap *KeyMap

	input   textinput.Model
	results []domain.SearchResult

	selected   int
	focusInput bool
	searching  bool
	err        error
	stats      driven.IndexStats

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI application over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Search your scans..."
	input.Focus()
	input.CharLimit = 256

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     DefaultStyles(),
		keymap:     DefaultKeyMap(),
		input:      input,
		focusInput: true,
		width:      80,
		height:     24,
	}, nil
}

// WithContext sets the context used for searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init loads index statistics and starts the input cursor blinking.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadStats())
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 8
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchDone:
		a.searching = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.results = msg.Results
		a.selected = 0
		a.focusInput = false
		a.input.Blur()
		return a, nil

	case statsLoaded:
		if msg.Err == nil {
			a.stats = msg.Stats
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C quits in either mode; plain q only outside the input.
	if msg.String() == "ctrl+c" || (!a.focusInput && key.Matches(msg, a.keymap.Quit)) {
		return a, tea.Quit
	}

	if a.focusInput {
		if key.Matches(msg, a.keymap.Search) {
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.searching = true
			return a, a.performSearch(query)
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keymap.Up):
		if a.selected > 0 {
			a.selected--
		}
	case key.Matches(msg, a.keymap.Down):
		if a.selected < len(a.results)-1 {
			a.selected++
		}
	case key.Matches(msg, a.keymap.NewSearch):
		a.focusInput = true
		a.input.SetValue("")
		a.input.Focus()
		a.results = nil
		a.selected = 0
		a.err = nil
	}

	return a, nil
}

// performSearch runs the query off the update loop.
func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Search.Search(a.ctx, query, a.ports.SearchOptions)
		return searchDone{Results: results, Err: err}
	}
}

// loadStats fetches index statistics for the status bar.
func (a *App) loadStats() tea.Cmd {
	return func() tea.Msg {
		if a.ports.Index == nil {
			return statsLoaded{}
		}
		stats, err := a.ports.Index.Stats(a.ctx)
		return statsLoaded{Stats: stats, Err: err}
	}
}

// View renders the application.
func (a *App) View() string {
	sections := []string{
		a.styles.Title.Render("scantext"),
		"",
		a.styles.InputField.Render(a.input.View()),
		"",
	}

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}

	sections = append(sections, a.renderResults())
	sections = append(sections, "", a.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderResults() string {
	if a.searching {
		return a.styles.Muted.Render("Searching...")
	}
	if len(a.results) == 0 {
		if a.focusInput {
			return a.styles.Muted.Render("Type a query and press enter.")
		}
		return a.styles.Muted.Render("No results.")
	}

	lines := make([]string, 0, len(a.results)*2)
	for i := range a.results {
		header := fmt.Sprintf("%s  %.2f", a.results[i].DocumentID, a.results[i].Score)
		if i == a.selected {
			lines = append(lines, a.styles.Selected.Render("> "+header))
		} else {
			lines = append(lines, a.styles.Normal.Render("  "+header))
		}
		lines = append(lines, a.styles.Muted.Render("  "+a.snippet(a.results[i].Text)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStatusBar() string {
	parts := make([]string, 0, 8)
	parts = append(parts, fmt.Sprintf("%d docs / %d chunks", a.stats.Documents, a.stats.Chunks))
	for _, b := range a.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return a.styles.StatusBar.Render(strings.Join(parts, "  ·  "))
}

// snippet flattens OCR whitespace and truncates to the window width.
func (a *App) snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	max := a.width - 6
	if max < 20 {
		max = 20
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.results
}

// SelectedIndex returns the index of the highlighted result.
func (a *App) SelectedIndex() int {
	return a.selected
}

// InputFocused reports whether the query input has focus.
func (a *App) InputFocused() bool {
	return a.focusInput
}

// Err returns the last search error, if any.
func (a *App) Err() error {
	return a.err
}
