// Package tui provides the Bubble Tea terminal UI for catscan: category
// fetch, interactive selection, live analysis progress, and a styled
// coverage summary.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zscaler-hero/catscan/analyzer"
	"github.com/zscaler-hero/catscan/config"
	"github.com/zscaler-hero/catscan/report"
	"github.com/zscaler-hero/catscan/zia"
)

type phase int

const (
	phaseLoading phase = iota
	phaseSelect
	phaseAnalyzing
	phaseExporting
	phaseDone
)

// Model is the Bubble Tea model for the analysis TUI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	client *zia.Client
	cfg    analyzer.Config
	output config.OutputConfig
	meta   report.Meta

	spinner spinner.Model
	input   textinput.Model
	phase   phase

	categories   []zia.Category
	events       chan analyzer.Event
	selectionErr string

	currentCategory string
	batchIndex      int
	batchCount      int
	lookedUp        int
	total           int
	failed          int
	warnings        []string

	reports     []*report.CategoryReport
	exportPaths []string
	err         error
	quitting    bool
	width       int
}

// NewModel creates a TUI model wired to the given API client and pipeline
// configuration.
func NewModel(ctx context.Context, cancel context.CancelFunc, client *zia.Client, cfg analyzer.Config, output config.OutputConfig, meta report.Meta) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	input := textinput.New()
	input.Placeholder = "1,3,5 or all"
	input.Prompt = "> "
	input.CharLimit = 128

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		client:  client,
		cfg:     cfg,
		output:  output,
		meta:    meta,
		spinner: spin,
		input:   input,
	}
}

// Init starts the spinner and the category fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCategories())
}

// fetchCategories returns a tea.Cmd that lists the custom categories.
func (m Model) fetchCategories() tea.Cmd {
	return func() tea.Msg {
		categories, err := m.client.CustomCategories(m.ctx)
		if err != nil {
			err = fmt.Errorf("fetch custom categories: %w", err)
		}
		return CategoriesMsg{Categories: categories, Err: err}
	}
}

// startAnalysis returns a tea.Cmd that runs the pipeline and closes the
// events channel when it returns.
func (m Model) startAnalysis(ids []string) tea.Cmd {
	events := m.events
	ana := analyzer.New(m.cfg, m.client, events)
	return func() tea.Msg {
		reports, err := ana.Run(m.ctx, ids)
		close(events)
		return AnalysisDoneMsg{Reports: reports, Err: err}
	}
}

// exportReports returns a tea.Cmd that writes the configured export files.
func (m Model) exportReports() tea.Cmd {
	return func() tea.Msg {
		paths, err := report.Export(m.output.Dir, m.meta, m.reports, m.output.Formats)
		return ExportDoneMsg{Paths: paths, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case CategoriesMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, tea.Quit
		}
		if len(msg.Categories) == 0 {
			m.err = fmt.Errorf("no custom URL categories found")
			return m, tea.Quit
		}
		m.categories = msg.Categories
		m.phase = phaseSelect
		m.input.Focus()
		return m, textinput.Blink

	case AnalysisEventMsg:
		m.applyEvent(analyzer.Event(msg))
		return m, waitForEvent(m.events)

	case AnalysisDoneMsg:
		if msg.Reports == nil && msg.Err == nil {
			// Events channel closed; the reports arrive on the pipeline
			// command's own message.
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, tea.Quit
		}
		m.reports = msg.Reports
		m.phase = phaseExporting
		return m, m.exportReports()

	case ExportDoneMsg:
		m.exportPaths = msg.Paths
		if msg.Err != nil {
			m.err = fmt.Errorf("export reports: %w", msg.Err)
		}
		m.phase = phaseDone
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == phaseSelect {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case "enter":
			ids := ParseSelection(m.input.Value(), m.categories)
			if len(ids) == 0 {
				m.selectionErr = "No valid categories selected."
				return m, nil
			}
			m.selectionErr = ""
			m.phase = phaseAnalyzing
			m.events = make(chan analyzer.Event, 100)
			return m, tea.Batch(m.startAnalysis(ids), waitForEvent(m.events))
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) applyEvent(evt analyzer.Event) {
	switch evt.Kind {
	case analyzer.EventCategoryStart:
		m.currentCategory = evt.Category
		m.batchIndex = 0
		m.batchCount = evt.BatchCount
		m.lookedUp = 0
		m.total = evt.Total
		m.failed = 0
	case analyzer.EventBatch:
		m.batchIndex = evt.BatchIndex
		m.batchCount = evt.BatchCount
		m.lookedUp = evt.LookedUp
		m.total = evt.Total
		m.failed = evt.Failed
		if evt.Err != "" {
			m.warnings = append(m.warnings, fmt.Sprintf("%s: batch %d/%d failed: %s", evt.Category, evt.BatchIndex, evt.BatchCount, evt.Err))
		}
	case analyzer.EventCategoryError:
		m.warnings = append(m.warnings, fmt.Sprintf("%s: skipped: %s", evt.Category, evt.Err))
	}
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.phase {
	case phaseLoading:
		return fmt.Sprintf("%s Fetching custom URL categories...\n", m.spinner.View())
	case phaseSelect:
		return m.viewSelect()
	case phaseAnalyzing:
		return m.viewProgress()
	case phaseExporting:
		return fmt.Sprintf("%s Writing report files...\n", m.spinner.View())
	case phaseDone:
		return RenderSummary(m.reports, m.exportPaths, m.warnings)
	}
	return ""
}

func (m Model) viewSelect() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Found %d custom URL categories", len(m.categories))))
	b.WriteString("\n\n")
	for i, cat := range m.categories {
		b.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, cat.DisplayName()))
		detail := fmt.Sprintf("      super: %s", valueOr(cat.SuperCategory, "N/A"))
		if cat.Description != "" {
			detail += "  " + cat.Description
		}
		b.WriteString(dimStyle.Render(detail))
		b.WriteString("\n")
	}
	b.WriteString("\nEnter category numbers (e.g. 1,3,5) or 'all':\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.selectionErr != "" {
		b.WriteString(errorStyle.Render(m.selectionErr))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter to analyze, esc to quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewProgress() string {
	status := fmt.Sprintf("%s Analyzing %s... batch %d/%d, looked up %d/%d",
		m.spinner.View(), m.currentCategory, m.batchIndex, m.batchCount, m.lookedUp, m.total)
	if m.failed > 0 {
		status += errorStyle.Render(fmt.Sprintf("  %d failed", m.failed))
	}
	status += "\n"
	if n := len(m.warnings); n > 0 {
		status += dimStyle.Render(fmt.Sprintf("  %d warning(s) so far", n)) + "\n"
	}
	return status
}

// Err returns the terminal error, if the run failed.
func (m Model) Err() error { return m.err }

// Reports returns the per-category reports for output formatting.
func (m Model) Reports() []*report.CategoryReport { return m.reports }

// HasFailures reports whether any analyzed category had lookup failures.
func (m Model) HasFailures() bool {
	for _, rep := range m.reports {
		if rep.Summary.HasFailures() {
			return true
		}
	}
	return false
}

// ParseSelection resolves the category-picker input against the listed
// categories: "all" selects everything, otherwise a comma-separated list
// of 1-based indexes like "1,3,5". Invalid or out-of-range picks are
// skipped; duplicates are kept once, in first-pick order.
func ParseSelection(input string, categories []zia.Category) []string {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "all") {
		ids := make([]string, 0, len(categories))
		for _, cat := range categories {
			ids = append(ids, cat.ID)
		}
		return ids
	}

	seen := make(map[string]bool)
	var ids []string
	for _, field := range strings.Split(input, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || idx < 1 || idx > len(categories) {
			continue
		}
		id := categories[idx-1].ID
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
