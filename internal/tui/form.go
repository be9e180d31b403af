// Package tui renders the arena as a terminal form: pick a judge, pick a preset
// or type a query, submit, and read the report.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
	"github.com/rs/zerolog"
)

const (
	appTitle    = "Model Comparison Arena"
	appSubtitle = "Select a judge model and query. All models will respond, and the selected judge will evaluate the other responses."
	helpLine    = "tab: next field · ctrl+s: submit · ctrl+r: clear · ctrl+c: quit"

	errEmptyQuery = "Enter a query or select a preset before submitting."
)

type Reporter interface {
	Report(ctx context.Context, req models.ReportRequest) (models.Report, error)
}

type focusArea int

const (
	focusJudge focusArea = iota
	focusPreset
	focusInput
	focusResult
	focusCount
)

// reportDoneMsg carries the outcome of a submitted run back into Update.
type reportDoneMsg struct {
	report models.Report
	err    error
}

type choice string

func (c choice) Title() string       { return string(c) }
func (c choice) Description() string { return "" }
func (c choice) FilterValue() string { return string(c) }

type Form struct {
	ctx      context.Context
	reporter Reporter
	labels   []string
	logger   *zerolog.Logger

	judges  list.Model
	presets list.Model
	input   textinput.Model
	result  viewport.Model

	report  string
	focus   focusArea
	running bool
	status  string
	errMsg  string

	width  int
	height int
}

// NewForm builds the form. defaultJudge is preselected when it is one of labels.
func NewForm(ctx context.Context, reporter Reporter, labels []string, queries []string, defaultJudge string, logger *zerolog.Logger) *Form {
	judges := newPicker("Judge Model", labels)
	if i := slices.Index(labels, defaultJudge); i >= 0 {
		judges.Select(i)
	}

	presets := newPicker("Preset Query", queries)

	input := textinput.New()
	input.Placeholder = "Type a custom query (overrides the preset)"
	input.CharLimit = 2000
	input.Width = 60

	return &Form{
		ctx:      ctx,
		reporter: reporter,
		labels:   labels,
		logger:   logger,
		judges:   judges,
		presets:  presets,
		input:    input,
		result:   viewport.New(80, 20),
		focus:    focusJudge,
	}
}

func newPicker(title string, values []string) list.Model {
	items := make([]list.Item, 0, len(values))
	for _, v := range values {
		items = append(items, choice(v))
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 40, 8)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func (f *Form) Init() tea.Cmd {
	return nil
}

func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		f.resize(msg.Width, msg.Height)
		return f, nil

	case reportDoneMsg:
		f.running = false
		if msg.err != nil {
			f.errMsg = msg.err.Error()
			f.status = ""
			return f, nil
		}
		f.status = fmt.Sprintf("Report %s finished in %s", msg.report.ID, msg.report.Duration.Round(time.Millisecond))
		f.report = msg.report.Text
		f.result.SetContent(f.report)
		f.result.GotoTop()
		return f, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return f, tea.Quit
		case "tab":
			return f, f.setFocus((f.focus + 1) % focusCount)
		case "shift+tab":
			return f, f.setFocus((f.focus + focusCount - 1) % focusCount)
		case "ctrl+s":
			return f, f.submit()
		case "ctrl+r":
			f.clear()
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusJudge:
		f.judges, cmd = f.judges.Update(msg)
	case focusPreset:
		f.presets, cmd = f.presets.Update(msg)
	case focusInput:
		f.input, cmd = f.input.Update(msg)
	case focusResult:
		f.result, cmd = f.result.Update(msg)
	}
	return f, cmd
}

func (f *Form) setFocus(area focusArea) tea.Cmd {
	f.focus = area
	if area == focusInput {
		return f.input.Focus()
	}
	f.input.Blur()
	return nil
}

// submit starts one report run. It is a no-op while a run is in flight.
func (f *Form) submit() tea.Cmd {
	if f.running {
		return nil
	}

	judge := f.selectedJudge()
	if !slices.Contains(f.labels, judge) {
		f.errMsg = fmt.Sprintf("Unknown judge model: %q", judge)
		return nil
	}

	query := f.selectedQuery()
	if query == "" {
		f.errMsg = errEmptyQuery
		return nil
	}

	f.errMsg = ""
	f.running = true
	f.status = fmt.Sprintf("Querying %d models, judge %s...", len(f.labels), judge)
	f.logger.Info().Str("judge", judge).Str("query", query).Msg("Submitting report")

	ctx, reporter := f.ctx, f.reporter
	return func() tea.Msg {
		report, err := reporter.Report(ctx, models.ReportRequest{Judge: judge, Query: query})
		return reportDoneMsg{report: report, err: err}
	}
}

func (f *Form) clear() {
	f.report = ""
	f.result.SetContent("")
	f.errMsg = ""
	f.status = ""
}

func (f *Form) selectedJudge() string {
	if item, ok := f.judges.SelectedItem().(choice); ok {
		return string(item)
	}
	return ""
}

// selectedQuery prefers the typed query over the preset selection.
func (f *Form) selectedQuery() string {
	if q := strings.TrimSpace(f.input.Value()); q != "" {
		return q
	}
	if item, ok := f.presets.SelectedItem().(choice); ok {
		return strings.TrimSpace(string(item))
	}
	return ""
}

func (f *Form) resize(width, height int) {
	f.width = width
	f.height = height

	pickerWidth := max(20, width/2-4)
	f.judges.SetSize(pickerWidth, 8)
	f.presets.SetSize(pickerWidth, 8)
	f.input.Width = max(20, width-8)

	f.result.Width = max(20, width-4)
	f.result.Height = max(5, height-22)
}

func (f *Form) pane(area focusArea, content string) string {
	if f.focus == area {
		return focusedPaneStyle.Render(content)
	}
	return paneStyle.Render(content)
}

func (f *Form) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(appTitle),
		subtitleStyle.Render(appSubtitle),
	)

	pickers := lipgloss.JoinHorizontal(lipgloss.Top,
		f.pane(focusJudge, f.judges.View()),
		f.pane(focusPreset, f.presets.View()),
	)

	lines := []string{
		header,
		pickers,
		f.pane(focusInput, f.input.View()),
	}

	if f.errMsg != "" {
		lines = append(lines, errorStyle.Render(f.errMsg))
	}
	if f.status != "" {
		lines = append(lines, statusStyle.Render(f.status))
	}

	lines = append(lines,
		f.pane(focusResult, f.result.View()),
		statusStyle.Render(helpLine),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
