// Package tui implements the interactive budget dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/report"
	"github.com/Veraticus/budget-manager/internal/tui/themes"
)

// ErrNilSource is returned when the dashboard has nothing to read from.
var ErrNilSource = errors.New("dashboard requires a summary source")

// SummarySource produces the summary report shown on the dashboard.
type SummarySource interface {
	Summary(ctx context.Context) (*report.SummaryReport, error)
}

// Pane identifies which table has keyboard focus.
type Pane int

// Panes.
const (
	PaneBudgets Pane = iota
	PaneRecent
)

// Model holds the dashboard state.
type Model struct {
	loadedAt  time.Time
	ctx       context.Context
	source    SummarySource
	lastError error
	summary   *report.SummaryReport
	config    Config
	keymap    KeyMap
	help      help.Model
	budgets   table.Model
	recent    table.Model
	focus     Pane
	width     int
	height    int
	loading   bool
	quitting  bool
}

// New creates a dashboard model reading from source.
func New(ctx context.Context, source SummarySource, opts ...Option) (Model, error) {
	if source == nil {
		return Model{}, ErrNilSource
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := Model{
		ctx:     ctx,
		source:  source,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
		focus:   PaneBudgets,
	}
	m.budgets = newTable(cfg.Theme, budgetColumns(), true)
	m.recent = newTable(cfg.Theme, recentColumns(), false)
	m.handleResize()
	return m, nil
}

func newTable(theme themes.Theme, columns []table.Column, focused bool) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(focused),
		table.WithHeight(5),
	)
	styles := table.DefaultStyles()
	styles.Header = theme.Header
	styles.Selected = theme.Selected
	t.SetStyles(styles)
	return t
}

func budgetColumns() []table.Column {
	return []table.Column{
		{Title: "Category", Width: 18},
		{Title: "Budget", Width: 12},
		{Title: "Spent", Width: 12},
		{Title: "Left", Width: 12},
		{Title: "Used", Width: 8},
		{Title: "Status", Width: 8},
	}
}

func recentColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 28},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 18},
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadSummary()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case summaryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.summary = msg.summary
		m.loadedAt = msg.loadedAt
		m.fillTables()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.loadSummary()

	case key.Matches(msg, m.keymap.SwitchPane):
		if m.focus == PaneBudgets {
			m.focus = PaneRecent
			m.budgets.Blur()
			m.recent.Focus()
		} else {
			m.focus = PaneBudgets
			m.recent.Blur()
			m.budgets.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == PaneBudgets {
		m.budgets, cmd = m.budgets.Update(msg)
	} else {
		m.recent, cmd = m.recent.Update(msg)
	}
	return m, cmd
}

// handleResize splits the available height between the two tables.
func (m *Model) handleResize() {
	// header, cash flow panels, panel borders and help
	const chrome = 16
	rows := max((m.height-chrome)/2, 3)
	m.budgets.SetHeight(rows)
	m.recent.SetHeight(rows)
	m.help.Width = m.width
}

func (m *Model) fillTables() {
	budgetRows := make([]table.Row, 0, len(m.summary.Budgets))
	for _, b := range m.summary.Budgets {
		budgetRows = append(budgetRows, table.Row{
			b.CategoryName,
			m.money(b.Summary.Budget.Amount),
			m.money(b.Summary.SpentAmount),
			m.money(b.Summary.RemainingAmount),
			fmt.Sprintf("%.1f%%", b.Summary.PercentageUsed),
			string(b.Status),
		})
	}
	m.budgets.SetRows(budgetRows)

	recentRows := make([]table.Row, 0, len(m.summary.Recent))
	for _, t := range m.summary.Recent {
		amount := m.money(t.Amount)
		if t.Type == model.TypeExpense {
			amount = m.money(t.Amount.Neg())
		}
		category := t.CategoryName
		if category == "" {
			category = "Uncategorized"
		}
		recentRows = append(recentRows, table.Row{
			t.Date.Format(model.DateLayout),
			t.Description,
			amount,
			themes.GetCategoryIcon(category) + " " + category,
		})
	}
	m.recent.SetRows(recentRows)
}

// Focus reports which table currently has focus.
func (m Model) Focus() Pane {
	return m.focus
}

// Summary returns the most recently loaded report, or nil.
func (m Model) Summary() *report.SummaryReport {
	return m.summary
}

// Err returns the error from the last load attempt.
func (m Model) Err() error {
	return m.lastError
}
