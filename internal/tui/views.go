package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/analytics"
	"github.com/Veraticus/budget-manager/internal/cli"
)

func (m Model) money(d decimal.Decimal) string {
	return cli.FormatMoney(m.config.CurrencySymbol, d)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	theme := m.config.Theme
	if m.summary == nil {
		if m.lastError != nil {
			return theme.StatusError.Render("Failed to load summary: "+m.lastError.Error()) +
				"\n\n" + m.help.View(m.keymap)
		}
		return theme.Subtitle.Render("Loading summary...")
	}

	sections := []string{
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderCashFlow(m.summary.MonthName+" "+strconv.Itoa(m.summary.CurrentYear), m.summary.Month),
			m.renderCashFlow("Year to Date", m.summary.Year),
			m.renderBudgetCounts(),
		),
		m.renderTable("Budgets", m.budgets, m.focus == PaneBudgets, "No active budgets."),
		m.renderTable("Recent Transactions", m.recent, m.focus == PaneRecent, "No transactions yet."),
	}
	if m.lastError != nil {
		sections = append(sections, theme.StatusError.Render("Refresh failed: "+m.lastError.Error()))
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	theme := m.config.Theme
	status := "Updated " + m.loadedAt.Format("15:04:05")
	if m.loading {
		status = "Refreshing..."
	}
	return theme.Title.Render(cli.WalletIcon+" "+m.summary.Title()) + "  " + theme.Subtitle.Render(status)
}

func (m Model) renderCashFlow(title string, flow analytics.CashFlow) string {
	theme := m.config.Theme
	net := theme.StatusSuccess
	if flow.Net.IsNegative() {
		net = theme.StatusError
	}

	lines := []string{
		theme.Label.Render(title),
		"Income    " + m.money(flow.Income),
		"Expenses  " + m.money(flow.Expense),
		"Net       " + net.Render(m.money(flow.Net)),
	}
	return theme.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderBudgetCounts() string {
	theme := m.config.Theme
	over := theme.StatusSuccess
	if m.summary.OverBudget > 0 {
		over = theme.StatusError
	}

	lines := []string{
		theme.Label.Render("Budgets"),
		"Active    " + strconv.Itoa(m.summary.ActiveBudgets),
		"Over      " + over.Render(strconv.Itoa(m.summary.OverBudget)),
	}
	return theme.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderTable(title string, t table.Model, focused bool, empty string) string {
	theme := m.config.Theme
	panel := theme.Panel
	if focused {
		panel = theme.FocusedPanel
	}

	body := t.View()
	if len(t.Rows()) == 0 {
		body = theme.Muted.Render(empty)
	}
	return panel.Render(theme.Label.Render(title) + "\n" + body)
}
