// Package themes holds the dashboard color schemes.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/budget-manager/internal/model"
)

// Theme defines the visual style for the dashboard.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Label         lipgloss.Style
	Panel         lipgloss.Style
	FocusedPanel  lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	Muted         lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
}

func build(primary, border, fg, muted, success, warning, errColor lipgloss.Color) Theme {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Theme{
		Primary: primary,
		Border:  border,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Label: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),
		Panel:        panel,
		FocusedPanel: panel.BorderForeground(primary),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#1a1a1a")).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
		StatusSuccess: lipgloss.NewStyle().Foreground(success).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(warning).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(errColor).Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#f38ba8"),
)

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// Status picks the style for a budget status.
func (t Theme) Status(status model.BudgetStatus) lipgloss.Style {
	switch status {
	case model.BudgetOver:
		return t.StatusError
	case model.BudgetWarning:
		return t.StatusWarning
	default:
		return t.StatusSuccess
	}
}

// CategoryIcons maps well-known category names to icons.
var CategoryIcons = map[string]string{
	"Groceries":      "🥬",
	"Dining Out":     "🍕",
	"Rent":           "🏠",
	"Utilities":      "💡",
	"Transportation": "🚗",
	"Entertainment":  "🎬",
	"Salary":         "💼",
	"Freelance":      "🧾",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}
