package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loadSummary assembles a fresh summary report off the UI goroutine.
func (m Model) loadSummary() tea.Cmd {
	ctx := m.ctx
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		summary, err := source.Summary(ctx)
		if err != nil {
			slog.Debug("dashboard summary failed", "error", err)
		}
		return summaryLoadedMsg{summary: summary, err: err, loadedAt: time.Now()}
	}
}
