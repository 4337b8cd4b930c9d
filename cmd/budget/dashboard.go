package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/report"
	"github.com/Veraticus/budget-manager/internal/storage"
	"github.com/Veraticus/budget-manager/internal/tui"
	"github.com/Veraticus/budget-manager/internal/tui/themes"
)

func (a *app) dashboardCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive overview of budgets and recent activity",
		Long: `Open a full-screen dashboard showing this month's cash flow, budget status
and recent transactions.

Keys: tab switches tables, r refreshes, ? toggles help, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				asm, err := report.NewAssembler(store)
				if err != nil {
					return err
				}
				return tui.Run(ctx, asm,
					tui.WithTheme(themes.GetTheme(theme)),
					tui.WithCurrencySymbol(a.cfg.Report.CurrencySymbol),
				)
			})
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	return cmd
}
