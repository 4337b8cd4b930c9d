package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/report"
	"github.com/Veraticus/budget-manager/internal/service"
	"github.com/Veraticus/budget-manager/internal/storage"
)

func (a *app) budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Set and track spending limits",
	}

	cmd.AddCommand(a.budgetSetCmd())
	cmd.AddCommand(a.budgetListCmd())
	cmd.AddCommand(a.budgetStatusCmd())
	cmd.AddCommand(a.budgetDeleteCmd())
	cmd.AddCommand(a.budgetDeactivateCmd())

	return cmd
}

func (a *app) budgetSetCmd() *cobra.Command {
	var startDate, endDate string

	cmd := &cobra.Command{
		Use:   "set <category> <amount> [weekly|monthly|yearly]",
		Short: "Set a budget for a category",
		Long: `Set a budget for a category. The period defaults to monthly and the budget
starts today unless --start-date is given. The end date follows from the period.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := model.ParseAmount(args[1])
			if err != nil {
				return err
			}
			period := model.PeriodMonthly
			if len(args) > 2 {
				if period, err = model.ParsePeriod(args[2]); err != nil {
					return err
				}
			}
			start, err := optionalDate(startDate)
			if err != nil {
				return err
			}
			end, err := optionalDate(endDate)
			if err != nil {
				return err
			}

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				category, err := findCategory(ctx, store, args[0])
				if err != nil {
					return err
				}

				params := model.BudgetParams{
					CategoryID: category.ID,
					Amount:     amount,
					Period:     period,
					EndDate:    end,
				}
				if start != nil {
					params.StartDate = *start
				}

				budget, err := model.NewBudget(params)
				if err != nil {
					return err
				}

				id, err := store.CreateBudget(ctx, budget)
				if err != nil {
					return fmt.Errorf("failed to create budget: %w", err)
				}

				out := cmd.OutOrStdout()
				writeLine(out, cli.FormatSuccess(fmt.Sprintf("Budget set for '%s': %s (%s)",
					category.Name, cli.FormatMoney(a.cfg.Report.CurrencySymbol, budget.Amount), budget.Period)))
				writeLine(out, fmt.Sprintf("Budget ID: %s", id))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "first day of the budget (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "day the budget ends, exclusive (YYYY-MM-DD, default from period)")
	return cmd
}

func (a *app) budgetListCmd() *cobra.Command {
	var (
		category        string
		includeInactive bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				filter := service.BudgetFilter{ActiveOnly: !includeInactive}
				if category != "" {
					cat, err := findCategory(ctx, store, category)
					if err != nil {
						return err
					}
					filter.CategoryID = cat.ID
				}

				budgets, err := store.QueryBudgets(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list budgets: %w", err)
				}
				names, err := categoryNames(ctx, store)
				if err != nil {
					return err
				}
				return a.renderer(cmd).Budgets(budgets, names)
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category name")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "include deactivated budgets")
	return cmd
}

func (a *app) budgetStatusCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against each active budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				var categoryID string
				if category != "" {
					cat, err := findCategory(ctx, store, category)
					if err != nil {
						return err
					}
					categoryID = cat.ID
				}

				assembler, err := report.NewAssembler(store)
				if err != nil {
					return err
				}
				performance, err := assembler.BudgetStatus(ctx, categoryID)
				if err != nil {
					return err
				}
				return a.renderer(cmd).BudgetStatus(performance)
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only this category")
	return cmd
}

func (a *app) budgetDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				budget, err := store.GetBudget(ctx, args[0])
				if err != nil {
					return err
				}
				names, err := categoryNames(ctx, store)
				if err != nil {
					return err
				}
				name, ok := names[budget.CategoryID]
				if !ok {
					name = "Unknown"
				}

				question := fmt.Sprintf("Delete budget for '%s' (%s %s)?",
					name, cli.FormatMoney(a.cfg.Report.CurrencySymbol, budget.Amount), budget.Period)
				ok, err = confirm(cmd, force, question)
				if err != nil {
					return err
				}
				if !ok {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("Deletion cancelled."))
					return nil
				}

				found, err := store.DeleteBudget(ctx, budget.ID)
				if err != nil {
					return fmt.Errorf("failed to delete budget: %w", err)
				}
				if !found {
					return model.NewNotFoundError("budget", budget.ID)
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Budget deleted"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}

func (a *app) budgetDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Stop tracking a budget without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				budget, err := store.GetBudget(ctx, args[0])
				if err != nil {
					return err
				}

				inactive := false
				updated, err := model.BudgetUpdate{IsActive: &inactive}.Apply(*budget)
				if err != nil {
					return err
				}
				found, err := store.UpdateBudget(ctx, updated)
				if err != nil {
					return fmt.Errorf("failed to deactivate budget: %w", err)
				}
				if !found {
					return model.NewNotFoundError("budget", budget.ID)
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Budget deactivated"))
				return nil
			})
		},
	}
}
