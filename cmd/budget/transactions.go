package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
	"github.com/Veraticus/budget-manager/internal/storage"
)

const defaultListLimit = 20

func (a *app) transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"transactions", "txn"},
		Short:   "Record and review income and expenses",
	}

	cmd.AddCommand(a.transactionAddCmd())
	cmd.AddCommand(a.transactionListCmd())
	cmd.AddCommand(a.transactionUpdateCmd())
	cmd.AddCommand(a.transactionDeleteCmd())

	return cmd
}

func (a *app) transactionAddCmd() *cobra.Command {
	var (
		amount      string
		description string
		category    string
		date        string
		notes       string
	)

	cmd := &cobra.Command{
		Use:       "add <income|expense>",
		Short:     "Add a new transaction",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.TypeIncome), string(model.TypeExpense)},
		RunE: func(cmd *cobra.Command, args []string) error {
			txnType, err := model.ParseTransactionType(args[0])
			if err != nil {
				return err
			}
			value, err := model.ParseAmount(amount)
			if err != nil {
				return err
			}
			when, err := optionalDate(date)
			if err != nil {
				return err
			}

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				params := model.TransactionParams{
					Amount:      value,
					Description: description,
					Type:        txnType,
					Notes:       notes,
				}
				if when != nil {
					params.Date = *when
				}
				if category != "" {
					cat, err := findCategory(ctx, store, category)
					if err != nil {
						return err
					}
					params.CategoryID = &cat.ID
				}

				txn, err := model.NewTransaction(params)
				if err != nil {
					return err
				}

				id, err := store.CreateTransaction(ctx, txn)
				if err != nil {
					return fmt.Errorf("failed to create transaction: %w", err)
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Transaction added (ID: %s)", id)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "transaction amount")
	cmd.Flags().StringVarP(&description, "description", "d", "", "transaction description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "additional notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

type listOptions struct {
	category  string
	txnType   string
	limit     int
	lastWeek  bool
	lastMonth bool
	startDate string
	endDate   string
}

// dateRange turns the list flags into a half-open range. The end date is inclusive
// on the command line, so the range ends at the following midnight.
func (o listOptions) dateRange(now time.Time) (model.DateRange, error) {
	switch {
	case o.lastWeek:
		start := now.AddDate(0, 0, -7)
		return model.DateRange{Start: &start}, nil
	case o.lastMonth:
		start := now.AddDate(0, 0, -30)
		return model.DateRange{Start: &start}, nil
	}

	var r model.DateRange
	start, err := optionalDate(o.startDate)
	if err != nil {
		return r, err
	}
	end, err := optionalDate(o.endDate)
	if err != nil {
		return r, err
	}
	r.Start = start
	if end != nil {
		next := end.AddDate(0, 0, 1)
		r.End = &next
	}
	return r, nil
}

func (a *app) transactionListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.lastWeek && opts.lastMonth {
				return common.NewUserError("choose one of --last-week and --last-month", common.ErrInvalidInput)
			}

			filter := service.TransactionFilter{Limit: opts.limit}
			if opts.txnType != "" {
				txnType, err := model.ParseTransactionType(opts.txnType)
				if err != nil {
					return err
				}
				filter.Type = txnType
			}
			r, err := opts.dateRange(time.Now())
			if err != nil {
				return err
			}
			filter.Range = r

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				if opts.category != "" {
					cat, err := findCategory(ctx, store, opts.category)
					if err != nil {
						return err
					}
					filter.CategoryID = cat.ID
				}

				txns, err := store.QueryTransactions(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list transactions: %w", err)
				}
				names, err := categoryNames(ctx, store)
				if err != nil {
					return err
				}
				return a.renderer(cmd).Transactions(txns, names)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.category, "category", "", "filter by category name")
	flags.StringVar(&opts.txnType, "type", "", "filter by type (income or expense)")
	flags.IntVar(&opts.limit, "limit", defaultListLimit, "maximum number of transactions (0 for all)")
	flags.BoolVar(&opts.lastWeek, "last-week", false, "only the last 7 days")
	flags.BoolVar(&opts.lastMonth, "last-month", false, "only the last 30 days")
	flags.StringVar(&opts.startDate, "start-date", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&opts.endDate, "end-date", "", "last day to include (YYYY-MM-DD)")

	return cmd
}

func (a *app) transactionUpdateCmd() *cobra.Command {
	var clearCategory bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			update := model.TransactionUpdate{ClearCategory: clearCategory}

			if flags.Changed("amount") {
				raw, _ := flags.GetString("amount")
				value, err := model.ParseAmount(raw)
				if err != nil {
					return err
				}
				update.Amount = &value
			}
			if flags.Changed("description") {
				description, _ := flags.GetString("description")
				update.Description = &description
			}
			if flags.Changed("type") {
				raw, _ := flags.GetString("type")
				txnType, err := model.ParseTransactionType(raw)
				if err != nil {
					return err
				}
				update.Type = &txnType
			}
			if flags.Changed("date") {
				raw, _ := flags.GetString("date")
				when, err := model.ParseDate(raw)
				if err != nil {
					return err
				}
				update.Date = &when
			}
			if flags.Changed("notes") {
				notes, _ := flags.GetString("notes")
				update.Notes = &notes
			}
			categoryName, _ := flags.GetString("category")
			if clearCategory && categoryName != "" {
				return common.NewUserError("choose one of --category and --clear-category", common.ErrInvalidInput)
			}
			if update.IsEmpty() && categoryName == "" {
				return common.NewUserError("nothing to update", errNoChanges)
			}

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				txn, err := store.GetTransaction(ctx, args[0])
				if err != nil {
					return err
				}

				if categoryName != "" {
					cat, err := findCategory(ctx, store, categoryName)
					if err != nil {
						return err
					}
					update.CategoryID = &cat.ID
				}

				updated, err := update.Apply(*txn)
				if err != nil {
					return err
				}

				found, err := store.UpdateTransaction(ctx, updated)
				if err != nil {
					return fmt.Errorf("failed to update transaction: %w", err)
				}
				if !found {
					return model.NewNotFoundError("transaction", args[0])
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Transaction updated"))
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.String("amount", "", "new amount")
	flags.String("description", "", "new description")
	flags.String("category", "", "new category name")
	flags.BoolVar(&clearCategory, "clear-category", false, "remove the category")
	flags.String("type", "", "new type (income or expense)")
	flags.String("date", "", "new date (YYYY-MM-DD)")
	flags.String("notes", "", "new notes")

	return cmd
}

func (a *app) transactionDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				txn, err := store.GetTransaction(ctx, args[0])
				if err != nil {
					return err
				}

				question := fmt.Sprintf("Delete transaction '%s' (%s)?",
					txn.Description, cli.FormatMoney(a.cfg.Report.CurrencySymbol, txn.Amount))
				ok, err := confirm(cmd, force, question)
				if err != nil {
					return err
				}
				if !ok {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("Deletion cancelled."))
					return nil
				}

				found, err := store.DeleteTransaction(ctx, txn.ID)
				if err != nil {
					return fmt.Errorf("failed to delete transaction: %w", err)
				}
				if !found {
					return model.NewNotFoundError("transaction", txn.ID)
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Transaction deleted"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}
