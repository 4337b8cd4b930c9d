package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/config"
	"github.com/Veraticus/budget-manager/internal/export"
	"github.com/Veraticus/budget-manager/internal/report"
	"github.com/Veraticus/budget-manager/internal/storage"
)

const exportSheets = "sheets"

// exportOptions are shared by every report subcommand.
type exportOptions struct {
	format string
	output string
}

func (o *exportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "export", "", "export format (csv, json, sheets)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "export file (default: stdout for csv and json)")
}

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Generate financial reports",
		Long: `Generate financial reports. Every report can be exported as CSV or JSON
with --export, or written to Google Sheets with --export sheets.`,
	}

	cmd.AddCommand(a.reportMonthlyCmd())
	cmd.AddCommand(a.reportYearlyCmd())
	cmd.AddCommand(a.reportSummaryCmd())
	cmd.AddCommand(a.reportCustomCmd())

	return cmd
}

func (a *app) reportMonthlyCmd() *cobra.Command {
	var (
		opts  exportOptions
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, spending and budgets for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return common.NewUserError(fmt.Sprintf("month must be between 1 and 12, got %d", month), common.ErrInvalidInput)
			}

			return a.runReport(cmd, opts, func(ctx context.Context, asm *report.Assembler) (report.Report, error) {
				return asm.Monthly(ctx, year, time.Month(month))
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "report year (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "report month 1-12 (default current)")
	opts.register(cmd)
	return cmd
}

func (a *app) reportYearlyCmd() *cobra.Command {
	var (
		opts exportOptions
		year int
	)

	cmd := &cobra.Command{
		Use:   "yearly",
		Short: "Monthly breakdown and top categories for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year == 0 {
				year = time.Now().Year()
			}
			return a.runReport(cmd, opts, func(ctx context.Context, asm *report.Assembler) (report.Report, error) {
				return asm.Yearly(ctx, year)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "report year (default current)")
	opts.register(cmd)
	return cmd
}

func (a *app) reportSummaryCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "This month against last month, budgets and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd, opts, func(ctx context.Context, asm *report.Assembler) (report.Report, error) {
				return asm.Summary(ctx)
			})
		},
	}

	opts.register(cmd)
	return cmd
}

func (a *app) reportCustomCmd() *cobra.Command {
	var (
		opts      exportOptions
		startDate string
		endDate   string
		category  string
	)

	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Report over any date range, optionally for one category",
		Long: fmt.Sprintf(`Report over any date range. Without dates the report covers the last %d days.
The range runs from the start of --start-date up to, not including, --end-date.`, report.DefaultCustomDays),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := optionalDate(startDate)
			if err != nil {
				return err
			}
			end, err := optionalDate(endDate)
			if err != nil {
				return err
			}

			return a.runReport(cmd, opts, func(ctx context.Context, asm *report.Assembler) (report.Report, error) {
				return asm.Custom(ctx, report.CustomOptions{
					Start:        start,
					End:          end,
					CategoryName: category,
				})
			})
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "end of the range, exclusive (YYYY-MM-DD, default now)")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	opts.register(cmd)
	return cmd
}

// runReport builds a report and then renders or exports it.
func (a *app) runReport(cmd *cobra.Command, opts exportOptions, build func(context.Context, *report.Assembler) (report.Report, error)) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	if format != "" && format != exportSheets {
		if _, err := export.ParseFormat(format); err != nil {
			return err
		}
	}
	if opts.output != "" && (format == "" || format == exportSheets) {
		return common.NewUserError("--output needs --export csv or --export json", common.ErrInvalidInput)
	}

	return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		asm, err := report.NewAssembler(store)
		if err != nil {
			return err
		}
		rep, err := build(ctx, asm)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case format == "":
			return a.renderer(cmd).Report(rep)

		case format == exportSheets:
			return a.exportToSheets(cmd, rep)

		case opts.output == "":
			return export.Write(out, export.Format(format), rep, time.Now())

		default:
			if err := export.WriteFile(opts.output, export.Format(format), rep, time.Now()); err != nil {
				return err
			}
			writeLine(out, cli.FormatSuccess(fmt.Sprintf("Report exported to %s", opts.output)))
			return nil
		}
	})
}

func (a *app) exportToSheets(cmd *cobra.Command, rep report.Report) error {
	ctx := cmd.Context()

	cfg, err := config.LoadSheetsConfig(a.v)
	if err != nil {
		return common.NewUserError("Google Sheets is not configured", err)
	}
	writer, err := a.newSheetsWriter(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	spreadsheetID, err := writer.Write(ctx, rep)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Report exported to https://docs.google.com/spreadsheets/d/%s", spreadsheetID)))
	return nil
}
