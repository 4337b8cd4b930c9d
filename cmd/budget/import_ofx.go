package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/ofx"
	"github.com/Veraticus/budget-manager/internal/storage"
)

// maxParallelParses bounds how many statements are parsed at once.
const maxParallelParses = 4

func (a *app) importOFXCmd() *cobra.Command {
	var (
		category string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <file|glob>...",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX/QFX bank and credit card statements.

Credits become income and debits become expenses. A line matching an existing
transaction on date, type, amount and description is skipped as a duplicate,
so importing the same statement twice is safe.`,
		Example: `  budget import-ofx ~/Downloads/checking.qfx
  budget import-ofx "statements/*.ofx" --category Groceries --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				opts := ofx.ImportOptions{DryRun: dryRun}
				if category != "" {
					cat, err := findCategory(ctx, store, category)
					if err != nil {
						return err
					}
					opts.CategoryID = &cat.ID
				}

				importer, err := ofx.NewImporter(store)
				if err != nil {
					return err
				}
				names, err := categoryNames(ctx, store)
				if err != nil {
					return err
				}

				handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
				ctx, stop := handler.HandleInterrupts(ctx)
				defer stop()

				statements, err := parseStatements(ctx, files)
				if err != nil {
					if handler.WasInterrupted() {
						return nil
					}
					return err
				}

				for _, st := range statements {
					if err := a.importStatement(ctx, cmd, importer, st, opts, names); err != nil {
						if handler.WasInterrupted() {
							return nil
						}
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "assign every imported transaction to this category")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")
	return cmd
}

// statement is one parsed statement file.
type statement struct {
	path    string
	entries []ofx.Entry
}

// parseStatements parses files concurrently and returns them in argument order.
func parseStatements(ctx context.Context, files []string) ([]statement, error) {
	statements := make([]statement, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			entries, err := parseStatement(ctx, path)
			if err != nil {
				return err
			}
			statements[i] = statement{path: path, entries: entries}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statements, nil
}

func parseStatement(ctx context.Context, path string) ([]ofx.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	entries, err := ofx.NewParser().ParseFile(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return entries, nil
}

// importStatement stores one parsed statement. names resolves category ids for the dry-run listing.
func (a *app) importStatement(ctx context.Context, cmd *cobra.Command, importer *ofx.Importer, st statement, opts ofx.ImportOptions, names map[string]string) error {
	out := cmd.OutOrStdout()
	base := filepath.Base(st.path)

	if len(st.entries) == 0 {
		writeLine(out, cli.FormatInfo(base+": no transactions found"))
		return nil
	}

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(st.entries), base)
	opts.Progress = cli.ProgressFunc(bar)

	result, err := importer.Import(ctx, st.entries, opts)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", st.path, err)
	}

	verb := "Imported"
	if opts.DryRun {
		verb = "Would import"
	}
	writeLine(out, cli.FormatSuccess(fmt.Sprintf("%s: %s %d transactions (%d duplicates, %d skipped)",
		base, verb, len(result.Imported), result.Duplicates, result.Skipped)))
	if opts.DryRun {
		return a.renderer(cmd).Transactions(result.Imported, names)
	}
	return nil
}

// expandFiles resolves glob patterns. A pattern matching nothing is an error.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %w", common.ErrInvalidInput, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: no files match %q", common.ErrInvalidInput, pattern)
		}
		files = append(files, matches...)
	}
	return files, nil
}
