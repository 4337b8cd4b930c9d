package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/storage"
)

var errNoChanges = errors.New("no fields given")

// openStorage opens and migrates the configured database. Callers close it.
func (a *app) openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// withStorage runs fn against an open store and closes it afterwards.
func (a *app) withStorage(cmd *cobra.Command, fn func(ctx context.Context, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()
	store, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, store)
}

func (a *app) renderer(cmd *cobra.Command) *cli.Renderer {
	return cli.NewRenderer(cmd.OutOrStdout(), a.cfg.Report.CurrencySymbol)
}

// findCategory resolves a category by exact name, suggesting a near match on failure.
func findCategory(ctx context.Context, store *storage.SQLiteStorage, name string) (*model.Category, error) {
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return model.FindCategoryByName(name, categories)
}

// categoryNames maps category ids to names for display.
func categoryNames(ctx context.Context, store *storage.SQLiteStorage) (map[string]string, error) {
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// confirm asks before a destructive action unless force is set.
func confirm(cmd *cobra.Command, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(cmd.Context(), question)
}

// optionalDate parses a YYYY-MM-DD flag value; empty means nil.
func optionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := model.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeLine(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
