package ofx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
)

// ErrNilStore is returned when the importer is built without storage.
var ErrNilStore = errors.New("transaction store cannot be nil")

// ImportOptions control an import run.
type ImportOptions struct {
	// CategoryID is assigned to every imported transaction when set.
	CategoryID *string
	// Progress is called after each entry is handled.
	Progress func(done int)
	// DryRun reports what would be imported without writing.
	DryRun bool
}

// ImportResult counts what happened to each entry.
type ImportResult struct {
	Imported   []model.Transaction
	Duplicates int
	Skipped    int
}

// Importer writes parsed entries to storage, skipping ones already recorded.
type Importer struct {
	store service.TransactionStore
}

// NewImporter creates an importer.
func NewImporter(store service.TransactionStore) (*Importer, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Importer{store: store}, nil
}

// DedupeKey identifies a transaction by day, type, amount and description.
func DedupeKey(txn model.Transaction) string {
	return strings.Join([]string{
		txn.Date.Local().Format(model.DateLayout),
		string(txn.Type),
		txn.Amount.StringFixed(2),
		strings.ToLower(strings.TrimSpace(txn.Description)),
	}, "|")
}

// Import stores entries as transactions. An entry matching an existing
// transaction, or an earlier entry of the same file, counts as a duplicate.
// Entries that do not form a valid transaction (zero amounts) are skipped.
func (i *Importer) Import(ctx context.Context, entries []Entry, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}
	if len(entries) == 0 {
		return result, nil
	}

	seen, err := i.existingKeys(ctx, entries)
	if err != nil {
		return nil, err
	}

	for n, entry := range entries {
		if err := i.importEntry(ctx, entry, opts, seen, result); err != nil {
			return nil, err
		}
		if opts.Progress != nil {
			opts.Progress(n + 1)
		}
	}

	slog.Info("OFX import finished",
		"imported", len(result.Imported),
		"duplicates", result.Duplicates,
		"skipped", result.Skipped,
		"dry_run", opts.DryRun)

	return result, nil
}

func (i *Importer) importEntry(ctx context.Context, entry Entry, opts ImportOptions, seen map[string]bool, result *ImportResult) error {
	txn, err := entry.Transaction(opts.CategoryID)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			slog.Debug("skipping OFX entry", "fitid", entry.FITID, "error", err)
			result.Skipped++
			return nil
		}
		return err
	}

	key := DedupeKey(*txn)
	if seen[key] {
		result.Duplicates++
		return nil
	}
	seen[key] = true

	if !opts.DryRun {
		if _, err := i.store.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to import %s: %w", entry.FITID, err)
		}
	}
	result.Imported = append(result.Imported, *txn)
	return nil
}

// existingKeys loads dedupe keys for stored transactions within the entries' date span.
func (i *Importer) existingKeys(ctx context.Context, entries []Entry) (map[string]bool, error) {
	first, last := entries[0].Date, entries[0].Date
	for _, e := range entries[1:] {
		if e.Date.Before(first) {
			first = e.Date
		}
		if e.Date.After(last) {
			last = e.Date
		}
	}

	existing, err := i.store.QueryTransactions(ctx, service.TransactionFilter{
		Range: model.NewDateRange(first, last.AddDate(0, 0, 1)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing transactions: %w", err)
	}

	keys := make(map[string]bool, len(existing)+len(entries))
	for _, txn := range existing {
		keys[DedupeKey(txn)] = true
	}
	return keys, nil
}
