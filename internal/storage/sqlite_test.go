package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func mustCategory(t *testing.T, s *SQLiteStorage, name string) *model.Category {
	t.Helper()
	cat, err := model.NewCategory(name, "", "")
	require.NoError(t, err)
	_, err = s.CreateCategory(context.Background(), cat)
	require.NoError(t, err)
	return cat
}

func mustTransaction(t *testing.T, s *SQLiteStorage, amount string, typ model.TransactionType, categoryID *string, date time.Time) *model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(model.TransactionParams{
		Amount:      decimal.RequireFromString(amount),
		Description: "txn " + amount,
		CategoryID:  categoryID,
		Type:        typ,
		Date:        date,
	})
	require.NoError(t, err)
	_, err = s.CreateTransaction(context.Background(), txn)
	require.NoError(t, err)
	return txn
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "a", "b", "budget.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer store.Close()
		assert.Equal(t, dbPath, store.Path())
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer store.Close()
		require.NoError(t, store.Migrate(context.Background()))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage(" ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	var count int
	err := store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('categories', 'transactions', 'budgets')`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMigrate_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	cat := mustCategory(t, store, "Food")
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(ctx))

	got, err := reopened.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)
}

func TestCodec_TimeOrderingMatchesText(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	earlier := time.Date(2024, 1, 1, 23, 0, 0, 0, est) // 04:00 UTC on Jan 2
	later := time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)

	assert.Less(t, encodeTime(earlier), encodeTime(later))

	decoded, err := decodeTime(encodeTime(earlier))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(earlier))
}
