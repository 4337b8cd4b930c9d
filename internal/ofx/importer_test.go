package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
	"github.com/Veraticus/budget-manager/internal/testutil"
	"github.com/Veraticus/budget-manager/internal/testutil/categories"
)

func parseSample(t *testing.T) []Entry {
	t.Helper()
	entries, err := NewParser().ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	return entries
}

func TestNewImporter_NilStore(t *testing.T) {
	_, err := NewImporter(nil)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestImport(t *testing.T) {
	db := testutil.SetupTestDB(t, func(b categories.Builder) categories.Builder {
		return b.WithBasicCategories()
	})
	ctx := context.Background()
	importer, err := NewImporter(db.Storage)
	require.NoError(t, err)

	groceries := db.CategoryID(categories.CategoryGroceries)
	var progress []int
	result, err := importer.Import(ctx, parseSample(t), ImportOptions{
		CategoryID: &groceries,
		Progress:   func(done int) { progress = append(progress, done) },
	})
	require.NoError(t, err)
	assert.Len(t, result.Imported, 4)
	assert.Zero(t, result.Duplicates)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)

	stored, err := db.Storage.QueryTransactions(ctx, service.TransactionFilter{CategoryID: groceries})
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	income, err := db.Storage.QueryTransactions(ctx, service.TransactionFilter{Type: model.TypeIncome})
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "2000.00", income[0].Amount.StringFixed(2))

	t.Run("reimport finds duplicates", func(t *testing.T) {
		again, err := importer.Import(ctx, parseSample(t), ImportOptions{})
		require.NoError(t, err)
		assert.Empty(t, again.Imported)
		assert.Equal(t, 4, again.Duplicates)
	})
}

func TestImport_DryRun(t *testing.T) {
	db := testutil.SetupTestDB(t, nil)
	ctx := context.Background()
	importer, err := NewImporter(db.Storage)
	require.NoError(t, err)

	result, err := importer.Import(ctx, parseSample(t), ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, result.Imported, 4)

	stored, err := db.Storage.QueryTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestImport_DuplicatesWithinFileAndSkips(t *testing.T) {
	db := testutil.SetupTestDB(t, nil)
	importer, err := NewImporter(db.Storage)
	require.NoError(t, err)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)
	entry := Entry{
		Date:        day,
		Amount:      decimal.RequireFromString("9.99"),
		Description: "Music Service",
		Type:        model.TypeExpense,
	}
	zero := entry
	zero.Amount = decimal.Zero
	shouted := entry
	shouted.Description = "MUSIC SERVICE"

	result, err := importer.Import(context.Background(), []Entry{entry, shouted, zero}, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Skipped)
}

func TestImport_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t, nil)
	importer, err := NewImporter(db.Storage)
	require.NoError(t, err)

	result, err := importer.Import(context.Background(), nil, ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
}

func TestDedupeKey(t *testing.T) {
	base := model.Transaction{
		Date:        time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local),
		Amount:      decimal.RequireFromString("25.5"),
		Description: " Starbucks ",
		Type:        model.TypeExpense,
	}
	same := base
	same.Date = time.Date(2024, 1, 15, 18, 0, 0, 0, time.Local)
	same.Description = "STARBUCKS"
	assert.Equal(t, DedupeKey(base), DedupeKey(same))

	other := base
	other.Amount = decimal.RequireFromString("30")
	assert.NotEqual(t, DedupeKey(base), DedupeKey(other))

	income := base
	income.Type = model.TypeIncome
	assert.NotEqual(t, DedupeKey(base), DedupeKey(income))
}
