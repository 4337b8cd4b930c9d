package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
)

// memoryReader applies TransactionFilter in memory.
type memoryReader struct {
	err          error
	categories   []model.Category
	transactions []model.Transaction
}

func (m *memoryReader) QueryTransactions(_ context.Context, f service.TransactionFilter) ([]model.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Transaction
	for _, txn := range m.transactions {
		if f.CategoryID != "" && !txn.InCategory(f.CategoryID) {
			continue
		}
		if f.Type != "" && txn.Type != f.Type {
			continue
		}
		if !f.Range.Contains(txn.Date) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *memoryReader) ListCategories(_ context.Context) ([]model.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func txn(amount string, typ model.TransactionType, categoryID string, date string) model.Transaction {
	t := model.Transaction{
		ID:          amount + date,
		Amount:      decimal.RequireFromString(amount),
		Description: "test",
		Type:        typ,
		Date:        day(date),
	}
	if categoryID != "" {
		t.CategoryID = &categoryID
	}
	return t
}

func newFixture(t *testing.T) (*Engine, *memoryReader) {
	t.Helper()
	reader := &memoryReader{
		categories: []model.Category{
			{ID: "food", Name: "Food"},
			{ID: "rent", Name: "Rent"},
			{ID: "fun", Name: "Fun"},
		},
		transactions: []model.Transaction{
			txn("10.10", model.TypeExpense, "food", "2024-01-05"),
			txn("20.20", model.TypeExpense, "food", "2024-01-31"),
			txn("900.00", model.TypeExpense, "rent", "2024-01-01"),
			txn("0.10", model.TypeExpense, "", "2024-01-10"),
			txn("3000.00", model.TypeIncome, "", "2024-01-15"),
			txn("50.00", model.TypeIncome, "food", "2024-01-20"),
			txn("45.00", model.TypeExpense, "food", "2024-02-01"),
		},
	}
	engine, err := NewEngine(reader)
	require.NoError(t, err)
	return engine, reader
}

func TestNewEngine_NilReader(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrNilReader)
}

func TestSpendingByCategory(t *testing.T) {
	engine, _ := newFixture(t)
	jan := model.MonthRange(2024, time.January, time.UTC)

	breakdown, err := engine.SpendingByCategory(context.Background(), jan)
	require.NoError(t, err)
	require.Len(t, breakdown, 3)

	assert.Equal(t, "Rent", breakdown[0].CategoryName)
	assert.Equal(t, "900.00", breakdown[0].Total.StringFixed(2))
	assert.Equal(t, "Food", breakdown[1].CategoryName)
	assert.Equal(t, "30.30", breakdown[1].Total.StringFixed(2))
	assert.Equal(t, "Fun", breakdown[2].CategoryName)
	assert.True(t, breakdown[2].Total.IsZero())

	m := breakdown.Map()
	assert.Len(t, m, 3)
	assert.True(t, m["Fun"].IsZero())
	assert.Len(t, breakdown.NonZero(), 2)
	assert.Equal(t, "930.30", breakdown.Sum().StringFixed(2))
	assert.Len(t, breakdown.Top(1), 1)
	assert.Len(t, breakdown.Top(10), 3)
}

func TestSpendingByCategory_TiesSortByName(t *testing.T) {
	reader := &memoryReader{
		categories: []model.Category{{ID: "b", Name: "Beta"}, {ID: "a", Name: "Alpha"}},
	}
	engine, err := NewEngine(reader)
	require.NoError(t, err)

	breakdown, err := engine.SpendingByCategory(context.Background(), model.DateRange{})
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "Alpha", breakdown[0].CategoryName)
	assert.Equal(t, "Beta", breakdown[1].CategoryName)
}

func TestIncomeVsExpenses(t *testing.T) {
	engine, _ := newFixture(t)
	ctx := context.Background()

	t.Run("month", func(t *testing.T) {
		flow, err := engine.IncomeVsExpenses(ctx, model.MonthRange(2024, time.January, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "3050.00", flow.Income.StringFixed(2))
		assert.Equal(t, "930.40", flow.Expense.StringFixed(2))
		assert.Equal(t, "2119.60", flow.Net.StringFixed(2))
		assert.True(t, flow.Net.Equal(flow.Income.Sub(flow.Expense)))
	})

	t.Run("empty range yields zeros", func(t *testing.T) {
		flow, err := engine.IncomeVsExpenses(ctx, model.MonthRange(2023, time.March, time.UTC))
		require.NoError(t, err)
		assert.True(t, flow.Income.IsZero())
		assert.True(t, flow.Expense.IsZero())
		assert.True(t, flow.Net.IsZero())
	})

	t.Run("cent sums are exact", func(t *testing.T) {
		reader := &memoryReader{}
		for i := 0; i < 3; i++ {
			reader.transactions = append(reader.transactions, txn("0.10", model.TypeExpense, "", "2024-01-01"))
		}
		e, err := NewEngine(reader)
		require.NoError(t, err)
		flow, err := e.IncomeVsExpenses(ctx, model.DateRange{})
		require.NoError(t, err)
		assert.True(t, flow.Expense.Equal(decimal.RequireFromString("0.30")))
	})

	t.Run("category", func(t *testing.T) {
		flow, err := engine.CategoryCashFlow(ctx, model.MonthRange(2024, time.January, time.UTC), "food")
		require.NoError(t, err)
		assert.Equal(t, "50.00", flow.Income.StringFixed(2))
		assert.Equal(t, "30.30", flow.Expense.StringFixed(2))
	})
}

func TestBudgetSummary(t *testing.T) {
	engine, _ := newFixture(t)
	ctx := context.Background()

	budget, err := model.NewBudget(model.BudgetParams{
		CategoryID: "food",
		Amount:     decimal.NewFromInt(25),
		Period:     model.PeriodMonthly,
		StartDate:  day("2024-01-01"),
	})
	require.NoError(t, err)

	summary, err := engine.BudgetSummary(ctx, *budget)
	require.NoError(t, err)

	// The 2024-02-01 expense sits on the exclusive end and is not counted.
	assert.Equal(t, "30.30", summary.SpentAmount.StringFixed(2))
	assert.Equal(t, 2, summary.TransactionCount)
	assert.True(t, summary.IsOverBudget)
	assert.Equal(t, "-5.30", summary.RemainingAmount.StringFixed(2))
	assert.Equal(t, model.BudgetOver, summary.Status())

	budget.CategoryID = "fun"
	empty, err := engine.BudgetSummary(ctx, *budget)
	require.NoError(t, err)
	assert.True(t, empty.SpentAmount.IsZero())
	assert.False(t, empty.IsOverBudget)
	assert.Zero(t, empty.TransactionCount)
}

func TestCountByType(t *testing.T) {
	engine, _ := newFixture(t)
	ctx := context.Background()
	jan := model.MonthRange(2024, time.January, time.UTC)

	counts, err := engine.CountByType(ctx, jan, "")
	require.NoError(t, err)
	assert.Equal(t, TypeCounts{Income: 2, Expense: 4}, counts)
	assert.Equal(t, 6, counts.Total())

	food, err := engine.CountByType(ctx, jan, "food")
	require.NoError(t, err)
	assert.Equal(t, TypeCounts{Income: 1, Expense: 2}, food)
}

func TestEngine_PropagatesReaderErrors(t *testing.T) {
	engine, reader := newFixture(t)
	reader.err = errors.New("disk on fire")
	ctx := context.Background()

	_, err := engine.SpendingByCategory(ctx, model.DateRange{})
	assert.ErrorIs(t, err, reader.err)

	_, err = engine.IncomeVsExpenses(ctx, model.DateRange{})
	assert.ErrorIs(t, err, reader.err)

	_, err = engine.BudgetSummary(ctx, model.Budget{CategoryID: "food"})
	assert.ErrorIs(t, err, reader.err)

	_, err = engine.CountByType(ctx, model.DateRange{}, "")
	assert.ErrorIs(t, err, reader.err)
}
