// Package analytics turns filtered transaction sets into spending totals,
// cash flow figures and budget performance summaries.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
)

// ErrNilReader is returned when the engine is built without a data source.
var ErrNilReader = errors.New("transaction reader cannot be nil")

// Engine computes aggregates over the transactions a TransactionReader returns.
// All ranges are half-open: the start is included, the end is not.
type Engine struct {
	reader service.TransactionReader
}

// NewEngine creates an aggregation engine.
func NewEngine(reader service.TransactionReader) (*Engine, error) {
	if reader == nil {
		return nil, ErrNilReader
	}
	return &Engine{reader: reader}, nil
}

// CategorySpending is the expense total recorded against one category.
type CategorySpending struct {
	Total        decimal.Decimal `json:"total"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
}

// SpendingBreakdown lists category totals, largest first.
type SpendingBreakdown []CategorySpending

// Map returns category name to total.
func (b SpendingBreakdown) Map() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b))
	for _, s := range b {
		out[s.CategoryName] = s.Total
	}
	return out
}

// NonZero drops categories with nothing spent.
func (b SpendingBreakdown) NonZero() SpendingBreakdown {
	out := make(SpendingBreakdown, 0, len(b))
	for _, s := range b {
		if s.Total.IsPositive() {
			out = append(out, s)
		}
	}
	return out
}

// Top returns at most n entries.
func (b SpendingBreakdown) Top(n int) SpendingBreakdown {
	if n < len(b) {
		return b[:n]
	}
	return b
}

// Sum adds every category total.
func (b SpendingBreakdown) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b {
		total = total.Add(s.Total)
	}
	return total
}

// CashFlow is income against expense for a range. Net is Income minus Expense.
type CashFlow struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// TypeCounts is the number of transactions of each type.
type TypeCounts struct {
	Income  int `json:"income"`
	Expense int `json:"expense"`
}

// Total is the combined count.
func (c TypeCounts) Total() int {
	return c.Income + c.Expense
}

// BudgetSummary sums the expenses recorded against a budget's category during its active range.
func (e *Engine) BudgetSummary(ctx context.Context, budget model.Budget) (model.BudgetSummary, error) {
	txns, err := e.reader.QueryTransactions(ctx, service.TransactionFilter{
		CategoryID: budget.CategoryID,
		Type:       model.TypeExpense,
		Range:      budget.Range(),
	})
	if err != nil {
		return model.BudgetSummary{}, fmt.Errorf("failed to query budget transactions: %w", err)
	}

	spent := sumAmounts(txns)
	slog.Debug("computed budget summary",
		"budget_id", budget.ID,
		"spent", spent.StringFixed(2),
		"transactions", len(txns))

	return model.DeriveBudgetSummary(budget, spent, len(txns)), nil
}

// SpendingByCategory totals expenses per category within r.
// Every category appears, including those with nothing spent. Uncategorized
// expenses are not attributed to any entry.
func (e *Engine) SpendingByCategory(ctx context.Context, r model.DateRange) (SpendingBreakdown, error) {
	categories, err := e.reader.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	txns, err := e.reader.QueryTransactions(ctx, service.TransactionFilter{
		Type:  model.TypeExpense,
		Range: r,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}

	totals := make(map[string]decimal.Decimal, len(categories))
	for _, txn := range txns {
		if !txn.HasCategory() {
			continue
		}
		id := *txn.CategoryID
		totals[id] = totals[id].Add(txn.Amount)
	}

	breakdown := make(SpendingBreakdown, 0, len(categories))
	for _, cat := range categories {
		total, ok := totals[cat.ID]
		if !ok {
			total = decimal.Zero
		}
		breakdown = append(breakdown, CategorySpending{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Total:        total,
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if c := breakdown[i].Total.Cmp(breakdown[j].Total); c != 0 {
			return c > 0
		}
		return breakdown[i].CategoryName < breakdown[j].CategoryName
	})

	return breakdown, nil
}

// IncomeVsExpenses sums income and expense within r.
func (e *Engine) IncomeVsExpenses(ctx context.Context, r model.DateRange) (CashFlow, error) {
	return e.cashFlow(ctx, service.TransactionFilter{Range: r})
}

// CategoryCashFlow is IncomeVsExpenses restricted to one category.
func (e *Engine) CategoryCashFlow(ctx context.Context, r model.DateRange, categoryID string) (CashFlow, error) {
	return e.cashFlow(ctx, service.TransactionFilter{Range: r, CategoryID: categoryID})
}

func (e *Engine) cashFlow(ctx context.Context, filter service.TransactionFilter) (CashFlow, error) {
	txns, err := e.reader.QueryTransactions(ctx, filter)
	if err != nil {
		return CashFlow{}, fmt.Errorf("failed to query transactions: %w", err)
	}

	flow := CashFlow{Income: decimal.Zero, Expense: decimal.Zero}
	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			flow.Income = flow.Income.Add(txn.Amount)
		case model.TypeExpense:
			flow.Expense = flow.Expense.Add(txn.Amount)
		}
	}
	flow.Net = flow.Income.Sub(flow.Expense)
	return flow, nil
}

// CountByType counts transactions in r, optionally restricted to one category.
func (e *Engine) CountByType(ctx context.Context, r model.DateRange, categoryID string) (TypeCounts, error) {
	txns, err := e.reader.QueryTransactions(ctx, service.TransactionFilter{
		Range:      r,
		CategoryID: categoryID,
	})
	if err != nil {
		return TypeCounts{}, fmt.Errorf("failed to query transactions: %w", err)
	}

	var counts TypeCounts
	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			counts.Income++
		case model.TypeExpense:
			counts.Expense++
		}
	}
	return counts, nil
}

func sumAmounts(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return total
}
