// Package report composes aggregation results into monthly, yearly, summary
// and custom report records. Reports are data only; rendering lives elsewhere.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/analytics"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
)

const (
	// DefaultCustomDays is the trailing window used when a custom report has no dates.
	DefaultCustomDays = 30
	// TopCategoryCount is how many categories a yearly report ranks.
	TopCategoryCount = 10
	// RecentTransactionCount is how many transactions a summary lists.
	RecentTransactionCount = 5
)

// ErrInvalidRange is returned when a custom report's end precedes its start.
var ErrInvalidRange = errors.New("report end date must be after start date")

// Source is the storage surface the assembler reads from.
type Source interface {
	service.TransactionReader
	QueryBudgets(ctx context.Context, filter service.BudgetFilter) ([]model.Budget, error)
}

// Assembler builds reports from a Source.
type Assembler struct {
	source Source
	engine *analytics.Engine
	now    func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock overrides the time source used for "now" and the report location.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates a report assembler.
func NewAssembler(source Source, opts ...Option) (*Assembler, error) {
	engine, err := analytics.NewEngine(source)
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		source: source,
		engine: engine,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// CustomOptions select a custom report's range and category.
// A nil End means now; a nil Start means DefaultCustomDays before End.
type CustomOptions struct {
	Start        *time.Time
	End          *time.Time
	CategoryName string
}

// Monthly builds the report for one calendar month.
func (a *Assembler) Monthly(ctx context.Context, year int, month time.Month) (*MonthlyReport, error) {
	r := model.MonthRange(year, month, a.now().Location())

	flow, err := a.engine.IncomeVsExpenses(ctx, r)
	if err != nil {
		return nil, err
	}
	spending, err := a.engine.SpendingByCategory(ctx, r)
	if err != nil {
		return nil, err
	}
	counts, err := a.engine.CountByType(ctx, r, "")
	if err != nil {
		return nil, err
	}
	budgets, err := a.budgetPerformance(ctx, "", &r)
	if err != nil {
		return nil, err
	}

	days := model.DaysInMonth(year, month)
	report := &MonthlyReport{
		Start:        *r.Start,
		End:          *r.End,
		Period:       r.Start.Format("January 2006"),
		CashFlow:     flow,
		Spending:     spending,
		Budgets:      budgets,
		Counts:       counts,
		Days:         days,
		DailyAverage: averageOver(flow.Expense, days),
	}

	slog.Debug("assembled monthly report",
		"period", report.Period,
		"transactions", counts.Total(),
		"budgets", len(budgets))
	return report, nil
}

// Yearly builds the report for one calendar year.
func (a *Assembler) Yearly(ctx context.Context, year int) (*YearlyReport, error) {
	loc := a.now().Location()
	r := model.YearRange(year, loc)

	flow, err := a.engine.IncomeVsExpenses(ctx, r)
	if err != nil {
		return nil, err
	}

	months := make([]MonthlyFlow, 0, 12)
	for m := time.January; m <= time.December; m++ {
		mr := model.MonthRange(year, m, loc)
		mf, err := a.engine.IncomeVsExpenses(ctx, mr)
		if err != nil {
			return nil, err
		}
		months = append(months, MonthlyFlow{
			Month:    m,
			Name:     m.String()[:3],
			CashFlow: mf,
		})
	}

	spending, err := a.engine.SpendingByCategory(ctx, r)
	if err != nil {
		return nil, err
	}

	return &YearlyReport{
		Year:           year,
		Start:          *r.Start,
		End:            *r.End,
		CashFlow:       flow,
		Months:         months,
		TopCategories:  spending.NonZero().Top(TopCategoryCount),
		AverageIncome:  averageOver(flow.Income, 12),
		AverageExpense: averageOver(flow.Expense, 12),
	}, nil
}

// Summary builds a snapshot of the month and year to date.
func (a *Assembler) Summary(ctx context.Context) (*SummaryReport, error) {
	now := a.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	month, err := a.engine.IncomeVsExpenses(ctx, model.NewDateRange(startOfMonth, now))
	if err != nil {
		return nil, err
	}
	year, err := a.engine.IncomeVsExpenses(ctx, model.NewDateRange(startOfYear, now))
	if err != nil {
		return nil, err
	}

	budgets, err := a.budgetPerformance(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	over := 0
	for _, b := range budgets {
		if b.Summary.IsOverBudget {
			over++
		}
	}

	recent, err := a.recentTransactions(ctx, RecentTransactionCount)
	if err != nil {
		return nil, err
	}

	return &SummaryReport{
		GeneratedAt:   now,
		MonthName:     now.Month().String(),
		CurrentYear:   now.Year(),
		Month:         month,
		Year:          year,
		Budgets:       budgets,
		ActiveBudgets: len(budgets),
		OverBudget:    over,
		Recent:        recent,
	}, nil
}

// Custom builds a report over an arbitrary range. An unknown category name
// fails with a *model.NotFoundError carrying the closest known name.
func (a *Assembler) Custom(ctx context.Context, opts CustomOptions) (*CustomReport, error) {
	end := a.now()
	if opts.End != nil {
		end = *opts.End
	}
	start := end.AddDate(0, 0, -DefaultCustomDays)
	if opts.Start != nil {
		start = *opts.Start
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	r := model.NewDateRange(start, end)

	report := &CustomReport{
		Start: start,
		End:   end,
		Days:  r.Days(),
	}

	var categoryID string
	if opts.CategoryName != "" {
		categories, err := a.source.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		cat, err := model.FindCategoryByName(opts.CategoryName, categories)
		if err != nil {
			return nil, err
		}
		categoryID = cat.ID
		report.Category = cat.Name
	}

	var err error
	if categoryID != "" {
		report.CashFlow, err = a.engine.CategoryCashFlow(ctx, r, categoryID)
	} else {
		report.CashFlow, err = a.engine.IncomeVsExpenses(ctx, r)
	}
	if err != nil {
		return nil, err
	}

	if categoryID == "" {
		if report.Spending, err = a.engine.SpendingByCategory(ctx, r); err != nil {
			return nil, err
		}
	}

	if report.Counts, err = a.engine.CountByType(ctx, r, categoryID); err != nil {
		return nil, err
	}

	report.DailyAverage = decimal.Zero
	report.WeeklyAverage = decimal.Zero
	if report.Counts.Expense > 0 {
		daily := report.CashFlow.Expense.Div(decimal.NewFromInt(int64(report.Days)))
		report.DailyAverage = model.Quantize(daily)
		report.WeeklyAverage = model.Quantize(daily.Mul(decimal.NewFromInt(7)))
		report.HasAverages = true
	}

	return report, nil
}

// BudgetStatus summarizes every active budget against its own range, limited to
// categoryID when it is non-empty.
func (a *Assembler) BudgetStatus(ctx context.Context, categoryID string) ([]BudgetPerformance, error) {
	return a.budgetPerformance(ctx, categoryID, nil)
}

// budgetPerformance summarizes active budgets, keeping only those overlapping
// within when it is non-nil.
func (a *Assembler) budgetPerformance(ctx context.Context, categoryID string, within *model.DateRange) ([]BudgetPerformance, error) {
	budgets, err := a.source.QueryBudgets(ctx, service.BudgetFilter{CategoryID: categoryID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	names, err := a.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BudgetPerformance, 0, len(budgets))
	for _, b := range budgets {
		if within != nil && !b.Overlaps(*within) {
			continue
		}
		summary, err := a.engine.BudgetSummary(ctx, b)
		if err != nil {
			return nil, err
		}
		name, ok := names[b.CategoryID]
		if !ok {
			name = "Unknown"
		}
		out = append(out, BudgetPerformance{
			Summary:      summary,
			CategoryName: name,
			Status:       summary.Status(),
		})
	}
	return out, nil
}

func (a *Assembler) recentTransactions(ctx context.Context, limit int) ([]RecentTransaction, error) {
	txns, err := a.source.QueryTransactions(ctx, service.TransactionFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}
	names, err := a.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RecentTransaction, 0, len(txns))
	for _, txn := range txns {
		name := "N/A"
		if txn.HasCategory() {
			if n, ok := names[*txn.CategoryID]; ok {
				name = n
			}
		}
		out = append(out, RecentTransaction{Transaction: txn, CategoryName: name})
	}
	return out, nil
}

func (a *Assembler) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := a.source.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// averageOver divides total evenly over n units, rounded to cents. Zero totals stay zero.
func averageOver(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 || total.IsZero() {
		return decimal.Zero
	}
	return model.Quantize(total.Div(decimal.NewFromInt(int64(n))))
}
