package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/analytics"
	"github.com/Veraticus/budget-manager/internal/model"
)

// Kind names a report shape.
type Kind string

// Report kinds.
const (
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
	KindSummary Kind = "summary"
	KindCustom  Kind = "custom"
)

// Report is implemented by every assembled report.
type Report interface {
	Kind() Kind
	Title() string
}

// BudgetPerformance pairs a budget summary with its category name and status.
type BudgetPerformance struct {
	Summary      model.BudgetSummary `json:"summary"`
	CategoryName string              `json:"category_name"`
	Status       model.BudgetStatus  `json:"status"`
}

// MonthlyReport covers one calendar month.
type MonthlyReport struct {
	Start        time.Time                   `json:"start"`
	End          time.Time                   `json:"end"`
	CashFlow     analytics.CashFlow          `json:"cash_flow"`
	DailyAverage decimal.Decimal             `json:"daily_average"`
	Period       string                      `json:"period"`
	Spending     analytics.SpendingBreakdown `json:"spending_by_category"`
	Budgets      []BudgetPerformance         `json:"budgets"`
	Counts       analytics.TypeCounts        `json:"transaction_counts"`
	Days         int                         `json:"days"`
}

// Kind implements Report.
func (r *MonthlyReport) Kind() Kind { return KindMonthly }

// Title implements Report.
func (r *MonthlyReport) Title() string { return "Monthly Report for " + r.Period }

// MonthlyFlow is one month's row of a yearly report.
type MonthlyFlow struct {
	analytics.CashFlow
	Month time.Month `json:"month"`
	Name  string     `json:"name"`
}

// YearlyReport covers one calendar year.
type YearlyReport struct {
	Start          time.Time                   `json:"start"`
	End            time.Time                   `json:"end"`
	CashFlow       analytics.CashFlow          `json:"cash_flow"`
	AverageIncome  decimal.Decimal             `json:"monthly_average_income"`
	AverageExpense decimal.Decimal             `json:"monthly_average_expense"`
	Months         []MonthlyFlow               `json:"months"`
	TopCategories  analytics.SpendingBreakdown `json:"top_categories"`
	Year           int                         `json:"year"`
}

// Kind implements Report.
func (r *YearlyReport) Kind() Kind { return KindYearly }

// Title implements Report.
func (r *YearlyReport) Title() string { return fmt.Sprintf("Yearly Report for %d", r.Year) }

// RecentTransaction is a transaction with its category name resolved.
type RecentTransaction struct {
	model.Transaction
	CategoryName string `json:"category_name"`
}

// SummaryReport is a snapshot of the current month, year and budgets.
type SummaryReport struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	Month         analytics.CashFlow  `json:"current_month"`
	Year          analytics.CashFlow  `json:"current_year"`
	MonthName     string              `json:"month_name"`
	Recent        []RecentTransaction `json:"recent_transactions"`
	Budgets       []BudgetPerformance `json:"budgets"`
	ActiveBudgets int                 `json:"active_budgets"`
	OverBudget    int                 `json:"over_budget"`
	CurrentYear   int                 `json:"year"`
}

// Kind implements Report.
func (r *SummaryReport) Kind() Kind { return KindSummary }

// Title implements Report.
func (r *SummaryReport) Title() string { return "Financial Summary" }

// CustomReport covers an arbitrary range, optionally limited to one category.
type CustomReport struct {
	Start         time.Time                   `json:"start"`
	End           time.Time                   `json:"end"`
	CashFlow      analytics.CashFlow          `json:"cash_flow"`
	DailyAverage  decimal.Decimal             `json:"daily_average"`
	WeeklyAverage decimal.Decimal             `json:"weekly_average"`
	Category      string                      `json:"category,omitempty"`
	Spending      analytics.SpendingBreakdown `json:"spending_by_category,omitempty"`
	Counts        analytics.TypeCounts        `json:"transaction_counts"`
	Days          int                         `json:"days"`
	// HasAverages is false when the range holds no expenses.
	HasAverages bool `json:"has_averages"`
}

// Kind implements Report.
func (r *CustomReport) Kind() Kind { return KindCustom }

// Title implements Report.
func (r *CustomReport) Title() string {
	title := "Custom Report " + r.Start.Format(model.DateLayout) + " to " + r.End.Format(model.DateLayout)
	if r.Category != "" {
		title += " (" + r.Category + ")"
	}
	return title
}
