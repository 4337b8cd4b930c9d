package model

import "github.com/shopspring/decimal"

// WarningThreshold is the percentage of a budget above which it is flagged.
const WarningThreshold = 80.0

// BudgetStatus is a coarse label for budget health.
type BudgetStatus string

const (
	BudgetGood    BudgetStatus = "good"
	BudgetWarning BudgetStatus = "warning"
	BudgetOver    BudgetStatus = "over"
)

// BudgetSummary is a read-time view of a budget against recorded spending. It is never persisted.
type BudgetSummary struct {
	Budget           Budget          `json:"budget"`
	SpentAmount      decimal.Decimal `json:"spent_amount"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"`
	PercentageUsed   float64         `json:"percentage_used"`
	IsOverBudget     bool            `json:"is_over_budget"`
	TransactionCount int             `json:"transaction_count"`
}

// DeriveBudgetSummary computes remaining, percentage and over-budget from spent.
func DeriveBudgetSummary(budget Budget, spent decimal.Decimal, transactionCount int) BudgetSummary {
	s := BudgetSummary{
		Budget:           budget,
		SpentAmount:      spent,
		RemainingAmount:  budget.Amount.Sub(spent),
		IsOverBudget:     spent.GreaterThan(budget.Amount),
		TransactionCount: transactionCount,
	}
	if !budget.Amount.IsZero() {
		s.PercentageUsed = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return s
}

// Status classifies the summary as over, warning or good.
func (s BudgetSummary) Status() BudgetStatus {
	switch {
	case s.IsOverBudget:
		return BudgetOver
	case s.PercentageUsed > WarningThreshold:
		return BudgetWarning
	default:
		return BudgetGood
	}
}
