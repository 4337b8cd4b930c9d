// Package export writes assembled reports as CSV or JSON.
package export

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/analytics"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/report"
)

// Table is a report flattened into rows. Header is the first row.
type Table struct {
	Header []string
	Rows   [][]string
}

// All returns the header followed by the rows.
func (t Table) All() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}

var sectionHeader = []string{"Section", "Name", "Amount", "Detail"}

// Flatten converts a report to a table. Yearly reports become a month-per-row
// table; every other report becomes section/name/amount/detail rows.
func Flatten(r report.Report) (Table, error) {
	switch rep := r.(type) {
	case *report.YearlyReport:
		return flattenYearly(rep), nil
	case *report.MonthlyReport:
		t := Table{Header: sectionHeader}
		t.Rows = append(t.Rows, []string{"period", rep.Period, "", fmt.Sprintf("%d days", rep.Days)})
		t.Rows = append(t.Rows, cashFlowRows("cash_flow", rep.CashFlow)...)
		t.Rows = append(t.Rows, spendingRows(rep.Spending)...)
		t.Rows = append(t.Rows, budgetRows(rep.Budgets)...)
		t.Rows = append(t.Rows, countRows(rep.Counts)...)
		t.Rows = append(t.Rows, []string{"average", "daily", money(rep.DailyAverage), ""})
		return t, nil
	case *report.SummaryReport:
		t := Table{Header: sectionHeader}
		t.Rows = append(t.Rows, cashFlowRows("current_month", rep.Month)...)
		t.Rows = append(t.Rows, cashFlowRows("current_year", rep.Year)...)
		t.Rows = append(t.Rows,
			[]string{"budgets", "active", "", strconv.Itoa(rep.ActiveBudgets)},
			[]string{"budgets", "over_budget", "", strconv.Itoa(rep.OverBudget)},
		)
		for _, txn := range rep.Recent {
			t.Rows = append(t.Rows, []string{
				"recent",
				txn.Description,
				money(txn.Amount),
				fmt.Sprintf("%s %s %s", txn.Date.Format(model.DateLayout), txn.Type, txn.CategoryName),
			})
		}
		return t, nil
	case *report.CustomReport:
		t := Table{Header: sectionHeader}
		t.Rows = append(t.Rows, []string{"range", rep.Start.Format(model.DateLayout), "", rep.End.Format(model.DateLayout)})
		if rep.Category != "" {
			t.Rows = append(t.Rows, []string{"category", rep.Category, "", ""})
		}
		t.Rows = append(t.Rows, cashFlowRows("cash_flow", rep.CashFlow)...)
		t.Rows = append(t.Rows, spendingRows(rep.Spending)...)
		t.Rows = append(t.Rows, countRows(rep.Counts)...)
		if rep.HasAverages {
			t.Rows = append(t.Rows,
				[]string{"average", "daily", money(rep.DailyAverage), ""},
				[]string{"average", "weekly", money(rep.WeeklyAverage), ""},
			)
		}
		return t, nil
	default:
		return Table{}, fmt.Errorf("unsupported report type %T", r)
	}
}

func flattenYearly(rep *report.YearlyReport) Table {
	t := Table{Header: []string{"Month", "Income", "Expenses", "Net"}}
	for _, m := range rep.Months {
		t.Rows = append(t.Rows, []string{m.Name, money(m.Income), money(m.Expense), money(m.Net)})
	}
	t.Rows = append(t.Rows, []string{"Total", money(rep.CashFlow.Income), money(rep.CashFlow.Expense), money(rep.CashFlow.Net)})
	t.Rows = append(t.Rows, []string{"Average", money(rep.AverageIncome), money(rep.AverageExpense), ""})
	return t
}

func cashFlowRows(section string, flow analytics.CashFlow) [][]string {
	return [][]string{
		{section, "income", money(flow.Income), ""},
		{section, "expense", money(flow.Expense), ""},
		{section, "net", money(flow.Net), ""},
	}
}

func spendingRows(spending analytics.SpendingBreakdown) [][]string {
	total := spending.Sum()
	rows := make([][]string, 0, len(spending))
	for _, s := range spending.NonZero() {
		rows = append(rows, []string{"spending", s.CategoryName, money(s.Total), percentOf(s.Total, total)})
	}
	return rows
}

func budgetRows(budgets []report.BudgetPerformance) [][]string {
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, []string{
			"budget",
			b.CategoryName,
			money(b.Summary.SpentAmount),
			fmt.Sprintf("of %s, %s", money(b.Summary.Budget.Amount), b.Status),
		})
	}
	return rows
}

func countRows(c analytics.TypeCounts) [][]string {
	return [][]string{
		{"transactions", "income", "", strconv.Itoa(c.Income)},
		{"transactions", "expense", "", strconv.Itoa(c.Expense)},
		{"transactions", "total", "", strconv.Itoa(c.Total())},
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percentOf(part, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "0.0%"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
