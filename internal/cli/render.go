package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/analytics"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/report"
	"github.com/Veraticus/budget-manager/internal/storage"
)

// DefaultCurrencySymbol prefixes amounts when none is configured.
const DefaultCurrencySymbol = "$"

const displayDate = "Jan 2, 2006"

// Renderer writes reports and listings as aligned terminal text.
type Renderer struct {
	w        io.Writer
	currency string
}

// NewRenderer creates a renderer writing to w. An empty symbol uses DefaultCurrencySymbol.
func NewRenderer(w io.Writer, currencySymbol string) *Renderer {
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &Renderer{w: w, currency: currencySymbol}
}

// Money formats an amount with the renderer's currency symbol.
func (r *Renderer) Money(d decimal.Decimal) string {
	return FormatMoney(r.currency, d)
}

// FormatMoney formats an amount with symbol and two decimals, sign first.
func FormatMoney(symbol string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + symbol + d.Abs().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

// Report renders any assembled report.
func (r *Renderer) Report(rep report.Report) error {
	switch v := rep.(type) {
	case *report.MonthlyReport:
		return r.monthly(v)
	case *report.YearlyReport:
		return r.yearly(v)
	case *report.SummaryReport:
		return r.summary(v)
	case *report.CustomReport:
		return r.custom(v)
	default:
		return fmt.Errorf("unsupported report type %T", rep)
	}
}

func (r *Renderer) monthly(rep *report.MonthlyReport) error {
	p := r.printer()
	p.line(FormatTitle(rep.Title()))
	r.cashFlow(p, rep.CashFlow)
	p.row("Daily average", r.Money(rep.DailyAverage))
	p.flush()

	r.spending(p, "Spending by Category", rep.Spending.NonZero(), rep.CashFlow.Expense)
	r.budgets(p, rep.Budgets)

	p.section("Transactions")
	r.counts(p, rep.Counts)
	p.flush()
	return p.err
}

func (r *Renderer) yearly(rep *report.YearlyReport) error {
	p := r.printer()
	p.line(FormatTitle(rep.Title()))
	r.cashFlow(p, rep.CashFlow)
	p.row("Monthly average income", r.Money(rep.AverageIncome))
	p.row("Monthly average expenses", r.Money(rep.AverageExpense))
	p.flush()

	p.section("Monthly Breakdown")
	p.row("Month", "Income", "Expenses", "Net")
	for _, m := range rep.Months {
		p.row(m.Name, r.Money(m.Income), r.Money(m.Expense), r.Money(m.Net))
	}
	p.flush()

	r.spending(p, "Top Spending Categories", rep.TopCategories, rep.CashFlow.Expense)
	return p.err
}

func (r *Renderer) summary(rep *report.SummaryReport) error {
	p := r.printer()
	p.line(FormatTitle(rep.Title()))
	p.line(SubtleStyle.Render("Generated " + rep.GeneratedAt.Format("2006-01-02 15:04")))

	p.section(rep.MonthName + " " + strconv.Itoa(rep.CurrentYear))
	r.cashFlow(p, rep.Month)
	p.flush()

	p.section("Year to Date")
	r.cashFlow(p, rep.Year)
	p.flush()

	p.section("Budgets")
	p.row("Active budgets", strconv.Itoa(rep.ActiveBudgets))
	p.row("Over budget", strconv.Itoa(rep.OverBudget))
	p.flush()

	if len(rep.Recent) > 0 {
		p.section("Recent Transactions")
		for _, t := range rep.Recent {
			p.row(t.Date.Format(displayDate), t.Description, r.signed(t.Transaction), categoryLabel(t.CategoryName))
		}
		p.flush()
	}
	return p.err
}

func (r *Renderer) custom(rep *report.CustomReport) error {
	p := r.printer()
	p.line(FormatTitle(rep.Title()))
	r.cashFlow(p, rep.CashFlow)
	p.row("Days", strconv.Itoa(rep.Days))
	if rep.HasAverages {
		p.row("Daily average", r.Money(rep.DailyAverage))
		p.row("Weekly average", r.Money(rep.WeeklyAverage))
	}
	p.flush()

	if rep.Category == "" {
		r.spending(p, "Spending by Category", rep.Spending.NonZero(), rep.CashFlow.Expense)
	}

	p.section("Transactions")
	r.counts(p, rep.Counts)
	p.flush()
	return p.err
}

func (r *Renderer) cashFlow(p *printer, flow analytics.CashFlow) {
	p.row("Income", r.Money(flow.Income))
	p.row("Expenses", r.Money(flow.Expense))
	p.row("Net", NetStyle(flow.Net).Render(r.Money(flow.Net)))
}

func (r *Renderer) spending(p *printer, title string, spending analytics.SpendingBreakdown, total decimal.Decimal) {
	if len(spending) == 0 {
		return
	}
	p.section(title)
	for _, s := range spending {
		p.row(s.CategoryName, r.Money(s.Total), share(s.Total, total))
	}
	p.flush()
}

func (r *Renderer) budgets(p *printer, budgets []report.BudgetPerformance) {
	if len(budgets) == 0 {
		return
	}
	p.section("Budget Performance")
	p.row("Category", "Budget", "Spent", "Remaining", "Used", "Status")
	for _, b := range budgets {
		p.row(
			b.CategoryName,
			r.Money(b.Summary.Budget.Amount),
			r.Money(b.Summary.SpentAmount),
			r.Money(b.Summary.RemainingAmount),
			fmt.Sprintf("%.1f%%", b.Summary.PercentageUsed),
			StatusStyle(b.Status).Render(string(b.Status)),
		)
	}
	p.flush()
}

func (r *Renderer) counts(p *printer, c analytics.TypeCounts) {
	p.row("Income", strconv.Itoa(c.Income))
	p.row("Expense", strconv.Itoa(c.Expense))
	p.row("Total", strconv.Itoa(c.Total()))
}

func (r *Renderer) signed(t model.Transaction) string {
	if t.Type == model.TypeExpense {
		return r.Money(t.Amount.Neg())
	}
	return "+" + r.Money(t.Amount)
}

// Categories lists categories in name order as returned by storage.
func (r *Renderer) Categories(categories []model.Category) error {
	p := r.printer()
	if len(categories) == 0 {
		p.line(FormatInfo("No categories found."))
		return p.err
	}
	p.row("Name", "Color", "Description")
	for _, c := range categories {
		p.row(c.Name, dash(c.Color), dash(c.Description))
	}
	p.flush()
	return p.err
}

// Transactions lists transactions with their category names resolved through names (id to name).
func (r *Renderer) Transactions(txns []model.Transaction, names map[string]string) error {
	p := r.printer()
	if len(txns) == 0 {
		p.line(FormatInfo("No transactions found."))
		return p.err
	}
	p.row("Date", "Description", "Amount", "Category", "ID")
	total := decimal.Zero
	for _, t := range txns {
		category := ""
		if t.CategoryID != nil {
			category = names[*t.CategoryID]
		}
		p.row(t.Date.Format(model.DateLayout), t.Description, r.signed(t), categoryLabel(category), t.ID)
		if t.Type == model.TypeExpense {
			total = total.Sub(t.Amount)
		} else {
			total = total.Add(t.Amount)
		}
	}
	p.flush()
	p.line(fmt.Sprintf("%d transactions, net %s", len(txns), r.Money(total)))
	return p.err
}

// Budgets lists budgets with their category names resolved through names.
func (r *Renderer) Budgets(budgets []model.Budget, names map[string]string) error {
	p := r.printer()
	if len(budgets) == 0 {
		p.line(FormatInfo("No budgets found."))
		return p.err
	}
	p.row("Category", "Amount", "Period", "Start", "End", "Active", "ID")
	for _, b := range budgets {
		end := "-"
		if b.EndDate != nil {
			end = b.EndDate.Format(model.DateLayout)
		}
		p.row(
			names[b.CategoryID],
			r.Money(b.Amount),
			string(b.Period),
			b.StartDate.Format(model.DateLayout),
			end,
			strconv.FormatBool(b.IsActive),
			b.ID,
		)
	}
	p.flush()
	return p.err
}

// BudgetStatus renders live performance for each budget.
func (r *Renderer) BudgetStatus(performance []report.BudgetPerformance) error {
	p := r.printer()
	if len(performance) == 0 {
		p.line(FormatInfo("No active budgets."))
		return p.err
	}
	p.line(FormatTitle("Budget Status"))
	r.budgets(p, performance)
	return p.err
}

// Backups lists database snapshots.
func (r *Renderer) Backups(backups []storage.BackupInfo) error {
	p := r.printer()
	if len(backups) == 0 {
		p.line(FormatInfo("No backups found."))
		return p.err
	}
	p.row("ID", "Created", "Size", "Categories", "Transactions", "Budgets", "Description")
	for _, b := range backups {
		p.row(
			b.ID,
			b.CreatedAt.Local().Format("2006-01-02 15:04"),
			formatSize(b.FileSize),
			strconv.Itoa(b.Categories),
			strconv.Itoa(b.Transactions),
			strconv.Itoa(b.Budgets),
			dash(b.Description),
		)
	}
	p.flush()
	return p.err
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}

func share(part, total decimal.Decimal) string {
	if !total.IsPositive() {
		return "0.0%"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func categoryLabel(name string) string {
	if name == "" {
		return "Uncategorized"
	}
	return name
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printer accumulates the first write error so render methods stay linear.
type printer struct {
	out *Renderer
	tw  *tabwriter.Writer
	err error
}

func (r *Renderer) printer() *printer {
	return &printer{out: r, tw: tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)}
}

func (p *printer) row(cells ...string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.tw, strings.Join(cells, "\t"))
}

func (p *printer) line(s string) {
	p.flush()
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.out.w, s)
}

func (p *printer) section(title string) {
	p.line("")
	p.line(SectionStyle.Render(title))
}

func (p *printer) flush() {
	if p.err != nil {
		return
	}
	p.err = p.tw.Flush()
}

