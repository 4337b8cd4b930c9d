package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/report"
)

// seedJanuary records a small January 2024.
func seedJanuary(t *testing.T, env *testEnv) {
	t.Helper()
	env.mustRun("category", "add", "Food")
	env.mustRun("category", "add", "Salary")
	env.mustRun("transaction", "add", "income", "-a", "3000", "-d", "Paycheck", "-c", "Salary", "--date", "2024-01-05")
	env.mustRun("transaction", "add", "expense", "-a", "120.50", "-d", "Market", "-c", "Food", "--date", "2024-01-12")
	env.mustRun("transaction", "add", "expense", "-a", "30", "-d", "Taxi", "--date", "2024-01-20")
}

func TestReportMonthly(t *testing.T) {
	env := newTestEnv(t)
	seedJanuary(t, env)

	out := env.mustRun("report", "monthly", "--year", "2024", "--month", "1")
	assert.Contains(t, out, "Monthly Report for January 2024")
	assert.Contains(t, out, "$3000.00")
	assert.Contains(t, out, "$150.50")
	assert.Contains(t, out, "Spending by Category")
	assert.Contains(t, out, "Food")

	_, err := env.run("report", "monthly", "--month", "13")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestReportYearly(t *testing.T) {
	env := newTestEnv(t)
	seedJanuary(t, env)

	out := env.mustRun("report", "yearly", "--year", "2024")
	assert.Contains(t, out, "Yearly Report for 2024")
	assert.Contains(t, out, "Monthly Breakdown")
	assert.Contains(t, out, "Top Spending Categories")
}

func TestReportSummary(t *testing.T) {
	env := newTestEnv(t)
	seedJanuary(t, env)

	out := env.mustRun("report", "summary")
	assert.Contains(t, out, "Financial Summary")
	assert.Contains(t, out, "Recent Transactions")
	assert.Contains(t, out, "Taxi")
}

func TestReportCustom(t *testing.T) {
	env := newTestEnv(t)
	seedJanuary(t, env)

	t.Run("range", func(t *testing.T) {
		out := env.mustRun("report", "custom", "--start-date", "2024-01-10", "--end-date", "2024-01-21")
		assert.Contains(t, out, "Custom Report 2024-01-10 to 2024-01-21")
		assert.Contains(t, out, "$150.50")
		assert.Contains(t, out, "Daily average")
	})

	t.Run("category", func(t *testing.T) {
		out := env.mustRun("report", "custom", "--start-date", "2024-01-01", "--end-date", "2024-02-01", "--category", "Food")
		assert.Contains(t, out, "(Food)")
		assert.Contains(t, out, "$120.50")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := env.run("report", "custom", "--category", "Fod")
		require.ErrorIs(t, err, model.ErrNotFound)
		assert.Contains(t, err.Error(), `did you mean "Food"?`)
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := env.run("report", "custom", "--start-date", "2024-02-01", "--end-date", "2024-01-01")
		assert.ErrorIs(t, err, report.ErrInvalidRange)
	})
}

func TestReportExport(t *testing.T) {
	env := newTestEnv(t)
	seedJanuary(t, env)

	t.Run("json to stdout", func(t *testing.T) {
		out := env.mustRun("report", "monthly", "--year", "2024", "--month", "1", "--export", "json")

		var envelope map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &envelope))
		assert.Equal(t, "monthly", envelope["kind"])
		assert.Equal(t, "Monthly Report for January 2024", envelope["title"])
	})

	t.Run("csv to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "january.csv")
		out := env.mustRun("report", "monthly", "--year", "2024", "--month", "1", "--export", "csv", "--output", path)
		assert.Contains(t, out, "Report exported to "+path)

		data, err := os.ReadFile(path) //nolint:gosec // test file
		require.NoError(t, err)
		assert.Contains(t, string(data), "Section,Name,Amount,Detail")
		assert.Contains(t, string(data), "January 2024")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := env.run("report", "summary", "--export", "xml")
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("output without format", func(t *testing.T) {
		_, err := env.run("report", "summary", "--output", "out.csv")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestReportExport_Sheets(t *testing.T) {
	env := newTestEnv(t)
	seedJanuary(t, env)

	t.Run("not configured", func(t *testing.T) {
		_, err := env.run("report", "summary", "--export", "sheets")
		assert.ErrorIs(t, err, common.ErrMissingConfig)
		assert.Empty(t, env.sheets.GetWriteCalls())
	})

	t.Setenv("BUDGET_SHEETS_SERVICE_ACCOUNT_PATH", filepath.Join(t.TempDir(), "sa.json"))

	t.Run("writes report", func(t *testing.T) {
		out := env.mustRun("report", "yearly", "--year", "2024", "--export", "sheets")
		assert.Contains(t, out, "https://docs.google.com/spreadsheets/d/mock-spreadsheet")

		calls := env.sheets.GetWriteCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, report.KindYearly, calls[0].Report.Kind())
	})

	t.Run("write failure", func(t *testing.T) {
		env.sheets.SetWriteError(errors.New("quota exceeded"))
		_, err := env.run("report", "summary", "--export", "sheets")
		require.ErrorIs(t, err, common.ErrExportFailed)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}
