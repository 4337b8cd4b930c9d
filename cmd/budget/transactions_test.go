package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/model"
)

func TestTransactionCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("category", "add", "Food")
	env.mustRun("category", "add", "Salary")

	out := env.mustRun("transaction", "add", "expense", "-a", "50.00", "-d", "Grocery shopping", "-c", "Food", "--date", "2024-01-10")
	groceryID := createdID(t, out)
	env.mustRun("transaction", "add", "income", "-a", "$2,000", "-d", "Paycheck", "-c", "Salary", "--date", "2024-01-15")
	env.mustRun("transaction", "add", "expense", "-a", "8", "-d", "Parking", "--date", "2024-01-20", "--notes", "downtown")

	t.Run("list all", func(t *testing.T) {
		out := env.mustRun("transaction", "list", "--limit", "0")
		assert.Contains(t, out, "Grocery shopping")
		assert.Contains(t, out, "+$2000.00")
		assert.Contains(t, out, "Uncategorized")
		assert.Contains(t, out, "3 transactions, net $1942.00")
	})

	t.Run("list by category", func(t *testing.T) {
		out := env.mustRun("transaction", "list", "--category", "Food")
		assert.Contains(t, out, "Grocery shopping")
		assert.NotContains(t, out, "Paycheck")
	})

	t.Run("list by type", func(t *testing.T) {
		out := env.mustRun("transaction", "list", "--type", "income")
		assert.Contains(t, out, "Paycheck")
		assert.Contains(t, out, "1 transactions")
	})

	t.Run("list by inclusive date range", func(t *testing.T) {
		out := env.mustRun("transaction", "list", "--start-date", "2024-01-11", "--end-date", "2024-01-20")
		assert.NotContains(t, out, "Grocery shopping")
		assert.Contains(t, out, "Paycheck")
		assert.Contains(t, out, "Parking")
	})

	t.Run("limit", func(t *testing.T) {
		out := env.mustRun("transaction", "list", "--limit", "1")
		assert.Contains(t, out, "Parking")
		assert.Contains(t, out, "1 transactions")
	})

	t.Run("conflicting windows", func(t *testing.T) {
		_, err := env.run("transaction", "list", "--last-week", "--last-month")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("update", func(t *testing.T) {
		env.mustRun("transaction", "update", groceryID, "--amount", "55.25", "--description", "Weekly groceries")
		out := env.mustRun("transaction", "list", "--category", "Food")
		assert.Contains(t, out, "Weekly groceries")
		assert.Contains(t, out, "-$55.25")
	})

	t.Run("clear category", func(t *testing.T) {
		env.mustRun("transaction", "update", groceryID, "--clear-category")
		out := env.mustRun("transaction", "list", "--category", "Food")
		assert.Contains(t, out, "No transactions found.")
	})

	t.Run("update conflicting category flags", func(t *testing.T) {
		_, err := env.run("transaction", "update", groceryID, "--clear-category", "--category", "Food")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("update missing transaction", func(t *testing.T) {
		_, err := env.run("transaction", "update", "does-not-exist", "--amount", "1")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		out, err := env.runWithInput("yes\n", "transaction", "delete", groceryID)
		require.NoError(t, err)
		assert.Contains(t, out, "Delete transaction 'Weekly groceries' ($55.25)?")
		assert.Contains(t, out, "Transaction deleted")

		_, err = env.run("transaction", "delete", groceryID, "--force")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestTransactionAdd_Invalid(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("category", "add", "Food")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "bad type", args: []string{"transfer", "-a", "5", "-d", "x"}, wantErr: model.ErrMalformedInput},
		{name: "bad amount", args: []string{"expense", "-a", "five", "-d", "x"}, wantErr: model.ErrMalformedInput},
		{name: "zero amount", args: []string{"expense", "-a", "0", "-d", "x"}, wantErr: model.ErrValidation},
		{name: "blank description", args: []string{"expense", "-a", "5", "-d", "  "}, wantErr: model.ErrValidation},
		{name: "bad date", args: []string{"expense", "-a", "5", "-d", "x", "--date", "01/02/2024"}, wantErr: model.ErrMalformedInput},
		{name: "unknown category", args: []string{"expense", "-a", "5", "-d", "x", "-c", "Fod"}, wantErr: model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(append([]string{"transaction", "add"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing required flags", func(t *testing.T) {
		_, err := env.run("transaction", "add", "expense")
		assert.Error(t, err)
	})
}

func TestListOptions_DateRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

	t.Run("last week", func(t *testing.T) {
		r, err := listOptions{lastWeek: true}.dateRange(now)
		require.NoError(t, err)
		require.NotNil(t, r.Start)
		assert.True(t, r.Start.Equal(now.AddDate(0, 0, -7)))
		assert.Nil(t, r.End)
	})

	t.Run("last month", func(t *testing.T) {
		r, err := listOptions{lastMonth: true, startDate: "2020-01-01"}.dateRange(now)
		require.NoError(t, err)
		assert.True(t, r.Start.Equal(now.AddDate(0, 0, -30)))
	})

	t.Run("explicit dates include the end day", func(t *testing.T) {
		r, err := listOptions{startDate: "2024-03-01", endDate: "2024-03-10"}.dateRange(now)
		require.NoError(t, err)
		assert.True(t, r.Start.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)))
		assert.True(t, r.End.Equal(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.Local)))
		assert.True(t, r.Contains(time.Date(2024, time.March, 10, 23, 0, 0, 0, time.Local)))
	})

	t.Run("no dates", func(t *testing.T) {
		r, err := listOptions{}.dateRange(now)
		require.NoError(t, err)
		assert.Nil(t, r.Start)
		assert.Nil(t, r.End)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := listOptions{endDate: "March"}.dateRange(now)
		assert.ErrorIs(t, err, model.ErrMalformedInput)
	})
}
