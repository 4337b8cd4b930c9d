// Package testutil provides test database setup and data seeding helpers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/storage"
	"github.com/Veraticus/budget-manager/internal/testutil/categories"
)

// TestDB is a migrated in-memory database plus the categories seeded into it.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	t          *testing.T
	Categories categories.Categories
}

// SetupTestDB creates a migrated in-memory database. configure may be nil.
// The database is closed when the test ends.
//
//	db := testutil.SetupTestDB(t, func(b categories.Builder) categories.Builder {
//		return b.WithBasicCategories()
//	})
func SetupTestDB(t *testing.T, configure func(categories.Builder) categories.Builder) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	builder := categories.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	cats, err := builder.Build(ctx, store)
	if err != nil {
		t.Fatalf("failed to build categories: %v", err)
	}

	return &TestDB{
		Storage:    store,
		Categories: cats,
		t:          t,
	}
}

// CategoryID returns the id of a seeded category or fails the test.
func (db *TestDB) CategoryID(name categories.CategoryName) string {
	db.t.Helper()
	return db.Categories.MustFind(db.t, name).ID
}

// AddTransaction stores a transaction. An empty category leaves it uncategorized.
func (db *TestDB) AddTransaction(amount string, typ model.TransactionType, category categories.CategoryName, date time.Time) *model.Transaction {
	db.t.Helper()

	params := model.TransactionParams{
		Amount:      decimal.RequireFromString(amount),
		Description: string(typ) + " " + amount,
		Type:        typ,
		Date:        date,
	}
	if category != "" {
		id := db.CategoryID(category)
		params.CategoryID = &id
	}

	txn, err := model.NewTransaction(params)
	if err != nil {
		db.t.Fatalf("invalid transaction: %v", err)
	}
	if _, err := db.Storage.CreateTransaction(context.Background(), txn); err != nil {
		db.t.Fatalf("failed to create transaction: %v", err)
	}
	return txn
}

// AddBudget stores an active budget whose end date follows from its period.
func (db *TestDB) AddBudget(category categories.CategoryName, amount string, period model.Period, start time.Time) *model.Budget {
	db.t.Helper()

	budget, err := model.NewBudget(model.BudgetParams{
		CategoryID: db.CategoryID(category),
		Amount:     decimal.RequireFromString(amount),
		Period:     period,
		StartDate:  start,
	})
	if err != nil {
		db.t.Fatalf("invalid budget: %v", err)
	}
	if _, err := db.Storage.CreateBudget(context.Background(), budget); err != nil {
		db.t.Fatalf("failed to create budget: %v", err)
	}
	return budget
}

// Date returns local midnight on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
