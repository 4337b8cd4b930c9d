// Package service defines the interfaces shared between the core and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/budget-manager/internal/model"
)

// TransactionFilter narrows a transaction query. Zero values mean "no filter".
type TransactionFilter struct {
	CategoryID string
	Type       model.TransactionType
	Range      model.DateRange
	Limit      int
}

// BudgetFilter narrows a budget query.
type BudgetFilter struct {
	CategoryID string
	ActiveOnly bool
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) (string, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	// ListCategories returns every category ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) (bool, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

// TransactionStore persists transactions.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *model.Transaction) (string, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	// QueryTransactions returns matching transactions, newest date first.
	QueryTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) (bool, error)
	DeleteTransaction(ctx context.Context, id string) (bool, error)
}

// BudgetStore persists budgets.
type BudgetStore interface {
	CreateBudget(ctx context.Context, budget *model.Budget) (string, error)
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	// QueryBudgets returns matching budgets, newest first.
	QueryBudgets(ctx context.Context, filter BudgetFilter) ([]model.Budget, error)
	UpdateBudget(ctx context.Context, budget *model.Budget) (bool, error)
	DeleteBudget(ctx context.Context, id string) (bool, error)
}

// TransactionReader is the read-only slice of storage the aggregation engine needs.
type TransactionReader interface {
	QueryTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryStore
	TransactionStore
	BudgetStore

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
