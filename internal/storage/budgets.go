package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
)

const budgetColumns = `id, category_id, amount, period, start_date, end_date, created_at, is_active`

// CreateBudget stores a new budget and returns its id.
func (s *SQLiteStorage) CreateBudget(ctx context.Context, budget *model.Budget) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateBudget(budget); err != nil {
		return "", err
	}

	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		budget.ID,
		budget.CategoryID,
		encodeAmount(budget.Amount),
		string(budget.Period),
		encodeTime(budget.StartDate),
		encodeNullTime(budget.EndDate),
		encodeTime(budget.CreatedAt),
		budget.IsActive,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create budget: %w", err)
	}

	slog.Info("created budget",
		"id", budget.ID,
		"category_id", budget.CategoryID,
		"period", budget.Period,
		"amount", budget.Amount.StringFixed(2))
	return budget.ID, nil
}

// GetBudget returns the budget with the given id.
func (s *SQLiteStorage) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = ?`
	budget, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("budget", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	return budget, nil
}

// QueryBudgets returns budgets matching filter, most recently created first.
func (s *SQLiteStorage) QueryBudgets(ctx context.Context, filter service.BudgetFilter) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)
	if filter.CategoryID != "" {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = 1")
	}

	query := `SELECT ` + budgetColumns + ` FROM budgets`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// UpdateBudget overwrites every mutable field. It reports false if the id is unknown.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, budget *model.Budget) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateBudget(budget); err != nil {
		return false, err
	}

	query := `
		UPDATE budgets
		SET category_id = ?, amount = ?, period = ?,
			start_date = ?, end_date = ?, is_active = ?
		WHERE id = ?`

	found, err := s.execAffecting(ctx, query,
		budget.CategoryID,
		encodeAmount(budget.Amount),
		string(budget.Period),
		encodeTime(budget.StartDate),
		encodeNullTime(budget.EndDate),
		budget.IsActive,
		budget.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update budget: %w", err)
	}
	return found, nil
}

// DeleteBudget removes a budget. It reports false if the id is unknown.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	found, err := s.execAffecting(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete budget: %w", err)
	}
	return found, nil
}

func scanBudget(row rowScanner) (*model.Budget, error) {
	var (
		budget    model.Budget
		amount    string
		period    string
		startDate string
		endDate   sql.NullString
		createdAt string
	)
	if err := row.Scan(&budget.ID, &budget.CategoryID, &amount, &period, &startDate, &endDate, &createdAt, &budget.IsActive); err != nil {
		return nil, err
	}

	var err error
	if budget.Amount, err = decodeAmount(amount); err != nil {
		return nil, err
	}
	if budget.StartDate, err = decodeTime(startDate); err != nil {
		return nil, err
	}
	if budget.EndDate, err = decodeNullTime(endDate); err != nil {
		return nil, err
	}
	if budget.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	budget.Period = model.Period(period)
	return &budget, nil
}
