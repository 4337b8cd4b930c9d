package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/model"
)

const categoryColumns = `id, name, description, color, created_at`

// CreateCategory stores a new category and returns its id.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateCategory(category); err != nil {
		return "", err
	}

	query := `
		INSERT INTO categories (id, name, description, color, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Color,
		encodeTime(category.CreatedAt),
	)
	if isUniqueViolation(err) {
		return "", fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, category.Name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "name", category.Name, "id", category.ID)
	return category.ID, nil
}

// GetCategory returns the category with the given id.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// GetCategoryByName returns the category with exactly the given name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = ?`
	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("category", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// UpdateCategory overwrites name, description and color. It reports false if the id is unknown.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateCategory(category); err != nil {
		return false, err
	}

	query := `
		UPDATE categories
		SET name = ?, description = ?, color = ?
		WHERE id = ?`

	found, err := s.execAffecting(ctx, query, category.Name, category.Description, category.Color, category.ID)
	if isUniqueViolation(err) {
		return false, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, category.Name)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update category: %w", err)
	}
	return found, nil
}

// DeleteCategory removes a category. Transactions and budgets referencing it are left untouched.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	found, err := s.execAffecting(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	if found {
		slog.Info("deleted category", "id", id)
	}
	return found, nil
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var (
		cat       model.Category
		createdAt string
	)
	if err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Color, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if cat.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &cat, nil
}
