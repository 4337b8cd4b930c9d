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

const transactionColumns = `id, amount, description, category_id, transaction_type, date, created_at, notes`

// CreateTransaction stores a new transaction and returns its id.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateTransaction(txn); err != nil {
		return "", err
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		encodeAmount(txn.Amount),
		txn.Description,
		encodeNullString(txn.CategoryID),
		string(txn.Type),
		encodeTime(txn.Date),
		encodeTime(txn.CreatedAt),
		txn.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}

	slog.Debug("created transaction", "id", txn.ID, "type", txn.Type, "amount", txn.Amount.StringFixed(2))
	return txn.ID, nil
}

// GetTransaction returns the transaction with the given id.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`
	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFoundError("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// QueryTransactions returns transactions matching filter, newest first.
// The date range is half-open: date >= start AND date < end.
func (s *SQLiteStorage) QueryTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Range.Start != nil && filter.Range.End != nil && filter.Range.End.Before(*filter.Range.Start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, *filter.Range.End, *filter.Range.Start)
	}

	var (
		conditions []string
		args       []any
	)
	if filter.CategoryID != "" {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "transaction_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Range.Start != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, encodeTime(*filter.Range.Start))
	}
	if filter.Range.End != nil {
		conditions = append(conditions, "date < ?")
		args = append(args, encodeTime(*filter.Range.End))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransaction overwrites every mutable field. It reports false if the id is unknown.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateTransaction(txn); err != nil {
		return false, err
	}

	query := `
		UPDATE transactions
		SET amount = ?, description = ?, category_id = ?,
			transaction_type = ?, date = ?, notes = ?
		WHERE id = ?`

	found, err := s.execAffecting(ctx, query,
		encodeAmount(txn.Amount),
		txn.Description,
		encodeNullString(txn.CategoryID),
		string(txn.Type),
		encodeTime(txn.Date),
		txn.Notes,
		txn.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}
	return found, nil
}

// DeleteTransaction removes a transaction. It reports false if the id is unknown.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	found, err := s.execAffecting(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return found, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		amount     string
		categoryID sql.NullString
		txnType    string
		date       string
		createdAt  string
	)
	if err := row.Scan(&txn.ID, &amount, &txn.Description, &categoryID, &txnType, &date, &createdAt, &txn.Notes); err != nil {
		return nil, err
	}

	var err error
	if txn.Amount, err = decodeAmount(amount); err != nil {
		return nil, err
	}
	if txn.Date, err = decodeTime(date); err != nil {
		return nil, err
	}
	if txn.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	txn.CategoryID = decodeNullString(categoryID)
	txn.Type = model.TransactionType(txnType)
	return &txn, nil
}
