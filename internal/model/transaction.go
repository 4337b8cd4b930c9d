package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType says whether money came in or went out.
type TransactionType string

const (
	// TypeIncome marks money received.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money spent.
	TypeExpense TransactionType = "expense"
)

// TransactionTypes lists every valid transaction type.
var TransactionTypes = []TransactionType{TypeIncome, TypeExpense}

// ParseTransactionType converts user input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &MalformedInputError{Input: s, Message: "transaction type must be income or expense"}
	}
	return t, nil
}

// IsValid reports whether t is one of the known types.
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (t TransactionType) String() string {
	return string(t)
}

// Transaction is a single dated income or expense entry.
// The sign lives in Type; Amount is always positive.
type Transaction struct {
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  *string         `json:"category_id,omitempty"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Notes       string          `json:"notes,omitempty"`
}

// TransactionParams are the inputs to NewTransaction. Zero dates default to now.
type TransactionParams struct {
	Date        time.Time
	Amount      decimal.Decimal
	CategoryID  *string
	Description string
	Type        TransactionType
	Notes       string
}

// NewTransaction creates a validated transaction with its amount rounded to cents.
func NewTransaction(p TransactionParams) (*Transaction, error) {
	now := time.Now()
	txn := &Transaction{
		ID:          uuid.NewString(),
		Amount:      Quantize(p.Amount),
		Description: strings.TrimSpace(p.Description),
		CategoryID:  normalizeRef(p.CategoryID),
		Type:        p.Type,
		Date:        p.Date,
		CreatedAt:   now,
		Notes:       strings.TrimSpace(p.Notes),
	}
	if txn.Date.IsZero() {
		txn.Date = now
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	return txn, nil
}

// Validate checks the transaction invariants.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return newValidationError("description", "description required")
	}
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return newValidationError("type", "must be income or expense")
	}
	if t.Date.IsZero() {
		return newValidationError("date", "date required")
	}
	return nil
}

// HasCategory reports whether the transaction is assigned to a category.
func (t *Transaction) HasCategory() bool {
	return t.CategoryID != nil && *t.CategoryID != ""
}

// InCategory reports whether the transaction belongs to categoryID.
func (t *Transaction) InCategory(categoryID string) bool {
	return t.HasCategory() && *t.CategoryID == categoryID
}

// TransactionUpdate carries the fields a caller chose to change.
// ClearCategory removes the category assignment.
type TransactionUpdate struct {
	Amount        *decimal.Decimal
	Description   *string
	CategoryID    *string
	Type          *TransactionType
	Date          *time.Time
	Notes         *string
	ClearCategory bool
}

// IsEmpty reports whether no field is set.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Amount == nil && u.Description == nil && u.CategoryID == nil &&
		u.Type == nil && u.Date == nil && u.Notes == nil && !u.ClearCategory
}

// Apply returns a copy of t with the update applied and revalidated.
func (u TransactionUpdate) Apply(t Transaction) (*Transaction, error) {
	if u.Amount != nil {
		t.Amount = Quantize(*u.Amount)
	}
	if u.Description != nil {
		t.Description = strings.TrimSpace(*u.Description)
	}
	if u.ClearCategory {
		t.CategoryID = nil
	} else if u.CategoryID != nil {
		t.CategoryID = normalizeRef(u.CategoryID)
	}
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Notes != nil {
		t.Notes = strings.TrimSpace(*u.Notes)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func normalizeRef(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
