package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a spending ceiling for one category over a recurring period.
type Budget struct {
	StartDate  time.Time       `json:"start_date"`
	CreatedAt  time.Time       `json:"created_at"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	Period     Period          `json:"period"`
	IsActive   bool            `json:"is_active"`
}

// BudgetParams are the inputs to NewBudget. A zero StartDate defaults to now and
// a nil EndDate is derived from the period.
type BudgetParams struct {
	StartDate  time.Time
	EndDate    *time.Time
	Amount     decimal.Decimal
	CategoryID string
	Period     Period
}

// NewBudget creates an active, validated budget.
func NewBudget(p BudgetParams) (*Budget, error) {
	now := time.Now()
	b := &Budget{
		ID:         uuid.NewString(),
		CategoryID: strings.TrimSpace(p.CategoryID),
		Amount:     Quantize(p.Amount),
		Period:     p.Period,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		CreatedAt:  now,
		IsActive:   true,
	}
	if b.StartDate.IsZero() {
		b.StartDate = now
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.EndDate == nil {
		end := b.Period.EndDate(b.StartDate)
		b.EndDate = &end
	}
	return b, nil
}

// Validate checks the budget invariants.
func (b *Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return newValidationError("category_id", "category required")
	}
	if err := validateAmount(b.Amount); err != nil {
		return err
	}
	if !b.Period.IsValid() {
		return newValidationError("period", "must be weekly, monthly or yearly")
	}
	if b.EndDate != nil && !b.EndDate.After(b.StartDate) {
		return newValidationError("end_date", "must be after start date")
	}
	return nil
}

// Range returns the budget's active interval.
func (b *Budget) Range() DateRange {
	start := b.StartDate
	return DateRange{Start: &start, End: b.EndDate}
}

// Overlaps reports whether the budget is in effect at any point of r.
func (b *Budget) Overlaps(r DateRange) bool {
	if r.End != nil && !b.StartDate.Before(*r.End) {
		return false
	}
	if b.EndDate != nil && r.Start != nil && !b.EndDate.After(*r.Start) {
		return false
	}
	return true
}

// BudgetUpdate carries the fields a caller chose to change.
type BudgetUpdate struct {
	CategoryID *string
	Amount     *decimal.Decimal
	Period     *Period
	StartDate  *time.Time
	EndDate    *time.Time
	IsActive   *bool
}

// IsEmpty reports whether no field is set.
func (u BudgetUpdate) IsEmpty() bool {
	return u.CategoryID == nil && u.Amount == nil && u.Period == nil &&
		u.StartDate == nil && u.EndDate == nil && u.IsActive == nil
}

// Apply returns a copy of b with the update applied and revalidated.
// Changing the period or start date without an explicit end date re-derives the end.
func (u BudgetUpdate) Apply(b Budget) (*Budget, error) {
	if u.CategoryID != nil {
		b.CategoryID = strings.TrimSpace(*u.CategoryID)
	}
	if u.Amount != nil {
		b.Amount = Quantize(*u.Amount)
	}
	if u.Period != nil {
		b.Period = *u.Period
	}
	if u.StartDate != nil {
		b.StartDate = *u.StartDate
	}
	if u.IsActive != nil {
		b.IsActive = *u.IsActive
	}
	switch {
	case u.EndDate != nil:
		end := *u.EndDate
		b.EndDate = &end
	case u.Period != nil || u.StartDate != nil:
		if b.Period.IsValid() {
			end := b.Period.EndDate(b.StartDate)
			b.EndDate = &end
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
