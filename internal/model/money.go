package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format accepted from the command line.
const DateLayout = "2006-01-02"

// Quantize rounds an amount to cents, half away from zero.
func Quantize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ParseAmount parses a user supplied currency string such as "12.5" or "$1,200.00".
// The result is not quantized or range checked; entity constructors do that.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, &MalformedInputError{Input: s, Message: "amount is empty"}
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &MalformedInputError{Input: s, Message: "amount is not a number"}
	}
	return amount, nil
}

// ParseDate parses a YYYY-MM-DD date as local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &MalformedInputError{Input: s, Message: "date must be YYYY-MM-DD"}
	}
	return t, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return newValidationError("amount", "must be positive")
	}
	return nil
}
