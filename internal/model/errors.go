// Package model defines the core bookkeeping entities and their invariants.
package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core. Match them with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrMalformedInput = errors.New("malformed input")
)

// ValidationError reports a violated entity invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an identifier or name that does not resolve.
type NotFoundError struct {
	Entity string
	Key    string
	// Suggestion is the closest known key, if any.
	Suggestion string
}

// NewNotFoundError creates a NotFoundError for the given entity kind and key.
func NewNotFoundError(entity, key string) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q %v", e.Entity, e.Key, ErrNotFound)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MalformedInputError reports front-end input that could not be parsed.
type MalformedInputError struct {
	Input   string
	Message string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%v: %s: %q", ErrMalformedInput, e.Message, e.Input)
}

// Is makes errors.Is(err, ErrMalformedInput) succeed.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
