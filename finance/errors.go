/*
errors.go - Centralized error types for the finance engine

ERROR CATEGORIES:
  1. Validation errors - rejected before any write reaches the store
  2. Not-found errors - lookups against unknown ids
  3. Store errors - backend failures, propagated unclassified

Updates and deletes against unknown ids are deliberately NOT errors: they
are no-ops (idempotent-by-absence). Only direct lookups report not-found.
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidMonthStartDay is returned when a month start day outside
	// [1,31] is submitted. The stored settings are left untouched.
	ErrInvalidMonthStartDay = errors.New("month start day must be between 1 and 31")

	// ErrInvalidPaymentType is returned for a type other than expense/income.
	ErrInvalidPaymentType = errors.New("payment type must be expense or income")

	// ErrInvalidLanguage is returned for an unsupported language code.
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrPaymentNotFound is returned when a recurring payment lookup misses.
	ErrPaymentNotFound = errors.New("recurring payment not found")

	// ErrLogNotFound is returned when a payment log lookup misses.
	ErrLogNotFound = errors.New("payment log not found")
)

// FieldError reports a rejected input value with the field it arrived on.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsValidation returns true if the error is due to invalid client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMonthStartDay) ||
		errors.Is(err, ErrInvalidPaymentType) ||
		errors.Is(err, ErrInvalidLanguage)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrLogNotFound)
}
