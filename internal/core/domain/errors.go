package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a business-rule or invariant violation. The message
// always names the offending value so it can be shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a reservation that available stock
// cannot cover. It unwraps to a ValidationError, so IsValidation
// matches it too.
type InsufficientStockError struct {
	Message string
}

func (e *InsufficientStockError) Error() string {
	return e.Message
}

func (e *InsufficientStockError) Unwrap() error {
	return &ValidationError{Message: e.Message}
}

func InsufficientStockf(format string, args ...any) error {
	return &InsufficientStockError{Message: fmt.Sprintf(format, args...)}
}

// EntityNotFoundError means a referenced entity (order, product,
// inventory record) does not exist.
type EntityNotFoundError struct {
	Message string
}

func (e *EntityNotFoundError) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...any) error {
	return &EntityNotFoundError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *EntityNotFoundError
	return errors.As(err, &nf)
}

func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}
