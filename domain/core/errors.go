package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural errors - propagate to the caller
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrTargetNotFound   = errors.New("target column not found")
	ErrColumnMismatch   = errors.New("column length mismatch")
	ErrConfiguration    = errors.New("invalid configuration")

	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
)

// Error constructors with context
func NewInsufficientDataError(column string, usable int) error {
	return fmt.Errorf("%w: column %q has %d usable values", ErrInsufficientData, column, usable)
}

func NewTargetNotFoundError(target string) error {
	return fmt.Errorf("%w: %q", ErrTargetNotFound, target)
}

func NewColumnMismatchError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrColumnMismatch, column, got, want)
}

func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

// Error checking helpers
func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
