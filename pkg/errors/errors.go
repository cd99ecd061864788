// Package errors provides custom error types for the dbsyncr system.
// The taxonomy separates structural/configuration failures, which abort the
// triggering operation and leave stored state unchanged, from data-level
// anomalies, which are absorbed into warnings and never abort a run.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the dbsyncr system
var (
	// ErrMappingNotConfigured indicates that no field mapping has ever been set.
	// Callers must treat this as "reconciliation cannot run", not as a bug.
	ErrMappingNotConfigured = errors.New("field mapping not configured")

	// ErrNotLoaded indicates that a requested dataset slot holds no data.
	// This is an expected, recoverable condition (e.g. only one side uploaded).
	ErrNotLoaded = errors.New("dataset not loaded")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidMappingError reports a field mapping that violates a registry rule.
// The previous mapping is always retained unchanged when this is returned.
type InvalidMappingError struct {
	Rule   string // the violated rule, human readable
	Fields []string
}

// Error implements the error interface
func (e *InvalidMappingError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid field mapping: %s (fields: %v)", e.Rule, e.Fields)
	}
	return fmt.Sprintf("invalid field mapping: %s", e.Rule)
}

// Is implements errors.Is support
func (e *InvalidMappingError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidMappingError creates a new InvalidMappingError
func NewInvalidMappingError(rule string, fields ...string) *InvalidMappingError {
	return &InvalidMappingError{Rule: rule, Fields: fields}
}

// DuplicateFieldError reports a duplicated header name in tabular input.
type DuplicateFieldError struct {
	Field  string
	Column int // 1-based column position of the duplicate occurrence
}

// Error implements the error interface
func (e *DuplicateFieldError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("duplicate field %q in header at column %d", e.Field, e.Column)
	}
	return fmt.Sprintf("duplicate field %q in header", e.Field)
}

// Is implements errors.Is support
func (e *DuplicateFieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewDuplicateFieldError creates a new DuplicateFieldError
func NewDuplicateFieldError(field string, column int) *DuplicateFieldError {
	return &DuplicateFieldError{Field: field, Column: column}
}

// MalformedInputError reports structurally unreadable tabular input.
// Row and Column carry 1-based positions when known, zero otherwise.
type MalformedInputError struct {
	Format  string // "csv", "xlsx"
	Row     int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if e.Row > 0 && e.Column > 0 {
		return fmt.Sprintf("malformed %s input at row %d, column %d: %s", e.Format, e.Row, e.Column, e.Message)
	}
	if e.Row > 0 {
		return fmt.Sprintf("malformed %s input at row %d: %s", e.Format, e.Row, e.Message)
	}
	return fmt.Sprintf("malformed %s input: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// NewMalformedInputError creates a new MalformedInputError
func NewMalformedInputError(format, message string, err error) *MalformedInputError {
	return &MalformedInputError{Format: format, Message: message, Err: err}
}

// MissingKeyFieldError reports that a dataset lacks the linking field named
// by the identity pair. Reconciliation aborts and any prior combined dataset
// is left untouched.
type MissingKeyFieldError struct {
	Slot  string // "A" or "B"
	Field string
}

// Error implements the error interface
func (e *MissingKeyFieldError) Error() string {
	return fmt.Sprintf("dataset %s lacks linking field %q", e.Slot, e.Field)
}

// NewMissingKeyFieldError creates a new MissingKeyFieldError
func NewMissingKeyFieldError(slot, field string) *MissingKeyFieldError {
	return &MissingKeyFieldError{Slot: slot, Field: field}
}

// NonSerializableValueError reports a value that cannot be safely rendered
// in the requested export format. Ordinary missing/NaN cells never produce
// this; they render as empty cells.
type NonSerializableValueError struct {
	Field string
	Row   int // 1-based data row
	Value any
}

// Error implements the error interface
func (e *NonSerializableValueError) Error() string {
	return fmt.Sprintf("value in field %q at row %d cannot be serialized: %v", e.Field, e.Row, e.Value)
}

// NewNonSerializableValueError creates a new NonSerializableValueError
func NewNonSerializableValueError(field string, row int, value any) *NonSerializableValueError {
	return &NonSerializableValueError{Field: field, Row: row, Value: value}
}

// Helper functions for error checking

// IsNotLoaded checks if an error indicates an empty dataset slot
func IsNotLoaded(err error) bool {
	return errors.Is(err, ErrNotLoaded)
}

// IsMappingNotConfigured checks if an error indicates a missing field mapping
func IsMappingNotConfigured(err error) bool {
	return errors.Is(err, ErrMappingNotConfigured)
}

// IsInvalidMapping checks if an error is an InvalidMappingError
func IsInvalidMapping(err error) bool {
	var e *InvalidMappingError
	return errors.As(err, &e)
}

// IsDuplicateField checks if an error is a DuplicateFieldError
func IsDuplicateField(err error) bool {
	var e *DuplicateFieldError
	return errors.As(err, &e)
}

// IsMalformedInput checks if an error is a MalformedInputError
func IsMalformedInput(err error) bool {
	var e *MalformedInputError
	return errors.As(err, &e)
}

// IsMissingKeyField checks if an error is a MissingKeyFieldError
func IsMissingKeyField(err error) bool {
	var e *MissingKeyFieldError
	return errors.As(err, &e)
}

// IsNonSerializableValue checks if an error is a NonSerializableValueError
func IsNonSerializableValue(err error) bool {
	var e *NonSerializableValueError
	return errors.As(err, &e)
}
