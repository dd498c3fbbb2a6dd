// Package errors provides error handling for kosyncd.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Sentinel errors for the kosync protocol surface.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates no progress record exists for a document.
	// This is a normal empty-result outcome for a pull, not a failure.
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or missing
	// required fields
	ErrInvalidRequest = New("invalid request")

	// ErrUnauthorized indicates missing or mismatched auth credentials
	ErrUnauthorized = New("unauthorized")

	// ErrMissingField indicates a required request field was not provided.
	// The kosync protocol reports this with its own error code, distinct
	// from a generally malformed request.
	ErrMissingField = New("missing field")

	// ErrAlreadyRegistered indicates the username is taken
	ErrAlreadyRegistered = New("username is already registered")

	// ErrRegistrationDisabled indicates registration is disabled by policy
	ErrRegistrationDisabled = New("user registration disabled")
)

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequest checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequest(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsUnauthorized checks if an error is or wraps ErrUnauthorized
func IsUnauthorized(err error) bool {
	return err != nil && Is(err, ErrUnauthorized)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
