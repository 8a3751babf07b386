package search

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Search Errors
// ---------------------------------------------------------------------------

var (
	// Request errors
	ErrEmptyQuery     = errors.New("search: query is required")
	ErrSearchCanceled = errors.New("search: request canceled")

	// Registry errors
	ErrUnknownProvider = errors.New("search: unknown provider")

	// Provider errors
	ErrProviderNotConfigured   = errors.New("search: provider not configured")
	ErrProviderUnavailable     = errors.New("search: provider temporarily unavailable")
	ErrProviderBadStatus       = errors.New("search: provider returned non-success status")
	ErrProviderInvalidResponse = errors.New("search: invalid provider response")
	ErrProviderRateLimited     = errors.New("search: provider rate limited")
	ErrProviderTimeout         = errors.New("search: provider timed out")
)

// AdapterError is the single failure category an adapter reports to the dispatcher.
// Err wraps one of the ErrProvider* sentinels.
type AdapterError struct {
	Provider ProviderID
	Op       string
	Err      error
}

// NewAdapterError creates an AdapterError for the given provider and operation
func NewAdapterError(provider ProviderID, op string, err error) *AdapterError {
	return &AdapterError{Provider: provider, Op: op, Err: err}
}

func (e *AdapterError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// AsAdapterError wraps err into an AdapterError unless it already is one
func AsAdapterError(provider ProviderID, op string, err error) *AdapterError {
	if err == nil {
		return nil
	}
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae
	}
	return NewAdapterError(provider, op, err)
}
