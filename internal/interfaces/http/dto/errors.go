package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodeValidation  = "ERR_VALIDATION"
	ErrCodeBadRequest  = "ERR_BAD_REQUEST"
	ErrCodeNotFound    = "ERR_NOT_FOUND"
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Search error codes
const (
	// ErrCodeEmptyQuery is returned when the query is blank after trimming
	ErrCodeEmptyQuery = "EMPTY_QUERY"
	// ErrCodeSearchCanceled is returned when the search was abandoned before providers finished
	ErrCodeSearchCanceled = "SEARCH_CANCELED"
	// ErrCodeUnknownProvider is returned for registry operations on an unregistered provider
	ErrCodeUnknownProvider = "UNKNOWN_PROVIDER"
	// ErrCodeProviderNotConfigured is returned when a provider cannot be enabled
	ErrCodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	// ErrCodeHistoryDisabled is returned when search history is not configured
	ErrCodeHistoryDisabled = "HISTORY_DISABLED"
	// ErrCodeDebugDisabled is returned when the debug endpoint is switched off
	ErrCodeDebugDisabled = "DEBUG_DISABLED"
	// ErrCodeCredentialStore is returned when stored credentials cannot be loaded
	ErrCodeCredentialStore = "CREDENTIAL_STORE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeRateLimited: http.StatusTooManyRequests,

	ErrCodeEmptyQuery:            http.StatusBadRequest,
	ErrCodeSearchCanceled:        http.StatusServiceUnavailable,
	ErrCodeUnknownProvider:       http.StatusNotFound,
	ErrCodeProviderNotConfigured: http.StatusConflict,
	ErrCodeHistoryDisabled:       http.StatusNotFound,
	ErrCodeDebugDisabled:         http.StatusNotFound,
	ErrCodeCredentialStore:       http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
