package scopus

import (
	"errors"
	"fmt"
)

// Common errors returned by the Scopus client.
var (
	// ErrNotFound indicates the document was not found in Scopus.
	ErrNotFound = errors.New("not found in Scopus")

	// ErrAuthError indicates an authentication error (missing/invalid API key).
	ErrAuthError = errors.New("Scopus authentication error")

	// ErrQuotaExceeded indicates the API key's request quota is spent.
	// Further calls will be rejected until the quota window resets.
	ErrQuotaExceeded = errors.New("Scopus quota exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Scopus")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Scopus")
)

// APIError represents an error response from the Scopus API.
type APIError struct {
	StatusCode int
	Code       string // Error code from API (e.g., "RESOURCE_NOT_FOUND")
	Message    string
	Identifier string // For context in document-related errors
}

func (e *APIError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("Scopus API error (status %d, code %s): %s (document: %s)", e.StatusCode, e.Code, e.Message, e.Identifier)
	}
	return fmt.Sprintf("Scopus API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error indicates a document was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404 || apiErr.Code == "RESOURCE_NOT_FOUND"
	}
	return false
}

// IsQuotaExceeded returns true if the error indicates the request quota
// is spent. Quota exhaustion must halt a build rather than be retried.
func IsQuotaExceeded(err error) bool {
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.Code == "QUOTA_EXCEEDED"
	}
	return false
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsTransient returns true for faults worth treating as a single-call
// miss: connectivity problems that say nothing about the document itself.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetworkError)
}
