package core

import "errors"

// ErrorCode represents a stable, machine-readable error identifier.
type ErrorCode string

// Error code constants define standardized error identifiers.
const (
	// ErrCodeNetwork indicates a network connectivity failure.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeTimeout indicates the request exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeHTTPStatus indicates the exchange answered with a non-200 status.
	ErrCodeHTTPStatus ErrorCode = "HTTP_STATUS"
	// ErrCodeAPIError indicates a 200 response carrying an error message.
	ErrCodeAPIError ErrorCode = "API_ERROR"
	// ErrCodeDecode indicates the response body was not valid JSON.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeInvalidParams indicates call parameters failed validation.
	ErrCodeInvalidParams ErrorCode = "INVALID_PARAMS"

	// Client state errors
	ErrCodeClientClosed ErrorCode = "CLIENT_CLOSED"

	// Authentication errors
	ErrCodeNoCredentials ErrorCode = "NO_CREDENTIALS"
)

// IsErrorCode checks if the error matches the specified error code.
// It extracts the exchange error and compares its code field against the provided ErrorCode.
func IsErrorCode(err error, code ErrorCode) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return ErrorCode(exErr.Code) == code
	}
	return false
}
