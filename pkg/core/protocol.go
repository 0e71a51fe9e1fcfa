package core

import "context"

// Protocol defines the interface for exchange-specific protocol implementations.
// A protocol turns a logical operation into a fully-formed request and turns the
// raw HTTP outcome back into a decoded value.
type Protocol interface {
	// Name returns the exchange identifier (e.g., "cexio").
	Name() string

	// BaseURL returns the API base URL requests are composed against.
	BaseURL() string

	// BuildRequest constructs a request for the specified operation.
	// The value is whatever the calling method produced for the call: a path
	// extension, a parameter map, both, or nothing. See Call.
	BuildRequest(ctx context.Context, op Operation, value any) (*Request, error)

	// ParseResponse decodes the response of a completed request.
	// Non-200 statuses are returned as *ExchangeError.
	ParseResponse(op Operation, resp *Response) (any, error)

	// SupportedOperations returns the list of operations this protocol supports.
	SupportedOperations() []Operation
}
