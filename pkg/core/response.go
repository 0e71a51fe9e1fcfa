package core

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// Response is the raw outcome of a dispatched request.
type Response struct {
	// StatusCode is the HTTP status code returned by the server.
	StatusCode int

	// Body contains the raw response body bytes.
	Body []byte
}

// IsOK returns true only for HTTP 200.
func (r *Response) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// Unmarshal parses the response body into the provided value using sonic.
func (r *Response) Unmarshal(v any) error {
	return sonic.Unmarshal(r.Body, v)
}
