package core

import (
	"maps"
)

// Params maps request parameter names to values.
type Params map[string]any

// Call is the two-part value a method can produce for a request: a path
// extension appended to the endpoint path and the request parameters.
type Call struct {
	Extension string
	Params    Params
}

// Request is a fully composed exchange request ready for dispatch.
type Request struct {
	Operation   Operation `json:"operation"`
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	Params      Params    `json:"params,omitempty"`
	RequireAuth bool      `json:"require_auth"`
}

func NewRequest(op Operation, method, url string) *Request {
	return &Request{
		Operation: op,
		Method:    method,
		URL:       url,
	}
}

func (r *Request) SetParam(key string, value any) *Request {
	if r.Params == nil {
		r.Params = make(Params)
	}
	r.Params[key] = value
	return r
}

func (r *Request) SetParams(params Params) *Request {
	if len(params) == 0 {
		return r
	}
	if r.Params == nil {
		r.Params = make(Params, len(params))
	}
	maps.Copy(r.Params, params)
	return r
}

func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}
