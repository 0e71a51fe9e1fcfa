package cexio

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"cexio/pkg/core"
)

const exchangeName = "cexio"

// Endpoint describes a single CEX.io API endpoint.
type Endpoint struct {
	Operation   core.Operation
	Path        string
	Method      string
	RequireAuth bool
}

var endpoints = map[core.Operation]Endpoint{
	core.OpGetTicker:       {core.OpGetTicker, "/ticker/", http.MethodGet, false},
	core.OpGetOrderBook:    {core.OpGetOrderBook, "/order_book/", http.MethodGet, false},
	core.OpGetTradeHistory: {core.OpGetTradeHistory, "/trade_history/", http.MethodGet, false},
	core.OpGetBalance:      {core.OpGetBalance, "/balance/", http.MethodPost, true},
	core.OpGetOpenOrders:   {core.OpGetOpenOrders, "/open_orders/", http.MethodPost, true},
	core.OpPlaceOrder:      {core.OpPlaceOrder, "/place_order/", http.MethodPost, true},
	core.OpCancelOrder:     {core.OpCancelOrder, "/cancel_order/", http.MethodPost, true},
}

// LookupEndpoint returns the endpoint descriptor for op.
func LookupEndpoint(op core.Operation) (Endpoint, bool) {
	ep, ok := endpoints[op]
	return ep, ok
}

// Protocol implements core.Protocol for CEX.io.
// It composes URLs and parameter sets and decodes responses; it performs no I/O.
type Protocol struct {
	baseURL string
}

// NewProtocol creates a protocol composing URLs against baseURL.
func NewProtocol(baseURL string) *Protocol {
	return &Protocol{baseURL: baseURL}
}

// Name returns the protocol identifier "cexio".
func (p *Protocol) Name() string {
	return exchangeName
}

// BaseURL returns the API base URL.
func (p *Protocol) BaseURL() string {
	return p.baseURL
}

// SupportedOperations returns the list of operations supported by this protocol.
func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpGetTicker,
		core.OpGetOrderBook,
		core.OpGetTradeHistory,
		core.OpGetBalance,
		core.OpGetOpenOrders,
		core.OpPlaceOrder,
		core.OpCancelOrder,
	}
}

// BuildRequest composes the request for op from the call value.
// Auth fields are not attached here; the caller signs right before dispatch.
func (p *Protocol) BuildRequest(_ context.Context, op core.Operation, value any) (*core.Request, error) {
	ep, ok := LookupEndpoint(op)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedOperation, op)
	}

	ext, params, err := ParseCallResult(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	url := BuildURL(p.baseURL, ep.Path)
	if ext != "" {
		url = BuildURL(url, ext)
	}

	return core.NewRequest(op, ep.Method, url).
		SetParams(params).
		SetRequireAuth(ep.RequireAuth), nil
}

// ParseResponse decodes a CEX.io response. Only HTTP 200 is a success; any
// other status, and a 200 body of the form {"error": "..."}, become *core.ExchangeError.
func (p *Protocol) ParseResponse(op core.Operation, resp *core.Response) (any, error) {
	if !resp.IsOK() {
		msg := http.StatusText(resp.StatusCode)
		if len(resp.Body) > 0 {
			msg = truncate(string(resp.Body), 256)
		}
		return nil, core.NewExchangeError(
			p.Name(),
			core.ErrorTypeForStatus(resp.StatusCode),
			resp.StatusCode,
			msg,
		).WithCode(core.ErrCodeHTTPStatus)
	}

	var result any
	if err := resp.Unmarshal(&result); err != nil {
		return nil, core.NewExchangeError(
			p.Name(),
			core.ErrorTypeServerError,
			resp.StatusCode,
			fmt.Sprintf("decode %s response: %v", op, err),
		).WithCode(core.ErrCodeDecode).WithCause(err)
	}

	if obj, ok := result.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok {
			e := core.NewExchangeError(p.Name(), mapAPIError(msg), resp.StatusCode, msg).WithCode(core.ErrCodeAPIError)
			e.RawError = obj
			return nil, e
		}
	}

	return result, nil
}

// BuildURL joins base and path with exactly one slash between them and one
// trailing slash.
func BuildURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	path = strings.Trim(path, "/")
	if path == "" {
		return base + "/"
	}
	return base + "/" + path + "/"
}

// ParseCallResult normalizes the value a method produced for a call into a
// path extension and a parameter map. Accepted shapes:
//
//	nil                      -> ("", nil)
//	string or other scalar   -> (extension, nil); zero values give ("", nil)
//	core.Params, maps        -> ("", params)
//	core.Call, 2-element slice or array -> (extension, params)
//
// Extensions have surrounding slashes stripped. Anything else, including
// sequences of other lengths, wraps core.ErrMalformedCallResult.
func ParseCallResult(value any) (string, core.Params, error) {
	switch v := value.(type) {
	case nil:
		return "", nil, nil
	case core.Call:
		return trimExtension(v.Extension), v.Params, nil
	case *core.Call:
		if v == nil {
			return "", nil, nil
		}
		return trimExtension(v.Extension), v.Params, nil
	case core.Params, map[string]any, map[string]string:
		params, err := paramsFrom(v)
		return "", params, err
	default:
		if seq, ok := sequence(v); ok {
			if len(seq) != 2 {
				return "", nil, fmt.Errorf("%w: sequence of %d elements, want 2", core.ErrMalformedCallResult, len(seq))
			}
			ext, err := extensionFrom(seq[0])
			if err != nil {
				return "", nil, err
			}
			params, err := paramsFrom(seq[1])
			if err != nil {
				return "", nil, err
			}
			return ext, params, nil
		}

		ext, err := extensionFrom(v)
		if err != nil {
			return "", nil, err
		}
		return ext, nil, nil
	}
}

// sequence unpacks any slice or array into its elements.
func sequence(value any) ([]any, bool) {
	if seq, ok := value.([]any); ok {
		return seq, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}
	return seq, true
}

func extensionFrom(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return trimExtension(v), nil
	case fmt.Stringer:
		return trimExtension(v.String()), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if rv.IsZero() {
			return "", nil
		}
		return trimExtension(fmt.Sprint(value)), nil
	default:
		return "", fmt.Errorf("%w: unsupported extension type %T", core.ErrMalformedCallResult, value)
	}
}

func paramsFrom(value any) (core.Params, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case core.Params:
		return v, nil
	case map[string]any:
		return core.Params(v), nil
	case map[string]string:
		params := make(core.Params, len(v))
		for k, s := range v {
			params[k] = s
		}
		return params, nil
	default:
		return nil, fmt.Errorf("%w: unsupported parameters type %T", core.ErrMalformedCallResult, value)
	}
}

func trimExtension(ext string) string {
	return strings.Trim(ext, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// mapAPIError classifies the message of a {"error": "..."} response.
func mapAPIError(msg string) core.ErrorType {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "nonce"),
		strings.Contains(m, "signature"),
		strings.Contains(m, "api key"),
		strings.Contains(m, "permission"):
		return core.ErrorTypeAuthentication
	case strings.Contains(m, "insufficient"):
		return core.ErrorTypeInsufficientFunds
	case strings.Contains(m, "not found"):
		return core.ErrorTypeNotFound
	case strings.Contains(m, "rate limit"), strings.Contains(m, "too many"):
		return core.ErrorTypeRateLimit
	case strings.Contains(m, "amount"), strings.Contains(m, "price"), strings.Contains(m, "order"):
		return core.ErrorTypeInvalidOrder
	default:
		return core.ErrorTypeBadRequest
	}
}

var _ core.Protocol = (*Protocol)(nil)
