package cexio

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cexio/pkg/core"
)

func TestProtocol_Name(t *testing.T) {
	p := NewProtocol(core.ProductionURL)
	assert.Equal(t, "cexio", p.Name())
	assert.Equal(t, "https://cex.io/api", p.BaseURL())
}

func TestProtocol_SupportedOperations(t *testing.T) {
	p := NewProtocol(core.ProductionURL)

	ops := p.SupportedOperations()
	assert.Len(t, ops, 7)
	for _, op := range ops {
		_, ok := LookupEndpoint(op)
		assert.True(t, ok, "no endpoint for %s", op)
	}
}

func TestLookupEndpoint(t *testing.T) {
	tests := []struct {
		op     core.Operation
		path   string
		method string
		auth   bool
	}{
		{core.OpGetTicker, "/ticker/", http.MethodGet, false},
		{core.OpGetOrderBook, "/order_book/", http.MethodGet, false},
		{core.OpGetTradeHistory, "/trade_history/", http.MethodGet, false},
		{core.OpGetBalance, "/balance/", http.MethodPost, true},
		{core.OpGetOpenOrders, "/open_orders/", http.MethodPost, true},
		{core.OpPlaceOrder, "/place_order/", http.MethodPost, true},
		{core.OpCancelOrder, "/cancel_order/", http.MethodPost, true},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			ep, ok := LookupEndpoint(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.op, ep.Operation)
			assert.Equal(t, tt.path, ep.Path)
			assert.Equal(t, tt.method, ep.Method)
			assert.Equal(t, tt.auth, ep.RequireAuth)
		})
	}

	_, ok := LookupEndpoint(core.Operation(99))
	assert.False(t, ok)
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"plain", "https://cex.io/api", "ticker", "https://cex.io/api/ticker/"},
		{"slashed path", "https://cex.io/api", "/ticker/", "https://cex.io/api/ticker/"},
		{"slashed base", "https://cex.io/api/", "/ticker/", "https://cex.io/api/ticker/"},
		{"pair extension", "https://cex.io/api/ticker/", "BTC/USD", "https://cex.io/api/ticker/BTC/USD/"},
		{"empty path", "https://cex.io/api", "", "https://cex.io/api/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.base, tt.path))
		})
	}
}

func TestParseCallResult(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		wantExt    string
		wantParams core.Params
	}{
		{"nil", nil, "", nil},
		{"string", "BTC/USD", "BTC/USD", nil},
		{"slashed string", "/BTC/USD/", "BTC/USD", nil},
		{"empty string", "", "", nil},
		{"zero int", 0, "", nil},
		{"int", 5, "5", nil},
		{"stringer", core.OpGetTicker, "GET_TICKER", nil},
		{"params", core.Params{"id": "42"}, "", core.Params{"id": "42"}},
		{"map any", map[string]any{"since": 10}, "", core.Params{"since": 10}},
		{"map string", map[string]string{"id": "42"}, "", core.Params{"id": "42"}},
		{
			"call",
			core.Call{Extension: "GHS/BTC", Params: core.Params{"since": int64(10)}},
			"GHS/BTC",
			core.Params{"since": int64(10)},
		},
		{"call pointer", &core.Call{Extension: "/GHS/BTC"}, "GHS/BTC", nil},
		{
			"pair sequence",
			[]any{"GHS/BTC", map[string]any{"type": "buy"}},
			"GHS/BTC",
			core.Params{"type": "buy"},
		},
		{"pair sequence with nils", []any{nil, nil}, "", nil},
		{
			"pair array",
			[2]any{"BTC/USD", map[string]any{"since": 10}},
			"BTC/USD",
			core.Params{"since": 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, params, err := ParseCallResult(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestParseCallResult_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"single element", []any{"GHS/BTC"}},
		{"three elements", []any{"GHS/BTC", nil, nil}},
		{"empty sequence", []any{}},
		{"short string slice", []string{"GHS/BTC"}},
		{"long array", [3]any{"GHS/BTC", nil, nil}},
		{"string slice params", []string{"GHS/BTC", "since"}},
		{"bad params", []any{"GHS/BTC", 42}},
		{"bad extension", []any{struct{}{}, nil}},
		{"struct", struct{ X int }{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseCallResult(tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedCallResult)
		})
	}
}

func TestProtocol_BuildRequest(t *testing.T) {
	p := NewProtocol(core.ProductionURL)
	ctx := context.Background()

	t.Run("public with pair", func(t *testing.T) {
		req, err := p.BuildRequest(ctx, core.OpGetTicker, "BTC/USD")
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "https://cex.io/api/ticker/BTC/USD/", req.URL)
		assert.False(t, req.RequireAuth)
		assert.Empty(t, req.Params)
	})

	t.Run("private without extension", func(t *testing.T) {
		req, err := p.BuildRequest(ctx, core.OpGetBalance, nil)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://cex.io/api/balance/", req.URL)
		assert.True(t, req.RequireAuth)
	})

	t.Run("private with call", func(t *testing.T) {
		params := core.Params{"type": "buy", "amount": "1", "price": "400"}
		req, err := p.BuildRequest(ctx, core.OpPlaceOrder, core.Call{Extension: "GHS/BTC", Params: params})
		require.NoError(t, err)
		assert.Equal(t, "https://cex.io/api/place_order/GHS/BTC/", req.URL)
		assert.Equal(t, params, req.Params)
		assert.True(t, req.RequireAuth)

		req.Params["nonce"] = "1"
		assert.NotContains(t, params, "nonce")
	})

	t.Run("unsupported operation", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.Operation(99), nil)
		assert.ErrorIs(t, err, core.ErrUnsupportedOperation)
	})

	t.Run("malformed value", func(t *testing.T) {
		_, err := p.BuildRequest(ctx, core.OpGetTicker, []any{"a", "b", "c"})
		assert.ErrorIs(t, err, core.ErrMalformedCallResult)
	})
}

func TestProtocol_ParseResponse(t *testing.T) {
	p := NewProtocol(core.ProductionURL)

	t.Run("object", func(t *testing.T) {
		result, err := p.ParseResponse(core.OpGetTicker, &core.Response{StatusCode: http.StatusOK, Body: []byte(`{"last":"400"}`)})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"last": "400"}, result)
	})

	t.Run("array", func(t *testing.T) {
		result, err := p.ParseResponse(core.OpGetOpenOrders, &core.Response{StatusCode: http.StatusOK, Body: []byte(`[]`)})
		require.NoError(t, err)
		assert.Equal(t, []any{}, result)
	})

	t.Run("scalar", func(t *testing.T) {
		result, err := p.ParseResponse(core.OpCancelOrder, &core.Response{StatusCode: http.StatusOK, Body: []byte(`true`)})
		require.NoError(t, err)
		assert.Equal(t, true, result)
	})

	t.Run("invalid json", func(t *testing.T) {
		result, err := p.ParseResponse(core.OpGetTicker, &core.Response{StatusCode: http.StatusOK, Body: []byte(`<html>`)})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, core.IsErrorCode(err, core.ErrCodeDecode))
	})

	t.Run("api error", func(t *testing.T) {
		result, err := p.ParseResponse(core.OpGetBalance, &core.Response{StatusCode: http.StatusOK, Body: []byte(`{"error":"Invalid nonce"}`)})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, core.IsAuthenticationError(err))
		assert.True(t, core.IsErrorCode(err, core.ErrCodeAPIError))
		assert.Contains(t, err.Error(), "Invalid nonce")
	})
}

func TestProtocol_ParseResponse_Status(t *testing.T) {
	p := NewProtocol(core.ProductionURL)

	tests := []struct {
		name     string
		status   int
		body     string
		wantType core.ErrorType
		wantMsg  string
	}{
		{"not found", http.StatusNotFound, "", core.ErrorTypeNotFound, "Not Found"},
		{"unauthorized", http.StatusUnauthorized, "denied", core.ErrorTypeAuthentication, "denied"},
		{"rate limited", http.StatusTooManyRequests, "", core.ErrorTypeRateLimit, "Too Many Requests"},
		{"server error", http.StatusBadGateway, "bad gateway", core.ErrorTypeServerError, "bad gateway"},
		{"no content", http.StatusNoContent, "", core.ErrorTypeUnknown, "No Content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseResponse(core.OpGetTicker, &core.Response{StatusCode: tt.status, Body: []byte(tt.body)})
			assert.Nil(t, result)
			require.Error(t, err)

			var exErr *core.ExchangeError
			require.ErrorAs(t, err, &exErr)
			assert.Equal(t, tt.wantType, exErr.Type)
			assert.Equal(t, tt.status, exErr.StatusCode)
			assert.Equal(t, tt.wantMsg, exErr.Message)
			assert.Equal(t, "cexio", exErr.Exchange)
		})
	}
}

func TestMapAPIError(t *testing.T) {
	tests := []struct {
		msg  string
		want core.ErrorType
	}{
		{"Nonce must be incremented", core.ErrorTypeAuthentication},
		{"Invalid signature", core.ErrorTypeAuthentication},
		{"API key not activated", core.ErrorTypeAuthentication},
		{"Permission denied", core.ErrorTypeAuthentication},
		{"Error: Place order error: Insufficient funds.", core.ErrorTypeInsufficientFunds},
		{"Order not found", core.ErrorTypeNotFound},
		{"Too many requests", core.ErrorTypeRateLimit},
		{"Invalid amount", core.ErrorTypeInvalidOrder},
		{"Something went wrong", core.ErrorTypeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, mapAPIError(tt.msg))
		})
	}
}
