package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest(OpGetTicker, "GET", "https://cex.io/api/ticker/BTC/USD/")

	assert.Equal(t, OpGetTicker, req.Operation)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://cex.io/api/ticker/BTC/USD/", req.URL)
	assert.Nil(t, req.Params)
	assert.False(t, req.RequireAuth)
}

func TestRequest_SetParam(t *testing.T) {
	req := NewRequest(OpGetTradeHistory, "GET", "https://cex.io/api/trade_history/")
	result := req.SetParam("since", 10)

	assert.Equal(t, req, result)
	assert.Equal(t, 10, req.Params["since"])
}

func TestRequest_SetParams(t *testing.T) {
	req := NewRequest(OpPlaceOrder, "POST", "https://cex.io/api/place_order/")
	params := Params{
		"type":   "buy",
		"amount": "1",
		"price":  "400",
	}
	result := req.SetParams(params)

	assert.Equal(t, req, result)
	assert.Equal(t, params, req.Params)

	params["type"] = "sell"
	assert.Equal(t, "buy", req.Params["type"])
}

func TestRequest_SetParams_Empty(t *testing.T) {
	req := NewRequest(OpGetBalance, "POST", "https://cex.io/api/balance/")
	req.SetParams(nil)

	assert.Nil(t, req.Params)
}

func TestRequest_SetRequireAuth(t *testing.T) {
	req := NewRequest(OpGetBalance, "POST", "https://cex.io/api/balance/")
	result := req.SetRequireAuth(true)

	assert.Equal(t, req, result)
	assert.True(t, req.RequireAuth)
}

func TestRequest_Chained(t *testing.T) {
	req := NewRequest(OpCancelOrder, "POST", "https://cex.io/api/cancel_order/").
		SetParam("id", "42").
		SetRequireAuth(true)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "42", req.Params["id"])
	assert.True(t, req.RequireAuth)
}
