package cexio

import (
	"context"
	"fmt"

	"cexio/pkg/core"
	"cexio/pkg/exchange"
	"cexio/pkg/order"
)

// Exchange implements exchange.Exchange for CEX.io by normalizing the raw
// responses of a Client into canonical core types.
type Exchange struct {
	client     *Client
	normalizer *Normalizer
}

// NewExchange creates a typed exchange with its own Client.
func NewExchange(config *core.Config, opts ...Option) (*Exchange, error) {
	client, err := New(config, opts...)
	if err != nil {
		return nil, err
	}
	return NewExchangeFromClient(client), nil
}

// NewExchangeFromClient wraps an existing Client.
func NewExchangeFromClient(client *Client) *Exchange {
	return &Exchange{
		client:     client,
		normalizer: NewNormalizer(),
	}
}

// Client returns the underlying raw client.
func (e *Exchange) Client() *Client {
	return e.client
}

// Name returns the exchange identifier "cexio".
func (e *Exchange) Name() string {
	return e.client.Name()
}

// Close releases the underlying HTTP client.
func (e *Exchange) Close() error {
	return e.client.Close()
}

// GetTicker retrieves the ticker for pair.
func (e *Exchange) GetTicker(ctx context.Context, pair string) (*core.Ticker, error) {
	pair = e.client.pair(pair)
	raw, err := e.client.Ticker(ctx, pair)
	if err != nil {
		return nil, err
	}
	ticker, err := e.normalizer.NormalizeTicker(raw, pair)
	if err != nil {
		return nil, e.decodeError(core.OpGetTicker, err)
	}
	return ticker, nil
}

// GetOrderBook retrieves the order book for pair.
func (e *Exchange) GetOrderBook(ctx context.Context, pair string) (*core.OrderBook, error) {
	pair = e.client.pair(pair)
	raw, err := e.client.OrderBook(ctx, pair)
	if err != nil {
		return nil, err
	}
	book, err := e.normalizer.NormalizeOrderBook(raw, pair)
	if err != nil {
		return nil, e.decodeError(core.OpGetOrderBook, err)
	}
	return book, nil
}

// GetTrades retrieves public trades for pair.
func (e *Exchange) GetTrades(ctx context.Context, pair string, opts ...exchange.Option) ([]core.Trade, error) {
	pair = e.client.pair(pair)
	raw, err := e.client.TradeHistory(ctx, pair, opts...)
	if err != nil {
		return nil, err
	}
	trades, err := e.normalizer.NormalizeTrades(raw, pair)
	if err != nil {
		return nil, e.decodeError(core.OpGetTradeHistory, err)
	}
	return trades, nil
}

// GetBalance retrieves account balances sorted by currency.
func (e *Exchange) GetBalance(ctx context.Context) ([]core.Balance, error) {
	raw, err := e.client.Balance(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := e.normalizer.NormalizeBalances(raw)
	if err != nil {
		return nil, e.decodeError(core.OpGetBalance, err)
	}
	return balances, nil
}

// GetOpenOrders retrieves open orders for pair.
func (e *Exchange) GetOpenOrders(ctx context.Context, pair string) ([]core.Order, error) {
	pair = e.client.pair(pair)
	raw, err := e.client.OpenOrders(ctx, pair)
	if err != nil {
		return nil, err
	}
	orders, err := e.normalizer.NormalizeOrders(raw, pair)
	if err != nil {
		return nil, e.decodeError(core.OpGetOpenOrders, err)
	}
	return orders, nil
}

// PlaceOrder places a limit order.
func (e *Exchange) PlaceOrder(ctx context.Context, req *exchange.OrderRequest) (*core.Order, error) {
	if req == nil {
		return nil, e.client.invalidParams(core.OpPlaceOrder, fmt.Errorf("order request is required"))
	}
	if err := order.Validate(req); err != nil {
		return nil, e.client.invalidParams(core.OpPlaceOrder, err)
	}

	pair := e.client.pair(req.Pair)
	raw, err := e.client.PlaceOrder(ctx, req.Side.String(), req.Amount.Text('f'), req.Price.Text('f'), pair)
	if err != nil {
		return nil, err
	}
	placed, err := e.normalizer.NormalizeOrder(raw, pair)
	if err != nil {
		return nil, e.decodeError(core.OpPlaceOrder, err)
	}
	return placed, nil
}

// CancelOrder cancels an order and reports whether CEX.io accepted the cancellation.
func (e *Exchange) CancelOrder(ctx context.Context, req *exchange.CancelRequest) (bool, error) {
	if req == nil {
		return false, e.client.invalidParams(core.OpCancelOrder, fmt.Errorf("cancel request is required"))
	}
	raw, err := e.client.CancelOrder(ctx, req.OrderID)
	if err != nil {
		return false, err
	}
	ok, err := e.normalizer.NormalizeCancel(raw)
	if err != nil {
		return false, e.decodeError(core.OpCancelOrder, err)
	}
	return ok, nil
}

func (e *Exchange) decodeError(op core.Operation, err error) error {
	return core.NewExchangeError(e.Name(), core.ErrorTypeServerError, 0, fmt.Sprintf("normalize %s: %v", op, err)).
		WithCode(core.ErrCodeDecode).WithCause(err)
}

var _ exchange.Exchange = (*Exchange)(nil)
