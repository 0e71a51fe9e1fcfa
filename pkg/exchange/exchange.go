package exchange

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"cexio/pkg/core"
)

// Exchange defines the typed interface for interacting with a cryptocurrency exchange.
// Implementations normalize exchange payloads into canonical core types.
type Exchange interface {
	Name() string

	GetTicker(ctx context.Context, pair string) (*core.Ticker, error)
	GetOrderBook(ctx context.Context, pair string) (*core.OrderBook, error)
	GetTrades(ctx context.Context, pair string, opts ...Option) ([]core.Trade, error)

	GetBalance(ctx context.Context) ([]core.Balance, error)
	GetOpenOrders(ctx context.Context, pair string) ([]core.Order, error)

	PlaceOrder(ctx context.Context, req *OrderRequest) (*core.Order, error)
	CancelOrder(ctx context.Context, req *CancelRequest) (bool, error)

	Close() error
}

// OrderRequest contains the parameters required to place a new limit order.
type OrderRequest struct {
	// Pair defaults to the configured pair when empty.
	Pair   string
	Side   core.OrderSide
	Amount apd.Decimal
	Price  apd.Decimal
}

// CancelRequest contains the parameters required to cancel an existing order.
type CancelRequest struct {
	OrderID string
}
