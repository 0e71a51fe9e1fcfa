package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideUnknown is used when the exchange did not report a side.
	SideUnknown OrderSide = iota
	// SideBuy indicates an order to purchase an asset.
	SideBuy
	// SideSell indicates an order to sell an asset.
	SideSell
)

// String returns the wire form of the order side ("buy" or "sell").
func (s OrderSide) String() string {
	if s < 0 || int(s) >= len(orderSideNames) {
		return "unknown"
	}
	return orderSideNames[s]
}

var orderSideNames = [...]string{"unknown", "buy", "sell"}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderSide.
// It accepts both uppercase and lowercase formats.
func (s *OrderSide) UnmarshalJSON(data []byte) error {
	side, err := ParseOrderSide(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseOrderSide parses "buy" or "sell" in any case.
func ParseOrderSide(s string) (OrderSide, error) {
	switch strings.ToLower(s) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return SideUnknown, fmt.Errorf("unknown order side %q", s)
	}
}

// Ticker represents real-time market data for a trading pair.
type Ticker struct {
	// Pair is the trading pair identifier (e.g., "BTC/USD").
	Pair string `json:"pair"`
	// Bid is the highest price a buyer is willing to pay.
	Bid apd.Decimal `json:"bid"`
	// Ask is the lowest price a seller is willing to accept.
	Ask apd.Decimal `json:"ask"`
	// Last is the price of the most recent trade.
	Last apd.Decimal `json:"last"`
	// High is the highest price in the last 24 hours.
	High apd.Decimal `json:"high"`
	// Low is the lowest price in the last 24 hours.
	Low apd.Decimal `json:"low"`
	// Volume is the total trading volume in the last 24 hours.
	Volume apd.Decimal `json:"volume"`
	// Timestamp is when the exchange generated this ticker.
	Timestamp time.Time `json:"timestamp"`
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	Price  apd.Decimal `json:"price"`
	Amount apd.Decimal `json:"amount"`
}

// OrderBook is a snapshot of the order book for a trading pair.
type OrderBook struct {
	Pair string `json:"pair"`
	// Bids are buy orders sorted by price descending.
	Bids []OrderBookLevel `json:"bids"`
	// Asks are sell orders sorted by price ascending.
	Asks      []OrderBookLevel `json:"asks"`
	Timestamp time.Time        `json:"timestamp"`
}

// Trade is a single public trade from the trade history.
type Trade struct {
	ID        string      `json:"id"`
	Pair      string      `json:"pair"`
	Side      OrderSide   `json:"side"`
	Price     apd.Decimal `json:"price"`
	Amount    apd.Decimal `json:"amount"`
	Timestamp time.Time   `json:"timestamp"`
}

// Balance represents account balance for a single currency.
type Balance struct {
	// Currency is the asset symbol (e.g., "BTC").
	Currency string `json:"currency"`
	// Available is the balance free for trading.
	Available apd.Decimal `json:"available"`
	// Orders is the balance locked in open orders.
	Orders apd.Decimal `json:"orders"`
}

// Order represents an order as reported by place_order and open_orders.
type Order struct {
	ID   string    `json:"id"`
	Pair string    `json:"pair"`
	Side OrderSide `json:"side"`
	// Price is the limit price.
	Price apd.Decimal `json:"price"`
	// Amount is the total order amount.
	Amount apd.Decimal `json:"amount"`
	// Pending is the amount not yet executed.
	Pending   apd.Decimal `json:"pending"`
	CreatedAt time.Time   `json:"created_at"`
}

// Filled returns the executed part of the order, Amount minus Pending.
func (o *Order) Filled() (apd.Decimal, error) {
	var filled apd.Decimal
	if _, err := apd.BaseContext.Sub(&filled, &o.Amount, &o.Pending); err != nil {
		return apd.Decimal{}, fmt.Errorf("compute filled amount: %w", err)
	}
	return filled, nil
}

// IsOpen reports whether part of the order is still waiting to execute.
func (o *Order) IsOpen() bool {
	return o.Pending.Sign() > 0
}
