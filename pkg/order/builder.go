// Package order builds validated limit order requests.
package order

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"cexio/pkg/core"
	"cexio/pkg/exchange"
)

// Builder provides a fluent interface for constructing limit order requests.
// It keeps the first error and reports it on Build.
//
// Example:
//
//	req, err := order.NewBuilder("BTC/USD").
//	    Buy().
//	    Price("400").
//	    Amount("0.01").
//	    Build()
type Builder struct {
	req *exchange.OrderRequest
	err error
}

// NewBuilder creates a builder for pair. An empty pair leaves the choice to
// the client's default pair.
func NewBuilder(pair string) *Builder {
	return &Builder{
		req: &exchange.OrderRequest{Pair: pair},
	}
}

// Side sets the order side.
func (b *Builder) Side(side core.OrderSide) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Side = side
	return b
}

// Buy sets the order side to buy.
func (b *Builder) Buy() *Builder {
	return b.Side(core.SideBuy)
}

// Sell sets the order side to sell.
func (b *Builder) Sell() *Builder {
	return b.Side(core.SideSell)
}

// Price sets the limit price from its decimal string form.
func (b *Builder) Price(price string) *Builder {
	if b.err != nil {
		return b
	}
	if _, _, err := b.req.Price.SetString(price); err != nil {
		b.err = fmt.Errorf("parse price: %w", err)
	}
	return b
}

// PriceDecimal sets the limit price.
func (b *Builder) PriceDecimal(price apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Price.Set(&price)
	return b
}

// Amount sets the order amount from its decimal string form.
func (b *Builder) Amount(amount string) *Builder {
	if b.err != nil {
		return b
	}
	if _, _, err := b.req.Amount.SetString(amount); err != nil {
		b.err = fmt.Errorf("parse amount: %w", err)
	}
	return b
}

// AmountDecimal sets the order amount.
func (b *Builder) AmountDecimal(amount apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Amount.Set(&amount)
	return b
}

// Build validates and returns the request.
func (b *Builder) Build() (*exchange.OrderRequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := Validate(b.req); err != nil {
		return nil, err
	}
	return b.req, nil
}

// Validate checks that req has a side and a positive, finite amount and price.
func Validate(req *exchange.OrderRequest) error {
	if req.Side != core.SideBuy && req.Side != core.SideSell {
		return fmt.Errorf("invalid order side")
	}
	if !positive(&req.Amount) {
		return fmt.Errorf("amount must be positive")
	}
	if !positive(&req.Price) {
		return fmt.Errorf("price must be positive")
	}
	return nil
}

func positive(d *apd.Decimal) bool {
	return d.Form == apd.Finite && d.Sign() > 0
}
