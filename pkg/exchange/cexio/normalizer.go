package cexio

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"

	"cexio/pkg/core"
)

// Normalizer converts decoded CEX.io payloads to canonical core types.
// CEX.io mixes JSON numbers and numeric strings for the same fields, so every
// numeric field accepts both.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTicker converts a ticker payload.
func (n *Normalizer) NormalizeTicker(raw any, pair string) (*core.Ticker, error) {
	obj, err := asObject(raw, "ticker")
	if err != nil {
		return nil, err
	}

	ticker := &core.Ticker{Pair: pair}
	fields := []struct {
		name string
		dest *apd.Decimal
	}{
		{"bid", &ticker.Bid},
		{"ask", &ticker.Ask},
		{"last", &ticker.Last},
		{"high", &ticker.High},
		{"low", &ticker.Low},
		{"volume", &ticker.Volume},
	}
	for _, f := range fields {
		if err := parseDecimalFromAny(f.dest, obj[f.name]); err != nil {
			return nil, fmt.Errorf("parse ticker %s: %w", f.name, err)
		}
	}

	ticker.Timestamp, err = parseTimeFromAny(obj["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("parse ticker timestamp: %w", err)
	}
	return ticker, nil
}

// NormalizeOrderBook converts an order book payload with [price, amount] levels.
func (n *Normalizer) NormalizeOrderBook(raw any, pair string) (*core.OrderBook, error) {
	obj, err := asObject(raw, "order book")
	if err != nil {
		return nil, err
	}

	bids, err := parseLevels(obj["bids"])
	if err != nil {
		return nil, fmt.Errorf("parse bids: %w", err)
	}
	asks, err := parseLevels(obj["asks"])
	if err != nil {
		return nil, fmt.Errorf("parse asks: %w", err)
	}

	ts, err := parseTimeFromAny(obj["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("parse order book timestamp: %w", err)
	}

	return &core.OrderBook{
		Pair:      pair,
		Bids:      bids,
		Asks:      asks,
		Timestamp: ts,
	}, nil
}

func parseLevels(raw any) ([]core.OrderBookLevel, error) {
	if raw == nil {
		return []core.OrderBookLevel{}, nil
	}
	rows, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", raw)
	}

	levels := make([]core.OrderBookLevel, 0, len(rows))
	for i, row := range rows {
		pair, ok := row.([]any)
		if !ok || len(pair) < 2 {
			return nil, fmt.Errorf("level %d: expected [price, amount], got %v", i, row)
		}
		var level core.OrderBookLevel
		if err := parseDecimalFromAny(&level.Price, pair[0]); err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		if err := parseDecimalFromAny(&level.Amount, pair[1]); err != nil {
			return nil, fmt.Errorf("level %d amount: %w", i, err)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// NormalizeTrades converts a trade history payload.
func (n *Normalizer) NormalizeTrades(raw any, pair string) ([]core.Trade, error) {
	rows, err := asArray(raw, "trade history")
	if err != nil {
		return nil, err
	}

	trades := make([]core.Trade, 0, len(rows))
	for i, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("trade %d: expected object, got %T", i, row)
		}

		trade := core.Trade{
			ID:   stringFromAny(obj["tid"]),
			Pair: pair,
		}
		if side, ok := obj["type"].(string); ok {
			trade.Side, _ = core.ParseOrderSide(side)
		}
		if err := parseDecimalFromAny(&trade.Price, obj["price"]); err != nil {
			return nil, fmt.Errorf("trade %d price: %w", i, err)
		}
		if err := parseDecimalFromAny(&trade.Amount, obj["amount"]); err != nil {
			return nil, fmt.Errorf("trade %d amount: %w", i, err)
		}
		if trade.Timestamp, err = parseTimeFromAny(obj["date"]); err != nil {
			return nil, fmt.Errorf("trade %d date: %w", i, err)
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// NormalizeBalances converts a balance payload. Every object-valued key with an
// "available" field is a currency; the result is sorted by currency.
func (n *Normalizer) NormalizeBalances(raw any) ([]core.Balance, error) {
	obj, err := asObject(raw, "balance")
	if err != nil {
		return nil, err
	}

	balances := make([]core.Balance, 0, len(obj))
	for currency, v := range obj {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := entry["available"]; !ok {
			continue
		}
		b := core.Balance{Currency: currency}
		if err := parseDecimalFromAny(&b.Available, entry["available"]); err != nil {
			return nil, fmt.Errorf("%s available: %w", currency, err)
		}
		if err := parseDecimalFromAny(&b.Orders, entry["orders"]); err != nil {
			return nil, fmt.Errorf("%s orders: %w", currency, err)
		}
		balances = append(balances, b)
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Currency < balances[j].Currency
	})
	return balances, nil
}

// NormalizeOrder converts a single order payload.
func (n *Normalizer) NormalizeOrder(raw any, pair string) (*core.Order, error) {
	obj, err := asObject(raw, "order")
	if err != nil {
		return nil, err
	}

	order := &core.Order{
		ID:   stringFromAny(obj["id"]),
		Pair: pair,
	}
	if order.ID == "" {
		return nil, fmt.Errorf("order without id")
	}
	if side, ok := obj["type"].(string); ok {
		order.Side, _ = core.ParseOrderSide(side)
	}
	if err := parseDecimalFromAny(&order.Price, obj["price"]); err != nil {
		return nil, fmt.Errorf("order %s price: %w", order.ID, err)
	}
	if err := parseDecimalFromAny(&order.Amount, obj["amount"]); err != nil {
		return nil, fmt.Errorf("order %s amount: %w", order.ID, err)
	}
	if err := parseDecimalFromAny(&order.Pending, obj["pending"]); err != nil {
		return nil, fmt.Errorf("order %s pending: %w", order.ID, err)
	}
	if order.CreatedAt, err = parseTimeFromAny(obj["time"]); err != nil {
		return nil, fmt.Errorf("order %s time: %w", order.ID, err)
	}
	return order, nil
}

// NormalizeOrders converts an open orders payload.
func (n *Normalizer) NormalizeOrders(raw any, pair string) ([]core.Order, error) {
	rows, err := asArray(raw, "open orders")
	if err != nil {
		return nil, err
	}

	orders := make([]core.Order, 0, len(rows))
	for _, row := range rows {
		order, err := n.NormalizeOrder(row, pair)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// NormalizeCancel converts a cancel_order payload, a bare JSON boolean.
func (n *Normalizer) NormalizeCancel(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("cancel order: expected boolean, got %T", raw)
	}
}

func asObject(raw any, what string) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected object, got %T", what, raw)
	}
	return obj, nil
}

func asArray(raw any, what string) ([]any, error) {
	rows, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected array, got %T", what, raw)
	}
	return rows, nil
}

// parseDecimalFromAny leaves dest at zero for a missing (nil) value.
func parseDecimalFromAny(dest *apd.Decimal, val any) error {
	var s string
	switch v := val.(type) {
	case nil:
		dest.SetInt64(0)
		return nil
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		dest.SetInt64(v)
		return nil
	case int:
		dest.SetInt64(int64(v))
		return nil
	default:
		return fmt.Errorf("unsupported type for decimal: %T", val)
	}

	if _, _, err := apd.BaseContext.SetString(dest, s); err != nil {
		return fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return nil
}

// parseTimeFromAny reads a Unix timestamp in seconds, or milliseconds when the
// value is too large to be seconds. A missing value yields the zero time.
func parseTimeFromAny(val any) (time.Time, error) {
	var ts int64
	switch v := val.(type) {
	case nil:
		return time.Time{}, nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
		}
		ts = i
	case float64:
		ts = int64(v)
	case int64:
		ts = v
	default:
		return time.Time{}, fmt.Errorf("unsupported type for timestamp: %T", val)
	}

	if ts > 1e12 {
		return time.UnixMilli(ts), nil
	}
	return time.Unix(ts, 0), nil
}

func stringFromAny(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
