package core

// Operation represents a type of action that can be performed on an exchange.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetTicker retrieves current market ticker data for a pair.
	OpGetTicker Operation = iota
	// OpGetOrderBook retrieves the current order book depth.
	OpGetOrderBook
	// OpGetTradeHistory retrieves public trades since a trade id.
	OpGetTradeHistory
	// OpGetBalance retrieves account balance information.
	OpGetBalance
	// OpGetOpenOrders retrieves all open orders for a pair.
	OpGetOpenOrders
	// OpPlaceOrder submits a new order to the exchange.
	OpPlaceOrder
	// OpCancelOrder cancels an existing order.
	OpCancelOrder
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return "UNKNOWN"
	}
	return operationNames[o]
}

var operationNames = [...]string{
	"GET_TICKER",
	"GET_ORDER_BOOK",
	"GET_TRADE_HISTORY",
	"GET_BALANCE",
	"GET_OPEN_ORDERS",
	"PLACE_ORDER",
	"CANCEL_ORDER",
}
