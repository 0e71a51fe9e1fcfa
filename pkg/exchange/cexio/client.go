package cexio

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"cexio/internal/signer"
	"cexio/internal/transport"
	"cexio/pkg/core"
	"cexio/pkg/exchange"
)

// Client exposes one method per CEX.io endpoint and returns the decoded JSON
// body (map[string]any, []any or a scalar). It is safe for concurrent use.
type Client struct {
	config      *core.Config
	credentials *core.Credentials
	protocol    core.Protocol
	signer      *signer.Signer
	httpClient  *transport.Client
	logger      zerolog.Logger
	validate    *validator.Validate
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger      zerolog.Logger
	NonceSource *signer.NonceSource
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithNonceSource shares a nonce source between clients signing with the same API key.
func WithNonceSource(src *signer.NonceSource) Option {
	return func(o *Options) {
		o.NonceSource = src
	}
}

// New creates a new Client. Credentials are optional; without them only
// public endpoints can be called.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	httpClient, err := transport.NewClient(&transport.Config{
		Timeout:   config.Timeout,
		UserAgent: "cexio-go",
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	s := signer.New()
	if options.NonceSource != nil {
		s = signer.NewWithNonceSource(options.NonceSource)
	}

	var creds *core.Credentials
	if config.Credentials.Complete() {
		c := *config.Credentials
		creds = &c
	}

	return &Client{
		config:      config,
		credentials: creds,
		protocol:    NewProtocol(config.BaseURL),
		signer:      s,
		httpClient:  httpClient,
		logger:      options.Logger,
		validate:    validator.New(),
	}, nil
}

// Name returns "cexio".
func (c *Client) Name() string {
	return c.protocol.Name()
}

// HasCredentials reports whether private endpoints can be called.
func (c *Client) HasCredentials() bool {
	return c.credentials != nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// Do runs op with the given call value: build the request, sign it when the
// endpoint is private, dispatch it and decode the response.
func (c *Client) Do(ctx context.Context, op core.Operation, value any) (any, error) {
	req, err := c.protocol.BuildRequest(ctx, op, value)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if req.RequireAuth {
		if c.credentials == nil {
			return nil, core.NewExchangeError(
				c.Name(),
				core.ErrorTypeAuthentication,
				0,
				fmt.Sprintf("%s requires credentials", op),
			).WithCode(core.ErrCodeNoCredentials).WithCause(core.ErrNoCredentials)
		}
		req.Params = c.signer.AttachAuth(req.Params, *c.credentials)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, c.transportError(op, err)
	}

	result, err := c.protocol.ParseResponse(op, resp)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op.String()).Msg("request failed")
		return nil, err
	}
	return result, nil
}

func (c *Client) transportError(op core.Operation, err error) error {
	if errors.Is(err, core.ErrClientClosed) {
		return core.NewExchangeError(c.Name(), core.ErrorTypeUnknown, 0, err.Error()).
			WithCode(core.ErrCodeClientClosed).WithCause(err)
	}
	if transport.IsTimeout(err) {
		return core.NewExchangeError(c.Name(), core.ErrorTypeTimeout, 0, fmt.Sprintf("%s: %v", op, err)).
			WithCode(core.ErrCodeTimeout).WithCause(err)
	}
	return core.NewExchangeError(c.Name(), core.ErrorTypeNetwork, 0, fmt.Sprintf("%s: %v", op, err)).
		WithCode(core.ErrCodeNetwork).WithCause(err)
}

func (c *Client) pair(pair string) string {
	if pair == "" {
		return c.config.DefaultPair
	}
	return pair
}

// Ticker returns the ticker for pair, or the default pair when empty.
func (c *Client) Ticker(ctx context.Context, pair string) (any, error) {
	return c.Do(ctx, core.OpGetTicker, c.pair(pair))
}

// OrderBook returns the order book for pair.
func (c *Client) OrderBook(ctx context.Context, pair string) (any, error) {
	return c.Do(ctx, core.OpGetOrderBook, c.pair(pair))
}

// TradeHistory returns public trades for pair starting at the configured
// since, or the one given with exchange.WithSince.
func (c *Client) TradeHistory(ctx context.Context, pair string, opts ...exchange.Option) (any, error) {
	since := c.config.DefaultSince
	if o := exchange.ApplyOptions(opts...); o.Since != nil {
		since = *o.Since
	}
	return c.Do(ctx, core.OpGetTradeHistory, core.Call{
		Extension: c.pair(pair),
		Params:    core.Params{"since": since},
	})
}

// Balance returns the account balance. Requires credentials.
func (c *Client) Balance(ctx context.Context) (any, error) {
	return c.Do(ctx, core.OpGetBalance, nil)
}

// OpenOrders returns the open orders for pair. Requires credentials.
func (c *Client) OpenOrders(ctx context.Context, pair string) (any, error) {
	return c.Do(ctx, core.OpGetOpenOrders, c.pair(pair))
}

type placeOrderInput struct {
	Type   string `validate:"required,oneof=buy sell"`
	Amount string `validate:"required"`
	Price  string `validate:"required"`
	Pair   string `validate:"required"`
}

// PlaceOrder places a limit order. orderType is "buy" or "sell"; amount and
// price are positive decimal strings. Requires credentials.
func (c *Client) PlaceOrder(ctx context.Context, orderType, amount, price, pair string) (any, error) {
	in := placeOrderInput{Type: orderType, Amount: amount, Price: price, Pair: c.pair(pair)}
	if err := c.validate.Struct(in); err != nil {
		return nil, c.invalidParams(core.OpPlaceOrder, err)
	}
	if err := checkPositiveDecimal("amount", amount); err != nil {
		return nil, c.invalidParams(core.OpPlaceOrder, err)
	}
	if err := checkPositiveDecimal("price", price); err != nil {
		return nil, c.invalidParams(core.OpPlaceOrder, err)
	}

	return c.Do(ctx, core.OpPlaceOrder, core.Call{
		Extension: in.Pair,
		Params: core.Params{
			"type":   orderType,
			"amount": amount,
			"price":  price,
		},
	})
}

// CancelOrder cancels the order with the given id. Requires credentials.
func (c *Client) CancelOrder(ctx context.Context, id string) (any, error) {
	if err := c.validate.Var(id, "required"); err != nil {
		return nil, c.invalidParams(core.OpCancelOrder, fmt.Errorf("id: %w", err))
	}
	return c.Do(ctx, core.OpCancelOrder, core.Params{"id": id})
}

func (c *Client) invalidParams(op core.Operation, err error) error {
	return core.NewExchangeError(c.Name(), core.ErrorTypeBadRequest, 0, fmt.Sprintf("%s: %v", op, err)).
		WithCode(core.ErrCodeInvalidParams).WithCause(err)
}

func checkPositiveDecimal(field, s string) error {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%s %q is not a decimal: %w", field, s, err)
	}
	if d.Form != apd.Finite || d.Sign() <= 0 {
		return fmt.Errorf("%s %q must be a positive number", field, s)
	}
	return nil
}
