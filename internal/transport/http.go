// Package transport performs the one-shot HTTP calls behind every exchange operation.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"cexio/pkg/core"
)

// Client wraps a resty HTTP client with logging and configuration.
// Certificate verification is always on; there is no way to disable it.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
	closed atomic.Bool
}

// Config holds transport settings.
type Config struct {
	Timeout   time.Duration `validate:"min=1ms"`
	UserAgent string        `validate:"omitempty"`
}

// NewClient creates a new HTTP client with the specified configuration.
// Retries are disabled: every call is a single attempt.
func NewClient(config *Config, logger zerolog.Logger) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := resty.New()
	client.SetTimeout(config.Timeout)
	client.SetRetryCount(0)
	client.SetTLSClientConfig(&tls.Config{MinVersion: tls.VersionTLS12})

	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close releases the underlying HTTP client. Further calls fail with
// core.ErrClientClosed. It does not wait for in-flight requests.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.client.Close()
}

func paramsToStringMap(params core.Params) map[string]string {
	result := make(map[string]string, len(params))
	for k, v := range params {
		switch val := v.(type) {
		case string:
			result[k] = val
		case int:
			result[k] = strconv.Itoa(val)
		case int64:
			result[k] = strconv.FormatInt(val, 10)
		case float64:
			result[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			result[k] = strconv.FormatBool(val)
		case fmt.Stringer:
			result[k] = val.String()
		default:
			result[k] = fmt.Sprintf("%v", val)
		}
	}
	return result
}

// Do executes a request. GET parameters go to the query string and POST
// parameters to a form-encoded body. Only transport failures are returned as
// errors; any HTTP status is reported through the Response.
func (c *Client) Do(ctx context.Context, req *core.Request) (*core.Response, error) {
	if c.closed.Load() {
		return nil, core.ErrClientClosed
	}

	r := c.client.R().SetContext(ctx)

	var params map[string]string
	if len(req.Params) > 0 {
		params = paramsToStringMap(req.Params)
	}

	requestID := uuid.NewString()
	start := time.Now()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("op", req.Operation.String()).
		Str("method", req.Method).
		Str("url", req.URL).
		Bool("auth", req.RequireAuth).
		Msg("http request")

	var resp *resty.Response
	var err error

	switch req.Method {
	case http.MethodGet:
		if params != nil {
			r.SetQueryParams(params)
		}
		resp, err = r.Get(req.URL)
	case http.MethodPost:
		if params != nil {
			r.SetFormData(params)
		}
		resp, err = r.Post(req.URL)
	default:
		return nil, fmt.Errorf("unsupported http method: %s", req.Method)
	}

	if err != nil {
		c.logger.Error().Err(err).
			Str("request_id", requestID).
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}

	body := resp.Bytes()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode()).
		Int("size", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("http response")

	return &core.Response{
		StatusCode: resp.StatusCode(),
		Body:       body,
	}, nil
}

// IsTimeout reports whether err came from a deadline or client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
