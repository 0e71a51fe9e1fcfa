// Package signer implements CEX.io request authentication: nonce generation,
// HMAC-SHA256 signatures and the key/nonce/signature block private calls carry.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"cexio/pkg/core"
)

// Auth parameter names merged into private request bodies.
const (
	ParamKey       = "key"
	ParamNonce     = "nonce"
	ParamSignature = "signature"
)

// Sign returns the upper-case hex HMAC-SHA256 of nonce+username+apiKey keyed by apiSecret.
func Sign(username, apiKey, apiSecret, nonce string) string {
	h := hmac.New(sha256.New, []byte(apiSecret))
	h.Write([]byte(nonce + username + apiKey))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// NonceSource yields strictly increasing nonces derived from wall-clock milliseconds.
// It is safe for concurrent use.
type NonceSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewNonceSource creates a nonce source backed by time.Now.
func NewNonceSource() *NonceSource {
	return &NonceSource{now: time.Now}
}

// Next returns the current time in milliseconds, bumped past the previous
// nonce when two calls land in the same millisecond or the clock steps back.
func (n *NonceSource) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms := n.now().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	return strconv.FormatInt(ms, 10)
}

// Signer attaches auth blocks to private requests.
type Signer struct {
	nonces *NonceSource
}

// New creates a Signer with its own nonce source.
func New() *Signer {
	return &Signer{nonces: NewNonceSource()}
}

// NewWithNonceSource creates a Signer drawing nonces from src.
func NewWithNonceSource(src *NonceSource) *Signer {
	return &Signer{nonces: src}
}

// AttachAuth merges key, nonce and signature into params, allocating the map when nil.
// Existing keys are kept. It must be called once per request, right before dispatch.
func (s *Signer) AttachAuth(params core.Params, creds core.Credentials) core.Params {
	nonce := s.nonces.Next()
	if params == nil {
		params = make(core.Params, 3)
	}
	params[ParamKey] = creds.APIKey
	params[ParamNonce] = nonce
	params[ParamSignature] = Sign(creds.Username, creds.APIKey, creds.APISecret, nonce)
	return params
}
