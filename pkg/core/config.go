package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ProductionURL is the CEX.io REST API base URL.
const ProductionURL = "https://cex.io/api"

// Credentials holds API authentication credentials for CEX.io.
type Credentials struct {
	// Username is the CEX.io account username; it is part of the signed message.
	Username string `json:"username" mapstructure:"username"`
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key" mapstructure:"api_key"`
	// APISecret is the private key used for signing requests.
	APISecret string `json:"api_secret" mapstructure:"api_secret"`
}

// IsZero reports whether no credential field is set.
func (c *Credentials) IsZero() bool {
	return c == nil || (c.Username == "" && c.APIKey == "" && c.APISecret == "")
}

// Complete reports whether every field needed for signing is set.
func (c *Credentials) Complete() bool {
	return c != nil && c.Username != "" && c.APIKey != "" && c.APISecret != ""
}

// String masks the key material so credentials are safe to log.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Username:%s, APIKey:%s}", c.Username, maskKey(c.APIKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for a CEX.io client.
type Config struct {
	BaseURL     string       `json:"base_url" mapstructure:"base_url" validate:"required,url"`
	Credentials *Credentials `json:"credentials,omitempty" mapstructure:"credentials"`

	// Timeout is the maximum duration for HTTP requests.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" validate:"min=1ms"`

	// DefaultPair is used by pair-scoped calls made with an empty pair.
	DefaultPair string `json:"default_pair" mapstructure:"default_pair" validate:"required"`
	// DefaultSince is the trade id trade history starts from when none is given.
	DefaultSince int64 `json:"default_since" mapstructure:"default_since" validate:"min=0"`

	LogLevel string `json:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with sensible defaults.
// Default values: production URL, 10s timeout, BTC/USD pair, trade history since 10.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      ProductionURL,
		Timeout:      10 * time.Second,
		DefaultPair:  "BTC/USD",
		DefaultSince: 10,
		LogLevel:     "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !c.Credentials.IsZero() && !c.Credentials.Complete() {
		return errors.New("Credentials must set Username, APIKey and APISecret together")
	}
	return nil
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithBaseURL sets the API base URL and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithDefaultPair sets the pair used when a call leaves it empty.
func (c *Config) WithDefaultPair(pair string) *Config {
	c.DefaultPair = pair
	return c
}
