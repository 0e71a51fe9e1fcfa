// Package config loads a core.Config from an optional file and CEXIO_*
// environment variables.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"cexio/pkg/core"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CEXIO"

// envBindings maps config keys to environment variables that do not follow
// the prefix + upper-cased key rule.
var envBindings = map[string]string{
	"credentials.username":   "CEXIO_USERNAME",
	"credentials.api_key":    "CEXIO_API_KEY",
	"credentials.api_secret": "CEXIO_API_SECRET",
}

// Load reads configuration in increasing priority: defaults from
// core.DefaultConfig, the file at path (YAML unless the extension says
// otherwise) and environment variables. An empty path skips the file.
// The result is validated before it is returned.
func Load(path string) (*core.Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		v.SetConfigFile(absPath)
		if filepath.Ext(absPath) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg core.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Credentials.IsZero() {
		cfg.Credentials = nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := core.DefaultConfig()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("default_pair", d.DefaultPair)
	v.SetDefault("default_since", d.DefaultSince)
	v.SetDefault("log_level", d.LogLevel)
}
