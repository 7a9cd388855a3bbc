// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package remote

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// placeholderPrefix marks values copied unchanged from a config template.
const placeholderPrefix = "YOUR_"

// Config holds the settings for the hosted search service.
type Config struct {
	// AppID is the application identifier sent in X-Algolia-Application-Id.
	AppID string `yaml:"app-id"`

	// APIKey is the search-only key sent in X-Algolia-API-Key.
	APIKey string `yaml:"api-key"`

	// IndexName is the index holding the show lines.
	IndexName string `yaml:"index-name"`

	// HitsPerPage caps the number of hits returned by one query.
	// Default: 50
	HitsPerPage int `yaml:"hits-per-page"`

	// BaseURL overrides the service endpoint.
	// Default: https://{AppID}-dsn.algolia.net
	BaseURL string `yaml:"base-url"`

	// Timeout bounds a single HTTP request.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries after a failed attempt.
	// Default: 2
	MaxRetries int `yaml:"max-retries"`

	// RetryDelay is the first backoff delay; it doubles on each retry.
	// Default: 250ms
	RetryDelay time.Duration `yaml:"retry-delay"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithCredentials sets the application id and API key.
func WithCredentials(appID, apiKey string) ConfigOption {
	return func(c *Config) {
		c.AppID = appID
		c.APIKey = apiKey
	}
}

// WithIndexName sets the index to query.
func WithIndexName(name string) ConfigOption {
	return func(c *Config) {
		c.IndexName = name
	}
}

// WithHitsPerPage sets the maximum number of hits per query.
func WithHitsPerPage(n int) ConfigOption {
	return func(c *Config) {
		c.HitsPerPage = n
	}
}

// WithBaseURL sets the service endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetry sets the retry count and the initial backoff delay.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config with every optional field set. Credentials
// and the index name have no defaults.
func DefaultConfig() *Config {
	return &Config{
		HitsPerPage: 50,
		Timeout:     10 * time.Second,
		MaxRetries:  2,
		RetryDelay:  250 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithCredentials("APPID", "search-key"),
//	    WithIndexName("office_lines"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// LoadConfig reads a YAML config file over the defaults and validates it.
// A missing file is reported as ErrConfigMissing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrConfigMissing, err)
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize trims whitespace from every string field and derives BaseURL
// from AppID when it is not set.
func (c *Config) Normalize() {
	c.AppID = strings.TrimSpace(c.AppID)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.IndexName = strings.TrimSpace(c.IndexName)
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")

	if c.BaseURL == "" && c.AppID != "" {
		c.BaseURL = "https://" + c.AppID + "-dsn.algolia.net"
	}
}

// Validate checks that the configuration is usable.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	for _, field := range []struct{ name, value string }{
		{"app-id", c.AppID},
		{"api-key", c.APIKey},
		{"index-name", c.IndexName},
	} {
		if field.value == "" {
			return fmt.Errorf("%w: %s is required", ErrConfigMissing, field.name)
		}
		if strings.HasPrefix(field.value, placeholderPrefix) {
			return fmt.Errorf("%w: %s still holds a placeholder", ErrConfigMissing, field.name)
		}
	}

	if c.HitsPerPage < 1 || c.HitsPerPage > 1000 {
		return fmt.Errorf("%w: hits-per-page must be between 1 and 1000", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max-retries cannot be negative", ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry-delay cannot be negative", ErrInvalidConfig)
	}
	return nil
}
