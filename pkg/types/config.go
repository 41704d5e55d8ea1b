// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the retrieval layer.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "biofetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// NCBIConfig holds E-utilities etiquette settings. NCBI allows 3 requests
// per second without an API key and 10 with one.
type NCBIConfig struct {
	// APIKey raises the E-utilities rate limit when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email identifies the caller to NCBI.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// RequestsPerSecond overrides the derived rate limit when positive.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// EndpointsConfig overrides archive base URLs, e.g. to point at a mirror
// or a local test server. Empty fields use the public endpoints.
type EndpointsConfig struct {
	// GEO is the GEO accession display endpoint (acc.cgi).
	GEO string `json:"geo,omitempty" yaml:"geo,omitempty" mapstructure:"geo"`

	// EUtils is the E-utilities root holding esearch.fcgi and efetch.fcgi.
	EUtils string `json:"eutils,omitempty" yaml:"eutils,omitempty" mapstructure:"eutils"`

	// ENA is the ENA portal search endpoint.
	ENA string `json:"ena,omitempty" yaml:"ena,omitempty" mapstructure:"ena"`
}

// FetchConfig holds settings for the retrieval stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:"http"`

	NCBI NCBIConfig `json:"ncbi" yaml:"ncbi" mapstructure:"ncbi"`

	Endpoints EndpointsConfig `json:"endpoints" yaml:"endpoints" mapstructure:"endpoints"`
}

// RateLimit returns the request rate to use against NCBI endpoints.
func (c FetchConfig) RateLimit() float64 {
	switch {
	case c.NCBI.RequestsPerSecond > 0:
		return c.NCBI.RequestsPerSecond
	case c.NCBI.APIKey != "":
		return 10
	default:
		return 3
	}
}

// StoreConfig holds settings for the snapshot store.
type StoreConfig struct {
	// Path is the SQLite database file (default "biofetch.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig selects the structured log level: debug, info, warn, or error.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups all stage configurations.
type Config struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch" mapstructure:",squash"`
	Store StoreConfig `json:"store" yaml:"store" mapstructure:"store"`
	Log   LogConfig   `json:"log" yaml:"log" mapstructure:"log"`
}
