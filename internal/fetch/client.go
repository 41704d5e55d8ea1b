// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves raw metadata from GEO, SRA (NCBI E-utilities) and
// the ENA portal API, and tokenizes each wire format into RawRecords for the
// source adapters.
//
// All NCBI calls share one rate limiter so concurrent GEO and SRA fetches
// stay within the E-utilities quota (3 requests per second, 10 with an API
// key).
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/biofetch/internal/httputil"
	"github.com/pdiddy/biofetch/internal/schema"
	"github.com/pdiddy/biofetch/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "biofetch"

	// enaRequestsPerSecond stays well under the portal's documented limit.
	enaRequestsPerSecond = 10

	// maxBodyBytes bounds a single response body.
	maxBodyBytes = 512 << 20
)

// Client fetches raw records from the public archives.
type Client struct {
	HTTP *http.Client

	cfg    types.FetchConfig
	urls   types.EndpointsConfig
	ncbi   *rate.Limiter
	ena    *rate.Limiter
	logger *slog.Logger
}

// New returns a Client for cfg. A nil logger uses slog.Default().
func New(cfg types.FetchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	urls := types.EndpointsConfig{
		GEO:    firstSet(cfg.Endpoints.GEO, geoQueryBase),
		EUtils: firstSet(cfg.Endpoints.EUtils, eutilsBase),
		ENA:    firstSet(cfg.Endpoints.ENA, enaSearchBase),
	}
	if !strings.HasSuffix(urls.EUtils, "/") {
		urls.EUtils += "/"
	}
	return &Client{
		HTTP:   &http.Client{Timeout: timeout},
		cfg:    cfg,
		urls:   urls,
		ncbi:   rate.NewLimiter(rate.Limit(cfg.RateLimit()), 1),
		ena:    rate.NewLimiter(rate.Limit(enaRequestsPerSecond), 1),
		logger: logger,
	}
}

// Fetch retrieves raw records for id from src.
func (c *Client) Fetch(ctx context.Context, src schema.Source, id string) ([]types.RawRecord, error) {
	switch src {
	case schema.GEO:
		return c.GEOSeries(ctx, id)
	case schema.SRA:
		return c.SRARunInfo(ctx, id)
	case schema.ENA:
		return c.ENAReadRuns(ctx, id)
	}
	return nil, fmt.Errorf("fetch %q: %w", src, types.ErrUnknownSource)
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Service, e.Code)
}

// get issues a GET against base with params and returns the body. A 204
// response yields a nil body.
func (c *Client) get(ctx context.Context, service, base string, params url.Values, lim *rate.Limiter) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, httputil.Policy{
		MaxRetries: c.cfg.MaxRetries,
		Limiter:    lim,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("http get", "service", service, "endpoint", base, "status", resp.StatusCode, "elapsed", time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, &StatusError{Service: service, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", service, err)
	}
	return body, nil
}

// ncbiParams returns the etiquette parameters E-utilities asks callers to
// send with every request.
func (c *Client) ncbiParams() url.Values {
	v := url.Values{}
	v.Set("tool", defaultUserAgent)
	if c.cfg.NCBI.Email != "" {
		v.Set("email", c.cfg.NCBI.Email)
	}
	if c.cfg.NCBI.APIKey != "" {
		v.Set("api_key", c.cfg.NCBI.APIKey)
	}
	return v
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
