// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/biofetch/internal/fetch"
	"github.com/pdiddy/biofetch/internal/httputil"
	"github.com/pdiddy/biofetch/internal/store"
	"github.com/pdiddy/biofetch/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = httputil.DefaultMaxRetries
	defaultLogLevel   = "warn"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", "biofetch/"+version)
	v.SetDefault("http.max_retries", defaultMaxRetries)
	v.SetDefault("ncbi.requests_per_second", 0)
	v.SetDefault("ncbi.email", "")
	v.SetDefault("ncbi.api_key", "")
	v.SetDefault("endpoints.geo", "")
	v.SetDefault("endpoints.eutils", "")
	v.SetDefault("endpoints.ena", "")
	v.SetDefault("store.path", store.DefaultPath)
	v.SetDefault("log.level", defaultLogLevel)
}

// loadConfig decodes the merged viper settings (defaults, config file,
// BIOFETCH_* environment, bound flags) into a Config.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if c.Fetch.MaxRetries < 0 {
		return types.Config{}, fmt.Errorf("http.max_retries must be >= 0 (0 disables retries), got %d", c.Fetch.MaxRetries)
	}
	if c.Fetch.NCBI.RequestsPerSecond < 0 {
		return types.Config{}, fmt.Errorf("ncbi.requests_per_second must be >= 0, got %g", c.Fetch.NCBI.RequestsPerSecond)
	}
	return c, nil
}

// newLogger returns a text logger on stderr at level.
func newLogger(level string) (*slog.Logger, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = defaultLogLevel
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// describe renders err with its kind so a failed run names what went wrong
// and the offending identifier.
func describe(err error) string {
	var (
		pe  *types.ParseError
		cnf *types.ColumnNotFoundError
		knf *types.KeyNotFoundError
		se  *fetch.StatusError
	)
	switch {
	case errors.As(err, &pe):
		return "parse error: " + err.Error()
	case errors.As(err, &cnf):
		return "column not found: " + err.Error()
	case errors.As(err, &knf):
		return "key not found: " + err.Error()
	case errors.As(err, &se):
		return "remote error: " + err.Error()
	case errors.Is(err, types.ErrInvalidAccession):
		return "invalid accession: " + err.Error()
	case errors.Is(err, types.ErrUnknownSource):
		return "unknown source: " + err.Error()
	case errors.Is(err, store.ErrNotFound):
		return "snapshot not found: " + err.Error()
	}
	return err.Error()
}
