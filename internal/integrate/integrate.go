// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package integrate links a GEO sample table with an SRA run table. It wraps
// the linkage engine with the outcomes the CLI needs: a table that failed to
// expose a sample key, or a side that came back empty, produces an empty
// table with the union schema and a notice instead of an error.
package integrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/biofetch/internal/adapter"
	"github.com/pdiddy/biofetch/internal/link"
	"github.com/pdiddy/biofetch/pkg/types"
)

// Result is the outcome of a merge.
type Result struct {
	Table *types.Table

	// Notice explains an empty result that is not an error. It is empty when
	// the linkage ran normally, even if no rows matched.
	Notice string
}

// Merge links left (GEO) and right (SRA). A KeyNotFoundError becomes an
// empty result with the union schema; every other error is returned.
func Merge(left, right *types.Table, opts link.Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	out, err := link.Link(left, right, opts)
	if err == nil {
		logger.Debug("linked tables",
			"left_rows", left.Len(), "right_rows", right.Len(), "rows", out.Len(), "how", string(opts.How))
		return Result{Table: out}, nil
	}

	var knf *types.KeyNotFoundError
	if !errors.As(err, &knf) {
		return Result{}, err
	}
	empty, serr := emptyUnion(left, right, opts)
	if serr != nil {
		return Result{}, serr
	}
	notice := fmt.Sprintf("no sample key in %s table; returning empty merge", knf.Side)
	logger.Warn(notice, "aliases", knf.Aliases)
	return Result{Table: empty, Notice: notice}, nil
}

// Fetcher retrieves raw records for the two linked catalogs.
// *fetch.Client satisfies it.
type Fetcher interface {
	GEOSeries(ctx context.Context, gse string) ([]types.RawRecord, error)
	SRARunInfo(ctx context.Context, term string) ([]types.RawRecord, error)
}

// FetchAndMerge retrieves and normalizes a GEO series and an SRA search term
// concurrently, then merges them. If either normalized table has no rows the
// result is the empty union-schema table with a notice.
func FetchAndMerge(ctx context.Context, f Fetcher, gse, sraTerm string, geoLimit, sraLimit int, opts link.Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var geo, sra *types.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := f.GEOSeries(gctx, gse)
		if err != nil {
			return fmt.Errorf("fetching GEO %s: %w", gse, err)
		}
		geo, err = adapter.GEO().Normalize(recs, geoLimit)
		if err != nil {
			return fmt.Errorf("normalizing GEO %s: %w", gse, err)
		}
		return nil
	})
	g.Go(func() error {
		recs, err := f.SRARunInfo(gctx, sraTerm)
		if err != nil {
			return fmt.Errorf("fetching SRA %s: %w", sraTerm, err)
		}
		sra, err = adapter.SRA().Normalize(recs, sraLimit)
		if err != nil {
			return fmt.Errorf("normalizing SRA %s: %w", sraTerm, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	logger.Info("fetched tables", "gse", gse, "geo_rows", geo.Len(), "sra_term", sraTerm, "sra_rows", sra.Len())
	return Combine(geo, sra, opts, logger)
}

// Combine merges a GEO and an SRA table. If either has no rows the result
// is the empty union-schema table with a notice naming the empty side.
func Combine(geo, sra *types.Table, opts link.Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if geo.Len() > 0 && sra.Len() > 0 {
		return Merge(geo, sra, opts, logger)
	}

	empty, err := emptyUnion(geo, sra, opts)
	if err != nil {
		return Result{}, err
	}
	side := "GEO"
	if geo.Len() > 0 {
		side = "SRA"
	}
	notice := fmt.Sprintf("%s table has no records; returning empty merge", side)
	logger.Warn(notice)
	return Result{Table: empty, Notice: notice}, nil
}

func emptyUnion(left, right *types.Table, opts link.Options) (*types.Table, error) {
	cols, err := link.Schema(left, right, opts)
	if err != nil {
		return nil, err
	}
	return types.EmptyTable(cols)
}
