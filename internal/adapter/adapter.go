// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package adapter normalizes raw, source-specific records into Result Tables
// that conform to the canonical schema registry. There is one adapter per
// source (GEO, SRA, ENA); each is a pure function of its input, driven by an
// explicit raw-field to canonical-column mapping table.
package adapter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/biofetch/internal/schema"
	"github.com/pdiddy/biofetch/pkg/types"
)

// Adapter maps raw records of one source into canonical records.
type Adapter interface {
	Source() schema.Source
	// Normalize returns one canonical record per raw record, capped at the
	// first limit records when limit >= 0 (types.Unlimited keeps all).
	Normalize(records []types.RawRecord, limit int) (*types.Table, error)
}

// extractor pulls the raw text for one canonical column out of a record.
// The boolean is false when the record has no value for it.
type extractor func(types.RawRecord) (string, bool)

// first reads the first non-blank value of a raw field.
func first(key string) extractor {
	return func(r types.RawRecord) (string, bool) { return r.First(key) }
}

// joined reads every non-blank value of a raw field, joined with "; ".
func joined(key string) extractor {
	return func(r types.RawRecord) (string, bool) { return r.Joined(key, "; ") }
}

// mapping is a table-driven Adapter. It holds no mutable state.
type mapping struct {
	source schema.Source
	// required is the raw field that identifies a record. A non-empty input
	// in which no record carries it is structurally unrecognizable.
	required string
	columns  map[string]extractor
}

func (m *mapping) Source() schema.Source { return m.source }

func (m *mapping) Normalize(records []types.RawRecord, limit int) (*types.Table, error) {
	fields, err := schema.Fields(m.source)
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	if len(records) > 0 && !anyHas(records, m.required) {
		return nil, &types.ParseError{
			Source: string(m.source),
			Reason: fmt.Sprintf("none of %d records has field %q", len(records), m.required),
		}
	}

	n := len(records)
	if limit >= 0 && limit < n {
		n = limit
	}

	rows := make([]types.Row, 0, n)
	for _, rec := range records[:n] {
		row := make(types.Row, len(fields))
		for i, f := range fields {
			extract, ok := m.columns[f.Name]
			if !ok {
				continue
			}
			if raw, ok := extract(rec); ok {
				row[i] = coerce(raw, f.Kind)
			}
		}
		rows = append(rows, row)
	}
	return types.NewTable(cols, rows)
}

func anyHas(records []types.RawRecord, key string) bool {
	for _, r := range records {
		if r.Has(key) {
			return true
		}
	}
	return false
}

// coerce converts raw text to the column's value domain. Text that does not
// parse as the declared numeric kind becomes null.
func coerce(raw string, kind types.Kind) types.Value {
	raw = strings.TrimSpace(raw)
	switch kind {
	case types.KindInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return types.Null()
		}
		return types.Int(i)
	case types.KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return types.Null()
		}
		return types.Float(f)
	default:
		return types.String(raw)
	}
}

// For returns the adapter registered for src.
func For(src schema.Source) (Adapter, error) {
	switch src {
	case schema.GEO:
		return GEO(), nil
	case schema.SRA:
		return SRA(), nil
	case schema.ENA:
		return ENA(), nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownSource, string(src))
}
