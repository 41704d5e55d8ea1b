// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pdiddy/biofetch/pkg/types"
)

// ParseDelimited reads a header-keyed delimited table into RawRecords, one
// per data row. Blank lines and rows that repeat the header are skipped.
// Short rows map only the columns they have; extra cells are dropped.
func ParseDelimited(r io.Reader, sep rune) ([]types.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var recs []types.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if blank(row) || slices.Equal(trimmed(row), header) {
			continue
		}
		rec := make(types.RawRecord, len(header))
		for i, v := range row {
			if i >= len(header) {
				break
			}
			rec.Add(header[i], v)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimmed(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
