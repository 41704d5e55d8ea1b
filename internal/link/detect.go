// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package link

import (
	"strings"

	"github.com/pdiddy/biofetch/pkg/types"
)

// Alias lists for join key detection, in precedence order. Matching is
// case-insensitive on the whole column name.
var (
	// GEOSampleAliases name the GEO sample accession column.
	GEOSampleAliases = []string{"GSM", "Sample", "Sample_ID", "GEO_accession"}

	// SRASampleAliases name the run-catalog column that carries GEO sample
	// accessions. SRA submissions brokered by GEO put the GSM in SampleName.
	SRASampleAliases = []string{"SampleName", "sample_name", "GEO_Accession"}
)

// DetectKey returns the column of t named by the earliest alias in aliases.
func DetectKey(t *types.Table, aliases []string) (string, bool) {
	cols := t.Columns()
	for _, alias := range aliases {
		for _, c := range cols {
			if strings.EqualFold(c, alias) {
				return c, true
			}
		}
	}
	return "", false
}

// resolveKeys applies explicit keys first and falls back to detection.
func resolveKeys(left, right *types.Table, opts Options) (string, string, error) {
	lk, rk := opts.LeftKey, opts.RightKey

	if lk != "" && !left.HasColumn(lk) {
		return "", "", &types.ColumnNotFoundError{Side: SideLeft, Column: lk}
	}
	if rk != "" && !right.HasColumn(rk) {
		return "", "", &types.ColumnNotFoundError{Side: SideRight, Column: rk}
	}

	if lk == "" {
		var ok bool
		if lk, ok = DetectKey(left, opts.leftAliases()); !ok {
			return "", "", &types.KeyNotFoundError{Side: SideLeft, Aliases: opts.leftAliases()}
		}
	}
	if rk == "" {
		var ok bool
		if rk, ok = DetectKey(right, opts.rightAliases()); !ok {
			return "", "", &types.KeyNotFoundError{Side: SideRight, Aliases: opts.rightAliases()}
		}
	}
	return lk, rk, nil
}

// normalizeKey returns the comparison form of a key value. Null and blank
// keys return false and never match.
func normalizeKey(v types.Value) (string, bool) {
	if v.IsNull() {
		return "", false
	}
	k := strings.ToLower(strings.TrimSpace(v.Text()))
	return k, k != ""
}
