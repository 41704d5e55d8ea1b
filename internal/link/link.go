// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package link joins two Result Tables on a sample identifier column. It is
// used to link a GEO sample table (left) with an SRA run table (right) when
// both describe the same biological samples.
//
// Keys are either supplied explicitly or detected from fixed alias lists.
// Key values are compared trimmed and lower-cased; null keys never match.
// Duplicate keys produce the full cross product of matching rows.
package link

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/biofetch/pkg/types"
)

// How selects which unmatched rows a join keeps.
type How string

const (
	Inner How = "inner"
	Left  How = "left"
	Right How = "right"
	Outer How = "outer"
)

// ParseHow maps a join mode name to a How. The empty string is Inner.
func ParseHow(s string) (How, error) {
	switch h := How(strings.ToLower(strings.TrimSpace(s))); h {
	case "":
		return Inner, nil
	case Inner, Left, Right, Outer:
		return h, nil
	}
	return "", fmt.Errorf("unknown join mode %q (want inner, left, right, or outer)", s)
}

func (h How) keepsLeft() bool  { return h == Left || h == Outer }
func (h How) keepsRight() bool { return h == Right || h == Outer }

// Side names used in errors.
const (
	SideLeft  = "left"
	SideRight = "right"
)

// Default suffixes for column names present in both tables.
const (
	DefaultLeftSuffix  = "_geo"
	DefaultRightSuffix = "_sra"
)

// Options configures Link. The zero value is an inner join with detected
// keys and the default suffixes.
type Options struct {
	LeftKey  string
	RightKey string
	How      How

	LeftSuffix  string
	RightSuffix string

	// LeftAliases and RightAliases override the detection alias lists.
	LeftAliases  []string
	RightAliases []string
}

func (o Options) leftAliases() []string {
	if len(o.LeftAliases) > 0 {
		return o.LeftAliases
	}
	return GEOSampleAliases
}

func (o Options) rightAliases() []string {
	if len(o.RightAliases) > 0 {
		return o.RightAliases
	}
	return SRASampleAliases
}

func (o Options) suffixes() (string, string) {
	ls, rs := o.LeftSuffix, o.RightSuffix
	if ls == "" {
		ls = DefaultLeftSuffix
	}
	if rs == "" {
		rs = DefaultRightSuffix
	}
	return ls, rs
}

// Link joins left and right and returns a new table. The output holds the
// left columns followed by the right columns; names present in both get
// the side suffixes, except when the two key columns share a name, in which
// case a single key column is kept and filled from whichever side is
// present.
//
// Rows follow left order, with each left row's matches in right order.
// Unmatched left rows stay in place for left and outer joins; unmatched
// right rows are appended in right order for right and outer joins.
func Link(left, right *types.Table, opts Options) (*types.Table, error) {
	how, err := ParseHow(string(opts.How))
	if err != nil {
		return nil, err
	}

	lk, rk, err := resolveKeys(left, right, opts)
	if err != nil {
		return nil, err
	}

	ls, rs := opts.suffixes()
	lay, err := planColumns(left.Columns(), right.Columns(), lk, rk, ls, rs)
	if err != nil {
		return nil, err
	}

	lkIdx, _ := left.ColumnIndex(lk)
	rkIdx, _ := right.ColumnIndex(rk)

	byKey := make(map[string][]int)
	for j := 0; j < right.Len(); j++ {
		if k, ok := normalizeKey(right.Row(j)[rkIdx]); ok {
			byKey[k] = append(byKey[k], j)
		}
	}

	var rows []types.Row
	matched := make([]bool, right.Len())
	for i := 0; i < left.Len(); i++ {
		lrow := left.Row(i)
		var hits []int
		if k, ok := normalizeKey(lrow[lkIdx]); ok {
			hits = byKey[k]
		}
		if len(hits) == 0 {
			if how.keepsLeft() {
				rows = append(rows, lay.merge(lrow, nil))
			}
			continue
		}
		for _, j := range hits {
			matched[j] = true
			rows = append(rows, lay.merge(lrow, right.Row(j)))
		}
	}

	if how.keepsRight() {
		for j := 0; j < right.Len(); j++ {
			if !matched[j] {
				rows = append(rows, lay.merge(nil, right.Row(j)))
			}
		}
	}

	return types.NewTable(lay.columns, rows)
}

// Schema returns the column set Link would produce for left and right
// without joining them. Keys are resolved as in Link; when no key can be
// detected the columns are laid out without a shared key. An unknown join
// mode or a missing explicit key column is an error, as in Link.
func Schema(left, right *types.Table, opts Options) ([]string, error) {
	if _, err := ParseHow(string(opts.How)); err != nil {
		return nil, err
	}
	lk, rk, err := resolveKeys(left, right, opts)
	var knf *types.KeyNotFoundError
	switch {
	case errors.As(err, &knf):
		lk, rk = "", ""
	case err != nil:
		return nil, err
	}
	ls, rs := opts.suffixes()
	lay, err := planColumns(left.Columns(), right.Columns(), lk, rk, ls, rs)
	if err != nil {
		return nil, err
	}
	return lay.columns, nil
}

// layout maps input columns to merged output positions.
type layout struct {
	columns  []string
	leftPos  []int
	rightPos []int // -1 for the right key when it is folded into the left key
	sharedAt int   // output position of the shared key, or -1
	rightKey int   // right column index of the shared key
}

func planColumns(leftCols, rightCols []string, lk, rk, ls, rs string) (layout, error) {
	shared := lk != "" && lk == rk

	inLeft := make(map[string]bool, len(leftCols))
	for _, c := range leftCols {
		inLeft[c] = true
	}
	inRight := make(map[string]bool, len(rightCols))
	for _, c := range rightCols {
		inRight[c] = true
	}

	lay := layout{sharedAt: -1, rightKey: -1}

	// Unsuffixed names are taken up front so a suffixed name can never
	// shadow a real column; suffixes repeat until the name is free.
	taken := make(map[string]bool, len(leftCols)+len(rightCols))
	for _, c := range leftCols {
		if !inRight[c] || (shared && c == lk) {
			taken[c] = true
		}
	}
	for _, c := range rightCols {
		if !inLeft[c] {
			taken[c] = true
		}
	}
	place := func(name string, conflict bool, suffix string) int {
		if conflict {
			for name += suffix; taken[name]; name += suffix {
			}
			taken[name] = true
		}
		lay.columns = append(lay.columns, name)
		return len(lay.columns) - 1
	}

	for _, c := range leftCols {
		isShared := shared && c == lk
		pos := place(c, inRight[c] && !isShared, ls)
		lay.leftPos = append(lay.leftPos, pos)
		if isShared {
			lay.sharedAt = pos
		}
	}
	for j, c := range rightCols {
		if shared && c == rk {
			lay.rightPos = append(lay.rightPos, -1)
			lay.rightKey = j
			continue
		}
		lay.rightPos = append(lay.rightPos, place(c, inLeft[c], rs))
	}

	if len(lay.columns) == 0 {
		return layout{}, fmt.Errorf("merged table has no columns")
	}
	return lay, nil
}

// merge builds one output row. A nil side contributes nulls; a right-only
// row still fills the shared key.
func (l layout) merge(lrow, rrow types.Row) types.Row {
	out := make(types.Row, len(l.columns))
	for i, v := range lrow {
		out[l.leftPos[i]] = v
	}
	for j, v := range rrow {
		if p := l.rightPos[j]; p >= 0 {
			out[p] = v
		}
	}
	if l.sharedAt >= 0 && lrow == nil && rrow != nil {
		out[l.sharedAt] = rrow[l.rightKey]
	}
	return out
}
