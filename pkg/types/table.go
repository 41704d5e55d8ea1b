// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the biofetch pipeline:
// the Result Table produced by source adapters and consumed by linkage and
// export, the raw records delivered by the retrieval layer, the structured
// errors of the core, and stage configuration.
package types

import (
	"fmt"
	"strings"
)

// Row is one record of a Table, aligned with the table's columns.
type Row []Value

// Table is an ordered, immutable set of rows sharing one ordered column
// list. Accessors return copies so callers cannot mutate a built table.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable builds a Table from columns and rows. Column names must be
// non-empty and unique, and every row must have exactly one value per
// column. The inputs are copied.
func NewTable(columns []string, rows []Row) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}

	t := &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    make([]Row, len(rows)),
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(r), len(columns))
		}
		t.rows[i] = append(Row(nil), r...)
	}
	return t, nil
}

// EmptyTable returns a table with the given columns and no rows.
func EmptyTable(columns []string) (*Table, error) {
	return NewTable(columns, nil)
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Row returns a copy of row i. It panics if i is out of range, like a
// slice index.
func (t *Table) Row(i int) Row {
	return append(Row(nil), t.rows[i]...)
}

// Value returns the cell at row i, column name. The boolean is false when
// the column does not exist or i is out of range.
func (t *Table) Value(i int, name string) (Value, bool) {
	c, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return Null(), false
	}
	return t.rows[i][c], true
}

// Record returns row i as a column-name keyed map.
func (t *Table) Record(i int) map[string]Value {
	rec := make(map[string]Value, len(t.columns))
	for c, name := range t.columns {
		rec[name] = t.rows[i][c]
	}
	return rec
}

// Head returns a new table holding the first n rows. A negative n or an n
// beyond the row count returns all rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	out := &Table{columns: t.columns, index: t.index, rows: t.rows[:n:n]}
	return out
}

// Equal reports whether t and o have the same columns and cell values in
// the same order.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !t.rows[i][j].Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// String renders a short description used in diagnostics.
func (t *Table) String() string {
	return fmt.Sprintf("table[%d rows x (%s)]", len(t.rows), strings.Join(t.columns, ", "))
}
