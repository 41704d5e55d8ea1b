// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrUnknownSource is returned when a source type has no registered schema
// or adapter.
var ErrUnknownSource = errors.New("unknown source type")

// ErrInvalidAccession is returned when an accession does not have the shape
// a catalog expects (e.g. a GEO fetch given something other than GSE...).
var ErrInvalidAccession = errors.New("invalid accession")

// ParseError reports a raw payload whose structure the adapter cannot
// recognize at all. It is a whole-input failure; a single record missing an
// optional field never produces one.
type ParseError struct {
	Source string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s payload: %s", e.Source, e.Reason)
}

// ColumnNotFoundError reports an explicit join key that is absent from its
// table.
type ColumnNotFoundError struct {
	Side   string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in %s table", e.Column, e.Side)
}

// KeyNotFoundError reports that no identifier column could be detected for
// linkage on the named side.
type KeyNotFoundError struct {
	Side    string
	Aliases []string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("no join key detected in %s table (looked for %v)", e.Side, e.Aliases)
}
