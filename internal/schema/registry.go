// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema is the canonical schema registry: for each data source, the
// ordered canonical columns every normalized record carries and the value
// domain of each column. It is a static lookup table.
package schema

import (
	"fmt"

	"github.com/pdiddy/biofetch/pkg/types"
)

// Source identifies a metadata catalog.
type Source string

const (
	// GEO is the NCBI Gene Expression Omnibus (series/sample hierarchy).
	GEO Source = "geo"
	// SRA is the NCBI Sequence Read Archive run catalog.
	SRA Source = "sra"
	// ENA is the EBI European Nucleotide Archive.
	ENA Source = "ena"
)

// Field is one canonical column. Every canonical column is nullable.
type Field struct {
	Name string
	Kind types.Kind
}

var registry = map[Source][]Field{
	GEO: {
		{"GSE", types.KindString},
		{"GSM", types.KindString},
		{"title", types.KindString},
		{"organism", types.KindString},
		{"source_name", types.KindString},
		{"characteristics", types.KindString},
	},
	SRA: {
		{"Run", types.KindString},
		{"SampleName", types.KindString},
		{"BioProject", types.KindString},
		{"BioSample", types.KindString},
		{"Experiment", types.KindString},
		{"LibraryStrategy", types.KindString},
		{"LibraryLayout", types.KindString},
		{"Platform", types.KindString},
		{"Model", types.KindString},
		{"ScientificName", types.KindString},
		{"ReleaseDate", types.KindString},
		{"download_path", types.KindString},
		{"size_MB", types.KindFloat},
		{"avgLength", types.KindInt},
		{"spots", types.KindInt},
	},
	ENA: {
		{"run_accession", types.KindString},
		{"description", types.KindString},
		{"accession", types.KindString},
		{"study_accession", types.KindString},
		{"sample_accession", types.KindString},
		{"sample_alias", types.KindString},
		{"scientific_name", types.KindString},
		{"instrument_platform", types.KindString},
		{"library_strategy", types.KindString},
		{"fastq_ftp", types.KindString},
		{"read_count", types.KindInt},
		{"base_count", types.KindInt},
	},
}

// Sources returns the registered sources in a fixed order.
func Sources() []Source {
	return []Source{GEO, SRA, ENA}
}

// ParseSource maps a source key ("geo", "sra", "ena") to a Source.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if _, ok := registry[src]; !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownSource, s)
	}
	return src, nil
}

// Fields returns the canonical fields of src in declared order.
func Fields(src Source) ([]Field, error) {
	fields, ok := registry[src]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownSource, string(src))
	}
	return append([]Field(nil), fields...), nil
}

// ColumnsFor returns the canonical column names of src in declared order.
func ColumnsFor(src Source) ([]string, error) {
	fields, err := Fields(src)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}
