// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package accession classifies public sequence and expression archive
// identifiers (GEO, SRA, ENA, DDBJ, BioProject, BioSample).
package accession

import (
	"regexp"
	"strings"
)

// Type classifies an accession.
type Type int

const (
	TypeUnknown Type = iota
	TypeGEOSeries
	TypeGEOSample
	TypeBioProject
	TypeStudy
	TypeExperiment
	TypeRun
	TypeBioSample
)

func (t Type) String() string {
	switch t {
	case TypeGEOSeries:
		return "geo-series"
	case TypeGEOSample:
		return "geo-sample"
	case TypeBioProject:
		return "bioproject"
	case TypeStudy:
		return "study"
	case TypeExperiment:
		return "experiment"
	case TypeRun:
		return "run"
	case TypeBioSample:
		return "biosample"
	default:
		return "unknown"
	}
}

// Patterns are anchored and matched against the upper-cased input.
// INSDC prefixes: S = NCBI, E = EBI, D = DDBJ.
var patterns = []struct {
	typ Type
	re  *regexp.Regexp
}{
	{TypeGEOSeries, regexp.MustCompile(`^GSE\d+$`)},
	{TypeGEOSample, regexp.MustCompile(`^GSM\d+$`)},
	{TypeBioProject, regexp.MustCompile(`^PRJ(?:NA|EB|DB)\d+$`)},
	{TypeStudy, regexp.MustCompile(`^[SED]RP\d+$`)},
	{TypeExperiment, regexp.MustCompile(`^[SED]RX\d+$`)},
	{TypeRun, regexp.MustCompile(`^[SED]RR\d+$`)},
	{TypeBioSample, regexp.MustCompile(`^SAM(?:N|EA|D)\d+$`)},
}

// Classify determines the accession type and returns the normalized form
// (trimmed, upper-cased). Unrecognized input is returned trimmed.
func Classify(id string) (Type, string) {
	id = strings.TrimSpace(id)
	norm := strings.ToUpper(id)
	for _, p := range patterns {
		if p.re.MatchString(norm) {
			return p.typ, norm
		}
	}
	return TypeUnknown, id
}

// IsRun reports whether id is an SRA, ENA or DDBJ run accession.
func IsRun(id string) bool {
	t, _ := Classify(id)
	return t == TypeRun
}

// Slug returns a filesystem-safe stem for naming exports of id.
func Slug(id string) string {
	t, norm := Classify(id)
	if t != TypeUnknown {
		return norm
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, norm)
	s = strings.Trim(s, "-")
	if s == "" {
		return "unknown"
	}
	return s
}
