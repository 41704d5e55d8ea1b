// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import "github.com/pdiddy/biofetch/internal/schema"

// RunInfo column names used by SRA efetch. Canonical columns share them.
var sraRunInfoFields = []string{
	"Run", "SampleName", "BioProject", "BioSample", "Experiment",
	"LibraryStrategy", "LibraryLayout", "Platform", "Model",
	"ScientificName", "ReleaseDate", "download_path",
	"size_MB", "avgLength", "spots",
}

var sraMapping = &mapping{
	source:   schema.SRA,
	required: "Run",
	columns:  identity(sraRunInfoFields),
}

// SRA returns the run-catalog adapter for RunInfo rows.
func SRA() Adapter { return sraMapping }

// identity maps each canonical column to the raw field of the same name.
func identity(names []string) map[string]extractor {
	m := make(map[string]extractor, len(names))
	for _, n := range names {
		m[n] = first(n)
	}
	return m
}
