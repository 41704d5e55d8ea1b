// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import (
	"github.com/pdiddy/biofetch/internal/schema"
	"github.com/pdiddy/biofetch/pkg/types"
)

// ENAQueryField is the raw field the retrieval layer fills with the
// accession that was searched for.
const ENAQueryField = "accession"

var enaMapping = &mapping{
	source:   schema.ENA,
	required: "run_accession",
	columns: map[string]extractor{
		"run_accession":       first("run_accession"),
		"description":         firstOf("description", "experiment_title"),
		"accession":           first(ENAQueryField),
		"study_accession":     first("study_accession"),
		"sample_accession":    first("sample_accession"),
		"sample_alias":        first("sample_alias"),
		"scientific_name":     first("scientific_name"),
		"instrument_platform": first("instrument_platform"),
		"library_strategy":    first("library_strategy"),
		"fastq_ftp":           first("fastq_ftp"),
		"read_count":          first("read_count"),
		"base_count":          first("base_count"),
	},
}

// ENA returns the sequence-archive adapter for portal read_run rows.
func ENA() Adapter { return enaMapping }

// firstOf reads the first raw field among keys that has a value.
func firstOf(keys ...string) extractor {
	return func(r types.RawRecord) (string, bool) {
		for _, k := range keys {
			if v, ok := r.First(k); ok {
				return v, true
			}
		}
		return "", false
	}
}
