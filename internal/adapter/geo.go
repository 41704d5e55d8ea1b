// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package adapter

import "github.com/pdiddy/biofetch/internal/schema"

// GEO SOFT field names as tokenized by the retrieval layer.
const (
	GEOSeriesField          = "^SERIES"
	GEOSampleField          = "^SAMPLE"
	GEOTitleField           = "!Sample_title"
	GEOOrganismField        = "!Sample_organism_ch1"
	GEOSourceNameField      = "!Sample_source_name_ch1"
	GEOCharacteristicsField = "!Sample_characteristics_ch1"
)

var geoMapping = &mapping{
	source:   schema.GEO,
	required: GEOSampleField,
	columns: map[string]extractor{
		"GSE":             first(GEOSeriesField),
		"GSM":             first(GEOSampleField),
		"title":           joined(GEOTitleField),
		"organism":        joined(GEOOrganismField),
		"source_name":     joined(GEOSourceNameField),
		"characteristics": joined(GEOCharacteristicsField),
	},
}

// GEO returns the gene-expression adapter. It expects one raw record per
// sample block, each carrying its series accession under ^SERIES.
func GEO() Adapter { return geoMapping }
