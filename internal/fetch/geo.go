// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/biofetch/internal/accession"
	"github.com/pdiddy/biofetch/internal/adapter"
	"github.com/pdiddy/biofetch/pkg/types"
)

// geoQueryBase is the GEO accession display endpoint. Clients use it unless
// the endpoints config overrides it.
var geoQueryBase = "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi"

// GEOSeries fetches the SOFT quick view of a GEO series and returns one
// RawRecord per sample. A body that mentions neither a series nor a sample
// yields no records.
func (c *Client) GEOSeries(ctx context.Context, gse string) ([]types.RawRecord, error) {
	typ, norm := accession.Classify(gse)
	if typ != accession.TypeGEOSeries {
		return nil, fmt.Errorf("GEO series %q: %w (want GSE followed by digits)", gse, types.ErrInvalidAccession)
	}

	params := url.Values{}
	params.Set("targ", "all")
	params.Set("form", "text")
	params.Set("view", "quick")
	params.Set("acc", norm)

	body, err := c.get(ctx, "GEO", c.urls.GEO, params, c.ncbi)
	if err != nil {
		return nil, err
	}

	text := string(body)
	if !strings.Contains(text, "Series") && !strings.Contains(text, adapter.GEOSampleField) {
		c.logger.Warn("GEO returned no series or samples", "gse", norm, "bytes", len(body))
		return nil, nil
	}

	recs := ParseSOFT(text, norm)
	c.logger.Debug("parsed SOFT", "gse", norm, "samples", len(recs))
	return recs, nil
}

// ParseSOFT tokenizes SOFT text into one RawRecord per ^SAMPLE block. Each
// record carries the sample accession under ^SAMPLE, the series accession
// under ^SERIES (from the text, else gse), and every !Sample_ attribute in
// the order seen. Lines outside sample blocks and data table rows are
// ignored.
func ParseSOFT(text, gse string) []types.RawRecord {
	var (
		recs    []types.RawRecord
		cur     types.RawRecord
		series  = gse
		inTable bool
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		if strings.HasPrefix(line, "^") {
			key, val := splitSOFT(line)
			cur = nil
			inTable = false
			switch key {
			case adapter.GEOSeriesField:
				if val != "" {
					series = val
				}
			case adapter.GEOSampleField:
				cur = types.RawRecord{}
				cur.Add(adapter.GEOSampleField, val)
				recs = append(recs, cur)
			}
			continue
		}

		if cur == nil {
			continue
		}
		switch {
		case strings.HasPrefix(line, "!sample_table_begin"):
			inTable = true
		case strings.HasPrefix(line, "!sample_table_end"):
			inTable = false
		case inTable:
		case strings.HasPrefix(line, "!Sample_"):
			key, val := splitSOFT(line)
			cur.Add(key, val)
		}
	}

	for _, r := range recs {
		if !r.Has(adapter.GEOSeriesField) {
			r.Add(adapter.GEOSeriesField, series)
		}
	}
	return recs
}

// splitSOFT splits "key = value" on the first '='.
func splitSOFT(line string) (string, string) {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(key), strings.TrimSpace(val)
}
