// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/biofetch/internal/accession"
	"github.com/pdiddy/biofetch/internal/adapter"
	"github.com/pdiddy/biofetch/pkg/types"
)

// enaSearchBase is the ENA portal search endpoint. Clients use it unless
// the endpoints config overrides it.
var enaSearchBase = "https://www.ebi.ac.uk/ena/portal/api/search"

// enaFields are the read_run fields requested from the portal.
var enaFields = []string{
	"run_accession",
	"experiment_title",
	"study_accession",
	"sample_accession",
	"sample_alias",
	"scientific_name",
	"instrument_platform",
	"library_strategy",
	"fastq_ftp",
	"read_count",
	"base_count",
}

// ENAReadRuns returns the read runs the ENA portal associates with acc
// (a run, experiment, study, project or sample accession). When the generic
// accession query finds nothing and acc is a run accession, the query is
// retried against run_accession. Each record also carries acc under the
// "accession" field.
func (c *Client) ENAReadRuns(ctx context.Context, acc string) ([]types.RawRecord, error) {
	acc = strings.TrimSpace(acc)
	if acc == "" {
		return nil, fmt.Errorf("ENA accession: %w (empty)", types.ErrInvalidAccession)
	}

	recs, err := c.enaSearch(ctx, "accession="+acc)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 && accession.IsRun(acc) {
		c.logger.Debug("ENA accession query empty, retrying as run", "accession", acc)
		if recs, err = c.enaSearch(ctx, "run_accession="+acc); err != nil {
			return nil, err
		}
	}

	for _, r := range recs {
		r[adapter.ENAQueryField] = []string{acc}
	}
	return recs, nil
}

func (c *Client) enaSearch(ctx context.Context, query string) ([]types.RawRecord, error) {
	params := url.Values{}
	params.Set("result", "read_run")
	params.Set("query", query)
	params.Set("fields", strings.Join(enaFields, ","))
	params.Set("format", "tsv")
	params.Set("limit", "0")

	body, err := c.get(ctx, "ENA", c.urls.ENA, params, c.ena)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	recs, err := ParseDelimited(bytes.NewReader(body), '\t')
	if err != nil {
		return nil, fmt.Errorf("parsing ENA response for %s: %w", query, err)
	}
	return recs, nil
}
