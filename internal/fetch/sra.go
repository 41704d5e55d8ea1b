// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/biofetch/pkg/types"
)

// eutilsBase is the NCBI E-utilities root. Clients use it unless the
// endpoints config overrides it.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// runInfoPageSize is the efetch retmax used when paging RunInfo.
var runInfoPageSize = 5000

// SRARunInfo searches the SRA database for term (a BioProject, study, run,
// or any Entrez query) and returns one RawRecord per RunInfo row. No
// matches yields no records.
func (c *Client) SRARunInfo(ctx context.Context, term string) ([]types.RawRecord, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("SRA search term: %w (empty)", types.ErrInvalidAccession)
	}

	hist, err := c.esearch(ctx, term)
	if err != nil {
		return nil, err
	}
	if hist.count == 0 {
		c.logger.Info("SRA search matched nothing", "term", term)
		return nil, nil
	}
	c.logger.Debug("SRA search", "term", term, "count", hist.count)

	var recs []types.RawRecord
	for start := 0; start < hist.count; start += runInfoPageSize {
		params := c.ncbiParams()
		params.Set("db", "sra")
		params.Set("query_key", hist.queryKey)
		params.Set("WebEnv", hist.webEnv)
		params.Set("rettype", "runinfo")
		params.Set("retmode", "text")
		params.Set("retstart", strconv.Itoa(start))
		params.Set("retmax", strconv.Itoa(runInfoPageSize))

		body, err := c.get(ctx, "SRA efetch", c.urls.EUtils+"efetch.fcgi", params, c.ncbi)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			break
		}
		page, err := ParseDelimited(bytes.NewReader(body), ',')
		if err != nil {
			return nil, fmt.Errorf("parsing RunInfo for %s: %w", term, err)
		}
		recs = append(recs, page...)
	}
	return recs, nil
}

type history struct {
	webEnv   string
	queryKey string
	count    int
}

// eSearchResult is the subset of the esearch XML response we read.
type eSearchResult struct {
	Count    string   `xml:"Count"`
	QueryKey string   `xml:"QueryKey"`
	WebEnv   string   `xml:"WebEnv"`
	Errors   []string `xml:"ERROR"`
}

func (c *Client) esearch(ctx context.Context, term string) (history, error) {
	params := c.ncbiParams()
	params.Set("db", "sra")
	params.Set("term", term)
	params.Set("usehistory", "y")
	params.Set("retmode", "xml")

	body, err := c.get(ctx, "SRA esearch", c.urls.EUtils+"esearch.fcgi", params, c.ncbi)
	if err != nil {
		return history{}, err
	}

	var res eSearchResult
	if err := xml.Unmarshal(body, &res); err != nil {
		return history{}, &types.ParseError{Source: "sra", Reason: "esearch response: " + err.Error()}
	}
	if len(res.Errors) > 0 {
		return history{}, fmt.Errorf("SRA esearch for %q: %s", term, strings.Join(res.Errors, "; "))
	}

	n, err := strconv.Atoi(strings.TrimSpace(res.Count))
	if err != nil || res.WebEnv == "" || res.QueryKey == "" {
		n = 0
	}
	return history{webEnv: res.WebEnv, queryKey: res.QueryKey, count: n}, nil
}
