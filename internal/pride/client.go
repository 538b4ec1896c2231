// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pride queries the PRIDE Archive dataset-search API one page at a
// time and accumulates the results for a single search term.
package pride

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pride-harvest/internal/httputil"
	"github.com/pdiddy/pride-harvest/pkg/types"
)

// Client fetches paginated search results from the PRIDE Archive.
type Client struct {
	HTTP *http.Client
}

// searchResponse is the shape of one search API page.
type searchResponse struct {
	Datasets []types.Dataset `json:"datasets"`
}

// FetchTerm requests successive result pages for term, starting at page 1,
// until a page comes back empty (excluded) or shorter than the configured
// page size (included, signals the last page). The returned slice preserves
// page order and within-page order.
//
// A failed request or an unparseable response is treated as an empty page:
// pagination for this term stops there with whatever was already collected.
// There is no retry, so a transient failure is indistinguishable from a
// legitimate end-of-results.
func (c *Client) FetchTerm(ctx context.Context, term string, cfg types.HarvestConfig, w io.Writer) []types.Dataset {
	var all []types.Dataset

	for page := 1; ; page++ {
		datasets, err := c.fetchPage(ctx, term, page, cfg)
		if err != nil {
			fmt.Fprintf(w, "  page %d: no results (%v)\n", page, err)
			break
		}
		if len(datasets) == 0 {
			break
		}

		all = append(all, datasets...)
		fmt.Fprintf(w, "  page %d: %d datasets\n", page, len(datasets))

		if len(datasets) < cfg.PageSize {
			break
		}
	}

	fmt.Fprintf(w, "  total for %q: %d datasets\n", term, len(all))
	return all
}

// fetchPage requests one page of search results.
func (c *Client) fetchPage(ctx context.Context, term string, page int, cfg types.HarvestConfig) ([]types.Dataset, error) {
	var sr searchResponse
	if err := httputil.GetJSON(ctx, c.HTTP, searchURL(cfg, term, page), cfg.UserAgent, &sr); err != nil {
		return nil, err
	}
	return sr.Datasets, nil
}

// searchURL builds the page request URL. The PRIDE endpoint documents
// percent-encoded spaces, so the form encoding's "+" is rewritten to "%20".
func searchURL(cfg types.HarvestConfig, term string, page int) string {
	params := url.Values{
		"pageSize":   {strconv.Itoa(cfg.PageSize)},
		"pageNumber": {strconv.Itoa(page)},
		"resultType": {cfg.ResultType},
		"species":    {cfg.Species},
		"keywords":   {term},
	}
	return cfg.BaseURL + "?" + strings.ReplaceAll(params.Encode(), "+", "%20")
}
