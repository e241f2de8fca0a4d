package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// scrollKeepAlive is the cursor TTL requested for scan searches. Every
// follow-up request renews it, so it only needs to outlive the gap between
// consecutive page fetches.
const scrollKeepAlive = "5m"

// SearchRequest describes one search call.
type SearchRequest struct {
	// Index is the index name, pattern or comma-separated list to search.
	// Empty searches all indices.
	Index string
	// DocTypes optionally restricts the search to the given document types.
	DocTypes []string
	// Scroll opens a scroll cursor for the search; the response then carries
	// a scroll ID for ContinueScroll.
	Scroll bool
	Body   SearchBody
}

// SearchBody is the JSON body of a search request.
type SearchBody struct {
	Size   int                    `json:"size,omitempty"`
	Sort   []map[string]SortOrder `json:"sort,omitempty"`
	Query  *Query                 `json:"query,omitempty"`
	Source []string               `json:"_source,omitempty"`
}

// SortOrder holds the direction of one sort clause.
type SortOrder struct {
	Order string `json:"order"`
}

// Query is the query element of a search body.
type Query struct {
	Bool *BoolQuery `json:"bool,omitempty"`
}

// BoolQuery combines clauses that must all match.
type BoolQuery struct {
	Must []MustClause `json:"must,omitempty"`
}

// MustClause is one clause of a bool query. Exactly one field should be set.
type MustClause struct {
	Range       map[string]RangeBounds `json:"range,omitempty"`
	QueryString *QueryStringQuery      `json:"query_string,omitempty"`
}

// RangeBounds holds inclusive bounds for a range clause.
type RangeBounds struct {
	GTE int64 `json:"gte"`
	LTE int64 `json:"lte"`
}

// QueryStringQuery holds a Lucene query string clause.
type QueryStringQuery struct {
	Query string `json:"query"`
}

// Search runs one search request and returns the first page of hits. With
// req.Scroll set the response carries a scroll ID for fetching the rest.
func (c *DefaultClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	index := req.Index
	if index == "" {
		index = "_all"
	}

	path := "/" + escapeNames(index)
	if len(req.DocTypes) > 0 {
		path += "/" + escapeNames(strings.Join(req.DocTypes, ","))
	}
	path += "/_search"

	var query url.Values
	if req.Scroll {
		query = url.Values{"scroll": {scrollKeepAlive}}
	}

	var result SearchResponse
	if err := c.do(ctx, http.MethodPost, path, query, req.Body, &result); err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return &result, nil
}

// ContinueScroll fetches the next page of a scrolled search and renews the
// cursor TTL.
func (c *DefaultClient) ContinueScroll(ctx context.Context, scrollID string) (*SearchResponse, error) {
	if scrollID == "" {
		return nil, fmt.Errorf("ContinueScroll: scroll id must not be empty")
	}

	body := scrollRequest{Scroll: scrollKeepAlive, ScrollID: scrollID}
	var result SearchResponse
	if err := c.do(ctx, http.MethodPost, "/_search/scroll", nil, body, &result); err != nil {
		return nil, fmt.Errorf("ContinueScroll: %w", err)
	}
	return &result, nil
}

// ClearScroll releases the server-side scroll cursor. Clearing an empty id
// is a no-op.
func (c *DefaultClient) ClearScroll(ctx context.Context, scrollID string) error {
	if scrollID == "" {
		return nil
	}

	body := clearScrollRequest{ScrollID: []string{scrollID}}
	if err := c.do(ctx, http.MethodDelete, "/_search/scroll", nil, body, nil); err != nil {
		return fmt.Errorf("ClearScroll: %w", err)
	}
	return nil
}

type scrollRequest struct {
	Scroll   string `json:"scroll"`
	ScrollID string `json:"scroll_id"`
}

type clearScrollRequest struct {
	ScrollID []string `json:"scroll_id"`
}

// escapeNames path-escapes a comma-separated name list, keeping the commas
// intact so multi-index and multi-type requests still address every name.
func escapeNames(names string) string {
	parts := strings.Split(names, ",")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, ",")
}
