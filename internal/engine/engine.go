// Package engine translates resolved invocation settings into store calls
// and streams the results as flat output records.
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brunotm/elasticsplunk/internal/client"
	"github.com/brunotm/elasticsplunk/internal/config"
	"github.com/brunotm/elasticsplunk/internal/model"
)

// Metadata keys emitted on request next to the source fields.
const (
	esIndexField = "es_index"
	esTypeField  = "es_type"
	esIDField    = "es_id"
	esScoreField = "es_score"
)

// Engine drives the store client for one invocation.
type Engine struct {
	client client.ESClient
	log    zerolog.Logger
}

// New returns an Engine backed by the given store client.
func New(c client.ESClient, log zerolog.Logger) *Engine {
	return &Engine{client: c, log: log}
}

// Search streams the hits matching the resolved settings as flat records.
// In scan mode (the default) the stream advances a server-side scroll cursor
// page by page, with the limit as page size, until the store is exhausted;
// otherwise a single page bounded by the limit is fetched. The cursor, if
// any, is released on Close.
func (e *Engine) Search(ctx context.Context, cfg config.Settings) *Stream {
	req := searchRequest(cfg)

	var scrollID string
	started := false

	fetch := func() ([]model.Record, bool, error) {
		var resp *client.SearchResponse
		var err error
		if !started {
			started = true
			resp, err = e.client.Search(ctx, req)
		} else {
			resp, err = e.client.ContinueScroll(ctx, scrollID)
		}
		if err != nil {
			return nil, false, err
		}
		if resp.ScrollID != "" {
			scrollID = resp.ScrollID
		}

		records := make([]model.Record, 0, len(resp.Hits.Hits))
		for _, hit := range resp.Hits.Hits {
			rec, err := flatten(hit, cfg.TimestampField, cfg.IncludeES, cfg.IncludeRaw)
			if err != nil {
				return nil, false, err
			}
			records = append(records, rec)
		}

		e.log.Debug().
			Int("hits", len(records)).
			Int64("total", resp.Hits.Total.Value).
			Msg("fetched page")

		// A scroll is exhausted when a page comes back empty.
		more := cfg.Scan && len(resp.Hits.Hits) > 0
		return records, more, nil
	}

	release := func() error {
		if scrollID == "" {
			return nil
		}
		id := scrollID
		scrollID = ""
		return e.client.ClearScroll(ctx, id)
	}

	return &Stream{fetch: fetch, release: release}
}

// searchRequest builds the store query for the resolved settings: ascending
// sort on the timestamp field, an inclusive epoch-second range on it, and
// the caller's query string, with index, doc types and field projection
// passed through.
func searchRequest(cfg config.Settings) client.SearchRequest {
	return client.SearchRequest{
		Index:    cfg.Index,
		DocTypes: cfg.SourceTypes,
		Scroll:   cfg.Scan,
		Body: client.SearchBody{
			Size: cfg.Limit,
			Sort: []map[string]client.SortOrder{
				{cfg.TimestampField: {Order: "asc"}},
			},
			Query: &client.Query{Bool: &client.BoolQuery{Must: []client.MustClause{
				{Range: map[string]client.RangeBounds{
					cfg.TimestampField: {GTE: cfg.Earliest, LTE: cfg.Latest},
				}},
				{QueryString: &client.QueryStringQuery{Query: cfg.Query}},
			}}},
			Source: cfg.Fields,
		},
	}
}

// flatten converts one store hit into a flat output record: the timestamp
// field becomes _time, every other source field is hoisted to the top level,
// and the envelope and raw forms are added on request. The timestamp field
// name itself never appears at the top level.
func flatten(hit client.Hit, tsfield string, includeES, includeRaw bool) (model.Record, error) {
	ts, ok := hit.Source[tsfield]
	if !ok {
		return nil, fmt.Errorf("hit %s/%s has no %q field", hit.Index, hit.ID, tsfield)
	}

	rec := make(model.Record, len(hit.Source)+5)
	rec[model.TimeField] = ts
	for k, v := range hit.Source {
		if k == tsfield {
			continue
		}
		rec[k] = v
	}

	if includeES {
		rec[esIndexField] = hit.Index
		rec[esTypeField] = hit.Type
		rec[esIDField] = hit.ID
		if hit.Score != nil {
			rec[esScoreField] = *hit.Score
		} else {
			rec[esScoreField] = nil
		}
	}

	if includeRaw {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("serialize hit %s/%s: %w", hit.Index, hit.ID, err)
		}
		rec[model.RawField] = string(raw)
	}

	return rec, nil
}
