package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brunotm/elasticsplunk/internal/client"
	"github.com/brunotm/elasticsplunk/internal/model"
)

// ListIndices streams one record per index known to the store, carrying its
// aliases, mapping type names and core settings, in index-name order.
func (e *Engine) ListIndices(ctx context.Context) *Stream {
	fetch := func() ([]model.Record, bool, error) {
		records, err := e.fetchIndices(ctx)
		return records, false, err
	}
	return &Stream{fetch: fetch}
}

// ClusterHealth streams a single record with the cluster health summary.
func (e *Engine) ClusterHealth(ctx context.Context) *Stream {
	fetch := func() ([]model.Record, bool, error) {
		health, err := e.client.GetClusterHealth(ctx)
		if err != nil {
			return nil, false, err
		}

		rec := make(model.Record, len(health)+1)
		for k, v := range health {
			rec[k] = v
		}
		rec[model.TimeField] = time.Now().Unix()
		return []model.Record{rec}, false, nil
	}
	return &Stream{fetch: fetch}
}

// fetchIndices calls the settings, alias and mapping endpoints concurrently
// and assembles one record per index. Any endpoint failure fails the whole
// listing.
func (e *Engine) fetchIndices(ctx context.Context) ([]model.Record, error) {
	var (
		settings map[string]client.IndexSettings
		aliases  map[string]client.IndexAliases
		mappings map[string]client.IndexMappings
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		settings, err = e.client.GetIndexSettings(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		aliases, err = e.client.GetAliases(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		mappings, err = e.client.GetMappings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now().Unix()
	records := make([]model.Record, 0, len(names))
	for _, name := range names {
		idx := settings[name].Settings.Index
		records = append(records, model.Record{
			model.TimeField:      now,
			"name":               name,
			"aliases":            joinKeys(aliases[name].Aliases),
			"doc_types":          joinKeys(mappings[name].Mappings),
			"creation_date":      idx.CreationDate,
			"number_of_shards":   idx.NumberOfShards,
			"number_of_replicas": idx.NumberOfReplicas,
			"uuid":               idx.UUID,
		})
	}

	e.log.Debug().Int("indices", len(records)).Msg("listed indices")
	return records, nil
}

// joinKeys returns the map's keys sorted and comma-joined.
func joinKeys[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
