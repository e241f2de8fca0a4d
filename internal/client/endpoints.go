package client

import (
	"context"
	"fmt"
	"net/http"
)

const (
	endpointSettings      = "/_settings"
	endpointAliases       = "/_alias"
	endpointMappings      = "/_mapping"
	endpointClusterHealth = "/_cluster/health"
)

// GetIndexSettings fetches per-index settings from /_settings, keyed by
// index name.
func (c *DefaultClient) GetIndexSettings(ctx context.Context) (map[string]IndexSettings, error) {
	var result map[string]IndexSettings
	if err := c.do(ctx, http.MethodGet, endpointSettings, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("GetIndexSettings: %w", err)
	}
	return result, nil
}

// GetAliases fetches per-index alias assignments from /_alias, keyed by
// index name.
func (c *DefaultClient) GetAliases(ctx context.Context) (map[string]IndexAliases, error) {
	var result map[string]IndexAliases
	if err := c.do(ctx, http.MethodGet, endpointAliases, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("GetAliases: %w", err)
	}
	return result, nil
}

// GetMappings fetches per-index mappings from /_mapping, keyed by index name.
func (c *DefaultClient) GetMappings(ctx context.Context) (map[string]IndexMappings, error) {
	var result map[string]IndexMappings
	if err := c.do(ctx, http.MethodGet, endpointMappings, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("GetMappings: %w", err)
	}
	return result, nil
}

// GetClusterHealth fetches cluster health from /_cluster/health. The summary
// is returned as a loose map so every field the cluster reports passes
// through unchanged, whatever the server version emits.
func (c *DefaultClient) GetClusterHealth(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.do(ctx, http.MethodGet, endpointClusterHealth, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("GetClusterHealth: %w", err)
	}
	return result, nil
}
