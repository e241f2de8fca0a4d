package engine

import (
	"context"
	"errors"

	"github.com/brunotm/elasticsplunk/internal/client"
)

// MockESClient implements client.ESClient for testing.
type MockESClient struct {
	SearchFn         func(ctx context.Context, req client.SearchRequest) (*client.SearchResponse, error)
	ContinueScrollFn func(ctx context.Context, scrollID string) (*client.SearchResponse, error)
	ClearScrollFn    func(ctx context.Context, scrollID string) error
	SettingsFn       func(ctx context.Context) (map[string]client.IndexSettings, error)
	AliasesFn        func(ctx context.Context) (map[string]client.IndexAliases, error)
	MappingsFn       func(ctx context.Context) (map[string]client.IndexMappings, error)
	HealthFn         func(ctx context.Context) (map[string]any, error)

	ClearedScrollIDs []string
}

func (m *MockESClient) Search(ctx context.Context, req client.SearchRequest) (*client.SearchResponse, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, req)
	}
	return &client.SearchResponse{}, nil
}

func (m *MockESClient) ContinueScroll(ctx context.Context, scrollID string) (*client.SearchResponse, error) {
	if m.ContinueScrollFn != nil {
		return m.ContinueScrollFn(ctx, scrollID)
	}
	return &client.SearchResponse{}, nil
}

func (m *MockESClient) ClearScroll(ctx context.Context, scrollID string) error {
	m.ClearedScrollIDs = append(m.ClearedScrollIDs, scrollID)
	if m.ClearScrollFn != nil {
		return m.ClearScrollFn(ctx, scrollID)
	}
	return nil
}

func (m *MockESClient) GetIndexSettings(ctx context.Context) (map[string]client.IndexSettings, error) {
	if m.SettingsFn != nil {
		return m.SettingsFn(ctx)
	}
	return map[string]client.IndexSettings{}, nil
}

func (m *MockESClient) GetAliases(ctx context.Context) (map[string]client.IndexAliases, error) {
	if m.AliasesFn != nil {
		return m.AliasesFn(ctx)
	}
	return map[string]client.IndexAliases{}, nil
}

func (m *MockESClient) GetMappings(ctx context.Context) (map[string]client.IndexMappings, error) {
	if m.MappingsFn != nil {
		return m.MappingsFn(ctx)
	}
	return map[string]client.IndexMappings{}, nil
}

func (m *MockESClient) GetClusterHealth(ctx context.Context) (map[string]any, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return map[string]any{"status": "green"}, nil
}

func (m *MockESClient) BaseURLs() []string {
	return []string{"http://mock:9200"}
}

var errMockFailure = errors.New("mock failure")
