package client

import "encoding/json"

// SearchResponse represents the response from /_search, plain or scrolled.
type SearchResponse struct {
	ScrollID string `json:"_scroll_id,omitempty"`
	Took     int64  `json:"took"`
	TimedOut bool   `json:"timed_out"`
	Hits     Hits   `json:"hits"`
}

// Hits holds the hit envelope of a search response.
type Hits struct {
	Total    HitsTotal `json:"total"`
	MaxScore *float64  `json:"max_score"`
	Hits     []Hit     `json:"hits"`
}

// HitsTotal holds the total hit count. Clusters up to 6.x report it as a
// bare number, 7.x and later as an object with value and relation.
type HitsTotal struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// UnmarshalJSON accepts both the bare-number and the object form.
func (t *HitsTotal) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		t.Relation = "eq"
		return nil
	}

	type plain HitsTotal
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = HitsTotal(p)
	return nil
}

// Hit represents a single document hit with its metadata and source.
type Hit struct {
	Index  string         `json:"_index"`
	Type   string         `json:"_type"`
	ID     string         `json:"_id"`
	Score  *float64       `json:"_score"`
	Source map[string]any `json:"_source"`
}

// IndexSettings represents one index entry from /_settings.
type IndexSettings struct {
	Settings struct {
		Index struct {
			CreationDate     string `json:"creation_date"`
			NumberOfShards   string `json:"number_of_shards"`
			NumberOfReplicas string `json:"number_of_replicas"`
			UUID             string `json:"uuid"`
		} `json:"index"`
	} `json:"settings"`
}

// IndexAliases represents one index entry from /_alias. Alias values carry
// filter and routing settings the command does not read, so they stay raw.
type IndexAliases struct {
	Aliases map[string]json.RawMessage `json:"aliases"`
}

// IndexMappings represents one index entry from /_mapping. The mapping keys
// are document type names on 6.x clusters and field-level sections such as
// "properties" on 7.x and later.
type IndexMappings struct {
	Mappings map[string]json.RawMessage `json:"mappings"`
}
