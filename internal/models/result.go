package models

import (
	"encoding/json"
	"fmt"
)

// SearchResultItem is one canonical search hit. It encodes as a flat JSON object.
type SearchResultItem struct {
	ID           string
	Type         string
	Score        float64
	Fields       map[string]interface{}
	Highlighting map[string][]string
}

// Get returns a field value, including id, type and score.
func (it *SearchResultItem) Get(key string) interface{} {
	switch key {
	case "id":
		return it.ID
	case "type":
		return it.Type
	case "score":
		return it.Score
	}
	return it.Fields[key]
}

// MarshalJSON flattens the item.
func (it *SearchResultItem) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(it.Fields)+4)
	for k, v := range it.Fields {
		m[k] = v
	}
	m["id"] = it.ID
	m["type"] = it.Type
	m["score"] = it.Score
	hl := it.Highlighting
	if hl == nil {
		hl = map[string][]string{}
	}
	m["highlighting"] = hl
	return json.Marshal(m)
}

// UnmarshalJSON reads a flat item back.
func (it *SearchResultItem) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*it = SearchResultItem{Fields: map[string]interface{}{}}
	for k, raw := range m {
		var err error
		switch k {
		case "id":
			err = json.Unmarshal(raw, &it.ID)
		case "type":
			err = json.Unmarshal(raw, &it.Type)
		case "score":
			err = json.Unmarshal(raw, &it.Score)
		case "highlighting":
			err = json.Unmarshal(raw, &it.Highlighting)
		default:
			var v interface{}
			err = json.Unmarshal(raw, &v)
			it.Fields[k] = v
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}
	return nil
}

// FacetValue is one bucket of a facet.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// DebugInfo describes how a search was built. Only set when debug is enabled.
type DebugInfo struct {
	QueryTimeMS  int64    `json:"query_time_ms"`
	EngineTimeMS int64    `json:"engine_time_ms"`
	Profile      string   `json:"profile"`
	Query        string   `json:"query"`
	Filters      []string `json:"filters"`
	Facets       []string `json:"facets"`
	Sort         []string `json:"sort"`
}

// SearchResult is the caller-facing search response. On failure Success is false,
// Error carries the kind and every collection is empty.
type SearchResult struct {
	Success     bool                    `json:"success"`
	Results     []*SearchResultItem     `json:"results"`
	Total       int                     `json:"total"`
	Pages       int                     `json:"pages"`
	CurrentPage int                     `json:"current_page"`
	PerPage     int                     `json:"per_page"`
	Facets      map[string][]FacetValue `json:"facets"`
	Debug       *DebugInfo              `json:"debug,omitempty"`
	Error       ErrorKind               `json:"error,omitempty"`
	Message     string                  `json:"message,omitempty"`
}

// FailedSearch returns a degraded search result.
func FailedSearch(kind ErrorKind, message string, page, perPage int) *SearchResult {
	return &SearchResult{
		Success:     false,
		Results:     []*SearchResultItem{},
		Facets:      map[string][]FacetValue{},
		CurrentPage: page,
		PerPage:     perPage,
		Error:       kind,
		Message:     message,
	}
}

// Suggestion is one completion.
type Suggestion struct {
	Term    string  `json:"term"`
	Weight  float64 `json:"weight"`
	Payload string  `json:"payload"`
}

// SuggestResult is the caller-facing suggest response.
type SuggestResult struct {
	Success     bool         `json:"success"`
	Suggestions []Suggestion `json:"suggestions"`
	Error       ErrorKind    `json:"error,omitempty"`
}

// HealthStatus reports engine reachability.
type HealthStatus struct {
	Reachable bool   `json:"reachable"`
	Reason    string `json:"reason,omitempty"`
}

// IndexStats summarizes the index for status reporting.
type IndexStats struct {
	Reachable bool           `json:"reachable"`
	Documents uint64         `json:"documents"`
	Types     map[string]int `json:"types"`
	Reason    string         `json:"reason,omitempty"`
}

// StatusReport describes the index, the record store and the storage footprint.
type StatusReport struct {
	Index          IndexStats             `json:"index"`
	Records        *int64                 `json:"records,omitempty"`
	RecordsByType  map[string]int64       `json:"records_by_type,omitempty"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	StoreBytes     *int64                 `json:"store_bytes,omitempty"`
	IndexBytes     *int64                 `json:"index_bytes,omitempty"`
	Types          []string               `json:"types"`
	Config         map[string]interface{} `json:"config,omitempty"`
}
