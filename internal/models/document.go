// Package models defines core data structures for records, queries, and search results.
package models

import "time"

// Record is a raw entity record as supplied by callers and importers.
type Record map[string]interface{}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SearchDocument is a normalized record ready to be indexed.
// Re-indexing an existing ID replaces the previous document.
type SearchDocument struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Fields    map[string]interface{} `json:"fields"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Body returns the flat field map sent to the engine, including id, type and timestamps.
func (d *SearchDocument) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(d.Fields)+4)
	for k, v := range d.Fields {
		body[k] = v
	}
	body["id"] = d.ID
	body["type"] = d.Type
	body["created_at"] = d.CreatedAt.UTC().Format(time.RFC3339)
	body["updated_at"] = d.UpdatedAt.UTC().Format(time.RFC3339)
	return body
}
