package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Wildcard is the query text that matches every document.
const Wildcard = "*"

// FilterEntry is one key/value pair of a filter map. Value is a scalar or a list.
type FilterEntry struct {
	Key   string
	Value interface{}
}

// Filters is an ordered filter map. JSON objects decode preserving key order.
type Filters []FilterEntry

// Get returns the value for key and whether it was present.
func (f Filters) Get(key string) (interface{}, bool) {
	for _, e := range f {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key, or appends it when absent.
func (f *Filters) Set(key string, value interface{}) {
	for i, e := range *f {
		if e.Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, FilterEntry{Key: key, Value: value})
}

// TypeHint returns the scalar "type" filter, or "" when absent, a list, or "all".
func (f Filters) TypeHint() string {
	v, ok := f.Get("type")
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// UnmarshalJSON decodes a JSON object keeping the key order.
func (f *Filters) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("filters must be a JSON object")
	}
	out := Filters{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid filter key %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("filter %q: %w", key, err)
		}
		out = append(out, FilterEntry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

// MarshalJSON encodes the filters as a JSON object in order.
func (f Filters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SortField is one sort key. Direction is "asc" or "desc".
type SortField struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
}

// Desc reports whether the sort is descending. Anything but "asc" is descending.
func (s SortField) Desc() bool {
	return !strings.EqualFold(s.Direction, "asc")
}

// SearchQuery is a caller search request.
type SearchQuery struct {
	Text    string      `json:"query"`
	Filters Filters     `json:"filters,omitempty"`
	Page    int         `json:"page,omitempty"`
	PerPage int         `json:"per_page,omitempty"`
	Sort    []SortField `json:"sort,omitempty"`
}

// Normalize trims the text and clamps paging. Empty text is valid and matches everything.
func (q *SearchQuery) Normalize(defaultPerPage, maxPerPage int) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}
	if maxPerPage > 0 && q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
}

// Offset returns the zero-based index of the first hit on the current page.
func (q *SearchQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// SuggestQuery is a caller suggest request.
type SuggestQuery struct {
	Prefix   string `json:"prefix"`
	TypeHint string `json:"type,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}
