package search

import (
	"strings"

	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/pkg/utils"
)

// UnknownType is the type of hits that carry none.
const UnknownType = "unknown"

var commonFields = []string{
	"title", "content", "category", "status", "created_at", "updated_at", "description", "is_active",
}

// Normalize reshapes an engine hit into the canonical item for profile p.
func Normalize(hit engine.Hit, highlights map[string][]string, p *profile.TypeProfile) *models.SearchResultItem {
	item := &models.SearchResultItem{
		ID:     hit.ID,
		Type:   UnknownType,
		Score:  utils.Round(hit.Score, 2),
		Fields: make(map[string]interface{}),
	}
	if t := strings.TrimSpace(profile.StringValue(first(hit.Fields["type"]))); t != "" {
		item.Type = t
	}
	if id := profile.StringValue(first(hit.Fields["id"])); item.ID == "" && id != "" {
		item.ID = id
	}

	for _, f := range commonFields {
		v, ok := hit.Fields[f]
		if !ok || v == nil {
			continue
		}
		if f == "is_active" {
			item.Fields[f] = profile.BoolValue(first(v))
			continue
		}
		item.Fields[f] = v
	}

	if p != nil {
		for _, c := range p.Canonical {
			item.Fields[c.Name] = canonicalValue(hit.Fields, c)
		}
	}

	ApplyHighlights(item, highlights)
	return item
}

func canonicalValue(raw map[string]interface{}, c profile.CanonicalField) interface{} {
	v, ok := present(raw, c.Name)
	if !ok && c.Fallback != "" {
		v, ok = present(raw, c.Fallback)
	}
	if !ok {
		return c.Default
	}
	if c.Kind == "" {
		return v
	}
	out, converted := profile.Convert(c.Kind, first(v))
	if !converted {
		return c.Default
	}
	return out
}

func present(raw map[string]interface{}, field string) (interface{}, bool) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

// first returns the first element of a multi-valued stored field.
func first(v interface{}) interface{} {
	if list, ok := v.([]interface{}); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return v
}
