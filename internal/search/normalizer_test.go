package search

import (
	"testing"

	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/profile"
)

func TestNormalize_CanonicalProjection(t *testing.T) {
	reg := profile.Default()
	hit := engine.Hit{
		ID:    "m1",
		Score: 3.14159,
		Fields: map[string]interface{}{
			"id":        "m1",
			"type":      "medicine",
			"title":     "Paracetamol",
			"category":  "Thuốc viên",
			"price":     12000.0,
			"is_active": "false",
			"internal":  "not projected",
		},
	}
	item := Normalize(hit, map[string][]string{"name": {"<mark>Para</mark>cetamol"}}, reg.For("medicine"))

	if item.ID != "m1" || item.Type != "medicine" || item.Score != 3.14 {
		t.Errorf("item = %+v", item)
	}
	if item.Fields["name"] != "Paracetamol" {
		t.Errorf("name should fall back to title, got %v", item.Fields["name"])
	}
	if item.Fields["generic_name"] != "" {
		t.Errorf("generic_name default = %v", item.Fields["generic_name"])
	}
	if item.Fields["stock_quantity"] != 0.0 {
		t.Errorf("stock_quantity default = %v", item.Fields["stock_quantity"])
	}
	if item.Fields["is_active"] != false {
		t.Errorf("is_active = %#v, want false", item.Fields["is_active"])
	}
	if _, ok := item.Fields["internal"]; ok {
		t.Error("fields outside the projection should not be copied")
	}
	if item.Fields["name_highlighted"] != "<mark>Para</mark>cetamol" {
		t.Errorf("name_highlighted = %v", item.Fields["name_highlighted"])
	}
}

func TestNormalize_UnknownTypeAndBooleans(t *testing.T) {
	for _, tt := range []struct {
		raw  interface{}
		want bool
	}{
		{"true", true}, {"1", true}, {"false", false}, {"0", false}, {[]interface{}{"true"}, true},
	} {
		item := Normalize(engine.Hit{ID: "x", Fields: map[string]interface{}{"is_active": tt.raw}}, nil, profile.Default().For(""))
		if item.Type != UnknownType {
			t.Errorf("Type = %q, want %q", item.Type, UnknownType)
		}
		if item.Fields["is_active"] != tt.want {
			t.Errorf("is_active %#v -> %#v, want %v", tt.raw, item.Fields["is_active"], tt.want)
		}
	}
}
