package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperjump/medisearch/internal/facet"
	"github.com/hyperjump/medisearch/internal/filter"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/query"
)

func newTestEngine(t *testing.T) *BleveEngine {
	t.Helper()
	e, err := NewBleveEngine(filepath.Join(t.TempDir(), "bleve"), profile.Default())
	if err != nil {
		t.Fatalf("NewBleveEngine: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func addDocs(t *testing.T, e Engine, docs ...Document) {
	t.Helper()
	if _, err := e.Update(context.Background(), &UpdateRequest{Add: docs}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func medicine(id, name, category string) Document {
	return Document{ID: id, Body: map[string]interface{}{
		"id":         id,
		"type":       "medicine",
		"name":       name,
		"category":   category,
		"is_active":  "true",
		"created_at": "2024-06-15T00:00:00Z",
	}}
}

func mustClause(t *testing.T, c filter.Clause, err error) filter.Clause {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBleveEngine_SearchWithFilterAndFacets(t *testing.T) {
	e := newTestEngine(t)
	addDocs(t, e,
		medicine("m1", "Paracetamol 500mg", "Thuốc viên"),
		medicine("m2", "Amoxicillin", "Thuốc viên"),
		medicine("m3", "Siro ho", "Thuốc nước"),
	)
	ctx := context.Background()
	catClause, catErr := filter.Exact("category", "Thuốc viên")
	cat := mustClause(t, catClause, catErr)
	res, err := e.Search(ctx, &SearchRequest{
		Query:   query.Relevance{MatchAll: true},
		Filters: []filter.Clause{cat},
		Facets:  []facet.Spec{{Name: "type", Field: "type", MinCount: 1, Limit: 20}},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 || len(res.Hits) != 2 {
		t.Fatalf("total = %d hits = %d", res.Total, len(res.Hits))
	}
	types := res.Facets["type"]
	if len(types) != 1 || types[0].Value != "medicine" || types[0].Count != 2 {
		t.Errorf("type facet = %+v", types)
	}
	if res.Hits[0].Fields["category"] != "Thuốc viên" {
		t.Errorf("stored fields = %v", res.Hits[0].Fields)
	}
}

func TestBleveEngine_WeightedQueryAndHighlight(t *testing.T) {
	e := newTestEngine(t)
	addDocs(t, e,
		medicine("m1", "Paracetamol 500mg", "Thuốc viên"),
		medicine("m2", "Amoxicillin", "Thuốc viên"),
	)
	p := profile.Default().For("medicine")
	res, err := e.Search(context.Background(), &SearchRequest{
		Query:     query.Build("paracetamol", p),
		Highlight: &HighlightSpec{Fields: []string{"name"}, FragmentSize: 200, Snippets: 3},
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Hits[0].ID != "m1" {
		t.Fatalf("hits = %+v", res.Hits)
	}
	frags := res.Hits[0].Fragments["name"]
	if len(frags) == 0 {
		t.Fatalf("expected highlight fragments, got %v", res.Hits[0].Fragments)
	}
}

func TestBleveEngine_KeywordFieldIsSearchableAsText(t *testing.T) {
	e := newTestEngine(t)
	addDocs(t, e, Document{ID: "a1", Body: map[string]interface{}{
		"type":        "appointment",
		"doctor_name": "Trần Thị Bình",
		"reason":      "Khám tổng quát",
	}})
	res, err := e.Search(context.Background(), &SearchRequest{
		Query: query.Build("bình", profile.Default().For("appointment")),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("doctor_name should match through its analyzed companion, total = %d", res.Total)
	}
}

func TestBleveEngine_DateRangeFilter(t *testing.T) {
	e := newTestEngine(t)
	for id, date := range map[string]string{"d1": "2024-01-01T00:00:00Z", "d2": "2024-06-15T00:00:00Z", "d3": "2024-12-31T00:00:00Z"} {
		addDocs(t, e, Document{ID: id, Body: map[string]interface{}{"type": "note", "title": id, "created_at": date}})
	}
	tr := filter.NewTranslator(profile.Default())
	res, err := e.Search(context.Background(), &SearchRequest{
		Query: query.Relevance{MatchAll: true},
		Filters: tr.Translate(
			models.Filters{{Key: "date_from", Value: "2024-06-01"}, {Key: "date_to", Value: "2024-06-30"}},
			profile.Default().For(""),
		),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].ID != "d2" {
		t.Errorf("hits = %+v", res.Hits)
	}
}

func TestBleveEngine_UpdateDeleteByQueryAndStatus(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	addDocs(t, e,
		medicine("m1", "A", "Thuốc viên"),
		medicine("m2", "B", "Thuốc nước"),
		medicine("m3", "C", "Thuốc nước"),
	)
	resp, err := e.Update(ctx, &UpdateRequest{DeleteQuery: `+category:"Thuốc nước"`})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Deleted) != 2 || resp.Status != StatusOK {
		t.Errorf("delete by query = %+v", resp)
	}
	resp, err = e.Update(ctx, &UpdateRequest{DeleteIDs: []string{"m1", "missing"}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != StatusMissingTargets || len(resp.Missing) != 1 || resp.Missing[0] != "missing" {
		t.Errorf("delete by id = %+v", resp)
	}
	n, err := e.DocCount()
	if err != nil || n != 0 {
		t.Errorf("DocCount = %d, %v", n, err)
	}
}

func TestBleveEngine_UpdateLastOperationWins(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	addDocs(t, e, medicine("m1", "Old", "Thuốc viên"))
	_, err := e.Update(ctx, &UpdateRequest{
		DeleteQuery: "*",
		Add:         []Document{medicine("m1", "New", "Thuốc viên")},
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Search(ctx, &SearchRequest{Query: query.Relevance{MatchAll: true}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].Fields["name"] != "New" {
		t.Errorf("hits = %+v", res.Hits)
	}
}

func TestBleveEngine_Suggest(t *testing.T) {
	e := newTestEngine(t)
	addDocs(t, e,
		medicine("m1", "Paracetamol 500mg", "Thuốc viên"),
		medicine("m2", "Paracetamol 500mg", "Thuốc viên"),
		medicine("m3", "Panadol Extra", "Thuốc viên"),
		medicine("m4", "Amoxicillin", "Thuốc viên"),
	)
	res, err := e.Suggest(context.Background(), &SuggestRequest{Prefix: "pa", Fields: []string{"name"}, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Suggestions) != 2 {
		t.Fatalf("suggestions = %+v", res.Suggestions)
	}
	for _, s := range res.Suggestions {
		if s.Term != "Paracetamol 500mg" && s.Term != "Panadol Extra" {
			t.Errorf("unexpected term %q", s.Term)
		}
		if s.Payload == "" {
			t.Error("payload should carry the document id")
		}
	}

	res, err = e.Suggest(context.Background(), &SuggestRequest{Prefix: "panadol ex", Fields: []string{"name"}, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].Term != "Panadol Extra" {
		t.Errorf("multi-word suggestions = %+v", res.Suggestions)
	}
}

func TestBleveEngine_ClosedIndexIsUnavailable(t *testing.T) {
	e, err := NewBleveEngine("", profile.Default())
	if err != nil {
		t.Fatal(err)
	}
	_ = e.Close()
	ctx := context.Background()
	if err := e.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping error = %v", err)
	}
	if _, err := e.Search(ctx, &SearchRequest{Query: query.Relevance{MatchAll: true}}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Search error = %v", err)
	}
}

func TestBleveEngine_ReopensExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bleve")
	e, err := NewBleveEngine(path, profile.Default())
	if err != nil {
		t.Fatal(err)
	}
	addDocs(t, e, medicine("m1", "A", "Thuốc viên"))
	_ = e.Close()

	e, err = NewBleveEngine(path, profile.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if n, _ := e.DocCount(); n != 1 {
		t.Errorf("DocCount after reopen = %d", n)
	}
}
