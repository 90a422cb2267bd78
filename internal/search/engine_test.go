package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/medisearch/internal/config"
	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/ingest"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type testService struct {
	*Service
	engine *engine.BleveEngine
	logs   *observer.ObservedLogs
}

func newTestService(t *testing.T, opts ...Option) *testService {
	t.Helper()
	eng, err := engine.NewBleveEngine("", profile.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	core, logs := observer.New(zapcore.WarnLevel)
	opts = append([]Option{WithLogger(zap.New(core)), WithClock(func() time.Time { return testNow })}, opts...)
	return &testService{Service: NewService(eng, profile.Default(), opts...), engine: eng, logs: logs}
}

func (ts *testService) mustIndex(t *testing.T, recs ...models.Record) {
	t.Helper()
	if !ts.IndexDocuments(context.Background(), recs) {
		t.Fatalf("IndexDocuments failed for %d records", len(recs))
	}
}

func facetCounts(values []models.FacetValue) map[string]int {
	out := make(map[string]int, len(values))
	for _, v := range values {
		out[v.Value] = v.Count
	}
	return out
}

// fakeEngine fails every call with err.
type fakeEngine struct {
	err        error
	lastSearch *engine.SearchRequest
}

func (f *fakeEngine) Search(_ context.Context, req *engine.SearchRequest) (*engine.SearchResponse, error) {
	f.lastSearch = req
	return nil, f.err
}
func (f *fakeEngine) Suggest(context.Context, *engine.SuggestRequest) (*engine.SuggestResponse, error) {
	return nil, f.err
}
func (f *fakeEngine) Update(context.Context, *engine.UpdateRequest) (*engine.UpdateResponse, error) {
	return nil, f.err
}
func (f *fakeEngine) Ping(context.Context) error { return f.err }
func (f *fakeEngine) DocCount() (uint64, error) { return 0, f.err }
func (f *fakeEngine) Close() error              { return nil }

func TestSearch_MedicineCategory(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"id": "m1", "type": "medicine", "name": "Paracetamol 500mg", "category": "Thuốc viên", "is_active": true},
		models.Record{"id": "m2", "type": "medicine", "name": "Amoxicillin 250mg", "category": "Thuốc viên", "is_active": true},
		models.Record{"id": "m3", "type": "medicine", "name": "Vitamin C", "category": "Thuốc viên", "is_active": false},
		models.Record{"id": "m4", "type": "medicine", "name": "Siro ho", "category": "Thuốc nước", "is_active": true},
		models.Record{"id": "p1", "type": "patient", "full_name": "Nguyễn Văn An", "category": "Thuốc viên"},
	)

	res := ts.Search(context.Background(), &models.SearchQuery{
		Filters: models.Filters{{Key: "type", Value: "medicine"}, {Key: "category", Value: "Thuốc viên"}},
		PerPage: 20,
	})
	if !res.Success {
		t.Fatalf("search failed: %s %s", res.Error, res.Message)
	}
	if res.Total != 3 || res.Pages != 1 || len(res.Results) != 3 {
		t.Errorf("total=%d pages=%d results=%d, want 3/1/3", res.Total, res.Pages, len(res.Results))
	}
	if got := facetCounts(res.Facets["type"]); got["medicine"] != 3 || len(got) != 1 {
		t.Errorf("type facet = %v", res.Facets["type"])
	}
	if res.Facets["type"][0].Label != "Thuốc" {
		t.Errorf("type label = %q", res.Facets["type"][0].Label)
	}
	if got := facetCounts(res.Facets["is_active"]); got["true"] != 2 || got["false"] != 1 {
		t.Errorf("is_active facet = %v", res.Facets["is_active"])
	}
	for _, it := range res.Results {
		if it.Type != "medicine" || it.Fields["category"] != "Thuốc viên" {
			t.Errorf("unexpected item %+v", it)
		}
	}
	if res.Debug != nil {
		t.Error("debug info should only be set in debug mode")
	}
}

func TestSearch_TypeFacetPerIndexedType(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"type": "patient", "full_name": "An"},
		models.Record{"type": "patient", "full_name": "Bình"},
		models.Record{"type": "staff", "full_name": "Chi"},
		models.Record{"type": "medicine", "name": "Dược"},
	)
	res := ts.Search(context.Background(), &models.SearchQuery{Text: "*"})
	if !res.Success || res.Total != 4 {
		t.Fatalf("res = %+v", res)
	}
	got := facetCounts(res.Facets["type"])
	if got["patient"] != 2 || got["staff"] != 1 || got["medicine"] != 1 {
		t.Errorf("type facet = %v", res.Facets["type"])
	}
	if res.Facets["type"][0].Value != "patient" {
		t.Errorf("facet values should be sorted by count, got %v", res.Facets["type"])
	}
	if _, ok := res.Facets["category"]; !ok {
		t.Error("planned facets should be present even when empty")
	}
}

func TestSearch_TypeFilterIgnoresCase(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"id": "m1", "type": "medicine", "name": "Paracetamol 500mg"},
		models.Record{"id": "p1", "type": "patient", "full_name": "An"},
	)
	for _, hint := range []string{"medicine", "Medicine", "MEDICINE", " medicine "} {
		res := ts.Search(context.Background(), &models.SearchQuery{
			Filters: models.Filters{{Key: "type", Value: hint}},
		})
		if !res.Success || res.Total != 1 || res.Results[0].ID != "m1" {
			t.Errorf("type=%q: total=%d res=%+v", hint, res.Total, res)
		}
	}
}

func TestSearch_MalformedFilterKeyDoesNotPanic(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t, models.Record{"id": "m1", "type": "medicine", "name": "Paracetamol 500mg"})
	res := ts.Search(context.Background(), &models.SearchQuery{
		Text:    "*",
		Filters: models.Filters{{Key: "cat\xffegory", Value: "x"}, {Key: "type", Value: "medicine"}},
	})
	if !res.Success || res.Total != 1 {
		t.Fatalf("res = %+v", res)
	}
	if n := ts.logs.FilterMessage("dropping filter").Len(); n != 1 {
		t.Errorf("expected one dropped filter warning, got %d", n)
	}
}

func TestSearch_DateWindow2024(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"id": "n1", "type": "note", "title": "cuối 2023", "created_at": "2023-12-31T23:59:00Z"},
		models.Record{"id": "n2", "type": "note", "title": "đầu 2024", "created_at": "2024-01-01"},
		models.Record{"id": "n3", "type": "note", "title": "cuối 2024", "created_at": "2024-12-31T20:00:00Z"},
		models.Record{"id": "n4", "type": "note", "title": "đầu 2025", "created_at": "2025-01-01T00:00:00Z"},
	)
	res := ts.Search(context.Background(), &models.SearchQuery{
		Filters: models.Filters{{Key: "date_from", Value: "2024-01-01"}, {Key: "date_to", Value: "2024-12-31"}},
	})
	if !res.Success {
		t.Fatalf("search failed: %s", res.Message)
	}
	ids := map[string]bool{}
	for _, it := range res.Results {
		ids[it.ID] = true
	}
	if res.Total != 2 || !ids["n2"] || !ids["n3"] {
		t.Errorf("total=%d ids=%v, want n2 and n3", res.Total, ids)
	}
}

func TestSearch_YearlyFacetForDateBearingTypes(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"type": "appointment", "reason": "Khám", "appointment_date": "2024-03-10"},
		models.Record{"type": "appointment", "reason": "Tái khám", "appointment_date": "2023-05-01"},
	)
	res := ts.Search(context.Background(), &models.SearchQuery{Filters: models.Filters{{Key: "type", Value: "appointment"}}})
	if !res.Success {
		t.Fatalf("search failed: %s", res.Message)
	}
	got := facetCounts(res.Facets["appointment_date_year"])
	if got["2024"] != 1 || got["2023"] != 1 {
		t.Errorf("yearly facet = %v", res.Facets["appointment_date_year"])
	}
}

func TestSearch_RoundTripAndUpsert(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()
	if !ts.IndexDocument(ctx, models.Record{"id": "p1", "type": "patient", "full_name": "Nguyễn Văn An"}) {
		t.Fatal("IndexDocument failed")
	}
	if !ts.IndexDocument(ctx, models.Record{"id": "p1", "type": "patient", "full_name": "Nguyễn Văn An", "status": "active"}) {
		t.Fatal("IndexDocument failed")
	}
	res := ts.Search(ctx, &models.SearchQuery{Text: "nguyễn", Filters: models.Filters{{Key: "type", Value: "patient"}}})
	if res.Total != 1 || res.Results[0].ID != "p1" {
		t.Fatalf("res = %+v", res)
	}
	item := res.Results[0]
	if item.Fields["status"] != "active" {
		t.Errorf("upsert should replace the document, got %v", item.Fields)
	}
	if item.Score <= 0 {
		t.Errorf("score = %v", item.Score)
	}
	if item.Fields["full_name_highlighted"] == nil {
		t.Errorf("expected highlighted full_name, got %v", item.Highlighting)
	}
}

func TestSearch_BooleanCoercion(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"id": "s1", "type": "staff", "full_name": "A", "is_active": true},
		models.Record{"id": "s2", "type": "staff", "full_name": "B", "is_active": 1},
		models.Record{"id": "s3", "type": "staff", "full_name": "C", "is_active": "1"},
		models.Record{"id": "s4", "type": "staff", "full_name": "D", "is_active": false},
		models.Record{"id": "s5", "type": "staff", "full_name": "E", "is_active": 0},
		models.Record{"id": "s6", "type": "staff", "full_name": "F", "is_active": "0"},
	)
	for _, tt := range []struct {
		filter interface{}
		want   int
	}{
		{true, 3}, {"1", 3}, {"true", 3}, {false, 3}, {"0", 3}, {0, 3},
	} {
		res := ts.Search(context.Background(), &models.SearchQuery{
			Filters: models.Filters{{Key: "type", Value: "staff"}, {Key: "is_active", Value: tt.filter}},
		})
		if res.Total != tt.want {
			t.Errorf("is_active=%#v: total = %d, want %d", tt.filter, res.Total, tt.want)
		}
		wantBool := profile.BoolValue(tt.filter)
		for _, it := range res.Results {
			if it.Fields["is_active"] != wantBool {
				t.Errorf("is_active=%#v: item %s has %#v", tt.filter, it.ID, it.Fields["is_active"])
			}
		}
	}
}

func TestSearch_PartialFilterDegradation(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"type": "patient", "full_name": "An", "status": "active"},
		models.Record{"type": "patient", "full_name": "Bình", "status": "inactive"},
	)
	res := ts.Search(context.Background(), &models.SearchQuery{
		Filters: models.Filters{{Key: "date_from", Value: "không phải ngày"}, {Key: "status", Value: "active"}},
	})
	if !res.Success || res.Total != 1 {
		t.Fatalf("res = %+v", res)
	}
	dropped := ts.logs.FilterMessage("dropping filter").All()
	if len(dropped) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(dropped))
	}
	if dropped[0].ContextMap()["field"] != "date_from" {
		t.Errorf("warning fields = %v", dropped[0].ContextMap())
	}
}

func TestSearch_PagingAndSort(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"id": "m1", "type": "medicine", "name": "A", "price": 30000},
		models.Record{"id": "m2", "type": "medicine", "name": "B", "price": 10000},
		models.Record{"id": "m3", "type": "medicine", "name": "C", "price": "20000"},
	)
	res := ts.Search(context.Background(), &models.SearchQuery{
		Filters: models.Filters{{Key: "type", Value: "medicine"}},
		PerPage: 2,
		Sort:    []models.SortField{{Field: "price", Direction: "asc"}, {Field: "name"}},
	})
	if res.Total != 3 || res.Pages != 2 || res.CurrentPage != 1 || res.PerPage != 2 {
		t.Fatalf("paging = %+v", res)
	}
	if res.Results[0].ID != "m2" || res.Results[1].ID != "m3" {
		t.Errorf("order = %s, %s", res.Results[0].ID, res.Results[1].ID)
	}
	if ts.logs.FilterMessage("ignoring sort on unsortable field").Len() != 1 {
		t.Error("sorting on a text field should be ignored with a warning")
	}

	page2 := ts.Search(context.Background(), &models.SearchQuery{
		Filters: models.Filters{{Key: "type", Value: "medicine"}},
		Page:    2, PerPage: 2,
		Sort: []models.SortField{{Field: "price", Direction: "asc"}},
	})
	if len(page2.Results) != 1 || page2.Results[0].ID != "m1" {
		t.Errorf("page 2 = %+v", page2.Results)
	}
}

func TestSearch_PerPageBoundedByConfig(t *testing.T) {
	f := &fakeEngine{err: fmt.Errorf("%w: closed", engine.ErrUnavailable)}
	s := NewService(f, profile.Default(), WithConfig(&cfgMaxPerPage))
	res := s.Search(context.Background(), &models.SearchQuery{PerPage: 500})
	if res.PerPage != 50 || f.lastSearch.Limit != 50 {
		t.Errorf("per_page = %d, limit = %d, want 50", res.PerPage, f.lastSearch.Limit)
	}
}

func TestSearch_DebugInfo(t *testing.T) {
	ts := newTestService(t, WithDebug(true))
	ts.mustIndex(t, models.Record{"type": "medicine", "name": "Paracetamol", "category": "Thuốc viên"})
	res := ts.Search(context.Background(), &models.SearchQuery{
		Text:    "paracetamol",
		Filters: models.Filters{{Key: "type", Value: "medicine"}, {Key: "category", Value: "Thuốc viên"}},
	})
	if res.Debug == nil {
		t.Fatal("expected debug info")
	}
	if res.Debug.Profile != "medicine" {
		t.Errorf("profile = %q", res.Debug.Profile)
	}
	if len(res.Debug.Filters) != 2 || res.Debug.Filters[1] != `+category:"Thuốc viên"` {
		t.Errorf("filters = %v", res.Debug.Filters)
	}
	if len(res.Debug.Sort) != 2 || res.Debug.Query == "" || len(res.Debug.Facets) == 0 {
		t.Errorf("debug = %+v", res.Debug)
	}
}

func TestSearch_EngineUnavailable(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	eng, err := engine.NewBleveEngine("", profile.Default())
	if err != nil {
		t.Fatal(err)
	}
	_ = eng.Close()
	s := NewService(eng, profile.Default(), WithLogger(zap.New(core)))
	ctx := context.Background()

	res := s.Search(ctx, &models.SearchQuery{Text: "an", Filters: models.Filters{{Key: "status", Value: "active"}}})
	if res.Success || res.Error != models.ErrorEngineUnavailable {
		t.Fatalf("res = %+v", res)
	}
	if res.Message != msgUnavailable {
		t.Errorf("message should be generic, got %q", res.Message)
	}
	if res.Results == nil || len(res.Results) != 0 || res.Facets == nil || len(res.Facets) != 0 || res.Total != 0 || res.Pages != 0 {
		t.Errorf("degraded result should be empty, got %+v", res)
	}
	entries := logs.FilterMessage("search failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error log, got %d", len(entries))
	}
	ctxMap := entries[0].ContextMap()
	if ctxMap["query"] != "an" || ctxMap["stack"] == nil {
		t.Errorf("error log fields = %v", ctxMap)
	}

	if s.HealthCheck(ctx) {
		t.Error("HealthCheck should be false for a closed engine")
	}
	if h := s.Health(ctx); h.Reachable || h.Reason == "" {
		t.Errorf("Health = %+v", h)
	}
	if s.IndexDocument(ctx, models.Record{"type": "patient"}) {
		t.Error("IndexDocument should fail")
	}
	if s.DeleteDocument(ctx, "x") || s.DeleteAll(ctx) {
		t.Error("deletes should fail")
	}
	sug := s.Suggest(ctx, &models.SuggestQuery{Prefix: "an"})
	if sug.Success || sug.Suggestions == nil || sug.Error != models.ErrorEngineUnavailable {
		t.Errorf("suggest = %+v", sug)
	}
	if st := s.Stats(ctx); st.Reachable {
		t.Errorf("Stats = %+v", st)
	}
}

func TestSearch_QueryErrorInDebugMode(t *testing.T) {
	s := NewService(&fakeEngine{err: fmt.Errorf("%w: parse error", engine.ErrQuery)}, profile.Default(), WithDebug(true))
	res := s.Search(context.Background(), nil)
	if res.Success || res.Error != models.ErrorQueryExecution {
		t.Fatalf("res = %+v", res)
	}
	if res.Message == msgFailed || res.Message == "" {
		t.Errorf("debug mode should expose the error, got %q", res.Message)
	}
}

func TestSuggest(t *testing.T) {
	ts := newTestService(t)
	ts.mustIndex(t,
		models.Record{"type": "medicine", "name": "Paracetamol 500mg"},
		models.Record{"type": "medicine", "name": "Panadol"},
		models.Record{"type": "patient", "full_name": "Phan Văn Tài"},
	)
	ctx := context.Background()

	res := ts.Suggest(ctx, &models.SuggestQuery{Prefix: "pa", TypeHint: "medicine"})
	if !res.Success || len(res.Suggestions) != 2 {
		t.Fatalf("suggest = %+v", res)
	}
	for _, s := range res.Suggestions {
		if s.Payload == "" || s.Weight <= 0 {
			t.Errorf("suggestion = %+v", s)
		}
	}

	res = ts.Suggest(ctx, &models.SuggestQuery{Prefix: "pha"})
	if len(res.Suggestions) != 1 || res.Suggestions[0].Term != "Phan Văn Tài" {
		t.Errorf("generic suggest = %+v", res.Suggestions)
	}

	res = ts.Suggest(ctx, &models.SuggestQuery{Prefix: "  "})
	if !res.Success || len(res.Suggestions) != 0 {
		t.Errorf("empty prefix = %+v", res)
	}
}

func TestIndexDocuments_AllOrNothing(t *testing.T) {
	ts := newTestService(t)
	ok := ts.IndexDocuments(context.Background(), []models.Record{
		{"type": "patient", "full_name": "An"},
		{"full_name": "thiếu type"},
	})
	if ok {
		t.Fatal("batch with an invalid record should fail")
	}
	if n, _ := ts.engine.DocCount(); n != 0 {
		t.Errorf("no document should be committed, got %d", n)
	}
	if !ts.IndexDocuments(context.Background(), nil) {
		t.Error("empty batch should succeed")
	}
}

func TestDeletes(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ts := newTestService(t, WithStorage(store))
	ctx := context.Background()
	ts.mustIndex(t,
		models.Record{"id": "a", "type": "patient", "status": "active"},
		models.Record{"id": "b", "type": "patient", "status": "inactive"},
		models.Record{"id": "c", "type": "staff", "status": "inactive"},
		models.Record{"id": "d", "type": "staff", "status": "active"},
	)

	if !ts.DeleteDocument(ctx, "a") {
		t.Error("DeleteDocument failed")
	}
	if !ts.DeleteDocument(ctx, "missing") {
		t.Error("deleting an unknown id should succeed")
	}
	if ts.logs.FilterMessage("search engine reported non-zero update status").Len() != 1 {
		t.Error("missing target should be logged as a warning")
	}
	if !ts.DeleteByFilters(ctx, models.Filters{{Key: "status", Value: "inactive"}}) {
		t.Error("DeleteByFilters failed")
	}
	if ts.DeleteByFilters(ctx, models.Filters{{Key: "status", Value: "all"}}) {
		t.Error("DeleteByFilters without usable filters should be refused")
	}
	if ts.DeleteByQuery(ctx, "  ") {
		t.Error("empty query should be refused")
	}
	stats := ts.Stats(ctx)
	if !stats.Reachable || stats.Documents != 1 || stats.Types["staff"] != 1 {
		t.Errorf("Stats = %+v", stats)
	}
	if n, _ := store.CountRecords(ctx); n != 1 {
		t.Errorf("record store count = %d, want 1", n)
	}
	if !ts.DeleteAll(ctx) {
		t.Error("DeleteAll failed")
	}
	if n, _ := ts.engine.DocCount(); n != 0 {
		t.Errorf("DocCount after DeleteAll = %d", n)
	}
	if !ts.HealthCheck(ctx) {
		t.Error("HealthCheck should be true")
	}
}

func TestErrorKind(t *testing.T) {
	if errorKind(fmt.Errorf("wrap: %w", engine.ErrUnavailable)) != models.ErrorEngineUnavailable {
		t.Error("unavailable")
	}
	if errorKind(errors.New("boom")) != models.ErrorQueryExecution {
		t.Error("other errors are query execution errors")
	}
}

var cfgMaxPerPage = config.SearchConfig{DefaultPerPage: 10, MaxPerPage: 50}

func TestImportPathAndReindex(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ts := newTestService(t, WithStorage(store))
	ctx := context.Background()

	spool := filepath.Join(dir, "spool")
	if err := os.MkdirAll(spool, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"patients.ndjson": "{\"id\":\"p1\",\"full_name\":\"Nguyễn Văn An\"}\n{\"id\":\"p2\",\"full_name\":\"Lê Thị Hoa\"}\n",
		"staff.csv":       "id,type,full_name\ns1,staff,Trần Văn Bình\n",
		"notes.log":       "not a record file",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(spool, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	reader := ingest.NewReader(ingest.WithDefaultType("patient"))

	n, err := ts.ImportPath(ctx, reader, spool, nil)
	if err != nil || n != 2 {
		t.Fatalf("ImportPath(dir) = %d, %v; want 2 files", n, err)
	}
	if got, _ := ts.engine.DocCount(); got != 3 {
		t.Errorf("DocCount = %d, want 3", got)
	}
	if _, err := ts.ImportPath(ctx, reader, filepath.Join(spool, "missing.json"), nil); err == nil {
		t.Error("expected an error for a missing file")
	}

	if !ts.DeleteAll(ctx) {
		t.Fatal("DeleteAll failed")
	}
	if _, err := ts.ImportPath(ctx, reader, filepath.Join(spool, "staff.csv"), nil); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertRecords(ctx, []*models.SearchDocument{
		{ID: "x1", Type: "medicine", Fields: map[string]interface{}{"name": "Oresol"}, CreatedAt: testNow, UpdatedAt: testNow},
	}); err != nil {
		t.Fatal(err)
	}
	indexed, ok := ts.Reindex(ctx)
	if !ok || indexed != 2 {
		t.Fatalf("Reindex = %d, %v; want 2 documents", indexed, ok)
	}
	res := ts.Search(ctx, &models.SearchQuery{Text: "oresol"})
	if res.Total != 1 || res.Results[0].ID != "x1" {
		t.Errorf("search after reindex = %+v", res)
	}
}

func TestReindex_withoutStoreFails(t *testing.T) {
	ts := newTestService(t)
	if _, ok := ts.Reindex(context.Background()); ok {
		t.Error("Reindex without a record store should fail")
	}
}
