// Package integration provides end-to-end tests (requires real storage and indices).
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/medisearch/internal/config"
	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/ingest"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/search"
	"github.com/hyperjump/medisearch/internal/server"
	"github.com/hyperjump/medisearch/internal/storage"
	"github.com/hyperjump/medisearch/internal/watcher"
)

func TestIntegration_SpoolToHTTPSearch(t *testing.T) {
	dir := t.TempDir()
	spool := filepath.Join(dir, "spool")
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DatabasePath: filepath.Join(dir, "db.sqlite"),
			IndexPath:    filepath.Join(dir, "bleve"),
		},
		Watch: config.WatchConfig{Directories: []string{spool}, DefaultType: "medicine"},
	}
	config.ApplyDefaults(cfg)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	reg := profile.Default()
	eng, err := engine.NewBleveEngine(cfg.Storage.IndexPath, reg)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	svc := search.NewService(eng, reg, search.WithStorage(store), search.WithConfig(&cfg.Search))
	handler := watcher.NewIndexHandler(
		svc.Indexer(),
		ingest.NewReader(ingest.WithDefaultType(cfg.Watch.DefaultType), ingest.WithKnownTypes(reg.Known)),
		cfg.Watch.Extensions,
		nil,
	)
	w := watcher.NewWatcher(cfg.Watch.Directories, cfg.Watch.Extensions, true, handler, watcher.WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ts := httptest.NewServer(server.NewServer(svc, store, cfg, nil, w, "").Handler())
	defer ts.Close()

	content := `[
  {"id": "m1", "name": "Paracetamol 500mg", "category": "Thuốc viên", "price": 1500},
  {"id": "m2", "name": "Amoxicillin 250mg", "category": "Kháng sinh", "price": 3200}
]`
	if err := os.WriteFile(filepath.Join(spool, "medicines.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	var res models.SearchResult
	deadline := time.Now().Add(5 * time.Second)
	for {
		res = postSearch(t, ts.URL, &models.SearchQuery{Text: "paracetamol"})
		if res.Total > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !res.Success || res.Total != 1 || res.Results[0].ID != "m1" {
		t.Fatalf("search after spool import = %+v", res)
	}
	if res.Results[0].Type != "medicine" {
		t.Errorf("type = %q, want medicine from the default type", res.Results[0].Type)
	}

	q := &models.SearchQuery{}
	q.Filters.Set("type", "medicine")
	res = postSearch(t, ts.URL, q)
	if res.Total != 2 {
		t.Errorf("medicine listing total = %d, want 2", res.Total)
	}
	if len(res.Facets["category"]) != 2 {
		t.Errorf("category facet = %+v", res.Facets["category"])
	}

	resp, err := http.Get(ts.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var status models.StatusReport
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Records == nil || *status.Records != 2 {
		t.Errorf("status records = %v, want 2", status.Records)
	}
}

func postSearch(t *testing.T, base string, q *models.SearchQuery) models.SearchResult {
	t.Helper()
	body, err := json.Marshal(q)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(base+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var res models.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return res
}
