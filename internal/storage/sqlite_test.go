package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/medisearch/internal/models"
)

func newDoc(id, typ string, fields map[string]interface{}) *models.SearchDocument {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	return &models.SearchDocument{ID: id, Type: typ, Fields: fields, CreatedAt: now, UpdatedAt: now}
}

func TestSQLiteStorage_CRUD(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStorage(filepath.Join(dir, "nested", "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	docs := []*models.SearchDocument{
		newDoc("p1", "patient", map[string]interface{}{"full_name": "Nguyễn Văn An", "status": "active"}),
		newDoc("m1", "medicine", map[string]interface{}{"name": "Paracetamol", "price": 12000.0}),
	}
	if err := store.UpsertRecords(ctx, docs); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetRecord(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != "patient" || got.Fields["full_name"] != "Nguyễn Văn An" {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(docs[0].CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, docs[0].CreatedAt)
	}

	// Upsert replaces fields.
	docs[0].Fields["status"] = "inactive"
	if err := store.UpsertRecords(ctx, docs[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetRecord(ctx, "p1")
	if got.Fields["status"] != "inactive" {
		t.Errorf("status = %v, want inactive", got.Fields["status"])
	}

	n, err := store.CountRecords(ctx)
	if err != nil || n != 2 {
		t.Errorf("CountRecords = %d, %v", n, err)
	}
	byType, err := store.CountByType(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if byType["patient"] != 1 || byType["medicine"] != 1 {
		t.Errorf("CountByType = %v", byType)
	}

	list, err := store.ListRecords(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "m1" {
		t.Errorf("ListRecords = %v", list)
	}

	if err := store.DeleteRecords(ctx, []string{"p1", "unknown"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetRecord(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord after delete: err = %v", err)
	}

	if err := store.DeleteAllRecords(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.CountRecords(ctx); n != 0 {
		t.Errorf("CountRecords after DeleteAll = %d", n)
	}
}

func TestSQLiteStorage_ListPaging(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	var docs []*models.SearchDocument
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		docs = append(docs, newDoc(id, "service", map[string]interface{}{"name": id}))
	}
	if err := store.UpsertRecords(ctx, docs); err != nil {
		t.Fatal(err)
	}
	page, err := store.ListRecords(ctx, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != "c" || page[1].ID != "d" {
		t.Errorf("page = %v", page)
	}
	if err := store.UpsertRecords(ctx, nil); err != nil {
		t.Errorf("empty upsert: %v", err)
	}
}
