package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSized(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, n), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMeasureDiskUsage(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "medisearch.db")
	index := filepath.Join(dir, "index")

	writeSized(t, db, 100)
	writeSized(t, db+"-wal", 20)
	writeSized(t, filepath.Join(index, "store", "root.bolt"), 7)
	writeSized(t, filepath.Join(index, "index_meta.json"), 3)

	u, err := MeasureDiskUsage(db, index)
	if err != nil {
		t.Fatal(err)
	}
	if u.StoreBytes != 120 {
		t.Errorf("store bytes = %d, want 120 (database + WAL)", u.StoreBytes)
	}
	if u.IndexBytes != 10 {
		t.Errorf("index bytes = %d, want 10", u.IndexBytes)
	}
	if u.Total() != 130 {
		t.Errorf("total = %d, want 130", u.Total())
	}
}

func TestMeasureDiskUsage_missingAndInMemory(t *testing.T) {
	dir := t.TempDir()
	u, err := MeasureDiskUsage(filepath.Join(dir, "absent.db"), filepath.Join(dir, "absent-index"))
	if err != nil {
		t.Fatal(err)
	}
	if u != (DiskUsage{}) {
		t.Errorf("missing paths = %+v, want zero", u)
	}

	db := filepath.Join(dir, "only.db")
	writeSized(t, db, 5)
	u, err = MeasureDiskUsage(db, "")
	if err != nil {
		t.Fatal(err)
	}
	if u.StoreBytes != 5 || u.IndexBytes != 0 {
		t.Errorf("in-memory index = %+v", u)
	}
}
