package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadBytes_jsonArrayAndObject(t *testing.T) {
	r := NewReader()
	recs, err := r.ReadBytes([]byte(`[{"type":"patient","full_name":"An"},{"type":"staff","full_name":"Bình"}]`), ".json")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(recs) != 2 || recs[1]["full_name"] != "Bình" {
		t.Errorf("got %v", recs)
	}

	recs, err = r.ReadBytes([]byte(`{"type":"medicine","price":12000}`), ".json")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(recs) != 1 || recs[0]["price"] != 12000.0 {
		t.Errorf("got %v", recs)
	}

	recs, err = r.ReadBytes([]byte("  \n"), ".json")
	if err != nil || len(recs) != 0 {
		t.Errorf("empty JSON: %v, %v", recs, err)
	}
}

func TestReadBytes_ndjson(t *testing.T) {
	r := NewReader()
	content := []byte("{\"type\":\"service\",\"name\":\"X-quang\"}\n\n{\"type\":\"service\",\"name\":\"Siêu âm\"}\n")
	recs, err := r.ReadBytes(content, ".ndjson")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(recs) != 2 || recs[1]["name"] != "Siêu âm" {
		t.Errorf("got %v", recs)
	}

	_, err = r.ReadBytes([]byte("{\"a\":1}\n{broken\n"), ".ndjson")
	if err == nil {
		t.Error("expected parse error for broken line")
	}
}

func TestReadBytes_csvWithDefaultType(t *testing.T) {
	r := NewReader(WithDefaultType("supplier"))
	content := []byte("Name,Status,Phone Number\nCông ty A,active,0901\nCông ty B,,\n,,\n")
	recs, err := r.ReadBytes(content, ".csv")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %v", recs)
	}
	if recs[0]["name"] != "Công ty A" || recs[0]["phone_number"] != "0901" || recs[0]["type"] != "supplier" {
		t.Errorf("first record = %v", recs[0])
	}
	if _, ok := recs[1]["status"]; ok {
		t.Errorf("empty cells should be skipped: %v", recs[1])
	}
}

func TestReadBytes_excelSheetAsType(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "name")
	f.SetCellValue("Sheet1", "A2", "Paracetamol")
	if _, err := f.NewSheet("medicine"); err != nil {
		t.Fatal(err)
	}
	f.SetCellValue("medicine", "A1", "name")
	f.SetCellValue("medicine", "B1", "category")
	f.SetCellValue("medicine", "A2", "Amoxicillin")
	f.SetCellValue("medicine", "B2", "Kháng sinh")
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	r := NewReader(WithKnownTypes(func(s string) bool { return s == "medicine" }))
	recs, err := r.ReadBytes(buf.Bytes(), ".xlsx")
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %v", recs)
	}
	var typed int
	for _, rec := range recs {
		if rec["type"] == "medicine" {
			typed++
			if rec["category"] != "Kháng sinh" {
				t.Errorf("category = %v", rec["category"])
			}
		}
	}
	if typed != 1 {
		t.Errorf("expected one record typed from its sheet, got %d", typed)
	}
}

func TestReadBytes_unsupported(t *testing.T) {
	_, err := NewReader().ReadBytes([]byte("x"), ".pptx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v", err)
	}
}

func TestRead_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.JSON")
	if err := os.WriteFile(path, []byte(`[{"type":"account","username":"admin"}]`), 0600); err != nil {
		t.Fatal(err)
	}
	recs, err := NewReader().Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 1 || recs[0]["username"] != "admin" {
		t.Errorf("got %v", recs)
	}
	if _, err := NewReader().Read(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSupported(t *testing.T) {
	for path, want := range map[string]bool{
		"a.json": true, "b.NDJSON": true, "c.csv": true, "d.xlsx": true, "e.pdf": true, "g.pptx": false, "f": false,
	} {
		if got := Supported(path); got != want {
			t.Errorf("Supported(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRead_documentAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giay-ra-vien.txt")
	if err := os.WriteFile(path, []byte("Bệnh nhân ổn định, xuất viện."), 0600); err != nil {
		t.Fatal(err)
	}
	recs, err := NewReader(WithDefaultType("patient")).Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec["type"] != DocumentType || rec["title"] != "giay-ra-vien" || rec["content"] != "Bệnh nhân ổn định, xuất viện." {
		t.Errorf("record = %v", rec)
	}

	empty := filepath.Join(t.TempDir(), "empty.md")
	if err := os.WriteFile(empty, []byte("  \n"), 0600); err != nil {
		t.Fatal(err)
	}
	if recs, err := NewReader().Read(empty); err != nil || len(recs) != 0 {
		t.Errorf("empty document: %v, %v", recs, err)
	}
}
