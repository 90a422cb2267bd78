// Package ingest reads entity records from import files.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/medisearch/internal/extract"
	"github.com/hyperjump/medisearch/internal/models"
)

// ErrUnsupportedFormat is returned for file extensions with no record reader.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// SupportedExtensions lists the record file extensions Read understands. Document
// attachments in extract.Extensions are read too, one record per file.
var SupportedExtensions = []string{".json", ".ndjson", ".csv", ".xlsx"}

// DocumentType is the type of records read from document attachments.
const DocumentType = "document"

// Reader reads records from JSON, NDJSON, CSV and Excel files.
type Reader struct {
	defaultType string
	knownType   func(string) bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithDefaultType sets the type stamped on records that carry none.
func WithDefaultType(t string) Option {
	return func(r *Reader) { r.defaultType = strings.TrimSpace(t) }
}

// WithKnownTypes lets Excel sheet names act as the record type when known(sheet) is true.
func WithKnownTypes(known func(string) bool) Option {
	return func(r *Reader) { r.knownType = known }
}

// NewReader returns a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supported reports whether path has an extension Read understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return extract.Supported(ext)
}

// Read reads the file at path and returns its records.
func (r *Reader) Read(path string) ([]models.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	recs, err := r.ReadBytes(content, ext)
	if err != nil {
		return nil, err
	}
	if extract.Supported(ext) {
		for _, rec := range recs {
			rec["title"] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	return recs, nil
}

// ReadBytes parses content according to ext, which includes the leading dot.
func (r *Reader) ReadBytes(content []byte, ext string) ([]models.Record, error) {
	var (
		recs []models.Record
		err  error
	)
	switch ext {
	case ".json":
		recs, err = readJSON(content)
	case ".ndjson", ".jsonl":
		recs, err = readNDJSON(content)
	case ".csv":
		recs, err = readCSV(content)
	case ".xlsx":
		recs, err = readExcel(content, r.knownType)
	default:
		if !extract.Supported(ext) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
		recs, err = readDocument(content, ext)
	}
	if err != nil {
		return nil, err
	}
	if r.defaultType != "" {
		for _, rec := range recs {
			if t, ok := rec["type"].(string); !ok || strings.TrimSpace(t) == "" {
				rec["type"] = r.defaultType
			}
		}
	}
	return recs, nil
}

// rowRecord builds a record from a header row and a value row, skipping empty cells.
func rowRecord(header, row []string) models.Record {
	rec := make(models.Record, len(header))
	for i, key := range header {
		if key == "" || i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		rec[key] = v
	}
	return rec
}

func normalizeHeader(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		out[i] = strings.ToLower(strings.ReplaceAll(h, " ", "_"))
	}
	return out
}
