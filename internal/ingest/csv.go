package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hyperjump/medisearch/internal/models"
)

func readCSV(content []byte) ([]models.Record, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	header = normalizeHeader(header)

	var recs []models.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		if rec := rowRecord(header, row); len(rec) > 0 {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}
