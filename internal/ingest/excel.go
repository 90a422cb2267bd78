package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/medisearch/internal/models"
)

// readExcel reads every sheet with its first row as the header. Rows without a type
// take the sheet name when known reports it as a type.
func readExcel(content []byte, known func(string) bool) ([]models.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var recs []models.Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}
		sheetType := strings.ToLower(strings.TrimSpace(sheet))
		useSheet := known != nil && known(sheetType)
		header := normalizeHeader(rows[0])
		for _, row := range rows[1:] {
			rec := rowRecord(header, row)
			if len(rec) == 0 {
				continue
			}
			if _, ok := rec["type"]; !ok && useSheet {
				rec["type"] = sheetType
			}
			recs = append(recs, rec)
		}
	}
	return recs, nil
}
