package e2e

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/medisearch/internal/models"
)

// SpoolFiles names the files WriteSpool writes, keyed by entity type.
var SpoolFiles = map[string]string{
	"medicine":    "medicines.json",
	"patient":     "patients.ndjson",
	"appointment": "appointments.csv",
	"staff":       "staff.xlsx",
}

// WriteSpool writes the corpus into dir using every supported import format: medicines
// as a JSON array, patients as NDJSON, appointments as CSV and staff as an Excel
// workbook whose sheet name supplies the type.
func WriteSpool(dir string, c *Corpus) error {
	meds, err := json.MarshalIndent(c.Medicines, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, SpoolFiles["medicine"]), meds, 0600); err != nil {
		return err
	}

	var nd bytes.Buffer
	for _, rec := range c.Patients {
		line, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		nd.Write(line)
		nd.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(dir, SpoolFiles["patient"]), nd.Bytes(), 0600); err != nil {
		return err
	}

	csvBytes, err := MinimalCSV(c.Appointments)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, SpoolFiles["appointment"]), csvBytes, 0600); err != nil {
		return err
	}

	xlsx, err := MinimalXlsx("staff", c.Staff)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, SpoolFiles["staff"]), xlsx, 0600)
}

// header returns the sorted union of record keys.
func header(recs []models.Record) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rec := range recs {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func cell(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%g", f)
	}
	return fmt.Sprint(v)
}

// MinimalCSV renders recs as CSV with a header row.
func MinimalCSV(recs []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	cols := header(recs)
	if err := w.Write(cols); err != nil {
		return nil, err
	}
	for _, rec := range recs {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cell(rec[c])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// MinimalXlsx renders recs as a single-sheet workbook named sheet.
func MinimalXlsx(sheet string, recs []models.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	cols := header(recs)
	for i, c := range cols {
		ref, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, ref, c); err != nil {
			return nil, err
		}
	}
	for r, rec := range recs {
		for i, c := range cols {
			ref, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, ref, cell(rec[c])); err != nil {
				return nil, err
			}
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
