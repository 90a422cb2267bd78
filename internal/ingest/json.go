package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hyperjump/medisearch/internal/models"
)

// readJSON accepts a single object or an array of objects.
func readJSON(content []byte) ([]models.Record, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		var rec models.Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("parse JSON object: %w", err)
		}
		return []models.Record{rec}, nil
	}
	var recs []models.Record
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("parse JSON array: %w", err)
	}
	return recs, nil
}

func readNDJSON(content []byte) ([]models.Record, error) {
	var recs []models.Record
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec models.Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("parse NDJSON line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan NDJSON: %w", err)
	}
	return recs, nil
}
