package ingest

import (
	"github.com/hyperjump/medisearch/internal/extract"
	"github.com/hyperjump/medisearch/internal/models"
)

// readDocument turns an attachment into one generic record holding its text.
func readDocument(content []byte, ext string) ([]models.Record, error) {
	text, err := extract.Text(content, ext)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return []models.Record{{"type": DocumentType, "content": text}}, nil
}
