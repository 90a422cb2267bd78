// Package extract pulls plain text out of clinical document attachments (lab reports,
// discharge letters, referral notes) so they can be indexed as generic records.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnsupported is returned for extensions with no text extractor.
var ErrUnsupported = errors.New("unsupported document format")

// Extensions lists the document extensions Text understands.
var Extensions = []string{".pdf", ".docx", ".txt", ".md"}

// Supported reports whether ext (with the leading dot) names a document format.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Text returns the text content of a document. The result is valid UTF-8 with
// surrounding whitespace trimmed.
func Text(content []byte, ext string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(ext) {
	case ".pdf":
		text, err = pdfText(content)
	case ".docx":
		text, err = docxText(content)
	case ".txt", ".md":
		text = string(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return strings.TrimSpace(text), nil
}
