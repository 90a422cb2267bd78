package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	docxDefaultPart  = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
	docxMainType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	// <w:t>text</w:t>, with or without attributes.
	wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	// The main part override, in either attribute order.
	mainPartRe  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainType) + `"`)
	mainPartRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainType) + `"[^>]+PartName="([^"]+)"`)
	wordEntities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
)

func readPart(zr *zip.Reader, name string) ([]byte, bool, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, true, err
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		return b, true, err
	}
	return nil, false, nil
}

// mainPart returns the main document part named by [Content_Types].xml, or the
// default part when none is declared.
func mainPart(zr *zip.Reader) string {
	ct, ok, err := readPart(zr, contentTypesPart)
	if !ok || err != nil {
		return docxDefaultPart
	}
	for _, re := range []*regexp.Regexp{mainPartRe, mainPartRe2} {
		if m := re.FindSubmatch(ct); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return docxDefaultPart
}

// docxText returns every <w:t> run of the main document joined by spaces.
func docxText(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("DOCX is not a zip: %w", err)
	}
	part := mainPart(zr)
	xml, ok, err := readPart(zr, part)
	if err != nil {
		return "", fmt.Errorf("DOCX: read %s: %w", part, err)
	}
	if !ok {
		return "", fmt.Errorf("DOCX: %s not found", part)
	}
	runs := wtTag.FindAllSubmatch(xml, -1)
	words := make([]string, 0, len(runs))
	for _, r := range runs {
		if s := strings.TrimSpace(wordEntities.Replace(string(r[1]))); s != "" {
			words = append(words, s)
		}
	}
	return strings.Join(words, " "), nil
}
