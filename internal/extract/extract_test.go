package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

const wordBody = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p w:rsidR="00A1"><w:r><w:t>Kết quả</w:t></w:r><w:r><w:t xml:space="preserve"> xét nghiệm </w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Glucose &amp; HbA1c</w:t></w:r></w:p></w:body></w:document>`

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestText_plain(t *testing.T) {
	got, err := Text([]byte("  Giấy ra viện\n"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Giấy ra viện" {
		t.Errorf("got %q", got)
	}
}

func TestText_invalidUTF8(t *testing.T) {
	got, err := Text([]byte{'o', 'k', 0xff}, ".md")
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok�" {
		t.Errorf("got %q", got)
	}
}

func TestText_docx(t *testing.T) {
	content := zipBytes(t, map[string]string{"word/document.xml": wordBody})
	got, err := Text(content, ".DOCX")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Kết quả xét nghiệm Glucose & HbA1c" {
		t.Errorf("got %q", got)
	}
}

func TestText_docxMainPartFromContentTypes(t *testing.T) {
	for name, override := range map[string]string{
		"part name first":    `<Override PartName="/word/document2.xml" ContentType="` + docxMainType + `"/>`,
		"content type first": `<Override ContentType="` + docxMainType + `" PartName="/word/document2.xml"/>`,
	} {
		t.Run(name, func(t *testing.T) {
			content := zipBytes(t, map[string]string{
				contentTypesPart:     `<Types>` + override + `</Types>`,
				"word/document2.xml": wordBody,
			})
			got, err := Text(content, ".docx")
			if err != nil {
				t.Fatal(err)
			}
			if got == "" {
				t.Error("expected text from the declared main part")
			}
		})
	}
}

func TestText_docxErrors(t *testing.T) {
	if _, err := Text([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for non-zip DOCX")
	}
	content := zipBytes(t, map[string]string{"word/other.xml": wordBody})
	if _, err := Text(content, ".docx"); err == nil {
		t.Error("expected error when the main part is missing")
	}
}

func TestText_pdfInvalid(t *testing.T) {
	if _, err := Text([]byte("%PDF-broken"), ".pdf"); err == nil {
		t.Error("expected error for a malformed PDF")
	}
}

func TestText_unsupported(t *testing.T) {
	_, err := Text([]byte("x"), ".pptx")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestSupported(t *testing.T) {
	for ext, want := range map[string]bool{".pdf": true, ".DOCX": true, ".md": true, ".json": false, "": false} {
		if got := Supported(ext); got != want {
			t.Errorf("Supported(%q) = %v, want %v", ext, got, want)
		}
	}
}
