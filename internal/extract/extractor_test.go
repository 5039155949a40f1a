package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func zipOf(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range parts {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("Total 87334\nLine 2"), ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Total 87334\nLine 2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("12\x8034"), ".rst")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "12�34" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_unknownExtensionIsPlain(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("42"), ".log")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "42" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docx(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Invoice 1200</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Paid </w:t></w:r><w:r><w:tab/><w:t>&amp; 350</w:t></w:r></w:p>` +
		`<w:p></w:p>` +
		`</w:body></w:document>`
	content := zipOf(t, map[string]string{"word/document.xml": doc})

	got, err := NewExtractor().ExtractBytes(content, ".docx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if want := "Invoice 1200\nPaid & 350"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractBytes_docxContentTypesOverride(t *testing.T) {
	types := `<Types><Override ContentType="` + docxMainType + `" PartName="/word/main.xml"/></Types>`
	content := zipOf(t, map[string]string{
		contentTypesPart: types,
		"word/main.xml":  `<w:p><w:r><w:t>77</w:t></w:r></w:p>`,
	})

	got, err := NewExtractor().ExtractBytes(content, ".DOCX")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "77" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_docxMissingPart(t *testing.T) {
	content := zipOf(t, map[string]string{"other.xml": "x"})
	if _, err := NewExtractor().ExtractBytes(content, ".docx"); err == nil {
		t.Fatal("expected error for archive without document part")
	}
}

func TestExtractBytes_notAZip(t *testing.T) {
	for _, ext := range []string{".docx", ".pptx", ".odp", ".ods", ".xlsx"} {
		if _, err := NewExtractor().ExtractBytes([]byte("plain text"), ext); err == nil {
			t.Errorf("%s: expected error", ext)
		}
	}
}

func TestExtractBytes_pptxSlideOrder(t *testing.T) {
	slide := func(text string) string {
		return `<p:sld><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:sld>`
	}
	content := zipOf(t, map[string]string{
		"ppt/slides/slide10.xml": slide("ten 10"),
		"ppt/slides/slide2.xml":  slide("two 2"),
		"ppt/slides/slide1.xml":  slide("one 1"),
	})

	got, err := NewExtractor().ExtractBytes(content, ".pptx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if want := "one 1\ntwo 2\nten 10"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractBytes_ods(t *testing.T) {
	body := `<office:document><office:body><table:table>` +
		`<table:table-row><table:table-cell><text:p>123</text:p></table:table-cell>` +
		`<table:table-cell><text:p>456</text:p></table:table-cell></table:table-row>` +
		`</table:table></office:body></office:document>`
	content := zipOf(t, map[string]string{"content.xml": body})

	got, err := NewExtractor().ExtractBytes(content, ".ods")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "123\n456" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Title")
	f.SetCellValue("Sheet1", "A2", 123)
	f.SetCellValue("Sheet1", "B2", 456)
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	got, err := NewExtractor().ExtractBytes(buf.Bytes(), ".xlsx")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got != "Title\n123\n456" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_plainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(path, []byte("File 9"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "File 9" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_missingFile(t *testing.T) {
	if _, err := NewExtractor().Extract(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestIsDocument(t *testing.T) {
	cases := map[string]bool{
		".pdf": true, ".DOCX": true, ".ods": true, ".rtf": true,
		".txt": false, ".md": false, "": false,
	}
	for ext, want := range cases {
		if got := IsDocument(ext); got != want {
			t.Errorf("IsDocument(%q) = %v, want %v", ext, got, want)
		}
	}
}
