// Package e2e provides end-to-end tests; this file builds minimal binary files for supported types.
package e2e

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions is the list of file extensions used in E2E file-based tests.
// Covers: plain text (.txt, .md, .rst, .csv), OOXML (.docx, .xlsx, .pptx), OpenDocument (.odp, .ods).
// The extractor also supports .pdf, .odt, .rtf; PDF is not generated here (no minimal PDF with
// extractable text) and .odt/.rtf go through the cat reader, covered by internal/extract tests.
var SupportedFileExtensions = []string{
	".txt", ".md", ".rst", ".csv",
	".docx", ".xlsx", ".pptx", ".odp", ".ods",
}

// WriteMinimalFile returns the bytes of a minimal file of the given extension
// holding lines, one paragraph, cell or line each, in order.
// For plain types the content is the raw text; for binary types it is the file bytes.
func WriteMinimalFile(ext string, lines []string) ([]byte, error) {
	switch ext {
	case ".txt", ".md", ".rst", ".csv":
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	case ".docx":
		return minimalDocx(lines)
	case ".pptx":
		return minimalPptx(lines)
	case ".odp":
		return minimalOdp(lines)
	case ".ods":
		return minimalOds(lines)
	case ".xlsx":
		return minimalXlsx(lines)
	default:
		return nil, fmt.Errorf("no fixture writer for %q", ext)
	}
}

func zipOf(name, content string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create(name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapEach escapes every line and wraps it in open and close.
func wrapEach(lines []string, open, close string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(open)
		b.WriteString(html.EscapeString(l))
		b.WriteString(close)
	}
	return b.String()
}

func minimalDocx(lines []string) ([]byte, error) {
	body := wrapEach(lines, `<w:p><w:r><w:t>`, `</w:t></w:r></w:p>`)
	return zipOf("word/document.xml",
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+body+`</w:body></w:document>`)
}

func minimalPptx(lines []string) ([]byte, error) {
	body := wrapEach(lines, `<a:p><a:r><a:t>`, `</a:t></a:r></a:p>`)
	return zipOf("ppt/slides/slide1.xml",
		`<p:sld xmlns:p="a" xmlns:a="b"><p:cSld><p:spTree><p:sp><p:txBody>`+body+`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`)
}

func minimalOdp(lines []string) ([]byte, error) {
	body := wrapEach(lines, `<text:p>`, `</text:p>`)
	return zipOf("content.xml",
		`<office:document><office:body><draw:page><draw:text-box>`+body+`</draw:text-box></draw:page></office:body></office:document>`)
}

func minimalOds(lines []string) ([]byte, error) {
	body := wrapEach(lines, `<table:table-row><table:table-cell><text:p>`, `</text:p></table:table-cell></table:table-row>`)
	return zipOf("content.xml",
		`<office:document><office:body><table:table>`+body+`</table:table></office:body></office:document>`)
}

func minimalXlsx(lines []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue("Sheet1", cell, l); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
