// Package extract turns documents and text streams into lines, and pulls
// number-like candidates out of those lines.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor reads plain text out of document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// documentExts lists the extensions that need format-specific extraction.
// Everything else is read as plain text.
var documentExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".odt":  true,
	".rtf":  true,
	".xlsx": true,
	".pptx": true,
	".odp":  true,
	".ods":  true,
}

// IsDocument reports whether ext (with leading dot, any case) names a binary
// or markup document format rather than plain text.
func IsDocument(ext string) bool {
	return documentExts[strings.ToLower(ext)]
}

// Extract reads the file at path and returns its text, one paragraph, cell
// or slide line per output line.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on ext (e.g. ".pdf").
// Unknown extensions are treated as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".odt", ".rtf":
		return extractCat(content)
	case ".xlsx":
		return extractExcel(content)
	case ".pptx":
		return extractPPTX(content)
	case ".odp", ".ods":
		return extractODF(content)
	default:
		return extractPlain(content), nil
	}
}
