package e2e

import (
	"strings"
	"testing"

	"github.com/hyperjump/wordify/internal/extract"
)

func TestWriteMinimalFile_AllExtensionsExtractable(t *testing.T) {
	e := extract.NewExtractor()
	lines := []string{"Invoice #65678", "Total 87334 & tax 15"}
	for _, ext := range SupportedFileExtensions {
		t.Run(ext, func(t *testing.T) {
			content, err := WriteMinimalFile(ext, lines)
			if err != nil {
				t.Fatalf("WriteMinimalFile: %v", err)
			}
			if len(content) == 0 {
				t.Fatal("empty content")
			}
			got, err := e.ExtractBytes(content, ext)
			if err != nil {
				t.Fatalf("ExtractBytes: %v", err)
			}
			want := strings.Join(lines, "\n")
			if strings.TrimSpace(got) != want {
				t.Errorf("extracted text %q, want %q", got, want)
			}
		})
	}
}

func TestWriteMinimalFile_unknownExtension(t *testing.T) {
	if _, err := WriteMinimalFile(".pdf", []string{"1"}); err == nil {
		t.Error("expected error for an extension without a fixture writer")
	}
}
