package extract

import (
	"archive/zip"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	docxDefaultPart  = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
	docxMainType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	pptxSlidePrefix  = "ppt/slides/slide"
	odfContentPart   = "content.xml"
)

var (
	// wordText matches <w:t> runs but not <w:tab/>, <w:tbl> and friends.
	wordText = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)
	drawText = regexp.MustCompile(`<a:t(?:\s[^>]*)?>([^<]*)</a:t>`)
	odfText  = regexp.MustCompile(`<text:(?:p|h|span)(?:\s[^>]*)?>([^<]*)</text:(?:p|h|span)>`)

	overrideTag = regexp.MustCompile(`<Override\b[^>]*>`)
	xmlAttr     = regexp.MustCompile(`([\w:]+)="([^"]*)"`)
	slideNumber = regexp.MustCompile(`slide(\d+)\.xml$`)
)

// extractDOCX returns one line per <w:p> paragraph of the main document part.
func extractDOCX(content []byte) (string, error) {
	zr, err := openZip(content)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	part := mainPart(zr, docxMainType)
	if part == "" {
		part = docxDefaultPart
	}
	xml, err := readPart(zr, part)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	return strings.Join(paragraphs(xml, "</w:p>", wordText), "\n"), nil
}

// mainPart looks up the part registered for contentType in [Content_Types].xml.
// Returns "" when the manifest is missing or has no such override.
func mainPart(zr *zip.Reader, contentType string) string {
	manifest, err := readPart(zr, contentTypesPart)
	if err != nil {
		return ""
	}
	for _, tag := range overrideTag.FindAllString(manifest, -1) {
		attrs := make(map[string]string, 2)
		for _, m := range xmlAttr.FindAllStringSubmatch(tag, -1) {
			attrs[m[1]] = m[2]
		}
		if attrs["ContentType"] == contentType && attrs["PartName"] != "" {
			return strings.TrimPrefix(attrs["PartName"], "/")
		}
	}
	return ""
}

// extractPPTX returns one line per text paragraph, slides in numeric order.
func extractPPTX(content []byte) (string, error) {
	zr, err := openZip(content)
	if err != nil {
		return "", fmt.Errorf("extract PPTX: %w", err)
	}

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, pptxSlidePrefix) {
			continue
		}
		m := slideNumber.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var lines []string
	for _, s := range slides {
		xml, err := readFile(s.file)
		if err != nil {
			return "", fmt.Errorf("extract PPTX: %w", err)
		}
		lines = append(lines, paragraphs(xml, "</a:p>", drawText)...)
	}
	return strings.Join(lines, "\n"), nil
}

// extractODF handles OpenDocument presentations and spreadsheets (.odp, .ods):
// every text:p, text:h and text:span element becomes its own line.
func extractODF(content []byte) (string, error) {
	zr, err := openZip(content)
	if err != nil {
		return "", fmt.Errorf("extract ODF: %w", err)
	}
	xml, err := readPart(zr, odfContentPart)
	if err != nil {
		return "", fmt.Errorf("extract ODF: %w", err)
	}
	var lines []string
	for _, m := range odfText.FindAllStringSubmatch(xml, -1) {
		if s, ok := textLine(m[1]); ok {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n"), nil
}
