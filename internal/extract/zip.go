package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

// maxPartSize caps how much of a single archive member is read.
const maxPartSize = 64 << 20

var errPartNotFound = errors.New("part not found")

func openZip(content []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("not a zip: %w", err)
	}
	return zr, nil
}

// readPart returns the contents of the archive member called name.
func readPart(zr *zip.Reader, name string) (string, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		return readFile(f)
	}
	return "", fmt.Errorf("%s: %w", name, errPartNotFound)
}

func readFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	return string(data), nil
}

// paragraphs splits xml on closeTag and concatenates the captured text of
// every textTag match inside each piece. Empty paragraphs are dropped.
func paragraphs(xml, closeTag string, textTag *regexp.Regexp) []string {
	var lines []string
	for _, para := range strings.Split(xml, closeTag) {
		var b strings.Builder
		for _, m := range textTag.FindAllStringSubmatch(para, -1) {
			b.WriteString(m[1])
		}
		if s, ok := textLine(b.String()); ok {
			lines = append(lines, s)
		}
	}
	return lines
}

// textLine unescapes XML character references and trims s.
func textLine(s string) (string, bool) {
	s = strings.TrimSpace(html.UnescapeString(s))
	return s, s != ""
}
