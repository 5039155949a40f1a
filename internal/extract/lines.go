package extract

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when no input encoding is configured.
const DefaultEncoding = "utf-8"

// CheckEncoding returns an error when name is not a known encoding label
// ("utf-8", "latin1", "windows-1252", "shift_jis", ...).
func CheckEncoding(name string) error {
	if name == "" {
		return nil
	}
	if _, err := htmlindex.Get(name); err != nil {
		return fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return nil
}

// Decode wraps r so that it yields UTF-8 decoded from the named encoding.
// An empty name means DefaultEncoding; invalid bytes become U+FFFD.
func Decode(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc.NewDecoder().Reader(r), nil
}

// Lines decodes r and calls fn with each non-empty line, trimmed of
// surrounding whitespace. n is the 1-based line number in the input.
// Lines have no length limit. Iteration stops at the first error returned by fn.
func Lines(r io.Reader, encoding string, fn func(n int, line string) error) error {
	dr, err := Decode(r, encoding)
	if err != nil {
		return err
	}
	br := bufio.NewReaderSize(dr, 64*1024)
	n := 0
	for {
		raw, readErr := br.ReadString('\n')
		if raw != "" {
			n++
			if line := strings.TrimSpace(raw); line != "" {
				if err := fn(n, line); err != nil {
					return err
				}
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read line %d: %w", n+1, readErr)
		}
	}
}
