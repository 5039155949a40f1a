package extract

import (
	"regexp"
	"strings"
)

// NumberPattern matches runs that look like numbers: a digit or '#' followed
// by any mix of digits, whitespace, commas and '#'. Matches are candidates
// only; "23 456,9" and "#65678" both match although neither is an integer.
const NumberPattern = `[\d#][\d\s,#]*`

var numberRe = regexp.MustCompile(NumberPattern)

// Numbers returns the trimmed candidates found in text, left to right.
// Returns nil when text holds none.
func Numbers(text string) (found []string) {
	defer func() {
		// A matcher failure costs this line its candidates, never the scan.
		if r := recover(); r != nil {
			found = nil
		}
	}()

	for _, m := range numberRe.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			found = append(found, s)
		}
	}
	return found
}
