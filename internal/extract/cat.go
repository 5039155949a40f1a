package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractCat handles OpenDocument text and RTF; the format is sniffed from content.
func extractCat(content []byte) (string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}
