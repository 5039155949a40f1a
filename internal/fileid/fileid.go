// Package fileid provides a deterministic source ID from a file path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "src:"

// SourceID returns a stable ID for the given absolute path.
// Same path always yields the same ID; scans, rescans and removals key on it.
func SourceID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:16])
}

// ForPath resolves path to an absolute path and returns it with its SourceID.
func ForPath(path string) (abs, id string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	return abs, SourceID(abs), nil
}
