// Package fileid provides a deterministic import ID from a file path for spooled imports.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "import_"

// ImportID returns a stable import ID for the given absolute path.
// Same path always yields the same ID, so every record read from a file can be
// replaced or deleted together when the file changes.
func ImportID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:12])
}

// FromPath resolves path to an absolute path and returns its ImportID.
func FromPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return ImportID(abs), nil
}
