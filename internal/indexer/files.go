package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/medisearch/internal/fileid"
	"github.com/hyperjump/medisearch/internal/ingest"
	"go.uber.org/zap"
)

const fieldImportID = "import_id"

// ImportFile reads records from path and replaces the previous import of the same file.
// If allowedExts is non-nil and non-empty, the file's extension must be in the list
// (case-insensitive).
func (idx *Indexer) ImportFile(ctx context.Context, reader *ingest.Reader, path string, allowedExts []string) (*Result, error) {
	idx.logger.Debug("indexer importing file", zap.String("path", path))
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return nil, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	recs, err := reader.Read(absPath)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	importID := fileid.ImportID(absPath)
	res, err := idx.ReplaceImport(ctx, importID, recs)
	if err != nil {
		return nil, err
	}
	idx.logger.Debug("indexer file imported",
		zap.String("path", absPath), zap.String("import_id", importID), zap.Int("records", len(res.IDs)), zap.Int("replaced", len(res.Deleted)))
	return res, nil
}

// RemoveFile deletes every document imported from path.
func (idx *Indexer) RemoveFile(ctx context.Context, path string) (*Result, error) {
	importID, err := fileid.FromPath(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	idx.logger.Debug("indexer removing import", zap.String("path", path), zap.String("import_id", importID))
	return idx.ReplaceImport(ctx, importID, nil)
}

// ImportDirectory walks dir recursively and imports each regular file whose extension
// is in allowedExts (if non-nil and non-empty; otherwise every supported format).
// Returns the number of files imported and the first error encountered, if any.
func (idx *Indexer) ImportDirectory(ctx context.Context, reader *ingest.Reader, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		if !ingest.Supported(path) {
			return nil
		}
		// Resolve symlinks so we only import regular files
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, importErr := idx.ImportFile(ctx, reader, path, allowedExts); importErr != nil {
			return fmt.Errorf("%s: %w", path, importErr)
		}
		n++
		return nil
	})
	return n, err
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
