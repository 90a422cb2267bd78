package watcher

import (
	"context"

	"github.com/hyperjump/medisearch/internal/indexer"
	"github.com/hyperjump/medisearch/internal/ingest"
	"github.com/hyperjump/medisearch/internal/metrics"
	"go.uber.org/zap"
)

// IndexHandler imports spool files through an Indexer. Each file's records replace
// the previous import of the same file.
type IndexHandler struct {
	indexer    *indexer.Indexer
	reader     *ingest.Reader
	extensions []string
	logger     *zap.Logger
}

// NewIndexHandler returns a Handler importing files with reader into idx.
func NewIndexHandler(idx *indexer.Indexer, reader *ingest.Reader, extensions []string, logger *zap.Logger) *IndexHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexHandler{indexer: idx, reader: reader, extensions: extensions, logger: logger}
}

// Import implements Handler.
func (h *IndexHandler) Import(ctx context.Context, path string) error {
	res, err := h.indexer.ImportFile(ctx, h.reader, path, h.extensions)
	if err != nil {
		metrics.ObserveIndexOperation("import", false, 0)
		return err
	}
	metrics.ObserveIndexOperation("import", true, len(res.IDs))
	h.logger.Info("imported spool file",
		zap.String("path", path),
		zap.Int("records", len(res.IDs)),
		zap.Int("replaced", len(res.Deleted)),
	)
	return nil
}

// Remove implements Handler.
func (h *IndexHandler) Remove(ctx context.Context, path string) error {
	res, err := h.indexer.RemoveFile(ctx, path)
	if err != nil {
		metrics.ObserveIndexOperation("remove_import", false, 0)
		return err
	}
	metrics.ObserveIndexOperation("remove_import", true, 0)
	h.logger.Info("removed spool file records", zap.String("path", path), zap.Int("deleted", len(res.Deleted)))
	return nil
}

var _ Handler = (*IndexHandler)(nil)
