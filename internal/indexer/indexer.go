// Package indexer normalizes entity records into search documents and commits them to
// the search engine, mirroring every committed change into the record store.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/filter"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/storage"
	"go.uber.org/zap"
)

const reindexPageSize = 500

// Result reports one committed update.
type Result struct {
	IDs     []string
	Status  int
	Deleted []string
	Missing []string
}

// Indexer commits normalized documents to an engine.
type Indexer struct {
	engine   engine.Engine
	registry *profile.Registry
	storage  storage.Storage // optional mirror
	logger   *zap.Logger
	clock    func() time.Time
	location *time.Location
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// WithStorage mirrors committed changes into s.
func WithStorage(s storage.Storage) IndexerOption {
	return func(idx *Indexer) { idx.storage = s }
}

// WithClock sets the time source for created_at and updated_at stamps.
func WithClock(now func() time.Time) IndexerOption {
	return func(idx *Indexer) { idx.clock = now }
}

// WithLocation sets the zone for dates written without one.
func WithLocation(loc *time.Location) IndexerOption {
	return func(idx *Indexer) { idx.location = loc }
}

// NewIndexer creates an indexer over eng using reg for field kinds.
func NewIndexer(eng engine.Engine, reg *profile.Registry, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		engine:   eng,
		registry: reg,
		logger:   zap.NewNop(),
		clock:    time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Index normalizes and commits one record.
func (idx *Indexer) Index(ctx context.Context, rec models.Record) (*Result, error) {
	return idx.IndexBatch(ctx, []models.Record{rec})
}

// IndexBatch normalizes every record and commits them in one update. If any record
// fails normalization nothing is sent to the engine.
func (idx *Indexer) IndexBatch(ctx context.Context, recs []models.Record) (*Result, error) {
	docs, err := idx.normalizeAll(recs)
	if err != nil {
		return nil, err
	}
	return idx.commit(ctx, &engine.UpdateRequest{Add: engineDocs(docs)}, docs)
}

// Delete removes one document by id. A missing id is reported through Result.Status.
func (idx *Indexer) Delete(ctx context.Context, id string) (*Result, error) {
	return idx.commit(ctx, &engine.UpdateRequest{DeleteIDs: []string{id}}, nil)
}

// DeleteByQuery removes every document matching q, a query-string expression or "*".
func (idx *Indexer) DeleteByQuery(ctx context.Context, q string) (*Result, error) {
	return idx.commit(ctx, &engine.UpdateRequest{DeleteQuery: q}, nil)
}

// ReplaceImport atomically replaces every document stamped with importID by recs.
// An empty recs removes the import.
func (idx *Indexer) ReplaceImport(ctx context.Context, importID string, recs []models.Record) (*Result, error) {
	c, err := filter.Exact(fieldImportID, importID)
	if err != nil {
		return nil, fmt.Errorf("invalid import id: %w", err)
	}
	stamped := make([]models.Record, len(recs))
	for i, rec := range recs {
		r := rec.Clone()
		r[fieldImportID] = importID
		stamped[i] = r
	}
	docs, err := idx.normalizeAll(stamped)
	if err != nil {
		return nil, err
	}
	return idx.commit(ctx, &engine.UpdateRequest{DeleteQuery: c.String(), Add: engineDocs(docs)}, docs)
}

// Reindex replaces the engine contents with every record of the store. The store is
// read in full before the engine is touched and the swap is one commit, so a failed
// reindex leaves the previous index in place. It returns the number of documents indexed.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	if idx.storage == nil {
		return 0, fmt.Errorf("reindex requires a record store")
	}
	var all []*models.SearchDocument
	for offset := 0; ; offset += reindexPageSize {
		docs, err := idx.storage.ListRecords(ctx, offset, reindexPageSize)
		if err != nil {
			return 0, fmt.Errorf("failed to list records: %w", err)
		}
		all = append(all, docs...)
		idx.logger.Debug("read records page", zap.Int("offset", offset), zap.Int("count", len(docs)))
		if len(docs) < reindexPageSize {
			break
		}
	}
	req := &engine.UpdateRequest{DeleteQuery: models.Wildcard, Add: engineDocs(all)}
	if _, err := idx.engine.Update(ctx, req); err != nil {
		return 0, fmt.Errorf("failed to rebuild index: %w", err)
	}
	return len(all), nil
}

func (idx *Indexer) normalizeAll(recs []models.Record) ([]*models.SearchDocument, error) {
	docs := make([]*models.SearchDocument, 0, len(recs))
	for i, rec := range recs {
		doc, err := idx.Normalize(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func engineDocs(docs []*models.SearchDocument) []engine.Document {
	out := make([]engine.Document, len(docs))
	for i, d := range docs {
		out[i] = engine.Document{ID: d.ID, Body: d.Body()}
	}
	return out
}

func (idx *Indexer) commit(ctx context.Context, req *engine.UpdateRequest, docs []*models.SearchDocument) (*Result, error) {
	resp, err := idx.engine.Update(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update index: %w", err)
	}
	res := &Result{Status: resp.Status, Deleted: resp.Deleted, Missing: resp.Missing}
	for _, d := range docs {
		res.IDs = append(res.IDs, d.ID)
	}
	idx.mirror(ctx, req, resp, docs)
	return res, nil
}

// mirror applies a committed update to the record store. The engine is the source of
// truth for search, so store failures are logged and not returned.
func (idx *Indexer) mirror(ctx context.Context, req *engine.UpdateRequest, resp *engine.UpdateResponse, docs []*models.SearchDocument) {
	if idx.storage == nil {
		return
	}
	var err error
	if req.DeleteQuery == models.Wildcard {
		err = idx.storage.DeleteAllRecords(ctx)
	} else {
		removed := make([]string, 0, len(resp.Deleted)+len(req.DeleteIDs))
		removed = append(removed, resp.Deleted...)
		removed = append(removed, req.DeleteIDs...)
		err = idx.storage.DeleteRecords(ctx, removed)
	}
	if err == nil {
		err = idx.storage.UpsertRecords(ctx, docs)
	}
	if err != nil {
		idx.logger.Warn("failed to mirror update into record store",
			zap.Int("added", len(docs)), zap.Int("deleted", len(resp.Deleted)+len(req.DeleteIDs)), zap.Error(err))
	}
}
