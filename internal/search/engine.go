// Package search provides the search orchestrator: it builds engine requests from
// caller queries, reshapes engine responses, and degrades to explicit failure values.
package search

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/hyperjump/medisearch/internal/config"
	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/facet"
	"github.com/hyperjump/medisearch/internal/filter"
	"github.com/hyperjump/medisearch/internal/indexer"
	"github.com/hyperjump/medisearch/internal/ingest"
	"github.com/hyperjump/medisearch/internal/metrics"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/query"
	"github.com/hyperjump/medisearch/internal/storage"
	"github.com/hyperjump/medisearch/pkg/utils"
	"go.uber.org/zap"
)

const (
	defaultPerPage      = 20
	defaultMaxPerPage   = 100
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
	maxStatsTypes       = 100

	msgUnavailable = "Search service is temporarily unavailable"
	msgFailed      = "Search could not be completed"
)

// Service runs searches, suggestions and index maintenance against an engine.
// Public methods never return errors; failures are logged and reported as values.
type Service struct {
	engine      engine.Engine
	registry    *profile.Registry
	indexer     *indexer.Indexer
	translator  *filter.Translator
	highlighter *Highlighter
	storage     storage.Storage
	logger      *zap.Logger
	debug       bool
	clock       func() time.Time
	location    *time.Location

	defaultPerPage int
	maxPerPage     int
	suggestLimit   int
	snippets       int
	fragmentSize   int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = utils.OrNop(l) }
}

// WithDebug exposes error details and debug information in results.
func WithDebug(debug bool) Option {
	return func(s *Service) { s.debug = debug }
}

// WithClock sets the time source for facet planning and document stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// WithLocation sets the zone used for date filters and dates without a zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// WithStorage mirrors index changes into a record store.
func WithStorage(st storage.Storage) Option {
	return func(s *Service) { s.storage = st }
}

// WithConfig applies paging, highlighting, suggestion and time zone settings.
func WithConfig(cfg *config.SearchConfig) Option {
	return func(s *Service) {
		if cfg.DefaultPerPage > 0 {
			s.defaultPerPage = cfg.DefaultPerPage
		}
		if cfg.MaxPerPage > 0 {
			s.maxPerPage = cfg.MaxPerPage
		}
		if cfg.SuggestLimit > 0 {
			s.suggestLimit = cfg.SuggestLimit
		}
		if cfg.HighlightSnippets > 0 {
			s.snippets = cfg.HighlightSnippets
		}
		if cfg.HighlightFragmentSize > 0 {
			s.fragmentSize = cfg.HighlightFragmentSize
		}
		if loc, err := cfg.Location(); err == nil {
			s.location = loc
		}
	}
}

// NewService creates a search service over eng. The engine is owned by the caller.
func NewService(eng engine.Engine, reg *profile.Registry, opts ...Option) *Service {
	s := &Service{
		engine:         eng,
		registry:       reg,
		logger:         zap.NewNop(),
		clock:          time.Now,
		location:       time.UTC,
		defaultPerPage: defaultPerPage,
		maxPerPage:     defaultMaxPerPage,
		suggestLimit:   defaultSuggestLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.translator = filter.NewTranslator(reg,
		filter.WithLogger(s.logger),
		filter.WithLocation(s.location),
		filter.WithDropHook(metrics.FilterDropped),
	)
	s.highlighter = NewHighlighter(s.snippets, s.fragmentSize)
	idxOpts := []indexer.IndexerOption{
		indexer.WithLogger(s.logger),
		indexer.WithClock(s.clock),
		indexer.WithLocation(s.location),
	}
	if s.storage != nil {
		idxOpts = append(idxOpts, indexer.WithStorage(s.storage))
	}
	s.indexer = indexer.NewIndexer(eng, reg, idxOpts...)
	return s
}

// Indexer returns the indexer used for writes, for file imports and reindexing.
func (s *Service) Indexer() *indexer.Indexer {
	return s.indexer
}

// Registry returns the type profile registry.
func (s *Service) Registry() *profile.Registry {
	return s.registry
}

// Search runs q and returns a page of canonical results with facets. It never fails:
// engine errors produce a result with Success false.
func (s *Service) Search(ctx context.Context, q *models.SearchQuery) *models.SearchResult {
	start := time.Now()
	var sq models.SearchQuery
	if q != nil {
		sq = *q
	}
	sq.Normalize(s.defaultPerPage, s.maxPerPage)

	pl := s.processQuery(&sq)
	resp, err := s.engine.Search(ctx, pl.request)
	if err != nil {
		kind := errorKind(err)
		s.logger.Error("search failed",
			zap.String("query", sq.Text),
			zap.Any("filters", sq.Filters),
			zap.String("profile", pl.profile.Type),
			zap.String("error_kind", string(kind)),
			zap.Error(err),
			zap.Stack("stack"),
		)
		metrics.ObserveSearch(pl.profile.Type, false, time.Since(start))
		return models.FailedSearch(kind, s.message(kind, err), sq.Page, sq.PerPage)
	}

	result := &models.SearchResult{
		Success:     true,
		Results:     make([]*models.SearchResultItem, 0, len(resp.Hits)),
		Total:       resp.Total,
		Pages:       utils.Pages(resp.Total, sq.PerPage),
		CurrentPage: sq.Page,
		PerPage:     sq.PerPage,
		Facets:      facet.Extract(resp.Facets, pl.facets, s.registry.Label),
	}
	for _, hit := range resp.Hits {
		hl := s.highlighter.Extract(hit.Fragments)
		hitType := profile.StringValue(first(hit.Fields["type"]))
		result.Results = append(result.Results, Normalize(hit, hl, s.registry.For(hitType)))
	}

	elapsed := time.Since(start)
	if s.debug {
		result.Debug = &models.DebugInfo{
			QueryTimeMS:  elapsed.Milliseconds(),
			EngineTimeMS: resp.Took.Milliseconds(),
			Profile:      pl.profile.Type,
			Query:        pl.relevance.String(),
			Filters:      filter.Strings(pl.clauses),
			Facets:       facet.Strings(pl.facets),
			Sort:         engine.SortOrder(pl.sort),
		}
	}
	metrics.ObserveSearch(pl.profile.Type, true, elapsed)
	s.logger.Debug("search completed",
		zap.String("query", sq.Text),
		zap.String("profile", pl.profile.Type),
		zap.Int("total", resp.Total),
		zap.Duration("took", elapsed),
	)
	return result
}

// Suggest returns completions for q.Prefix over the suggest fields of q's type.
func (s *Service) Suggest(ctx context.Context, q *models.SuggestQuery) *models.SuggestResult {
	out := &models.SuggestResult{Success: true, Suggestions: []models.Suggestion{}}
	if q == nil || strings.TrimSpace(q.Prefix) == "" {
		return out
	}
	p := s.registry.For(q.TypeHint)
	limit := q.Limit
	if limit <= 0 {
		limit = s.suggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}
	req := &engine.SuggestRequest{Prefix: strings.TrimSpace(q.Prefix), Fields: p.SuggestFields, Limit: limit}
	if s.registry.Known(p.Type) {
		if c, err := filter.Exact("type", p.Type); err == nil {
			req.Filters = []filter.Clause{c}
		}
	}

	resp, err := s.engine.Suggest(ctx, req)
	if err != nil {
		kind := errorKind(err)
		s.logger.Error("suggest failed",
			zap.String("prefix", q.Prefix),
			zap.String("type", q.TypeHint),
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		)
		return &models.SuggestResult{Success: false, Suggestions: []models.Suggestion{}, Error: kind}
	}
	for _, h := range resp.Suggestions {
		out.Suggestions = append(out.Suggestions, models.Suggestion{
			Term:    h.Term,
			Weight:  utils.Round(h.Weight, 2),
			Payload: h.Payload,
		})
	}
	return out
}

// IndexDocument normalizes and indexes one record.
func (s *Service) IndexDocument(ctx context.Context, rec models.Record) bool {
	res, err := s.indexer.Index(ctx, rec)
	if err != nil {
		s.logger.Error("failed to index document",
			zap.Any("id", rec["id"]),
			zap.Any("type", rec["type"]),
			zap.Error(err),
		)
		metrics.ObserveIndexOperation("index", false, 0)
		return false
	}
	s.warnStatus("index", res)
	metrics.ObserveIndexOperation("index", true, len(res.IDs))
	return true
}

// IndexDocuments indexes recs in one commit. Any invalid record rejects the batch.
func (s *Service) IndexDocuments(ctx context.Context, recs []models.Record) bool {
	if len(recs) == 0 {
		return true
	}
	res, err := s.indexer.IndexBatch(ctx, recs)
	if err != nil {
		s.logger.Error("failed to index documents", zap.Int("batch_size", len(recs)), zap.Error(err))
		metrics.ObserveIndexOperation("index_batch", false, 0)
		return false
	}
	s.warnStatus("index_batch", res)
	metrics.ObserveIndexOperation("index_batch", true, len(res.IDs))
	return true
}

// DeleteDocument removes one document. Deleting an unknown id succeeds with a warning.
func (s *Service) DeleteDocument(ctx context.Context, id string) bool {
	res, err := s.indexer.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete document", zap.String("id", id), zap.Error(err))
		metrics.ObserveIndexOperation("delete", false, 0)
		return false
	}
	s.warnStatus("delete", res)
	metrics.ObserveIndexOperation("delete", true, 0)
	return true
}

// DeleteByQuery removes every document matching a query-string expression.
func (s *Service) DeleteByQuery(ctx context.Context, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		s.logger.Warn("refusing delete by empty query")
		return false
	}
	res, err := s.indexer.DeleteByQuery(ctx, q)
	if err != nil {
		s.logger.Error("failed to delete by query", zap.String("query", q), zap.Error(err))
		metrics.ObserveIndexOperation("delete_by_query", false, 0)
		return false
	}
	s.logger.Info("deleted by query", zap.String("query", q), zap.Int("deleted", len(res.Deleted)))
	metrics.ObserveIndexOperation("delete_by_query", true, 0)
	return true
}

// DeleteByFilters removes every document matching filters, translated like search
// filters. Filters that translate to no clause are refused.
func (s *Service) DeleteByFilters(ctx context.Context, filters models.Filters) bool {
	clauses := s.translator.Translate(filters, s.registry.For(filters.TypeHint()))
	if len(clauses) == 0 {
		s.logger.Warn("refusing delete by filters without any usable filter", zap.Any("filters", filters))
		return false
	}
	return s.DeleteByQuery(ctx, strings.Join(filter.Strings(clauses), " "))
}

// DeleteAll removes every document.
func (s *Service) DeleteAll(ctx context.Context) bool {
	return s.DeleteByQuery(ctx, models.Wildcard)
}

// Reindex rebuilds the index from the record store and returns the number of
// documents indexed.
func (s *Service) Reindex(ctx context.Context) (int, bool) {
	n, err := s.indexer.Reindex(ctx)
	if err != nil {
		s.logger.Error("reindex failed", zap.Int("indexed", n), zap.Error(err))
		metrics.ObserveIndexOperation("reindex", false, n)
		return n, false
	}
	s.logger.Info("reindex completed", zap.Int("indexed", n))
	metrics.ObserveIndexOperation("reindex", true, n)
	return n, true
}

// ImportPath imports a record file, or every supported file under a directory, with
// reader. Each file replaces its previous import. It returns the number of files imported.
func (s *Service) ImportPath(ctx context.Context, reader *ingest.Reader, path string, extensions []string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		n, err := s.indexer.ImportDirectory(ctx, reader, path, extensions)
		metrics.ObserveIndexOperation("import", err == nil, 0)
		if err != nil {
			s.logger.Error("directory import failed", zap.String("path", path), zap.Int("files", n), zap.Error(err))
		}
		return n, err
	}
	res, err := s.indexer.ImportFile(ctx, reader, path, nil)
	if err != nil {
		metrics.ObserveIndexOperation("import", false, 0)
		s.logger.Error("file import failed", zap.String("path", path), zap.Error(err))
		return 0, err
	}
	s.warnStatus("import", res)
	metrics.ObserveIndexOperation("import", true, len(res.IDs))
	return 1, nil
}

// HealthCheck reports whether the engine can serve requests.
func (s *Service) HealthCheck(ctx context.Context) bool {
	return s.Health(ctx).Reachable
}

// Health reports engine reachability with the reason when unreachable.
func (s *Service) Health(ctx context.Context) models.HealthStatus {
	if err := s.engine.Ping(ctx); err != nil {
		s.logger.Warn("search engine health check failed", zap.Error(err))
		return models.HealthStatus{Reachable: false, Reason: err.Error()}
	}
	return models.HealthStatus{Reachable: true}
}

// Stats returns the document count and the number of documents per type.
func (s *Service) Stats(ctx context.Context) models.IndexStats {
	stats := models.IndexStats{Types: map[string]int{}}
	if err := s.engine.Ping(ctx); err != nil {
		stats.Reason = err.Error()
		return stats
	}
	stats.Reachable = true
	if n, err := s.engine.DocCount(); err == nil {
		stats.Documents = n
	}
	resp, err := s.engine.Search(ctx, &engine.SearchRequest{
		Query:  query.Relevance{MatchAll: true},
		Facets: []facet.Spec{{Name: facet.TypeFacet, Field: "type", MinCount: 1, Limit: maxStatsTypes}},
		Limit:  1,
	})
	if err != nil {
		s.logger.Warn("failed to count documents per type", zap.Error(err))
		return stats
	}
	for _, b := range resp.Facets[facet.TypeFacet] {
		stats.Types[b.Value] = b.Count
	}
	return stats
}

func (s *Service) warnStatus(op string, res *indexer.Result) {
	if res.Status == engine.StatusOK {
		return
	}
	s.logger.Warn("search engine reported non-zero update status",
		zap.String("operation", op),
		zap.Int("status", res.Status),
		zap.Strings("missing", res.Missing),
	)
}

func (s *Service) message(kind models.ErrorKind, err error) string {
	if s.debug {
		return err.Error()
	}
	if kind == models.ErrorEngineUnavailable {
		return msgUnavailable
	}
	return msgFailed
}

func errorKind(err error) models.ErrorKind {
	if errors.Is(err, engine.ErrUnavailable) {
		return models.ErrorEngineUnavailable
	}
	return models.ErrorQueryExecution
}
