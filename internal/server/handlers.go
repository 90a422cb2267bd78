package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/medisearch/internal/config"
	"github.com/hyperjump/medisearch/internal/ingest"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/search"
	"github.com/hyperjump/medisearch/internal/storage"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; batches of a few thousand records fit comfortably.
const maxBodyBytes = 32 << 20

// BatchRequest is the body of POST /api/v1/documents/batch.
type BatchRequest struct {
	Documents []models.Record `json:"documents"`
}

// DeleteByQueryRequest is the body of POST /api/v1/documents/delete-by-query. Query
// takes precedence over Filters.
type DeleteByQueryRequest struct {
	Query   string         `json:"query,omitempty"`
	Filters models.Filters `json:"filters,omitempty"`
}

// decodeBody decodes a JSON body into v keeping numbers as json.Number. An empty body
// leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := decodeBody(r, &query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Text), zap.Int("page", query.Page), zap.Int("per_page", query.PerPage))
	result := s.svc.Search(r.Context(), &query)
	s.respondJSON(w, searchStatus(result.Success, result.Error), result)
}

// searchStatus maps a degraded result to an HTTP status. The body always carries the result.
func searchStatus(success bool, kind models.ErrorKind) int {
	switch {
	case success:
		return http.StatusOK
	case kind == models.ErrorEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &models.SuggestQuery{
		Prefix:   q.Get("q"),
		TypeHint: q.Get("type"),
	}
	if req.Prefix == "" {
		req.Prefix = q.Get("prefix")
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		req.Limit = n
	}
	result := s.svc.Suggest(r.Context(), req)
	s.respondJSON(w, searchStatus(result.Success, result.Error), result)
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var rec models.Record
	if err := decodeBody(r, &rec); err != nil || rec == nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("index document request", zap.Any("id", rec["id"]), zap.Any("type", rec["type"]))
	if !s.svc.IndexDocument(r.Context(), rec) {
		s.respondError(w, http.StatusUnprocessableEntity, "document could not be indexed")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"status": "indexed", "count": 1})
}

func (s *Server) handleIndexBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("index batch request", zap.Int("batch_size", len(req.Documents)))
	if !s.svc.IndexDocuments(r.Context(), req.Documents) {
		s.respondError(w, http.StatusUnprocessableEntity, "batch could not be indexed")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"status": "indexed", "count": len(req.Documents)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if !s.svc.DeleteDocument(r.Context(), id) {
		s.respondError(w, http.StatusInternalServerError, "document could not be deleted")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleDeleteByQuery(w http.ResponseWriter, r *http.Request) {
	var req DeleteByQueryRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var ok bool
	switch {
	case req.Query != "":
		ok = s.svc.DeleteByQuery(r.Context(), req.Query)
	case len(req.Filters) > 0:
		ok = s.svc.DeleteByFilters(r.Context(), req.Filters)
	default:
		s.respondError(w, http.StatusBadRequest, "query or filters is required")
		return
	}
	if !ok {
		s.respondError(w, http.StatusUnprocessableEntity, "delete by query failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") != "true" {
		s.respondError(w, http.StatusBadRequest, "deleting every document requires all=true")
		return
	}
	s.logger.Info("delete all documents request")
	if !s.svc.DeleteAll(r.Context()) {
		s.respondError(w, http.StatusInternalServerError, "documents could not be deleted")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.svc.Health(r.Context())
	if !h.Reachable {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "reason": h.Reason})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	report, err := BuildStatus(r.Context(), s.svc, s.storage, s.config)
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// BuildStatus collects index statistics, record store counts and disk usage. store
// may be nil.
func BuildStatus(ctx context.Context, svc *search.Service, store storage.Storage, cfg *config.Config) (*models.StatusReport, error) {
	report := &models.StatusReport{
		Index: svc.Stats(ctx),
		Types: svc.Registry().Types(),
		Config: map[string]interface{}{
			"database_path":    cfg.Storage.DatabasePath,
			"index_path":       cfg.Storage.IndexPath,
			"default_per_page": cfg.Search.DefaultPerPage,
			"max_per_page":     cfg.Search.MaxPerPage,
			"timezone":         cfg.Search.Timezone,
			"debug":            cfg.Debug,
		},
	}
	if store != nil {
		n, err := store.CountRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("count records: %w", err)
		}
		report.Records = &n
		byType, err := store.CountByType(ctx)
		if err != nil {
			return nil, fmt.Errorf("count records by type: %w", err)
		}
		report.RecordsByType = byType
	}
	if usage, err := storage.MeasureDiskUsage(cfg.Storage.DatabasePath, cfg.Storage.IndexPath); err == nil {
		total := usage.Total()
		report.DiskUsageBytes = &total
		report.StoreBytes = &usage.StoreBytes
		report.IndexBytes = &usage.IndexBytes
	}
	return report, nil
}

// ImportRequest is the body of POST /api/v1/import. Path is read on the server host.
type ImportRequest struct {
	Path string `json:"path"`
	Type string `json:"type,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "path not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defaultType := req.Type
	if defaultType == "" {
		defaultType = s.config.Watch.DefaultType
	}
	reader := ingest.NewReader(ingest.WithDefaultType(defaultType), ingest.WithKnownTypes(s.svc.Registry().Known))
	s.logger.Debug("import request", zap.String("path", abs), zap.String("default_type", defaultType))
	n, err := s.svc.ImportPath(r.Context(), reader, abs, s.config.Watch.Extensions)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"path": abs, "files": n, "status": "imported"})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	n, ok := s.svc.Reindex(r.Context())
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "reindex failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"documents": n, "status": "reindexed"})
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	dirs := s.watch.Directories()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": dirs})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := decodeBody(r, &body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistWatchDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Watch.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
