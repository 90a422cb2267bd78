// Package main is the medisearch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/medisearch/internal/cli"
	"github.com/hyperjump/medisearch/internal/config"
	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/ingest"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/search"
	"github.com/hyperjump/medisearch/internal/server"
	"github.com/hyperjump/medisearch/internal/storage"
	"github.com/hyperjump/medisearch/internal/watcher"
	"github.com/hyperjump/medisearch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/medisearch/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "import":
		runImport()
	case "delete":
		runDelete()
	case "reindex":
		runReindex()
	case "health":
		runHealth()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("medisearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging and debug information in search results")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	handler := watcher.NewIndexHandler(
		components.Service.Indexer(),
		components.reader(cfg.Watch.DefaultType),
		cfg.Watch.Extensions,
		logger,
	)
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		handler,
		watcher.WithLogger(logger),
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	go watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Service,
		components.Storage,
		cfg,
		logger,
		watchSvc,
		resolvedConfigPath,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: medisearch search [flags] [query]\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. An empty query lists every document matching the filters.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Filters are key=value pairs. Comma-separated values match any of them on categorical
fields. date_from and date_to bound the date field of the type.

Examples:
  medisearch search paracetamol
  medisearch search --type medicine --filter category="Thuốc viên"
  medisearch search --type appointment --filter status=scheduled,completed --filter date_from=2024-01-01
  medisearch search --sort created_at:desc --per-page 50 --output json
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchConfigPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func searchConfigPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// perPageDefaultFromConfig returns the configured default page size, or 20 when the
// config cannot be loaded.
func perPageDefaultFromConfig(path string) int {
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil || cfg.Search.DefaultPerPage <= 0 {
		return 20
	}
	return cfg.Search.DefaultPerPage
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// filterFlag collects repeated --filter key=value flags in order.
type filterFlag struct {
	filters models.Filters
}

func (f *filterFlag) String() string {
	parts := make([]string, 0, len(f.filters))
	for _, e := range f.filters {
		parts = append(parts, fmt.Sprintf("%s=%v", e.Key, e.Value))
	}
	return strings.Join(parts, " ")
}

func (f *filterFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("filter %q must be key=value", s)
	}
	if strings.Contains(value, ",") {
		var values []interface{}
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		f.filters.Set(key, values)
		return nil
	}
	f.filters.Set(key, strings.TrimSpace(value))
	return nil
}

// sortFlag collects repeated --sort field[:asc|desc] flags.
type sortFlag struct {
	fields []models.SortField
}

func (f *sortFlag) String() string {
	parts := make([]string, 0, len(f.fields))
	for _, s := range f.fields {
		parts = append(parts, s.Field+":"+s.Direction)
	}
	return strings.Join(parts, ",")
}

func (f *sortFlag) Set(s string) error {
	field, dir, _ := strings.Cut(s, ":")
	field = strings.TrimSpace(field)
	dir = strings.ToLower(strings.TrimSpace(dir))
	if field == "" {
		return fmt.Errorf("sort %q needs a field", s)
	}
	if dir != "" && dir != "asc" && dir != "desc" {
		return fmt.Errorf("sort direction %q must be asc or desc", dir)
	}
	f.fields = append(f.fields, models.SortField{Field: field, Direction: dir})
	return nil
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])
	defaultPerPage := perPageDefaultFromConfig(searchConfigPathFromArgs(searchArgs, defaultConfigPath))

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use the local index directly)")
	typeHint := fs.String("type", "", "entity type to search (medicine, patient, staff, appointment, ...)")
	page := fs.Int("page", 1, "result page")
	perPage := fs.Int("per-page", defaultPerPage, "results per page")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	var filters filterFlag
	var sorts sortFlag
	fs.Var(&filters, "filter", "filter as key=value (repeatable)")
	fs.Var(&sorts, "sort", "sort as field[:asc|desc] (repeatable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	q := &models.SearchQuery{
		Text:    buildSearchQuery(fs.Args()),
		Filters: filters.filters,
		Page:    *page,
		PerPage: *perPage,
		Sort:    sorts.fields,
	}
	if *typeHint != "" {
		q.Filters.Set("type", *typeHint)
	}

	var result *models.SearchResult
	if *serverURL != "" {
		// The server holds the index lock; go through its API when it runs.
		result = &models.SearchResult{}
		if _, err := requestJSON(http.MethodPost, *serverURL+"/api/v1/search", q, result,
			http.StatusOK, http.StatusInternalServerError, http.StatusServiceUnavailable); err != nil {
			fatalf("Search failed: %v", err)
		}
	} else {
		withComponents(*configPath, func(ctx context.Context, c *Components, _ *config.Config) {
			result = c.Service.Search(ctx, q)
		})
	}
	if err := cli.WriteSearchResults(os.Stdout, result, format); err != nil {
		fatalf("Output failed: %v", err)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func runSuggest() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use the local index directly)")
	typeHint := fs.String("type", "", "entity type")
	limit := fs.Int("limit", 0, "maximum suggestions (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	prefix := buildSearchQuery(fs.Args())
	if prefix == "" {
		fatalf("Usage: medisearch suggest [flags] <prefix>")
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	q := &models.SuggestQuery{Prefix: prefix, TypeHint: *typeHint, Limit: *limit}

	var result *models.SuggestResult
	if *serverURL != "" {
		v := url.Values{}
		v.Set("q", q.Prefix)
		if q.TypeHint != "" {
			v.Set("type", q.TypeHint)
		}
		if q.Limit > 0 {
			v.Set("limit", strconv.Itoa(q.Limit))
		}
		result = &models.SuggestResult{}
		if _, err := requestJSON(http.MethodGet, *serverURL+"/api/v1/suggest?"+v.Encode(), nil, result,
			http.StatusOK, http.StatusInternalServerError, http.StatusServiceUnavailable); err != nil {
			fatalf("Suggest failed: %v", err)
		}
	} else {
		withComponents(*configPath, func(ctx context.Context, c *Components, _ *config.Config) {
			result = c.Service.Suggest(ctx, q)
		})
	}
	if err := cli.WriteSuggestions(os.Stdout, result, format); err != nil {
		fatalf("Output failed: %v", err)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use the local index directly)")
	typeHint := fs.String("type", "", "type for records that carry none (default: watch.default_type)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fatalf("Usage: medisearch import [flags] <file-or-directory>")
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fatalf("Invalid path: %v", err)
	}

	if *serverURL != "" {
		var out struct {
			Files int `json:"files"`
		}
		if _, err := requestJSON(http.MethodPost, *serverURL+"/api/v1/import",
			server.ImportRequest{Path: path, Type: *typeHint}, &out, http.StatusOK); err != nil {
			fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %d file(s) from %s\n", out.Files, path)
		return
	}
	withComponents(*configPath, func(ctx context.Context, c *Components, cfg *config.Config) {
		defaultType := *typeHint
		if defaultType == "" {
			defaultType = cfg.Watch.DefaultType
		}
		n, err := c.Service.ImportPath(ctx, c.reader(defaultType), path, cfg.Watch.Extensions)
		if err != nil {
			fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %d file(s) from %s\n", n, path)
	})
}

func runDelete() {
	args := searchArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use the local index directly)")
	queryStr := fs.String("query", "", "delete every document matching this query-string expression")
	all := fs.Bool("all", false, "delete every document")
	var filters filterFlag
	fs.Var(&filters, "filter", "delete documents matching key=value (repeatable)")
	_ = fs.Parse(args)

	ids := fs.Args()
	mode := 0
	for _, set := range []bool{len(ids) > 0, *queryStr != "", len(filters.filters) > 0, *all} {
		if set {
			mode++
		}
	}
	if mode != 1 {
		fatalf("Usage: medisearch delete [flags] <document-id>... | --query <expr> | --filter key=value... | --all")
	}

	if *serverURL != "" {
		var err error
		switch {
		case *all:
			_, err = requestJSON(http.MethodDelete, *serverURL+"/api/v1/documents?all=true", nil, nil, http.StatusOK)
		case *queryStr != "" || len(filters.filters) > 0:
			body := server.DeleteByQueryRequest{Query: *queryStr, Filters: filters.filters}
			_, err = requestJSON(http.MethodPost, *serverURL+"/api/v1/documents/delete-by-query", body, nil, http.StatusOK)
		default:
			for _, id := range ids {
				if _, err = requestJSON(http.MethodDelete, *serverURL+"/api/v1/documents/"+url.PathEscape(id), nil, nil, http.StatusOK); err != nil {
					break
				}
			}
		}
		if err != nil {
			fatalf("Deletion failed: %v", err)
		}
		fmt.Println("Deleted")
		return
	}
	withComponents(*configPath, func(ctx context.Context, c *Components, _ *config.Config) {
		ok := true
		switch {
		case *all:
			ok = c.Service.DeleteAll(ctx)
		case *queryStr != "":
			ok = c.Service.DeleteByQuery(ctx, *queryStr)
		case len(filters.filters) > 0:
			ok = c.Service.DeleteByFilters(ctx, filters.filters)
		default:
			for _, id := range ids {
				if ok = c.Service.DeleteDocument(ctx, id); !ok {
					break
				}
			}
		}
		if !ok {
			fatalf("Deletion failed")
		}
		fmt.Println("Deleted")
	})
}

func runReindex() {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use the local index directly)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		var out struct {
			Documents int `json:"documents"`
		}
		if _, err := requestJSON(http.MethodPost, *serverURL+"/api/v1/reindex", nil, &out, http.StatusOK); err != nil {
			fatalf("Reindex failed: %v", err)
		}
		fmt.Printf("Reindexed %d document(s)\n", out.Documents)
		return
	}
	withComponents(*configPath, func(ctx context.Context, c *Components, _ *config.Config) {
		n, ok := c.Service.Reindex(ctx)
		if !ok {
			fatalf("Reindex failed")
		}
		fmt.Printf("Reindexed %d document(s)\n", n)
	})
}

func runHealth() {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = check the local index directly)")
	_ = fs.Parse(os.Args[2:])

	var health models.HealthStatus
	if *serverURL != "" {
		var out struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}
		status, err := requestJSON(http.MethodGet, *serverURL+"/health", nil, &out, http.StatusOK, http.StatusServiceUnavailable)
		if err != nil {
			health = models.HealthStatus{Reason: err.Error()}
		} else {
			health = models.HealthStatus{Reachable: status == http.StatusOK, Reason: out.Reason}
		}
	} else {
		withComponents(*configPath, func(ctx context.Context, c *Components, _ *config.Config) {
			health = c.Service.Health(ctx)
		})
	}
	if !health.Reachable {
		fatalf("unavailable: %s", health.Reason)
	}
	fmt.Println("ok")
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use the local index directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	var report *models.StatusReport
	if *serverURL != "" {
		report = &models.StatusReport{}
		if _, err := requestJSON(http.MethodGet, *serverURL+"/api/v1/status", nil, report, http.StatusOK); err != nil {
			fatalf("Status failed: %v", err)
		}
	} else {
		withComponents(*configPath, func(ctx context.Context, c *Components, cfg *config.Config) {
			report, err = server.BuildStatus(ctx, c.Service, c.Storage, cfg)
			if err != nil {
				fatalf("Status failed: %v", err)
			}
		})
	}
	if err := cli.WriteStatus(os.Stdout, report, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: medisearch watch <add|remove|list> [path]")
		fmt.Println("  medisearch watch add <path>     Add a spool directory")
		fmt.Println("  medisearch watch remove <path>  Remove a spool directory")
		fmt.Println("  medisearch watch list           List spool directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	syncExisting := fs.Bool("sync", true, "import files already in the directory (add only)")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fatalf("Usage: medisearch watch add <path>")
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body := map[string]interface{}{"path": path, "sync": *syncExisting}
		if _, err := requestJSON(http.MethodPost, *serverURL+"/api/v1/watch/directories", body, nil, http.StatusCreated); err != nil {
			fatalf("Add failed: %v", err)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fatalf("Usage: medisearch watch remove <path>")
		}
		path, _ := filepath.Abs(fs.Arg(0))
		if _, err := requestJSON(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil, nil, http.StatusOK); err != nil {
			fatalf("Remove failed: %v", err)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		var out struct {
			Directories []string `json:"directories"`
		}
		if _, err := requestJSON(http.MethodGet, *serverURL+"/api/v1/watch/directories", nil, &out, http.StatusOK); err != nil {
			fatalf("List failed: %v", err)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fatalf("Unknown watch subcommand: %s", sub)
	}
}

// requestJSON sends body as JSON and decodes the response into out (when non-nil).
// Responses whose status is not in accept are returned as errors carrying the body.
func requestJSON(method, target string, body, out interface{}, accept ...int) (int, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, rd)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	accepted := false
	for _, code := range accept {
		if resp.StatusCode == code {
			accepted = true
			break
		}
	}
	if !accepted {
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Components holds initialized services.
type Components struct {
	Storage  *storage.SQLiteStorage
	Engine   *engine.BleveEngine
	Registry *profile.Registry
	Service  *search.Service
}

// Close releases the index and the record store.
func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func (c *Components) reader(defaultType string) *ingest.Reader {
	return ingest.NewReader(ingest.WithDefaultType(defaultType), ingest.WithKnownTypes(c.Registry.Known))
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	reg := profile.Default()
	eng, err := engine.NewBleveEngine(cfg.Storage.IndexPath, reg, engine.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize search index: %w", err)
	}
	svc := search.NewService(eng, reg,
		search.WithLogger(logger),
		search.WithDebug(debug),
		search.WithStorage(store),
		search.WithConfig(&cfg.Search),
	)
	logger.Debug("components initialized",
		zap.String("database_path", cfg.Storage.DatabasePath),
		zap.String("index_path", cfg.Storage.IndexPath),
		zap.Strings("types", reg.Types()),
	)
	return &Components{Storage: store, Engine: eng, Registry: reg, Service: svc}, nil
}

// withComponents loads the config, opens the local index and store, and runs fn.
func withComponents(configPath string, fn func(ctx context.Context, c *Components, cfg *config.Config)) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fatalf("Failed to initialize: %v", err)
	}
	defer components.Close()
	fn(context.Background(), components, cfg)
}

func printUsage() {
	fmt.Println(`medisearch - Faceted search over hospital records

Usage:
  medisearch server [flags]                Start the HTTP server and the import spool watcher
  medisearch search [flags] [query]        Search records
  medisearch suggest [flags] <prefix>      Suggest completions
  medisearch import [flags] <path>         Import a record file or directory (.json, .ndjson, .csv, .xlsx)
  medisearch delete [flags] <id>...        Delete records by id, --query, --filter or --all
  medisearch reindex [flags]               Rebuild the index from the record store
  medisearch health [flags]                Check that the index is reachable
  medisearch status [flags]                Show index, store and disk status
  medisearch watch <add|remove|list>       Manage spool directories
  medisearch version                       Show version
  medisearch help                          Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/medisearch/config.yaml)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to open the local index directly.

Server Flags:
  --debug            Enable debug logging and debug information in search results

Search Flags:
  --type string      Entity type (medicine, patient, staff, appointment, invoice, ...)
  --filter k=v       Filter (repeatable); comma-separated values match any
  --sort f[:dir]     Sort field (repeatable)
  --page int         Result page (default: 1)
  --per-page int     Results per page (default from config, or 20)
  --output string    Output format: text, compact, or json (default: text)

Examples:
  medisearch server
  medisearch search --type medicine paracetamol
  medisearch search --type appointment --filter date_from=2024-01-01 --filter date_to=2024-12-31
  medisearch suggest --type patient nguy
  medisearch import --type medicine ./medicines.xlsx
  medisearch delete --filter type=medicine --filter is_active=false
  medisearch status --output json
  medisearch watch add /var/spool/medisearch`)
}
