package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/medisearch/data/db/records.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/medisearch/data/indices/bleve"
	}
	if cfg.Search.DefaultPerPage == 0 {
		cfg.Search.DefaultPerPage = 20
	}
	if cfg.Search.MaxPerPage == 0 {
		cfg.Search.MaxPerPage = 100
	}
	if cfg.Search.DefaultPerPage > cfg.Search.MaxPerPage {
		cfg.Search.DefaultPerPage = cfg.Search.MaxPerPage
	}
	if cfg.Search.HighlightFragmentSize == 0 {
		cfg.Search.HighlightFragmentSize = 200
	}
	if cfg.Search.HighlightSnippets == 0 {
		cfg.Search.HighlightSnippets = 3
	}
	if cfg.Search.SuggestLimit == 0 {
		cfg.Search.SuggestLimit = 10
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".json", ".ndjson", ".csv", ".xlsx", ".pdf", ".docx"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
