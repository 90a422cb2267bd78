// Package cli renders search, suggestion and status output for the medisearch CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/pkg/utils"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per result.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const snippetRunes = 160

// titleFields are tried in order to label a result.
var titleFields = []string{"title", "name", "full_name", "test_name", "invoice_number", "appointment_code"}

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes a search result to w in the given format. Unknown formats
// are written as text.
func WriteSearchResults(w io.Writer, result *models.SearchResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, result)
	case OutputCompact:
		writeSearchResultsCompact(w, result)
	default:
		writeSearchResultsText(w, result)
	}
	return nil
}

func writeSearchResultsText(w io.Writer, result *models.SearchResult) {
	if !result.Success {
		fmt.Fprintf(w, "\nSearch failed (%s): %s\n", result.Error, result.Message)
		return
	}
	fmt.Fprintf(w, "\nFound %d results (page %d of %d)\n\n", result.Total, result.CurrentPage, result.Pages)
	for i, item := range result.Results {
		rank := (result.CurrentPage-1)*result.PerPage + i + 1
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "#%d [%s] %s | Score: %.2f\n", rank, item.Type, item.ID, item.Score)
		if title := Title(item); title != "" {
			fmt.Fprintf(w, "%s\n", title)
		}
		for _, field := range sortedKeys(item.Highlighting) {
			if snippets := item.Highlighting[field]; len(snippets) > 0 {
				fmt.Fprintf(w, "  %s: %s\n", field, utils.Truncate(Unmark(snippets[0]), snippetRunes))
			}
		}
		fmt.Fprintln(w)
	}
	if len(result.Facets) > 0 {
		fmt.Fprintln(w, "--- Facets ---")
		for _, name := range sortedKeys(result.Facets) {
			values := result.Facets[name]
			if len(values) == 0 {
				continue
			}
			parts := make([]string, 0, len(values))
			for _, v := range values {
				parts = append(parts, fmt.Sprintf("%s (%d)", v.Label, v.Count))
			}
			fmt.Fprintf(w, "%s: %s\n", name, strings.Join(parts, ", "))
		}
	}
	if d := result.Debug; d != nil {
		fmt.Fprintf(w, "\n--- Debug ---\nprofile: %s\nquery: %s\nfilters: %s\nsort: %s\ntime: %dms (engine %dms)\n",
			d.Profile, d.Query, strings.Join(d.Filters, " "), strings.Join(d.Sort, ","), d.QueryTimeMS, d.EngineTimeMS)
	}
}

func writeSearchResultsCompact(w io.Writer, result *models.SearchResult) {
	if !result.Success {
		fmt.Fprintf(w, "error\t%s\t%s\n", result.Error, result.Message)
		return
	}
	for _, item := range result.Results {
		fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n", item.Score, item.Type, item.ID, Title(item))
	}
}

// WriteSuggestions writes completions to w.
func WriteSuggestions(w io.Writer, result *models.SuggestResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	if !result.Success {
		fmt.Fprintf(w, "Suggest failed: %s\n", result.Error)
		return nil
	}
	for _, s := range result.Suggestions {
		if format == OutputCompact {
			fmt.Fprintln(w, s.Term)
			continue
		}
		fmt.Fprintf(w, "%-40s %6.2f  %s\n", s.Term, s.Weight, s.Payload)
	}
	return nil
}

// WriteStatus writes a status report to w.
func WriteStatus(w io.Writer, status *models.StatusReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "reachable:          %t\n", status.Index.Reachable)
	if status.Index.Reason != "" {
		fmt.Fprintf(w, "reason:             %s\n", status.Index.Reason)
	}
	fmt.Fprintf(w, "documents:          %d   # indexed documents\n", status.Index.Documents)
	if status.Records != nil {
		fmt.Fprintf(w, "records:            %d   # records in the store\n", *status.Records)
	}
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:   %d   # store + index on disk\n", *status.DiskUsageBytes)
	}
	if status.StoreBytes != nil && status.IndexBytes != nil {
		fmt.Fprintf(w, "store_bytes:        %d\n", *status.StoreBytes)
		fmt.Fprintf(w, "index_bytes:        %d\n", *status.IndexBytes)
	}
	if len(status.Index.Types) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# documents per type")
		for _, t := range sortedKeys(status.Index.Types) {
			fmt.Fprintf(w, "%-18s  %d\n", t+":", status.Index.Types[t])
		}
	}
	if len(status.Config) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		for _, k := range sortedKeys(status.Config) {
			fmt.Fprintf(w, "%-18s  %v\n", k+":", status.Config[k])
		}
	}
	return nil
}

// Title returns the first non-empty display field of item.
func Title(item *models.SearchResultItem) string {
	for _, f := range titleFields {
		if v, ok := item.Fields[f]; ok && v != nil {
			if s := profile.StringValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Unmark replaces highlight tags with asterisks for terminal output.
func Unmark(s string) string {
	return strings.NewReplacer("<mark>", "*", "</mark>", "*").Replace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
