package search

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/medisearch/internal/models"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
	ellipsis  = "…"

	// HighlightedSuffix is appended to a field name for its first snippet.
	HighlightedSuffix = "_highlighted"

	defaultSnippets     = 3
	defaultSnippetRunes = 200
	// fragments shorter than this are joined with their neighbour
	shortFragmentRunes = 40
)

// HighlightFields is the allow-list of fields that produce snippets.
var HighlightFields = []string{
	"title", "content", "description", "name", "full_name", "generic_name",
	"patient_name", "doctor_name", "test_name", "notes", "reason", "address",
}

var adjacentMarks = regexp.MustCompile(`</mark>(\s*)<mark>`)

// Highlighter turns engine fragments into bounded snippets.
type Highlighter struct {
	allowed  map[string]struct{}
	fields   []string
	snippets int
	maxRunes int
}

// NewHighlighter returns a Highlighter keeping at most snippets snippets of at most
// maxRunes characters per field. Non-positive values use 3 and 200.
func NewHighlighter(snippets, maxRunes int) *Highlighter {
	if snippets <= 0 {
		snippets = defaultSnippets
	}
	if maxRunes <= 0 {
		maxRunes = defaultSnippetRunes
	}
	h := &Highlighter{
		allowed:  make(map[string]struct{}, len(HighlightFields)),
		fields:   HighlightFields,
		snippets: snippets,
		maxRunes: maxRunes,
	}
	for _, f := range HighlightFields {
		h.allowed[f] = struct{}{}
	}
	return h
}

// Fields returns the fields to request highlighting for.
func (h *Highlighter) Fields() []string {
	return h.fields
}

// Extract keeps allow-listed fields and bounds their snippets. Fields without any
// usable snippet are omitted.
func (h *Highlighter) Extract(fragments map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for field, frags := range fragments {
		if _, ok := h.allowed[field]; !ok {
			continue
		}
		if snippets := h.snippetsOf(frags); len(snippets) > 0 {
			out[field] = snippets
		}
	}
	return out
}

func (h *Highlighter) snippetsOf(frags []string) []string {
	var cleaned []string
	for _, f := range frags {
		f = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(f), ellipsis), ellipsis))
		f = adjacentMarks.ReplaceAllString(f, "$1")
		if f != "" {
			cleaned = append(cleaned, f)
		}
	}

	var joined []string
	for _, f := range cleaned {
		n := len(joined)
		if n > 0 && (visibleLen(f) < shortFragmentRunes || visibleLen(joined[n-1]) < shortFragmentRunes) &&
			visibleLen(joined[n-1])+1+visibleLen(f) <= h.maxRunes {
			joined[n-1] = adjacentMarks.ReplaceAllString(joined[n-1]+" "+f, "$1")
			continue
		}
		joined = append(joined, f)
	}

	out := make([]string, 0, h.snippets)
	for _, f := range joined {
		if len(out) == h.snippets {
			break
		}
		out = append(out, truncateMarked(f, h.maxRunes))
	}
	return out
}

// visibleLen counts the characters of s outside mark tags.
func visibleLen(s string) int {
	s = strings.ReplaceAll(s, markOpen, "")
	s = strings.ReplaceAll(s, markClose, "")
	return utf8.RuneCountInString(s)
}

// truncateMarked cuts s to at most max visible characters, the ellipsis included,
// without splitting a rune or leaving a mark open.
func truncateMarked(s string, max int) string {
	if visibleLen(s) <= max {
		return s
	}
	limit := max - 1
	var b strings.Builder
	visible, open := 0, false
	for i := 0; i < len(s); {
		rest := s[i:]
		if strings.HasPrefix(rest, markClose) {
			b.WriteString(markClose)
			open = false
			i += len(markClose)
			continue
		}
		if visible >= limit {
			break
		}
		if strings.HasPrefix(rest, markOpen) {
			b.WriteString(markOpen)
			open = true
			i += len(markOpen)
			continue
		}
		_, size := utf8.DecodeRuneInString(rest)
		b.WriteString(rest[:size])
		visible++
		i += size
	}
	if open {
		b.WriteString(markClose)
	}
	b.WriteString(ellipsis)
	return b.String()
}

// ApplyHighlights merges hl into item and sets <field>_highlighted to the first snippet
// of each field unless the item already has a non-empty value there.
func ApplyHighlights(item *models.SearchResultItem, hl map[string][]string) {
	if item.Highlighting == nil {
		item.Highlighting = make(map[string][]string, len(hl))
	}
	if item.Fields == nil {
		item.Fields = make(map[string]interface{})
	}
	for field, snippets := range hl {
		if len(snippets) == 0 {
			continue
		}
		item.Highlighting[field] = snippets
		key := field + HighlightedSuffix
		if existing, ok := item.Fields[key]; ok && existing != nil {
			if s, isString := existing.(string); !isString || s != "" {
				continue
			}
		}
		item.Fields[key] = snippets[0]
	}
}
