package search

import (
	"strings"

	"github.com/hyperjump/medisearch/internal/engine"
	"github.com/hyperjump/medisearch/internal/facet"
	"github.com/hyperjump/medisearch/internal/filter"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"github.com/hyperjump/medisearch/internal/query"
	"go.uber.org/zap"
)

// plan is everything derived from a caller query before the engine is called.
type plan struct {
	profile   *profile.TypeProfile
	relevance query.Relevance
	clauses   []filter.Clause
	facets    []facet.Spec
	sort      []engine.SortSpec
	request   *engine.SearchRequest
}

// processQuery builds the engine request for a normalized query.
func (s *Service) processQuery(q *models.SearchQuery) *plan {
	p := s.registry.For(q.Filters.TypeHint())
	pl := &plan{
		profile:   p,
		relevance: query.Build(q.Text, p),
		clauses:   s.translator.Translate(q.Filters, p),
		facets:    facet.Plan(p, s.clock()),
		sort:      s.sortSpecs(q.Sort),
	}
	pl.request = &engine.SearchRequest{
		Query:   pl.relevance,
		Filters: pl.clauses,
		Facets:  pl.facets,
		Offset:  q.Offset(),
		Limit:   q.PerPage,
		Sort:    pl.sort,
	}
	if !pl.relevance.MatchAll {
		pl.request.Highlight = &engine.HighlightSpec{
			Fields:          s.highlighter.Fields(),
			FragmentSize:    s.highlighter.maxRunes,
			Snippets:        s.highlighter.snippets,
			MergeContiguous: true,
		}
	}
	return pl
}

// sortSpecs keeps sort keys on known, sortable fields. Text fields sort by analyzed
// tokens and are rejected.
func (s *Service) sortSpecs(fields []models.SortField) []engine.SortSpec {
	var out []engine.SortSpec
	for _, f := range fields {
		name := strings.TrimSpace(f.Field)
		switch strings.ToLower(name) {
		case "", engine.SortRelevance, "score", "relevance":
			out = append(out, engine.SortSpec{Field: engine.SortRelevance, Desc: f.Desc()})
			continue
		}
		if name == "id" || name == "type" {
			out = append(out, engine.SortSpec{Field: name, Desc: f.Desc()})
			continue
		}
		kind, ok := s.registry.KindOf(name)
		if !ok || kind == profile.KindText {
			s.logger.Warn("ignoring sort on unsortable field", zap.String("field", name))
			continue
		}
		out = append(out, engine.SortSpec{Field: name, Desc: f.Desc()})
	}
	return out
}
