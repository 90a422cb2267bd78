// Package query builds weighted relevance queries from free text and a type profile.
package query

import (
	"fmt"
	"strings"

	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
)

// Relevance is an engine-neutral relevance query. When MatchAll is set every other
// field is empty.
type Relevance struct {
	Text         string
	MatchAll     bool
	Fields       []profile.FieldWeight
	PhraseFields []string
	PhraseSlop   int
	PhraseBoost  float64
}

// IsMatchAll reports whether text selects every document.
func IsMatchAll(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || t == models.Wildcard || t == "*:*"
}

// Build returns the relevance query for text under p. Field names come only from p.
func Build(text string, p *profile.TypeProfile) Relevance {
	if IsMatchAll(text) {
		return Relevance{MatchAll: true}
	}
	r := Relevance{
		Text:   strings.TrimSpace(text),
		Fields: append([]profile.FieldWeight(nil), p.Weights...),
	}
	// Phrase boosting needs at least two words.
	if len(strings.Fields(r.Text)) > 1 && len(p.PhraseFields) > 0 {
		r.PhraseFields = append([]string(nil), p.PhraseFields...)
		r.PhraseSlop = p.PhraseSlop
		r.PhraseBoost = p.PhraseBoost
		if r.PhraseBoost <= 0 {
			r.PhraseBoost = 1
		}
	}
	return r
}

// String renders the query for debug output.
func (r Relevance) String() string {
	if r.MatchAll {
		return "*:*"
	}
	parts := make([]string, 0, len(r.Fields)+len(r.PhraseFields))
	for _, f := range r.Fields {
		parts = append(parts, fmt.Sprintf("%s^%g", f.Field, f.Weight))
	}
	s := fmt.Sprintf("%q in [%s]", r.Text, strings.Join(parts, " "))
	if len(r.PhraseFields) > 0 {
		s += fmt.Sprintf(" phrase[%s]~%d^%g", strings.Join(r.PhraseFields, " "), r.PhraseSlop, r.PhraseBoost)
	}
	return s
}
