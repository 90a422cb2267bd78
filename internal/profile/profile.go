// Package profile holds the per-entity-type search configuration: relevance weights,
// phrase fields, facets, the date field and the canonical output projection.
package profile

import (
	"sort"
	"strings"
)

// Kind is how a field is indexed and filtered.
type Kind string

const (
	KindText    Kind = "text"
	KindKeyword Kind = "keyword"
	KindBoolean Kind = "boolean"
	KindDate    Kind = "date"
	KindNumeric Kind = "numeric"
)

// GenericType is the profile used for absent or unknown type hints.
const GenericType = "generic"

// FieldWeight is one weighted relevance field.
type FieldWeight struct {
	Field  string
	Weight float64
}

// FacetField is one term facet with its minimum count and bucket limit.
type FacetField struct {
	Field    string
	MinCount int
	Limit    int
}

// CanonicalField is one field of the output projection. When the raw document lacks
// Name, Fallback is read instead; when both are missing Default is used.
type CanonicalField struct {
	Name     string
	Fallback string
	Default  interface{}
	Kind     Kind
}

// TypeProfile is the search configuration of one entity type. Profiles returned by a
// Registry are shared and must be treated as read-only.
type TypeProfile struct {
	Type          string
	Label         string
	Weights       []FieldWeight
	PhraseFields  []string
	PhraseSlop    int
	PhraseBoost   float64
	Facets        []FacetField
	DateField     string
	YearlyFacet   bool
	Canonical     []CanonicalField
	SuggestFields []string
}

// Registry maps type hints to profiles and field names to kinds.
type Registry struct {
	profiles map[string]*TypeProfile
	generic  *TypeProfile
	kinds    map[string]Kind
	labels   map[string]map[string]string
}

// NewRegistry creates a registry from tables. generic is returned for unknown types.
func NewRegistry(generic TypeProfile, profiles []TypeProfile, kinds map[string]Kind, labels map[string]map[string]string) *Registry {
	r := &Registry{
		profiles: make(map[string]*TypeProfile, len(profiles)),
		kinds:    make(map[string]Kind, len(kinds)),
		labels:   make(map[string]map[string]string, len(labels)),
	}
	g := generic
	if g.Type == "" {
		g.Type = GenericType
	}
	if g.DateField == "" {
		g.DateField = "created_at"
	}
	r.generic = &g
	for k, v := range kinds {
		r.kinds[k] = v
	}
	for field, values := range labels {
		m := make(map[string]string, len(values))
		for k, v := range values {
			m[k] = v
		}
		r.labels[field] = m
	}
	for _, p := range profiles {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a profile. A profile without a date field uses created_at.
func (r *Registry) Register(p TypeProfile) {
	if p.DateField == "" {
		p.DateField = "created_at"
	}
	r.profiles[p.Type] = &p
}

// For returns the profile for typeHint, or the generic profile when the hint is empty or unknown.
func (r *Registry) For(typeHint string) *TypeProfile {
	if p, ok := r.profiles[strings.ToLower(strings.TrimSpace(typeHint))]; ok {
		return p
	}
	return r.generic
}

// Known reports whether t has its own profile.
func (r *Registry) Known(t string) bool {
	_, ok := r.profiles[t]
	return ok
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.profiles))
	for t := range r.profiles {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Profiles returns every registered profile followed by the generic one.
func (r *Registry) Profiles() []*TypeProfile {
	out := make([]*TypeProfile, 0, len(r.profiles)+1)
	for _, t := range r.Types() {
		out = append(out, r.profiles[t])
	}
	return append(out, r.generic)
}

// KindOf returns the declared kind of field.
func (r *Registry) KindOf(field string) (Kind, bool) {
	k, ok := r.kinds[field]
	return k, ok
}

// IsCategorical reports whether field holds a closed set of values (keyword or boolean).
func (r *Registry) IsCategorical(field string) bool {
	k, ok := r.kinds[field]
	return ok && (k == KindKeyword || k == KindBoolean)
}

// FieldsOfKind returns the declared fields of kind k in sorted order.
func (r *Registry) FieldsOfKind(k Kind) []string {
	var out []string
	for f, fk := range r.kinds {
		if fk == k {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// Label returns the display label of a field value, or the value itself.
func (r *Registry) Label(field, value string) string {
	if field == "type" {
		if p, ok := r.profiles[value]; ok && p.Label != "" {
			return p.Label
		}
	}
	if m, ok := r.labels[field]; ok {
		if l, ok := m[value]; ok {
			return l
		}
	}
	return value
}
