// Package facet plans facet requests per type profile and shapes engine facet counts.
package facet

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
)

const (
	// TypeFacet is the facet present on every search.
	TypeFacet      = "type"
	typeFacetLimit = 20
	yearsBack      = 5
	yearsAhead     = 1
)

// DateRange is one named bucket of a range facet. Start is inclusive, End exclusive.
type DateRange struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Spec is one planned facet. A Spec with Ranges is a date range facet.
type Spec struct {
	Name     string
	Field    string
	MinCount int
	Limit    int
	Ranges   []DateRange
}

func (s Spec) String() string {
	if len(s.Ranges) > 0 {
		return fmt.Sprintf("%s(%s, %d ranges)", s.Name, s.Field, len(s.Ranges))
	}
	return fmt.Sprintf("%s(%s, min=%d, limit=%d)", s.Name, s.Field, s.MinCount, s.Limit)
}

// Bucket is one raw facet count as returned by the engine.
type Bucket struct {
	Value string
	Count int
}

// Plan returns the facets to request for p. The type facet always comes first.
// Date-bearing profiles add yearly buckets from five years before now to one year after.
func Plan(p *profile.TypeProfile, now time.Time) []Spec {
	specs := make([]Spec, 0, len(p.Facets)+2)
	specs = append(specs, Spec{Name: TypeFacet, Field: "type", MinCount: 1, Limit: typeFacetLimit})
	for _, f := range p.Facets {
		if f.Field == TypeFacet {
			continue
		}
		specs = append(specs, Spec{Name: f.Field, Field: f.Field, MinCount: f.MinCount, Limit: f.Limit})
	}
	if p.YearlyFacet && p.DateField != "" {
		specs = append(specs, yearly(p.DateField, now))
	}
	return specs
}

func yearly(field string, now time.Time) Spec {
	loc := now.Location()
	first, last := now.Year()-yearsBack, now.Year()+yearsAhead
	ranges := make([]DateRange, 0, last-first+1)
	for y := first; y <= last; y++ {
		ranges = append(ranges, DateRange{
			Name:  strconv.Itoa(y),
			Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
			End:   time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc),
		})
	}
	return Spec{
		Name:     field + "_year",
		Field:    field,
		MinCount: 1,
		Limit:    len(ranges),
		Ranges:   ranges,
	}
}

// Extract shapes raw engine buckets by plan: buckets under MinCount are dropped, the
// rest ordered by count descending (ties by value) and cut to Limit. label maps a
// field value to its display label; nil leaves labels equal to values.
func Extract(raw map[string][]Bucket, plan []Spec, label func(field, value string) string) map[string][]models.FacetValue {
	out := make(map[string][]models.FacetValue, len(plan))
	for _, spec := range plan {
		buckets := make([]Bucket, 0, len(raw[spec.Name]))
		for _, b := range raw[spec.Name] {
			if b.Count >= spec.MinCount && b.Count > 0 {
				buckets = append(buckets, b)
			}
		}
		sort.SliceStable(buckets, func(i, j int) bool {
			if buckets[i].Count != buckets[j].Count {
				return buckets[i].Count > buckets[j].Count
			}
			return buckets[i].Value < buckets[j].Value
		})
		if spec.Limit > 0 && len(buckets) > spec.Limit {
			buckets = buckets[:spec.Limit]
		}
		values := make([]models.FacetValue, len(buckets))
		for i, b := range buckets {
			l := b.Value
			if label != nil && len(spec.Ranges) == 0 {
				l = label(spec.Field, b.Value)
			}
			values[i] = models.FacetValue{Value: b.Value, Count: b.Count, Label: l}
		}
		out[spec.Name] = values
	}
	return out
}

// Strings renders specs for debug output.
func Strings(plan []Spec) []string {
	out := make([]string, len(plan))
	for i, s := range plan {
		out[i] = s.String()
	}
	return out
}
