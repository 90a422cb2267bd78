package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
	"go.uber.org/zap"
)

// Filter keys with special meaning.
const (
	KeyDateFrom = "date_from"
	KeyDateTo   = "date_to"
	KeyType     = "type"
)

var reservedKeys = map[string]struct{}{
	"page":     {},
	"per_page": {},
	"sort":     {},
}

// IsReserved reports whether key controls paging or sorting and is never a filter.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Translator converts caller filters into clauses using the registry's field kinds.
type Translator struct {
	registry *profile.Registry
	location *time.Location
	logger   *zap.Logger
	onDrop   func(field, reason string)
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithLogger sets the logger used to report dropped filters.
func WithLogger(l *zap.Logger) TranslatorOption {
	return func(t *Translator) { t.logger = l }
}

// WithLocation sets the time zone used for day boundaries of date filters.
func WithLocation(loc *time.Location) TranslatorOption {
	return func(t *Translator) { t.location = loc }
}

// Drop reasons passed to the drop hook.
const (
	DropInvalidField = "invalid_field"
	DropInvalidValue = "invalid_value"
)

// DropOther replaces field names the registry does not declare in drop hook calls.
const DropOther = "other"

// WithDropHook sets a callback invoked once per dropped filter. field is a declared
// field name or DropOther, so callers can use it as a metric label.
func WithDropHook(fn func(field, reason string)) TranslatorOption {
	return func(t *Translator) { t.onDrop = fn }
}

// NewTranslator creates a translator over registry.
func NewTranslator(registry *profile.Registry, opts ...TranslatorOption) *Translator {
	t := &Translator{
		registry: registry,
		location: time.UTC,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.location == nil {
		t.location = time.UTC
	}
	return t
}

// Translate builds the clause list for filters. Empty values, "all", and reserved
// keys are skipped. A filter that cannot be translated is dropped with a warning and
// the rest are still translated.
func (t *Translator) Translate(filters models.Filters, p *profile.TypeProfile) []Clause {
	clauses := make([]Clause, 0, len(filters))
	for _, e := range filters {
		key := strings.TrimSpace(e.Key)
		if IsReserved(key) || isBlank(e.Value) {
			continue
		}
		c, err := t.clause(key, e.Value, p)
		if err != nil {
			t.logger.Warn("dropping filter",
				zap.String("field", key),
				zap.Any("value", e.Value),
				zap.Error(err),
			)
			if t.onDrop != nil {
				t.onDrop(t.dropField(key), dropReason(err))
			}
			continue
		}
		clauses = append(clauses, c)
	}
	return clauses
}

func (t *Translator) clause(key string, value interface{}, p *profile.TypeProfile) (Clause, error) {
	switch key {
	case KeyDateFrom:
		day, err := t.day(value)
		if err != nil {
			return Clause{}, err
		}
		return DateRange(p.DateField, day, time.Time{})
	case KeyDateTo:
		day, err := t.day(value)
		if err != nil {
			return Clause{}, err
		}
		return DateRange(p.DateField, time.Time{}, endOfDay(day))
	}

	values, isList, err := scalarStrings(value)
	if err != nil {
		return Clause{}, err
	}
	kind, _ := t.registry.KindOf(key)

	if key == KeyType {
		for i, v := range values {
			values[i] = strings.ToLower(strings.TrimSpace(v))
		}
	}

	if key == KeyType || t.registry.IsCategorical(key) {
		if kind == profile.KindBoolean {
			for i, v := range values {
				values[i] = profile.BoolToken(v)
			}
		}
		if isList {
			return AnyOf(key, values)
		}
		return Exact(key, values[0])
	}

	if isList {
		return Clause{}, fmt.Errorf("%w: list value on non-categorical field", ErrInvalidValue)
	}
	switch kind {
	case profile.KindDate:
		day, err := profile.ParseTime(values[0], t.location)
		if err != nil {
			return Clause{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		day = startOfDay(day)
		return DateRange(key, day, endOfDay(day))
	case profile.KindNumeric:
		n, ok := profile.NumberValue(values[0])
		if !ok {
			return Clause{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, values[0])
		}
		return NumberEquals(key, n)
	}
	return Exact(key, values[0])
}

func (t *Translator) dropField(key string) string {
	switch key {
	case KeyType, KeyDateFrom, KeyDateTo:
		return key
	}
	if _, ok := t.registry.KindOf(key); ok {
		return key
	}
	return DropOther
}

func dropReason(err error) string {
	if errors.Is(err, ErrInvalidField) {
		return DropInvalidField
	}
	return DropInvalidValue
}

func (t *Translator) day(value interface{}) (time.Time, error) {
	if ts, ok := value.(time.Time); ok {
		return startOfDay(ts.In(t.location)), nil
	}
	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: date must be a string", ErrInvalidValue)
	}
	d, err := profile.ParseTime(s, t.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return startOfDay(d), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Second)
}

// scalarStrings flattens a scalar or list value into strings, dropping blank and
// "all" list entries.
func scalarStrings(value interface{}) ([]string, bool, error) {
	switch v := value.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalarString(item)
			if err != nil {
				return nil, true, err
			}
			if !isBlank(s) {
				out = append(out, s)
			}
		}
		return out, true, nil
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if !isBlank(s) {
				out = append(out, s)
			}
		}
		return out, true, nil
	}
	s, err := scalarString(value)
	if err != nil {
		return nil, false, err
	}
	return []string{s}, false, nil
}

func scalarString(v interface{}) (string, error) {
	switch v.(type) {
	case map[string]interface{}, []interface{}, []string:
		return "", fmt.Errorf("%w: unsupported value of type %T", ErrInvalidValue, v)
	}
	return profile.StringValue(v), nil
}

func isBlank(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(x)
		return s == "" || strings.EqualFold(s, "all")
	case []interface{}:
		for _, item := range x {
			if _, nested := item.([]interface{}); nested || !isBlank(item) {
				return false
			}
		}
		return true
	case []string:
		for _, s := range x {
			if !isBlank(s) {
				return false
			}
		}
		return true
	}
	return false
}
