// Package filter turns caller filter maps into escaped engine filter clauses.
package filter

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Op is a clause operator.
type Op string

const (
	OpExact Op = "exact"
	OpRange Op = "range"
	OpAnyOf Op = "any_of"
)

var (
	// ErrInvalidField is returned for field names outside [A-Za-z_][A-Za-z0-9_]*.
	ErrInvalidField = errors.New("invalid field name")
	// ErrInvalidValue is returned for values that cannot be escaped.
	ErrInvalidValue = errors.New("invalid filter value")
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Clause is one filter condition. It is rendered to the engine query-string syntax
// when constructed, so a Clause that exists is always safely escaped.
type Clause struct {
	Field  string
	Op     Op
	Values []string
	expr   string
}

// String returns the rendered query-string expression.
func (c Clause) String() string {
	return c.expr
}

// Escape quotes-escapes value for use inside a query-string phrase.
func Escape(value string) (string, error) {
	if !utf8.ValidString(value) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrInvalidValue)
	}
	var b strings.Builder
	b.Grow(len(value) + 2)
	for _, r := range value {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: control character %U", ErrInvalidValue, r)
		}
		if r == '\\' || r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func checkField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

func phrase(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidValue)
	}
	esc, err := Escape(value)
	if err != nil {
		return "", err
	}
	return field + `:"` + esc + `"`, nil
}

// Exact matches documents whose field equals value.
func Exact(field, value string) (Clause, error) {
	if err := checkField(field); err != nil {
		return Clause{}, err
	}
	p, err := phrase(field, value)
	if err != nil {
		return Clause{}, err
	}
	return Clause{Field: field, Op: OpExact, Values: []string{value}, expr: "+" + p}, nil
}

// AnyOf matches documents whose field equals at least one of values.
func AnyOf(field string, values []string) (Clause, error) {
	if err := checkField(field); err != nil {
		return Clause{}, err
	}
	if len(values) == 0 {
		return Clause{}, fmt.Errorf("%w: empty list", ErrInvalidValue)
	}
	parts := make([]string, len(values))
	for i, v := range values {
		p, err := phrase(field, v)
		if err != nil {
			return Clause{}, err
		}
		parts[i] = p
	}
	return Clause{
		Field:  field,
		Op:     OpAnyOf,
		Values: append([]string(nil), values...),
		expr:   strings.Join(parts, " "),
	}, nil
}

// DateRange matches documents whose date field lies within [from, to]. A zero bound
// is open.
func DateRange(field string, from, to time.Time) (Clause, error) {
	if err := checkField(field); err != nil {
		return Clause{}, err
	}
	if from.IsZero() && to.IsZero() {
		return Clause{}, fmt.Errorf("%w: range without bounds", ErrInvalidValue)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return Clause{}, fmt.Errorf("%w: range start after end", ErrInvalidValue)
	}
	values := make([]string, 2)
	var parts []string
	if !from.IsZero() {
		values[0] = from.Format(time.RFC3339)
		parts = append(parts, fmt.Sprintf(`+%s:>="%s"`, field, values[0]))
	}
	if !to.IsZero() {
		values[1] = to.Format(time.RFC3339)
		parts = append(parts, fmt.Sprintf(`+%s:<="%s"`, field, values[1]))
	}
	return Clause{Field: field, Op: OpRange, Values: values, expr: strings.Join(parts, " ")}, nil
}

// NumberEquals matches documents whose numeric field equals v.
func NumberEquals(field string, v float64) (Clause, error) {
	if err := checkField(field); err != nil {
		return Clause{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Clause{}, fmt.Errorf("%w: not a finite number", ErrInvalidValue)
	}
	n := strconv.FormatFloat(v, 'f', -1, 64)
	return Clause{
		Field:  field,
		Op:     OpRange,
		Values: []string{n, n},
		expr:   fmt.Sprintf("+%s:>=%s +%s:<=%s", field, n, field, n),
	}, nil
}

// Strings renders each clause, for logs and debug output.
func Strings(clauses []Clause) []string {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		out[i] = c.String()
	}
	return out
}
