package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var falseTokens = map[string]struct{}{
	"":      {},
	"0":     {},
	"false": {},
	"no":    {},
	"off":   {},
}

// BoolValue interprets v as a boolean. nil, zero numbers and the strings "", "0",
// "false", "no" and "off" (any case) are false; everything else is true.
func BoolValue(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		_, isFalse := falseTokens[strings.ToLower(strings.TrimSpace(x))]
		return !isFalse
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	}
	if f, ok := NumberValue(v); ok {
		return f != 0
	}
	return true
}

// BoolToken returns the canonical "true"/"false" token for v.
func BoolToken(v interface{}) string {
	if BoolValue(v) {
		return "true"
	}
	return "false"
}

// NumberValue converts numeric values and numeric strings to float64.
func NumberValue(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// StringValue renders v as a string. Integral floats have no decimal part and
// times are formatted as RFC3339.
func StringValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return StringValue(float64(x))
	case json.Number:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Convert coerces v to the Go representation of kind: bool for boolean, float64 for
// numeric and string otherwise. ok is false when a numeric value cannot be parsed.
func Convert(kind Kind, v interface{}) (out interface{}, ok bool) {
	switch kind {
	case KindBoolean:
		return BoolValue(v), true
	case KindNumeric:
		f, ok := NumberValue(v)
		return f, ok
	default:
		return StringValue(v), true
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseTime parses the date layouts accepted in records and filters. Values without a
// zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
