package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Decode parses a response body keeping numbers as json.Number so that
// prices survive without float rounding.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}
	return v, nil
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// path walks nested objects. Missing keys yield nil.
func path(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := asObject(v)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

// str coerces strings and numbers to a string. Empty results count as absent.
func str(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

func firstString(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := str(m[k]); ok {
			return s, true
		}
	}
	return "", false
}

func stringOr(m map[string]any, fallback string, keys ...string) string {
	if s, ok := firstString(m, keys...); ok {
		return s
	}
	return fallback
}

// number accepts JSON numbers and numeric strings.
func number(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// firstNumber returns the first non-zero numeric value among keys.
func firstNumber(m map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		if d, ok := number(m[k]); ok && !d.IsZero() {
			return d, true
		}
	}
	return decimal.Zero, false
}

func integer(v any) (int, bool) {
	d, ok := number(v)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func firstInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		if n, ok := integer(m[k]); ok && n != 0 {
			return n, true
		}
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timestamp(v any) (time.Time, bool) {
	s, ok := str(v)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// epoch milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

func firstTime(m map[string]any, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		if t, ok := timestamp(m[k]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// probeArray returns the first candidate that is a JSON array.
func probeArray(root any, candidates ...[]string) ([]any, bool) {
	for _, keys := range candidates {
		if arr, ok := asArray(path(root, keys...)); ok {
			return arr, true
		}
	}
	return nil, false
}
