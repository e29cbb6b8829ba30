package provider

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Field extraction helpers shared by every provider mapping. Upstream JSON is
// decoded into map[string]any, so everything here coerces from any.

// StringFrom trims string values (empty => ""), stringifies numbers, and
// rejects everything else. An empty return means "absent".
func StringFrom(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// NumberFrom passes finite numbers through and parses numeric-looking
// strings; anything else is nil.
func NumberFrom(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return &t
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}

var truthyStrings = map[string]bool{
	"true": true,
	"1":    true,
	"oui":  true,
	"yes":  true,
}

// BoolFrom coerces booleans, a small set of truthy strings (any other string
// is false, not absent) and numeric 1.
func BoolFrom(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case string:
		b := truthyStrings[strings.ToLower(strings.TrimSpace(t))]
		return &b
	case float64:
		b := t == 1
		return &b
	case int:
		b := t == 1
		return &b
	default:
		return nil
	}
}

// TagsFrom maps array entries through StringFrom and drops absent ones;
// strings are split on ','/';'/'/'.
func TagsFrom(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, e := range t {
			if s := StringFrom(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, p := range strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ';' || r == '/'
		}) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// TimeFrom handles time values, parseable date strings, and numbers treated
// as epoch milliseconds. Unparseable input is nil, never an error.
func TimeFrom(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		u := t.UTC()
		return &u
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				u := parsed.UTC()
				return &u
			}
		}
		return nil
	case float64:
		u := time.UnixMilli(int64(t)).UTC()
		return &u
	case int64:
		u := time.UnixMilli(t).UTC()
		return &u
	default:
		return nil
	}
}

// epochSecondsCutoff: epoch values below this are seconds, not milliseconds.
const epochSecondsCutoff = 10_000_000_000

// EpochTimeFrom accepts numeric or numeric-string epochs. Values below the
// cutoff are seconds and get promoted to milliseconds before conversion.
func EpochTimeFrom(v any) *time.Time {
	n := NumberFrom(v)
	if n == nil {
		return nil
	}
	ms := *n
	if math.Abs(ms) < epochSecondsCutoff {
		ms *= 1000
	}
	u := time.UnixMilli(int64(ms)).UTC()
	return &u
}

// Dig walks a dotted path ("entreprise.nom") through nested objects,
// returning nil on any missing intermediate segment.
func Dig(item map[string]any, path string) any {
	if path == "" {
		return nil
	}
	var cur any = item
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}

// PickString evaluates dotted paths in priority order and returns the first
// defined string. The explicit form of the source's a ?? b ?? c chains.
func PickString(item map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := StringFrom(Dig(item, p)); s != "" {
			return s
		}
	}
	return ""
}

func PickNumber(item map[string]any, paths ...string) *float64 {
	for _, p := range paths {
		if n := NumberFrom(Dig(item, p)); n != nil {
			return n
		}
	}
	return nil
}

func PickTime(item map[string]any, paths ...string) *time.Time {
	for _, p := range paths {
		if t := TimeFrom(Dig(item, p)); t != nil {
			return t
		}
	}
	return nil
}
