package ljdl

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp interprets v as seconds since the Unix epoch and returns
// the UTC time. Numbers, numeric strings and json.Number are accepted.
// Anything else yields the zero time and false.
func ParseTimestamp(v any) (time.Time, bool) {
	var secs int64
	switch x := v.(type) {
	case json.Number:
		n, err := strconv.ParseInt(strings.TrimSpace(x.String()), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = n
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, false
		}
		secs = int64(x)
	case int:
		secs = int64(x)
	case int64:
		secs = x
	default:
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

// Truthy reports whether a decoded JSON value counts as true: non-zero
// numbers, non-empty strings, arrays and objects, and boolean true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// ParseLiteral interprets a JavaScript scalar literal as a boolean.
// Empty text, 0, false, null and undefined are false.
func ParseLiteral(s string) bool {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	switch s {
	case "", "0", "false", "null", "undefined":
		return false
	}
	return true
}

// ToInt converts a decoded JSON number or numeric string to an int.
func ToInt(v any) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case float64:
		return int(x), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
