package extraction

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Upstream payloads drift: a field may arrive as a single value, an array, a
// JSON-encoded string, or not at all. These helpers coerce without raising;
// anything unusable becomes the zero result and the walk continues.

type payload = map[string]interface{}

// decodeObject unmarshals a raw body into a loose object. A response that is
// not an object (or not JSON at all) yields ok=false, never an error.
func decodeObject(raw json.RawMessage) (payload, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var m payload
	if err := json.Unmarshal(raw, &m); err == nil {
		return m, true
	}
	// Some upstreams double-encode: a JSON string whose content is the object
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m, true
		}
	}
	return nil, false
}

// asMap coerces a value to a loose object
func asMap(v interface{}) (payload, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case string:
		var m payload
		if err := json.Unmarshal([]byte(t), &m); err == nil {
			return m, true
		}
	}
	return nil, false
}

// asSlice coerces value-or-array-or-encoded-array to a slice. A single value
// becomes a one-element slice; absent or unusable becomes nil.
func asSlice(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	case string:
		trimmed := strings.TrimSpace(t)
		if strings.HasPrefix(trimmed, "[") {
			var arr []interface{}
			if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
				return arr
			}
		}
		if t == "" {
			return nil
		}
		return []interface{}{t}
	default:
		return []interface{}{v}
	}
}

// asString coerces scalars to a trimmed string
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// Integers survive the float round-trip without a decimal point
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	return ""
}

// asFloat coerces a numeric-ish value to float64
func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	case int:
		return float64(t)
	}
	return 0
}

// asInt coerces a numeric-ish value to int
func asInt(v interface{}) int {
	return int(asFloat(v))
}

// asStringSlice coerces value-or-array to a slice of non-empty strings
func asStringSlice(v interface{}) []string {
	var out []string
	for _, item := range asSlice(v) {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstString returns the first non-empty string among the named keys
func firstString(m payload, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}
