package properties

import (
	"math"
	"strconv"
	"strings"
)

// ProtectionMarker is the leading character that marks a key as protected.
const ProtectionMarker = '_'

// Value is a flat configuration scalar: a string, a bool, or a Go integer or
// float. A nil Value means "not set".
type Value = any

// Values maps configuration keys to scalar values.
type Values map[string]Value

// Store is the external key/value capability a Resolver layers on top of the
// defaults. Get must return a nil Value and a nil error for unknown keys.
type Store interface {
	Get(key string) (Value, error)
	All() (Values, error)
	Set(key string, value Value) error
}

// Source names the layer a resolved value came from.
type Source string

const (
	// SourceNone means neither layer holds a non-empty value for the key.
	SourceNone Source = "none"
	// SourceDefault means the value came from the defaults layer.
	SourceDefault Source = "default"
	// SourceStore means the value came from the bound property store.
	SourceStore Source = "store"
)

// IsProtected reports whether key starts with the protection marker.
func IsProtected(key string) bool {
	return len(key) > 0 && key[0] == ProtectionMarker
}

// IsEmpty reports whether v counts as unset when read from a store: nil, the
// empty string, false, and numeric zero are all empty.
func IsEmpty(v Value) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int8:
		return val == 0
	case int16:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	case uint:
		return val == 0
	case uint8:
		return val == 0
	case uint16:
		return val == 0
	case uint32:
		return val == 0
	case uint64:
		return val == 0
	case float32:
		return val == 0 || math.IsNaN(float64(val))
	case float64:
		return val == 0 || math.IsNaN(val)
	default:
		return false
	}
}

// IsScalar reports whether v is one of the supported scalar types.
func IsScalar(v Value) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// FormatValue renders a scalar in its canonical string form. Nil renders as
// the empty string.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return ""
	}
}

// ParseScalar converts a raw string into the most specific scalar it spells:
// true/false become bools, base-10 integers become int64, other numbers become
// float64, and everything else stays a string. Numbers are only converted when
// FormatValue gives back the same text, so "007", "+1555" or integers beyond
// int64 stay strings.
func ParseScalar(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	if trimmed == "" {
		return raw
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if FormatValue(n) == trimmed {
			return n
		}
		return raw
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		if FormatValue(f) == trimmed {
			return f
		}
	}
	return raw
}
