package scope

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Pair is one key/value entry of an iterable dynamic value.
type Pair struct {
	Key   any
	Value any
}

// Pairer lets a value declare its own iteration order.
type Pairer interface {
	Pairs() []Pair
}

// Text coerces a dynamic value to its string form. nil coerces to the
// empty string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Truthy coerces a dynamic value to a boolean: nil, false, zero numbers,
// empty strings, and empty collections are false, everything else true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// Pairs returns the ordered key/value entries of an iterable value:
// slices keyed by index, maps keyed by sorted key so iteration order is
// deterministic, Pairer values in their declared order. Scalars and nil
// yield no entries.
func Pairs(v any) []Pair {
	switch t := v.(type) {
	case nil:
		return nil
	case Pairer:
		return t.Pairs()
	case []any:
		out := make([]Pair, len(t))
		for i, item := range t {
			out[i] = Pair{Key: i, Value: item}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Pair, len(keys))
		for i, k := range keys {
			out[i] = Pair{Key: k, Value: t[k]}
		}
		return out
	default:
		return nil
	}
}

// IsIterable reports whether Pairs would yield entries for v's type,
// distinguishing object-shaped values from scalars even when empty.
func IsIterable(v any) bool {
	switch v.(type) {
	case Pairer, []any, map[string]any:
		return true
	default:
		return false
	}
}

// JSONText serializes a dynamic value with JSON-safe encoding, for output
// positions that land inside script bodies.
func JSONText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("scope: encode value: %w", err)
	}
	return string(b), nil
}
