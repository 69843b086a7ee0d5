package expr

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Vars is the state snapshot expressions are evaluated against.
type Vars map[string]any

// numeric coerces JSON-ish numbers to float64. Everything else, including
// strings and booleans, is non-numeric.
func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// truthy defines the condition semantics for ternaries and logical ops:
// nil and NaN are false, numbers are non-zero, strings are non-empty,
// containers are non-empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		if n, ok := numeric(v); ok {
			return n != 0 && !math.IsNaN(n)
		}
		return true
	}
}

// looseEqual compares values after numeric normalization so 1 == 1.0.
func looseEqual(a, b any) bool {
	na, aok := numeric(a)
	nb, bok := numeric(b)
	if aok && bok {
		return na == nb
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// Stringify renders a value for template interpolation. The output is
// deterministic: numbers drop trailing zeros, arrays join their stringified
// elements with ", ", and objects marshal with sorted keys.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, elem := range t {
			parts[i] = Stringify(elem)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		data, err := sonic.ConfigStd.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		if n, ok := numeric(v); ok {
			if math.IsNaN(n) {
				return "NaN"
			}
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}
