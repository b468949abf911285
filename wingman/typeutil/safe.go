// Package typeutil provides safe type assertion helpers for working with
// untyped crew results. All helpers use the comma-ok idiom so that a
// mis-shaped value degrades to a miss instead of a panic.
package typeutil

import "fmt"

// SafeMapStringAny safely asserts value to map[string]any.
// Returns the map and true if successful, or nil and false if not.
func SafeMapStringAny(value any) (map[string]any, bool) {
	if value == nil {
		return nil, false
	}
	m, ok := value.(map[string]any)
	return m, ok
}

// SafeString safely asserts value to string.
// Returns the string and true if successful, or empty string and false if not.
func SafeString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// SafeStringDefault safely asserts value to string with a default fallback.
func SafeStringDefault(value any, defaultVal string) string {
	if s, ok := SafeString(value); ok {
		return s
	}
	return defaultVal
}

// SafeSlice safely asserts value to []any.
// Returns the slice and true if successful, or nil and false if not.
func SafeSlice(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	s, ok := value.([]any)
	return s, ok
}

// SafeFloat64 safely asserts value to float64.
// Also handles int types, common when values do not come from JSON.
func SafeFloat64(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	default:
		return 0, false
	}
}

// SafeStringSlice safely asserts value to []string.
// Also handles []any containing strings (common from JSON).
func SafeStringSlice(value any) ([]string, bool) {
	if value == nil {
		return nil, false
	}

	if s, ok := value.([]string); ok {
		return s, true
	}

	if anySlice, ok := value.([]any); ok {
		result := make([]string, 0, len(anySlice))
		for _, item := range anySlice {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, str)
		}
		return result, true
	}

	return nil, false
}

// Stringify renders any value as text. Strings pass through unchanged;
// everything else goes through fmt so that a crew result slot holding a
// non-string value still yields usable raw text instead of an empty miss.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
