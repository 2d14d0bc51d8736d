package serialization

import (
	"fmt"
)

// JSON decoding flattens every number into a float64. The helpers below
// recover the numeric kinds state maps actually store, accepting both the
// in-memory and the decoded representation.

// AsFloat64 converts a restored value into a float64.
func AsFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}

// AsInt converts a restored value into an int.
func AsInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

// AsUint64 converts a restored value into a uint64.
func AsUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("cannot convert negative %d to uint64", n)
		}

		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("cannot convert negative %d to uint64", n)
		}

		return uint64(n), nil
	case float64:
		if n < 0 {
			return 0, fmt.Errorf("cannot convert negative %f to uint64", n)
		}

		return uint64(n), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to uint64", v)
	}
}

// AsBool converts a restored value into a bool.
func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("cannot convert %T to bool", v)
	}

	return b, nil
}

// AsString converts a restored value into a string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("cannot convert %T to string", v)
	}

	return s, nil
}

// AsMap converts a restored value into a nested state map.
func AsMap(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to map[string]any", v)
	}

	return m, nil
}
