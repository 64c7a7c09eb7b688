// File: confkit/tree.go
package confkit

import (
	"encoding/json"
	"reflect"
	"strings"
)

// navigateToPath walks a nested map using a dot-notation path and returns
// the value found there, or nil if any segment is missing or not a map.
func navigateToPath(nested map[string]any, path string) any {
	if path == "" {
		return nested
	}

	current := any(nested)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}

	return current
}

// setNestedValue sets a value in a nested map using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		next, exists := current[segment]
		if !exists {
			newMap := make(map[string]any)
			current[segment] = newMap
			current = newMap
			continue
		}

		if nextMap, isMap := next.(map[string]any); isMap {
			current = nextMap
		} else {
			newMap := make(map[string]any)
			current[segment] = newMap
			current = newMap
		}
	}

	current[segments[len(segments)-1]] = value
}

// cloneTree returns a deep copy of a configuration tree. Maps and slices
// are copied; scalar leaves are shared (they are immutable after parsing).
func cloneTree(tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneTree(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// normalizeTree rewrites parser-specific value representations into a
// canonical form so that trees from different formats compare and merge
// consistently: json.Number becomes int64 when integral and float64
// otherwise, and nested containers are normalized recursively.
func normalizeTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeTree(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		// YAML integers arrive as int, TOML as int64; canonicalize so
		// cross-format structural equality holds.
		return int64(t)
	default:
		return v
	}
}

// structurallyEqual reports whether two configuration values are equal by
// structure and content. Both sides are expected to be normalized trees.
func structurallyEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
