// File: confkit/arraymerge_test.go
package confkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveArrayDirectives tests add/remove resolution at a single node
func TestResolveArrayDirectives(t *testing.T) {
	t.Run("AddAndRemove", func(t *testing.T) {
		tree := map[string]any{
			"features":        []any{"auth", "logging"},
			"features_add":    []any{"metrics"},
			"features_remove": []any{"logging"},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)

		assert.Equal(t, []any{"auth", "metrics"}, resolved["features"])
		assert.NotContains(t, resolved, "features_add")
		assert.NotContains(t, resolved, "features_remove")
	})

	t.Run("AddAppliesBeforeRemove", func(t *testing.T) {
		tree := map[string]any{
			"items":        []any{"a"},
			"items_add":    []any{"b"},
			"items_remove": []any{"b"},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)
		assert.Equal(t, []any{"a"}, resolved["items"])
	})

	t.Run("MissingBaseStartsEmpty", func(t *testing.T) {
		tree := map[string]any{
			"tags_add": []any{"x", "y"},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)
		assert.Equal(t, []any{"x", "y"}, resolved["tags"])
	})

	t.Run("DuplicatesAllowedOnAdd", func(t *testing.T) {
		tree := map[string]any{
			"items":     []any{"a"},
			"items_add": []any{"a", "a"},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)
		assert.Equal(t, []any{"a", "a", "a"}, resolved["items"])
	})

	t.Run("RemoveDropsEveryOccurrence", func(t *testing.T) {
		tree := map[string]any{
			"items":        []any{"a", "b", "a"},
			"items_remove": []any{"a"},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)
		assert.Equal(t, []any{"b"}, resolved["items"])
	})

	t.Run("StructuralEqualityOnRemove", func(t *testing.T) {
		tree := map[string]any{
			"endpoints": []any{
				map[string]any{"host": "a", "port": int64(1)},
				map[string]any{"host": "b", "port": int64(2)},
			},
			"endpoints_remove": []any{
				map[string]any{"host": "a", "port": int64(1)},
			},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)
		assert.Equal(t, []any{map[string]any{"host": "b", "port": int64(2)}}, resolved["endpoints"])
	})

	t.Run("MalformedDirectivesTreatedAsAbsent", func(t *testing.T) {
		tree := map[string]any{
			"items":        []any{"a"},
			"items_add":    "not an array",
			"items_remove": int64(7),
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)

		assert.Equal(t, []any{"a"}, resolved["items"])
		assert.NotContains(t, resolved, "items_add")
		assert.NotContains(t, resolved, "items_remove")
	})

	t.Run("BareSuffixKeyIsNotADirective", func(t *testing.T) {
		tree := map[string]any{
			"_add": []any{"kept"},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)
		assert.Equal(t, []any{"kept"}, resolved["_add"])
	})

	t.Run("RecursesIntoNestedObjectsAndArrays", func(t *testing.T) {
		tree := map[string]any{
			"server": map[string]any{
				"origins":        []any{"A", "B"},
				"origins_remove": []any{"B"},
			},
			"rules": []any{
				map[string]any{
					"hosts_add": []any{"h1"},
				},
			},
		}

		resolved := ResolveArrayDirectives(tree).(map[string]any)

		server := resolved["server"].(map[string]any)
		assert.Equal(t, []any{"A"}, server["origins"])

		rule := resolved["rules"].([]any)[0].(map[string]any)
		assert.Equal(t, []any{"h1"}, rule["hosts"])
	})

	t.Run("ScalarsPassThrough", func(t *testing.T) {
		assert.Equal(t, int64(7), ResolveArrayDirectives(int64(7)))
		assert.Equal(t, "x", ResolveArrayDirectives("x"))
		assert.Nil(t, ResolveArrayDirectives(nil))
	})
}

// TestResolveIdempotent tests that resolution is terminal
func TestResolveIdempotent(t *testing.T) {
	tree := map[string]any{
		"features":        []any{"auth", "logging"},
		"features_add":    []any{"metrics"},
		"features_remove": []any{"logging"},
		"nested": map[string]any{
			"tags_add": []any{"t"},
		},
	}

	once := ResolveArrayDirectives(tree)
	twice := ResolveArrayDirectives(once)

	assert.Equal(t, once, twice)
	assert.False(t, HasMergeDirectives(once))
}

// TestHasMergeDirectives tests the short-circuit scan
func TestHasMergeDirectives(t *testing.T) {
	tests := []struct {
		name     string
		tree     any
		expected bool
	}{
		{"Empty", map[string]any{}, false},
		{"PlainTree", map[string]any{"a": int64(1), "b": []any{"x"}}, false},
		{"TopLevelAdd", map[string]any{"a_add": []any{}}, true},
		{"TopLevelRemove", map[string]any{"a_remove": []any{}}, true},
		{"NestedInObject", map[string]any{"o": map[string]any{"a_add": []any{}}}, true},
		{"NestedInArray", map[string]any{"l": []any{map[string]any{"a_remove": []any{}}}}, true},
		{"BareSuffix", map[string]any{"_add": []any{}}, false},
		{"Scalar", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasMergeDirectives(tt.tree))
		})
	}
}
