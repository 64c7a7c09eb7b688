// File: confkit/arraymerge.go
package confkit

import "strings"

// Array merge directives: a key "X_add" or "X_remove" adjacent to key "X"
// is an instruction to extend or prune the array at "X", not literal data.
// Directive keys never survive into resolved output.
const (
	addSuffix    = "_add"
	removeSuffix = "_remove"
)

// HasMergeDirectives reports whether any key in the tree ends with an
// add/remove suffix. Resolution is a pure transformation, so callers use
// this cheap scan to skip ResolveArrayDirectives entirely when it would be
// an identity pass.
func HasMergeDirectives(tree any) bool {
	switch t := tree.(type) {
	case map[string]any:
		for key, value := range t {
			if directiveBase(key) != "" {
				return true
			}
			if HasMergeDirectives(value) {
				return true
			}
		}
	case []any:
		for _, value := range t {
			if HasMergeDirectives(value) {
				return true
			}
		}
	}
	return false
}

// ResolveArrayDirectives resolves every add/remove directive in the tree
// against its sibling base array and returns a new tree with no directive
// keys remaining. The function is total: malformed directive values are
// treated as absent (but still stripped), and it never fails. At each node
// additions apply strictly before removals. The transformation is
// idempotent.
func ResolveArrayDirectives(tree any) any {
	switch t := tree.(type) {
	case map[string]any:
		return resolveNode(t)
	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			out[i] = ResolveArrayDirectives(value)
		}
		return out
	default:
		return tree
	}
}

func resolveNode(node map[string]any) map[string]any {
	// Collect the base field names implied by directive siblings.
	var bases []string
	for key := range node {
		if base := directiveBase(key); base != "" {
			bases = appendUnique(bases, base)
		}
	}

	out := make(map[string]any, len(node))
	for key, value := range node {
		if directiveBase(key) != "" {
			continue // stripped below after application
		}
		out[key] = value
	}

	for _, base := range bases {
		result, _ := out[base].([]any)
		result = append([]any(nil), result...)

		if add, ok := node[base+addSuffix].([]any); ok {
			result = append(result, add...)
		}
		if remove, ok := node[base+removeSuffix].([]any); ok {
			result = pruneElements(result, remove)
		}

		out[base] = result
	}

	// Recurse into whatever survived at this node.
	for key, value := range out {
		switch v := value.(type) {
		case map[string]any:
			out[key] = resolveNode(v)
		case []any:
			out[key] = ResolveArrayDirectives(v)
		}
	}

	return out
}

// pruneElements drops every element of list that is structurally present
// in remove. Preserves order, allows duplicates in the remaining elements.
func pruneElements(list []any, remove []any) []any {
	kept := make([]any, 0, len(list))
	for _, element := range list {
		dropped := false
		for _, candidate := range remove {
			if structurallyEqual(element, candidate) {
				dropped = true
				break
			}
		}
		if !dropped {
			kept = append(kept, element)
		}
	}
	return kept
}

// directiveBase returns the base field name of a directive key, or "" when
// the key is not a directive. A bare suffix ("_add") is not a directive.
func directiveBase(key string) string {
	if base := strings.TrimSuffix(key, addSuffix); base != key && base != "" {
		return base
	}
	if base := strings.TrimSuffix(key, removeSuffix); base != key && base != "" {
		return base
	}
	return ""
}
