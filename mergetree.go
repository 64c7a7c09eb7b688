// File: confkit/mergetree.go
package confkit

// mergeTrees merges overlay into base and returns a new tree. Later layers
// win: scalars and plain arrays from overlay replace the base value, nested
// maps merge recursively, and add/remove directive arrays concatenate so
// that multiple layers' directives compose instead of clobbering each other.
func mergeTrees(base, overlay map[string]any) map[string]any {
	out := cloneTree(base)
	if out == nil {
		out = make(map[string]any, len(overlay))
	}

	for key, overlayValue := range overlay {
		baseValue, exists := out[key]
		if !exists {
			out[key] = cloneValue(overlayValue)
			continue
		}

		// Directive arrays accumulate across layers.
		if directiveBase(key) != "" {
			baseList, baseOK := baseValue.([]any)
			overlayList, overlayOK := overlayValue.([]any)
			if baseOK && overlayOK {
				merged := append([]any(nil), baseList...)
				for _, element := range overlayList {
					merged = append(merged, cloneValue(element))
				}
				out[key] = merged
				continue
			}
		}

		baseMap, baseIsMap := baseValue.(map[string]any)
		overlayMap, overlayIsMap := overlayValue.(map[string]any)
		if baseIsMap && overlayIsMap {
			out[key] = mergeTrees(baseMap, overlayMap)
			continue
		}

		out[key] = cloneValue(overlayValue)
	}

	return out
}

// mergeLayers folds configuration layers ordered lowest to highest merge
// priority into one resolved tree.
//
// With sequential resolution, array directives are resolved after every
// merge step, so a later layer's remove cancels an earlier layer's add.
// Without it, directives concatenate across all layers and one resolve pass
// runs over the final composite; the two differ when several layers add and
// then remove the same element.
func mergeLayers(layers []map[string]any, sequential bool) map[string]any {
	if len(layers) == 0 {
		return nil
	}

	if len(layers) == 1 {
		// Fast path: nothing to compose, resolve directly.
		return resolveTree(layers[0])
	}

	if sequential {
		acc := resolveTree(layers[0])
		for _, layer := range layers[1:] {
			acc = resolveTree(mergeTrees(acc, layer))
		}
		return acc
	}

	acc := cloneTree(layers[0])
	for _, layer := range layers[1:] {
		acc = mergeTrees(acc, layer)
	}
	return resolveTree(acc)
}

// resolveTree applies directive resolution, short-circuiting when the tree
// contains no directives at all.
func resolveTree(tree map[string]any) map[string]any {
	if !HasMergeDirectives(tree) {
		return cloneTree(tree)
	}
	return ResolveArrayDirectives(tree).(map[string]any)
}
