// File: confkit/provider.go
package confkit

// Profile is a named partition of configuration data. Every provider
// contributes at least to DefaultProfile; documents may additionally nest
// data under a top-level "profiles" table to target other profiles.
type Profile string

// DefaultProfile receives all top-level document data.
const DefaultProfile Profile = "default"

// profilesKey is the reserved top-level table holding per-profile subtrees.
const profilesKey = "profiles"

// Metadata describes a configuration provider for diagnostics.
type Metadata struct {
	Name   string
	Source string
}

// Provider is the uniform source-of-configuration abstraction: anything
// that can produce per-profile configuration trees. Format parsing and
// composition details stay behind this contract.
type Provider interface {
	Metadata() Metadata
	Data() (map[Profile]map[string]any, error)
}

// splitProfiles partitions one parsed document into per-profile trees.
// Subtables of the reserved "profiles" table go to their named profile;
// every remaining top-level key goes to the default profile.
func splitProfiles(doc map[string]any) map[Profile]map[string]any {
	out := make(map[Profile]map[string]any)

	defaults := make(map[string]any, len(doc))
	for key, value := range doc {
		if key == profilesKey {
			continue
		}
		defaults[key] = value
	}
	if len(defaults) > 0 {
		out[DefaultProfile] = defaults
	}

	if profiles, ok := doc[profilesKey].(map[string]any); ok {
		for name, subtree := range profiles {
			tree, ok := subtree.(map[string]any)
			if !ok {
				continue
			}
			if existing, ok := out[Profile(name)]; ok {
				// "profiles.default" layered over the document's top level.
				tree = mergeTrees(existing, tree)
			}
			out[Profile(name)] = tree
		}
	}

	return out
}
