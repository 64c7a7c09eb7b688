// File: confkit/doc.go

// Package confkit resolves configuration scattered across a filesystem
// hierarchy and stores the merged results in a concurrent, handle-based
// registry.
//
// Features:
//   - Glob-pattern file discovery: directory lists, recursive walks,
//     brace-expansion multi-directory patterns, custom enumerators
//   - Deterministic merge ordering: alphabetical, size, modification time,
//     or caller-supplied priority patterns
//   - TOML, YAML and JSON parsing with extension, content-sniffing and
//     trial-parse format detection
//   - Additive/subtractive array merging via "_add"/"_remove" sibling keys
//   - Hierarchical resolution across system, user and ancestor directories
//   - A concurrent registry handing out cheap opaque typed handles with
//     runtime type checking and snapshot-isolated updates
//
// Quick Start:
//
//	type Server struct {
//	    Host    string   `toml:"host"`
//	    Origins []string `toml:"allowed_origins"`
//	}
//
//	provider := confkit.NewHierarchical("myapp", "config")
//	handle, err := confkit.StoreProfile[Server](confkit.Default(), provider, confkit.DefaultProfile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	server, err := confkit.Read(confkit.Default(), handle)
//
// Merge Precedence (lowest to highest):
//  1. System config directories (/etc/xdg/{app}, /etc/{app})
//  2. User config directories (~/.config/{app}, ~/.{app}, ~)
//  3. Ancestor directories of the working directory, root first
//  4. The working directory
//
// Array Merge Directives:
// A key "X_add" or "X_remove" adjacent to an array field "X" extends or
// prunes that array during merging and is stripped from the final output:
//
//	features        = ["auth", "logging"]
//	features_add    = ["metrics"]
//	features_remove = ["logging"]
//
// resolves to features = ["auth", "metrics"].
//
// Thread Safety:
// All registry operations are safe for concurrent use. Per-handle
// operations are linearizable without a global lock; statistics and
// runtime flags are guarded by read-write mutexes. Values returned from
// Read are shared instances: replace them with Update, never mutate them
// in place.
package confkit
