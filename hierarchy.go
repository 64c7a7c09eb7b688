// File: confkit/hierarchy.go
package confkit

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// defaultExtensions is the extension preference order for hierarchical
// discovery; only the first matching extension per directory is taken.
var defaultExtensions = []string{"toml", "yaml", "yml", "json", "cfg"}

// Hierarchical is a provider that composes configuration scattered across
// the filesystem hierarchy: system config directories, the user's config
// directories, every ancestor of the working directory, and the working
// directory itself. Less specific locations merge first, so the working
// directory wins conflicts.
//
// Resolution is pull-based: every Data call re-discovers and re-merges.
type Hierarchical struct {
	app        string
	base       string
	extensions []string
	singlePass bool
	parallel   int
	workingDir string // "" means os.Getwd at resolution time
	homeDir    string // "" means os.UserHomeDir at resolution time
	fsys       afero.Fs
	log        *zap.Logger
}

// NewHierarchical creates a hierarchical provider for application app,
// searching for files named base with a supported extension.
func NewHierarchical(app, base string) Hierarchical {
	return Hierarchical{
		app:        app,
		base:       base,
		extensions: defaultExtensions,
		fsys:       afero.NewOsFs(),
		log:        zap.NewNop(),
	}
}

// WithExtensions overrides the extension preference order.
func (h Hierarchical) WithExtensions(extensions ...string) Hierarchical {
	h.extensions = extensions
	return h
}

// WithSinglePassMerge resolves array directives once over the final
// composite instead of after every hierarchy level.
func (h Hierarchical) WithSinglePassMerge() Hierarchical {
	h.singlePass = true
	return h
}

// WithWorkingDir anchors ancestor discovery at dir instead of os.Getwd.
func (h Hierarchical) WithWorkingDir(dir string) Hierarchical {
	h.workingDir = dir
	return h
}

// WithHomeDir overrides the user home directory used for user-level paths.
func (h Hierarchical) WithHomeDir(dir string) Hierarchical {
	h.homeDir = dir
	return h
}

// WithFs substitutes the filesystem used for discovery and parsing.
func (h Hierarchical) WithFs(fsys afero.Fs) Hierarchical {
	h.fsys = fsys
	return h
}

// WithLogger attaches a logger for skipped files.
func (h Hierarchical) WithLogger(log *zap.Logger) Hierarchical {
	if log == nil {
		log = zap.NewNop()
	}
	h.log = log
	return h
}

// WithParallel parses discovered files with up to n concurrent workers.
func (h Hierarchical) WithParallel(n int) Hierarchical {
	h.parallel = n
	return h
}

// Parallel implements the parallelizable provider contract.
func (h Hierarchical) Parallel(n int) Provider {
	return h.WithParallel(n)
}

// Metadata implements Provider.
func (h Hierarchical) Metadata() Metadata {
	return Metadata{Name: h.app, Source: "hierarchy"}
}

// Data runs the three resolution phases: discover candidate files across
// the hierarchy, order them least to most specific, and merge per profile.
// A file that fails to parse is skipped; a profile with no contributing
// files is simply absent from the result.
func (h Hierarchical) Data() (map[Profile]map[string]any, error) {
	files := h.discover()

	// Reuse the wildcard composition for parsing and per-profile merging;
	// the hierarchy only differs in how files are found and ordered.
	loader := Wildcard{
		name:     h.app,
		parallel: h.parallel,
		fsys:     h.fsys,
		log:      h.log,
	}
	docs := loader.parseAll(files)

	layers := make(map[Profile][]map[string]any)
	for _, doc := range docs {
		for profile, tree := range splitProfiles(doc) {
			layers[profile] = append(layers[profile], tree)
		}
	}

	out := make(map[Profile]map[string]any, len(layers))
	for profile, profileLayers := range layers {
		out[profile] = mergeLayers(profileLayers, !h.singlePass)
	}
	return out, nil
}

// discover returns the candidate files ordered lowest to highest merge
// priority: system config dirs, user config dirs, home, ancestor
// directories from the root down, and finally the working directory.
// Duplicate paths (a working directory inside the home directory, say)
// are collapsed to their first, least specific occurrence.
func (h Hierarchical) discover() []string {
	var dirs []string

	dirs = append(dirs, h.systemConfigDirs()...)
	dirs = append(dirs, h.userConfigDirs()...)
	dirs = append(dirs, h.ancestorDirs()...)

	var files []string
	for _, dir := range dirs {
		if file, ok := h.firstMatch(dir); ok {
			files = append(files, file)
		}
	}
	return appendUnique(nil, files...)
}

// firstMatch returns the config file in dir with the highest-preference
// extension, if any exists.
func (h Hierarchical) firstMatch(dir string) (string, bool) {
	for _, ext := range h.extensions {
		path := filepath.Join(dir, h.base+"."+ext)
		if info, err := h.fsys.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// systemConfigDirs returns XDG system config directories for the app.
func (h Hierarchical) systemConfigDirs() []string {
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		var dirs []string
		for _, dir := range filepath.SplitList(xdgDirs) {
			dirs = append(dirs, filepath.Join(dir, h.app))
		}
		return dirs
	}
	return []string{
		filepath.Join("/etc/xdg", h.app),
		filepath.Join("/etc", h.app),
	}
}

// userConfigDirs returns the user-level search locations, least specific
// first: ~/.config/{app} (or XDG_CONFIG_HOME), ~/.{app}, then the home
// directory itself.
func (h Hierarchical) userConfigDirs() []string {
	home := h.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil
		}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" || h.homeDir != "" {
		configHome = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(configHome, h.app),
		filepath.Join(home, "."+h.app),
		home,
	}
}

// ancestorDirs returns every ancestor of the working directory from the
// filesystem root down to and including the working directory itself.
func (h Hierarchical) ancestorDirs() []string {
	dir := h.workingDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil
		}
	}
	dir = filepath.Clean(dir)

	var chain []string
	for {
		chain = append(chain, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// chain runs current -> root; merge order wants root -> current.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
