// File: confkit/strategy.go
package confkit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// EnumerateFunc supplies candidate file paths for a custom search strategy.
type EnumerateFunc func() ([]string, error)

// SearchStrategy is an immutable value describing where candidate
// configuration files are looked for. Construct one with CurrentDir,
// Directories, Recursive, or Custom; WithMaxDepth returns a modified copy.
type SearchStrategy struct {
	Kind      StrategyKind
	Dirs      []string
	MaxDepth  int // recursion bound for StrategyRecursive; <= 0 means unbounded
	Enumerate EnumerateFunc
}

// CurrentDir returns a strategy that searches only the working directory.
func CurrentDir() SearchStrategy {
	return SearchStrategy{Kind: StrategyCurrent}
}

// Directories returns a strategy that lists each directory non-recursively.
func Directories(dirs ...string) SearchStrategy {
	return SearchStrategy{Kind: StrategyDirectories, Dirs: dirs}
}

// Recursive returns a strategy that walks each root, bounded by maxDepth
// levels below the root (0 = unbounded).
func Recursive(roots []string, maxDepth int) SearchStrategy {
	return SearchStrategy{Kind: StrategyRecursive, Dirs: roots, MaxDepth: maxDepth}
}

// Custom returns a strategy whose candidates come from fn. The glob filter
// is still applied to the enumerated paths.
func Custom(fn EnumerateFunc) SearchStrategy {
	return SearchStrategy{Kind: StrategyCustom, Enumerate: fn}
}

// WithMaxDepth returns a copy of the strategy with the recursion bound set.
func (s SearchStrategy) WithMaxDepth(depth int) SearchStrategy {
	s.MaxDepth = depth
	return s
}

// Discover returns the files reachable under the strategy whose base name
// matches any of the given globs. Missing or unreadable directories are
// skipped silently; discovery always yields the partial result rather than
// failing. Globs are assumed pre-validated by ParsePattern.
func (s SearchStrategy) Discover(fsys afero.Fs, globs []string) []string {
	var found []string

	switch s.Kind {
	case StrategyCurrent:
		found = discoverInDirs(fsys, []string{"."}, globs)

	case StrategyDirectories:
		found = discoverInDirs(fsys, s.Dirs, globs)

	case StrategyRecursive:
		for _, root := range s.Dirs {
			found = append(found, discoverWalk(fsys, root, s.MaxDepth, globs)...)
		}

	case StrategyCustom:
		if s.Enumerate == nil {
			return nil
		}
		candidates, err := s.Enumerate()
		if err != nil {
			return nil
		}
		for _, candidate := range candidates {
			if matchesAny(globs, candidate) {
				found = append(found, candidate)
			}
		}
	}

	return appendUnique(nil, found...)
}

func discoverInDirs(fsys afero.Fs, dirs []string, globs []string) []string {
	var found []string
	for _, dir := range dirs {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			continue // unreadable or missing directory, keep going
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if matchesAny(globs, path) {
				found = append(found, path)
			}
		}
	}
	return found
}

func discoverWalk(fsys afero.Fs, root string, maxDepth int, globs []string) []string {
	var found []string
	_ = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if maxDepth > 0 && pathDepth(root, path) >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(globs, path) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

// pathDepth counts directory levels of path below root.
func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// matchesAny reports whether the path's base name matches any glob.
func matchesAny(globs []string, path string) bool {
	base := filepath.Base(path)
	for _, glob := range globs {
		if ok, err := filepath.Match(glob, base); err == nil && ok {
			return true
		}
	}
	return false
}
