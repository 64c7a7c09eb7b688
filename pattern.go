// File: confkit/pattern.go
package confkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StrategyKind identifies the discovery policy a SearchStrategy applies.
type StrategyKind int

const (
	// StrategyCurrent searches only the current directory.
	StrategyCurrent StrategyKind = iota
	// StrategyDirectories searches a fixed list of directories, non-recursively.
	StrategyDirectories
	// StrategyRecursive walks directory trees from one or more roots.
	StrategyRecursive
	// StrategyCustom defers candidate enumeration to a caller-supplied function.
	StrategyCustom
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyCurrent:
		return "current"
	case StrategyDirectories:
		return "directories"
	case StrategyRecursive:
		return "recursive"
	case StrategyCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParsePattern turns a glob-like pattern string into a search strategy and
// the file globs to match within it. The pattern forms, tried in order:
//
//	{dir1,dir2}/glob   brace expansion over multiple directory roots
//	root/**/glob       recursive walk below root (root defaults to ".")
//	dir/glob           single directory
//	glob               current directory only
//
// Glob syntax errors are reported at parse time, not at discovery time.
func ParsePattern(pattern string) (SearchStrategy, []string, error) {
	if pattern == "" {
		return SearchStrategy{}, nil, ErrEmptyPattern
	}

	// Brace expansion: "{./config,~/.config}/*.toml"
	if strings.HasPrefix(pattern, "{") {
		end := strings.Index(pattern, "}")
		if end < 0 {
			return SearchStrategy{}, nil, fmt.Errorf("pattern %q: unterminated brace group", pattern)
		}

		var roots []string
		for _, dir := range strings.Split(pattern[1:end], ",") {
			dir = strings.TrimSpace(dir)
			if dir == "" {
				continue
			}
			roots = append(roots, expandHome(dir))
		}
		if len(roots) == 0 {
			return SearchStrategy{}, nil, fmt.Errorf("pattern %q: empty brace group", pattern)
		}

		glob := strings.TrimPrefix(pattern[end+1:], string(filepath.Separator))
		glob = strings.TrimPrefix(glob, "/")
		if glob == "" {
			return SearchStrategy{}, nil, fmt.Errorf("pattern %q: missing file glob after brace group", pattern)
		}
		if err := validateGlob(glob); err != nil {
			return SearchStrategy{}, nil, err
		}

		return Directories(roots...), []string{glob}, nil
	}

	// Recursive marker: "src/**/*.yaml"
	if idx := strings.Index(pattern, "**/"); idx >= 0 {
		root := strings.TrimRight(pattern[:idx], "/"+string(filepath.Separator))
		if root == "" {
			root = "."
		}
		glob := pattern[idx+len("**/"):]
		if glob == "" {
			return SearchStrategy{}, nil, fmt.Errorf("pattern %q: missing file glob after recursive marker", pattern)
		}
		if err := validateGlob(glob); err != nil {
			return SearchStrategy{}, nil, err
		}

		return Recursive([]string{expandHome(root)}, 0), []string{glob}, nil
	}

	// Path-rooted: "conf.d/*.toml"
	if strings.ContainsAny(pattern, "/"+string(filepath.Separator)) {
		dir, glob := filepath.Split(pattern)
		dir = strings.TrimRight(dir, "/"+string(filepath.Separator))
		if dir == "" {
			dir = string(filepath.Separator)
		}
		if glob == "" {
			return SearchStrategy{}, nil, fmt.Errorf("pattern %q: missing file glob after directory", pattern)
		}
		if err := validateGlob(glob); err != nil {
			return SearchStrategy{}, nil, err
		}

		return Directories(expandHome(dir)), []string{glob}, nil
	}

	// Bare glob: search the current directory.
	if err := validateGlob(pattern); err != nil {
		return SearchStrategy{}, nil, err
	}
	return CurrentDir(), []string{pattern}, nil
}

// ParsePatterns parses each pattern independently and reconciles the
// resulting strategies into one combined strategy sharing a glob list.
// Any recursive or custom input degrades the combination to a recursive
// walk over the union of all implicated roots; inputs that are all
// current-directory stay current; otherwise the directory lists are
// unioned. Roots and globs are deduplicated preserving first-seen order.
func ParsePatterns(patterns []string) (SearchStrategy, []string, error) {
	if len(patterns) == 0 {
		return SearchStrategy{}, nil, ErrEmptyPattern
	}

	var (
		globs      []string
		roots      []string
		recursive  bool
		allCurrent = true
	)

	for _, pattern := range patterns {
		strategy, patternGlobs, err := ParsePattern(pattern)
		if err != nil {
			return SearchStrategy{}, nil, err
		}

		globs = appendUnique(globs, patternGlobs...)

		switch strategy.Kind {
		case StrategyCurrent:
			roots = appendUnique(roots, ".")
		case StrategyDirectories:
			allCurrent = false
			roots = appendUnique(roots, strategy.Dirs...)
		case StrategyRecursive, StrategyCustom:
			allCurrent = false
			recursive = true
			roots = appendUnique(roots, strategy.Dirs...)
		}
	}

	switch {
	case recursive:
		return Recursive(roots, 0), globs, nil
	case allCurrent:
		return CurrentDir(), globs, nil
	default:
		return Directories(roots...), globs, nil
	}
}

// validateGlob rejects malformed glob syntax eagerly so that discovery can
// treat match errors as impossible.
func validateGlob(glob string) error {
	if _, err := filepath.Match(glob, ""); err != nil {
		return fmt.Errorf("invalid glob %q: %w", glob, err)
	}
	return nil
}

// expandHome resolves a leading "~" to the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
