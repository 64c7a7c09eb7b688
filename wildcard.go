// File: confkit/wildcard.go
package confkit

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Wildcard is a provider that discovers configuration files by glob
// pattern, orders them by merge priority, parses each with its detected
// format, and composes the results per profile.
//
// A Wildcard is an immutable value: every With* method returns an updated
// copy, so a configured instance can be shared freely.
type Wildcard struct {
	name       string
	patterns   []string
	strategy   *SearchStrategy // nil: derived from the patterns
	order      Sorter
	maxDepth   int
	parallel   int
	singlePass bool
	fsys       afero.Fs
	log        *zap.Logger
}

// NewWildcard creates a wildcard provider named name over one or more
// glob patterns.
func NewWildcard(name string, patterns ...string) Wildcard {
	return Wildcard{
		name:     name,
		patterns: patterns,
		fsys:     afero.NewOsFs(),
		log:      zap.NewNop(),
	}
}

// WithStrategy overrides the search strategy derived from the patterns;
// the patterns are then used purely as file globs.
func (w Wildcard) WithStrategy(strategy SearchStrategy) Wildcard {
	w.strategy = &strategy
	return w
}

// WithMergeOrder sets the policy ordering discovered files before merging.
func (w Wildcard) WithMergeOrder(order MergeOrder) Wildcard {
	w.order = Sorter{Order: order}
	return w
}

// WithCustomOrder orders files by a priority pattern list, first match wins.
func (w Wildcard) WithCustomOrder(patterns ...string) Wildcard {
	w.order = Sorter{Order: OrderCustom, Patterns: patterns}
	return w
}

// WithMaxDepth bounds recursive discovery.
func (w Wildcard) WithMaxDepth(depth int) Wildcard {
	w.maxDepth = depth
	return w
}

// WithSinglePassMerge switches array directive resolution from the
// sequential default (resolve after every merge step) to a single pass over
// the fully composited tree, with directives concatenated across files.
func (w Wildcard) WithSinglePassMerge() Wildcard {
	w.singlePass = true
	return w
}

// WithFs substitutes the filesystem used for discovery and parsing.
func (w Wildcard) WithFs(fsys afero.Fs) Wildcard {
	w.fsys = fsys
	return w
}

// WithLogger attaches a logger for skipped files and directories.
func (w Wildcard) WithLogger(log *zap.Logger) Wildcard {
	if log == nil {
		log = zap.NewNop()
	}
	w.log = log
	return w
}

// WithParallel parses discovered files with up to n concurrent workers.
// Merge order is unaffected; only parsing is concurrent.
func (w Wildcard) WithParallel(n int) Wildcard {
	w.parallel = n
	return w
}

// Parallel implements the parallelizable provider contract.
func (w Wildcard) Parallel(n int) Provider {
	return w.WithParallel(n)
}

// Metadata implements Provider.
func (w Wildcard) Metadata() Metadata {
	return Metadata{Name: w.name, Source: "wildcard"}
}

// Data discovers, orders, parses and merges all matching files, returning
// one resolved tree per profile. Files that fail to parse are skipped;
// discovery and parse problems degrade to partial results rather than
// failing resolution. Only pattern syntax errors are fatal.
func (w Wildcard) Data() (map[Profile]map[string]any, error) {
	strategy, globs, err := w.resolveStrategy()
	if err != nil {
		return nil, err
	}
	if w.maxDepth > 0 {
		strategy = strategy.WithMaxDepth(w.maxDepth)
	}

	files := strategy.Discover(w.fsys, globs)
	files = w.order.Sort(w.fsys, files)

	docs := w.parseAll(files)

	layers := make(map[Profile][]map[string]any)
	for _, doc := range docs {
		for profile, tree := range splitProfiles(doc) {
			layers[profile] = append(layers[profile], tree)
		}
	}

	out := make(map[Profile]map[string]any, len(layers))
	for profile, profileLayers := range layers {
		out[profile] = mergeLayers(profileLayers, !w.singlePass)
	}
	return out, nil
}

// resolveStrategy derives the (strategy, globs) pair for this provider.
func (w Wildcard) resolveStrategy() (SearchStrategy, []string, error) {
	if w.strategy != nil {
		if len(w.patterns) == 0 {
			return SearchStrategy{}, nil, ErrEmptyPattern
		}
		for _, glob := range w.patterns {
			if err := validateGlob(glob); err != nil {
				return SearchStrategy{}, nil, err
			}
		}
		return *w.strategy, w.patterns, nil
	}
	return ParsePatterns(w.patterns)
}

// parseAll parses every file, preserving merge order in the result and
// dropping files that fail. Parsing fans out over a bounded worker set
// when parallelism is configured.
func (w Wildcard) parseAll(files []string) []map[string]any {
	if len(files) == 0 {
		return nil
	}

	detector := NewDetector(w.fsys)
	parsed := make([]map[string]any, len(files))

	parseOne := func(i int) {
		tree, err := detector.ParseFile(files[i])
		if err != nil {
			w.log.Warn("skipping unparseable config file",
				zap.String("provider", w.name),
				zap.String("file", files[i]),
				zap.Error(err))
			return
		}
		parsed[i] = tree
	}

	if w.parallel > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, w.parallel)
		for i := range files {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				parseOne(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range files {
			parseOne(i)
		}
	}

	docs := make([]map[string]any, 0, len(files))
	for _, tree := range parsed {
		if tree != nil {
			docs = append(docs, tree)
		}
	}
	return docs
}

// String describes the provider configuration, mainly for debug logging.
func (w Wildcard) String() string {
	return fmt.Sprintf("wildcard(%s: %v)", w.name, w.patterns)
}
