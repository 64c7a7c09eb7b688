// File: confkit/sortorder.go
package confkit

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// MergeOrder selects the policy used to order discovered files before
// merging. The sorted output runs from lowest to highest merge priority:
// the caller merges left-to-right, so the last file wins conflicts.
type MergeOrder int

const (
	// OrderAlphabetical sorts by base name, ascending.
	OrderAlphabetical MergeOrder = iota
	// OrderReverse sorts by base name, descending.
	OrderReverse
	// OrderSizeAscending sorts by file size, smallest first.
	OrderSizeAscending
	// OrderSizeDescending sorts by file size, largest first.
	OrderSizeDescending
	// OrderModTimeAscending sorts by modification time, oldest first.
	OrderModTimeAscending
	// OrderModTimeDescending sorts by modification time, newest first.
	OrderModTimeDescending
	// OrderCustom sorts by the index of the first priority pattern matching
	// each file's base name; files matching no pattern sort last.
	OrderCustom
)

// Sorter orders a discovered file list. The zero value sorts alphabetically.
type Sorter struct {
	Order    MergeOrder
	Patterns []string // priority patterns for OrderCustom, first match wins
}

const noPriority = int(^uint(0) >> 1)

// Sort returns a new slice ordered by the configured policy. The sort is
// stable and total: whenever the primary key ties or cannot be read
// (metadata failures default size and time to their minimum value), the
// base name decides alphabetically, then the full path.
func (s Sorter) Sort(fsys afero.Fs, files []string) []string {
	out := make([]string, len(files))
	copy(out, files)

	switch s.Order {
	case OrderAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return nameLess(out[i], out[j])
		})

	case OrderReverse:
		sort.SliceStable(out, func(i, j int) bool {
			return nameLess(out[j], out[i])
		})

	case OrderSizeAscending, OrderSizeDescending:
		sizes := make(map[string]int64, len(out))
		for _, f := range out {
			sizes[f] = fileSize(fsys, f)
		}
		descending := s.Order == OrderSizeDescending
		sort.SliceStable(out, func(i, j int) bool {
			si, sj := sizes[out[i]], sizes[out[j]]
			if si != sj {
				if descending {
					return si > sj
				}
				return si < sj
			}
			return nameLess(out[i], out[j])
		})

	case OrderModTimeAscending, OrderModTimeDescending:
		times := make(map[string]time.Time, len(out))
		for _, f := range out {
			times[f] = fileModTime(fsys, f)
		}
		descending := s.Order == OrderModTimeDescending
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := times[out[i]], times[out[j]]
			if !ti.Equal(tj) {
				if descending {
					return ti.After(tj)
				}
				return ti.Before(tj)
			}
			return nameLess(out[i], out[j])
		})

	case OrderCustom:
		sort.SliceStable(out, func(i, j int) bool {
			pi, pj := s.priority(out[i]), s.priority(out[j])
			if pi != pj {
				return pi < pj
			}
			return nameLess(out[i], out[j])
		})
	}

	return out
}

// priority returns the index of the first pattern matching the file's base
// name, or noPriority when none match.
func (s Sorter) priority(file string) int {
	base := filepath.Base(file)
	for i, pattern := range s.Patterns {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return i
		}
	}
	return noPriority
}

func nameLess(a, b string) bool {
	ba, bb := filepath.Base(a), filepath.Base(b)
	if ba != bb {
		return ba < bb
	}
	return a < b
}

func fileSize(fsys afero.Fs, path string) int64 {
	info, err := fsys.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func fileModTime(fsys afero.Fs, path string) time.Time {
	info, err := fsys.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
