// File: confkit/detect.go
package confkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Detector chooses a parser for a file: extension first, then content
// sniffing, then brute-force trial parsing. Detection results are cached
// keyed by path and modification time, so a rewritten file is re-detected.
type Detector struct {
	fsys afero.Fs

	mu    sync.RWMutex
	cache map[string]detection
}

type detection struct {
	modTime time.Time
	format  Format
}

// NewDetector creates a detector reading through the given filesystem.
func NewDetector(fsys afero.Fs) *Detector {
	return &Detector{
		fsys:  fsys,
		cache: make(map[string]detection),
	}
}

// Detect returns the format of the file at path.
func (d *Detector) Detect(path string) (Format, error) {
	info, err := d.fsys.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	d.mu.RLock()
	cached, ok := d.cache[path]
	d.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.format, nil
	}

	format := detectByExtension(path)
	if format == FormatUnknown {
		data, err := afero.ReadFile(d.fsys, path)
		if err != nil {
			return FormatUnknown, fmt.Errorf("failed to read %q: %w", path, err)
		}
		format = sniffContent(data)
		if format == FormatUnknown {
			format = trialParse(data)
		}
	}
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("unable to determine config format for %q", path)
	}

	d.mu.Lock()
	d.cache[path] = detection{modTime: info.ModTime(), format: format}
	d.mu.Unlock()

	return format, nil
}

// ParseFile parses the file at path with its detected format and returns a
// normalized configuration tree.
func (d *Detector) ParseFile(path string) (map[string]any, error) {
	format, err := d.Detect(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(d.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	tree, err := parseData(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s file %q: %w", format, path, err)
	}
	return tree, nil
}

// detectByExtension determines format from the file extension alone.
func detectByExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".cfg", ".conf", ".config":
		// Ambiguous extensions defer to content detection.
		return FormatUnknown
	default:
		return FormatUnknown
	}
}

// sniffContent applies cheap structural heuristics before any real parsing.
func sniffContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '{', '[':
		// JSON documents and TOML table headers both start with a bracket;
		// only claim JSON when it actually decodes.
		var probe any
		if json.Unmarshal(data, &probe) == nil {
			return FormatJSON
		}
	case '-':
		if bytes.HasPrefix(trimmed, []byte("---")) {
			return FormatYAML
		}
	}
	return FormatUnknown
}

// trialParse attempts each parser in turn: JSON (strict) first, then YAML,
// then TOML.
func trialParse(data []byte) Format {
	var probe any
	if err := json.Unmarshal(data, &probe); err == nil {
		return FormatJSON
	}
	var yamlProbe map[string]any
	if err := yaml.Unmarshal(data, &yamlProbe); err == nil && yamlProbe != nil {
		return FormatYAML
	}
	var tomlProbe map[string]any
	if err := toml.Unmarshal(data, &tomlProbe); err == nil {
		return FormatTOML
	}
	return FormatUnknown
}

// parseData unmarshals raw bytes in the given format into a normalized tree.
func parseData(data []byte, format Format) (map[string]any, error) {
	tree := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // preserve number precision
		if err := decoder.Decode(&tree); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}
	return normalizeTree(tree), nil
}
