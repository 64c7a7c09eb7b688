// File: confkit/hierarchy_test.go
package confkit

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hierarchyFixture(t *testing.T) (Hierarchical, afero.Fs) {
	t.Helper()
	t.Setenv("XDG_CONFIG_DIRS", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	fsys := afero.NewMemMapFs()
	provider := NewHierarchical("app", "config").
		WithFs(fsys).
		WithHomeDir("/home/u").
		WithWorkingDir("/proj/sub")
	return provider, fsys
}

// TestHierarchicalMergePrecedence tests least-to-most-specific layering
func TestHierarchicalMergePrecedence(t *testing.T) {
	provider, fsys := hierarchyFixture(t)
	writeFiles(t, fsys, map[string]string{
		"/etc/xdg/app/config.toml":         "level = \"system\"\nport = 1\n",
		"/home/u/.config/app/config.toml":  "level = \"user\"\n",
		"/proj/config.toml":                "level = \"project\"\n",
		"/proj/sub/config.toml":            "level = \"workdir\"\nextra = true\n",
	})

	data, err := provider.Data()
	require.NoError(t, err)
	tree := data[DefaultProfile]

	// Most specific file wins; untouched keys survive from below.
	assert.Equal(t, "workdir", tree["level"])
	assert.Equal(t, int64(1), tree["port"])
	assert.Equal(t, true, tree["extra"])
}

// TestHierarchicalArrayDirectives tests the three-level add/remove scenario
func TestHierarchicalArrayDirectives(t *testing.T) {
	provider, fsys := hierarchyFixture(t)
	writeFiles(t, fsys, map[string]string{
		"/etc/xdg/app/config.toml":        "allowed_origins = [\"A\", \"B\", \"C\"]\n",
		"/home/u/.config/app/config.yaml": "allowed_origins_remove: [B]\nallowed_origins_add: [D]\n",
		"/proj/sub/config.toml":           "allowed_origins_remove = [\"D\"]\nallowed_origins_add = [\"E\"]\n",
	})

	data, err := provider.Data()
	require.NoError(t, err)

	origins := data[DefaultProfile]["allowed_origins"].([]any)
	assert.Equal(t, []any{"A", "C", "E"}, origins)
}

// TestHierarchicalExtensionPreference tests one file per directory
func TestHierarchicalExtensionPreference(t *testing.T) {
	provider, fsys := hierarchyFixture(t)
	writeFiles(t, fsys, map[string]string{
		"/proj/sub/config.toml": "source = \"toml\"\n",
		"/proj/sub/config.yaml": "source: yaml\n",
	})

	data, err := provider.Data()
	require.NoError(t, err)

	// toml outranks yaml in the extension order; the yaml file is ignored.
	assert.Equal(t, "toml", data[DefaultProfile]["source"])
}

// TestHierarchicalUserLocations tests the user-level search paths
func TestHierarchicalUserLocations(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"XDGConfigHome", "/home/u/.config/app/config.toml"},
		{"DotApp", "/home/u/.app/config.toml"},
		{"HomeDirectory", "/home/u/config.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, fsys := hierarchyFixture(t)
			writeFiles(t, fsys, map[string]string{tt.path: "found = true\n"})

			data, err := provider.Data()
			require.NoError(t, err)
			assert.Equal(t, true, data[DefaultProfile]["found"])
		})
	}
}

// TestHierarchicalSkipsUnparseable tests graceful degradation across levels
func TestHierarchicalSkipsUnparseable(t *testing.T) {
	provider, fsys := hierarchyFixture(t)
	writeFiles(t, fsys, map[string]string{
		"/etc/xdg/app/config.toml": "host = \"system\"\n",
		"/proj/sub/config.toml":    "= broken",
	})

	data, err := provider.Data()
	require.NoError(t, err)
	assert.Equal(t, "system", data[DefaultProfile]["host"])
}

// TestHierarchicalAbsence tests that nothing found means nothing returned
func TestHierarchicalAbsence(t *testing.T) {
	provider, _ := hierarchyFixture(t)

	data, err := provider.Data()
	require.NoError(t, err)
	assert.Empty(t, data)
}

// TestHierarchicalSinglePassMerge tests the alternate directive semantics
func TestHierarchicalSinglePassMerge(t *testing.T) {
	provider, fsys := hierarchyFixture(t)
	writeFiles(t, fsys, map[string]string{
		"/etc/xdg/app/config.toml": "items = [\"x\"]\n",
		"/proj/config.toml":        "items_remove = [\"x\"]\n",
		"/proj/sub/config.toml":    "items_add = [\"x\"]\n",
	})

	sequentialData, err := provider.Data()
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, sequentialData[DefaultProfile]["items"])

	singlePassData, err := provider.WithSinglePassMerge().Data()
	require.NoError(t, err)
	assert.Equal(t, []any{}, singlePassData[DefaultProfile]["items"])
}

// TestHierarchicalMetadata tests the provider identity
func TestHierarchicalMetadata(t *testing.T) {
	provider := NewHierarchical("app", "config")
	assert.Equal(t, Metadata{Name: "app", Source: "hierarchy"}, provider.Metadata())
}
