// File: confkit/decode_test.go
package confkit

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverSettings struct {
	Host    string        `toml:"host"`
	Port    int           `toml:"port"`
	Timeout time.Duration `toml:"timeout"`
	Bind    net.IP        `toml:"bind"`
	Origin  *url.URL      `toml:"origin"`
	Tags    []string      `toml:"tags"`
}

// TestDecodeTree tests the hook set and weak typing
func TestDecodeTree(t *testing.T) {
	tree := map[string]any{
		"host":    "localhost",
		"port":    "8080", // string coerced to int
		"timeout": "5s",
		"bind":    "127.0.0.1",
		"origin":  "https://example.com/api",
		"tags":    "a,b,c", // comma split
	}

	var got serverSettings
	require.NoError(t, DecodeTree(tree, &got))

	assert.Equal(t, "localhost", got.Host)
	assert.Equal(t, 8080, got.Port)
	assert.Equal(t, 5*time.Second, got.Timeout)
	assert.Equal(t, net.ParseIP("127.0.0.1"), got.Bind)
	require.NotNil(t, got.Origin)
	assert.Equal(t, "https://example.com/api", got.Origin.String())
	assert.Equal(t, []string{"a", "b", "c"}, got.Tags)
}

// TestDecodeTreeInvalidTarget tests pointer validation
func TestDecodeTreeInvalidTarget(t *testing.T) {
	var settings serverSettings
	assert.Error(t, DecodeTree(map[string]any{}, settings))
	assert.Error(t, DecodeTree(map[string]any{}, (*serverSettings)(nil)))
}

// TestDecodeTreeBadValues tests hook parse failures
func TestDecodeTreeBadValues(t *testing.T) {
	var got serverSettings
	assert.Error(t, DecodeTree(map[string]any{"bind": "not-an-ip"}, &got))
	assert.Error(t, DecodeTree(map[string]any{"origin": "://no-scheme"}, &got))
}

// TestDecodeTreeAt tests dot-path section decoding
func TestDecodeTreeAt(t *testing.T) {
	tree := map[string]any{
		"server": map[string]any{
			"net": map[string]any{
				"host": "inner",
				"port": int64(9090),
			},
		},
		"flat": "value",
	}

	t.Run("Nested", func(t *testing.T) {
		var got serverSettings
		require.NoError(t, DecodeTreeAt(tree, "server.net", &got))
		assert.Equal(t, "inner", got.Host)
		assert.Equal(t, 9090, got.Port)
	})

	t.Run("MissingPath", func(t *testing.T) {
		got := serverSettings{Host: "untouched"}
		require.NoError(t, DecodeTreeAt(tree, "no.such.section", &got))
		assert.Equal(t, "untouched", got.Host)
	})

	t.Run("NonMapPath", func(t *testing.T) {
		var got serverSettings
		assert.Error(t, DecodeTreeAt(tree, "flat", &got))
	})
}

// TestStoreProfile tests the provider-to-registry pipeline
func TestStoreProfile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/cfg/app.toml": "host = \"base\"\nport = 80\n\n[profiles.prod]\nhost = \"prod\"\nport = 443\n",
	})
	provider := NewWildcard("app", "/cfg/*.toml").WithFs(fsys)

	type hostPort struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	}

	t.Run("DefaultProfile", func(t *testing.T) {
		r := NewRegistry()
		h, err := StoreProfile[hostPort](r, provider, DefaultProfile)
		require.NoError(t, err)

		got, err := Read(r, h)
		require.NoError(t, err)
		assert.Equal(t, hostPort{Host: "base", Port: 80}, *got)
	})

	t.Run("NamedProfile", func(t *testing.T) {
		r := NewRegistry()
		h, err := StoreProfile[hostPort](r, provider, "prod")
		require.NoError(t, err)

		got, err := Read(r, h)
		require.NoError(t, err)
		assert.Equal(t, hostPort{Host: "prod", Port: 443}, *got)
	})

	t.Run("MissingProfile", func(t *testing.T) {
		r := NewRegistry()
		_, err := StoreProfile[hostPort](r, provider, "staging")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("StrictValidation", func(t *testing.T) {
		type hostOnly struct {
			Host string `toml:"host"`
		}

		r := NewRegistry()
		if _, err := StoreProfile[hostOnly](r, provider, DefaultProfile); err != nil {
			t.Fatalf("lenient decode: %v", err)
		}

		r.Enable(FlagStrictValidation)
		_, err := StoreProfile[hostOnly](r, provider, DefaultProfile)
		assert.Error(t, err)
	})

	t.Run("ParallelLoad", func(t *testing.T) {
		r := NewRegistry()
		r.Enable(FlagParallelLoad)
		h, err := StoreProfile[hostPort](r, provider, "prod")
		require.NoError(t, err)

		got, err := Read(r, h)
		require.NoError(t, err)
		assert.Equal(t, hostPort{Host: "prod", Port: 443}, *got)
	})
}
