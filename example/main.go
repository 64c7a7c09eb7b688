// Demonstrates wildcard discovery, hierarchical resolution and the
// handle registry against a throwaway directory tree.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"confkit"
)

type serverConfig struct {
	Host     string   `toml:"host"`
	Port     int      `toml:"port"`
	Features []string `toml:"features"`
}

func main() {
	root, err := os.MkdirTemp("", "confkit-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	base := filepath.Join(root, "00-base.toml")
	site := filepath.Join(root, "10-site.toml")
	os.WriteFile(base, []byte(`
host = "localhost"
port = 8080
features = ["auth", "logging"]
`), 0644)
	os.WriteFile(site, []byte(`
port = 9090
features_add = ["metrics"]
features_remove = ["logging"]
`), 0644)

	provider := confkit.NewWildcard("example", filepath.Join(root, "*.toml")).
		WithMergeOrder(confkit.OrderAlphabetical)

	registry := confkit.NewRegistry().Enable(confkit.FlagStrictValidation)

	handle, err := confkit.StoreProfile[serverConfig](registry, provider, confkit.DefaultProfile)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := confkit.Read(registry, handle)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("resolved: %s:%d features=%v\n", cfg.Host, cfg.Port, cfg.Features)
	fmt.Printf("stats: %+v\n", registry.Stats())
}
