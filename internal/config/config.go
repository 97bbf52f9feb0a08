// Package config loads the CLI's optional build-parameter overrides from a
// YAML file, starting from sensible defaults the way pkg/proxy's loader does
// for the rest of the teacher codebase.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BuildParams overrides the index build parameters the CLI would otherwise
// fall back to: M and EfConstruction go to pkg/index/hnsw, LeafCap to
// pkg/index/tree, and Seed to both the HNSW and RP-tree indexes. A zero M,
// EfConstruction or LeafCap makes that package use its own default.
type BuildParams struct {
	M              int   `yaml:"m"`
	EfConstruction int   `yaml:"efConstruction"`
	Seed           int64 `yaml:"seed"`
	LeafCap        int   `yaml:"leafCap"`
}

// Default returns the CLI's baseline build parameters.
func Default() BuildParams {
	return BuildParams{
		M:              16,
		EfConstruction: 200,
		Seed:           42,
		LeafCap:        100,
	}
}

// Load reads path as YAML and overrides the default build parameters with
// whatever fields it sets. An empty path returns the defaults unchanged.
func Load(path string) (BuildParams, error) {
	params := Default()
	if path == "" {
		return params, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return params, fmt.Errorf("config: failed to open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&params); err != nil {
		return params, fmt.Errorf("config: YAML syntax error in %s: %w", path, err)
	}

	return params, nil
}
