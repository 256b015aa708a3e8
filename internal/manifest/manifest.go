// Package manifest loads a gelix.yaml package manifest: the module's
// own path, its source roots, and its dependencies' module paths --
// the "directories forming module paths" SPEC_FULL §6 names as the
// compiler's input shape.
//
// Grounded on the teacher's internal/eval_harness.LoadSpec: read the
// whole file, yaml.Unmarshal into a tagged struct, validate required
// fields by hand afterward (the teacher's yaml.v3 usage has no schema
// validation library layered on top, so neither does this).
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is one module's gelix.yaml.
type Manifest struct {
	Module  string            `yaml:"module"`
	Version string            `yaml:"version"`
	Src     string            `yaml:"src"`
	Deps    map[string]string `yaml:"deps"`
}

// Load reads and parses the gelix.yaml manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse gelix.yaml: %w", err)
	}
	if m.Module == "" {
		return nil, fmt.Errorf("manifest missing required field: module")
	}
	if m.Src == "" {
		m.Src = "."
	}
	return &m, nil
}
