package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// preambleFile is the on-disk shape for preamble overrides:
//
//	preambles:
//	  strategy:
//	    decision: |
//	      You are ...
type preambleFile struct {
	Preambles map[string]map[string]string `yaml:"preambles"`
}

// LoadFromFile returns a registry with overrides from a YAML file applied on
// top of the built-in preambles. A missing file is not an error; the
// defaults are returned unchanged.
func LoadFromFile(path string) (*Registry, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	return LoadFromYAML(data)
}

// LoadFromYAML parses preamble overrides and applies them to a fresh
// registry. Unknown specialists or modes are rejected rather than silently
// dropped so typos in the file surface immediately.
func LoadFromYAML(data []byte) (*Registry, error) {
	var f preambleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse persona YAML: %w", err)
	}

	r := NewRegistry()
	for rawSpec, byMode := range f.Preambles {
		spec := SpecialistType(rawSpec)
		if !spec.IsValid() {
			return nil, fmt.Errorf("unknown specialist %q in persona file", rawSpec)
		}
		for rawMode, text := range byMode {
			mode := BehavioralMode(rawMode)
			if !mode.IsValid() {
				return nil, fmt.Errorf("unknown mode %q for specialist %q", rawMode, rawSpec)
			}
			if strings.TrimSpace(text) == "" {
				return nil, fmt.Errorf("empty preamble for %s/%s", rawSpec, rawMode)
			}
			r.preambles[spec][mode] = text
		}
	}
	return r, nil
}
