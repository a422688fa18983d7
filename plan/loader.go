package plan

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/streamkit/errors"
)

// Parse decodes a YAML document. It accepts either a single plan or a
// document with a top-level plans list.
func Parse(data []byte) ([]Spec, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.InvalidInput("plans", "invalid YAML").WithCause(err)
	}
	if len(f.Plans) > 0 {
		return f.Plans, nil
	}

	var single Spec
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, errors.InvalidInput("plan", "invalid YAML").WithCause(err)
	}
	if single.Name == "" {
		return nil, errors.InvalidInput("plans", "document holds no plans")
	}
	return []Spec{single}, nil
}

// LoadFile reads and parses the plans in a YAML file.
func LoadFile(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: reading %s: %w", path, err)
	}
	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan: parsing %s: %w", path, err)
	}
	return specs, nil
}

// Loader finds plan definitions by name in a set of directories.
type Loader struct {
	dirs []string
}

// NewLoader creates a loader that searches dirs for {name}.yaml and
// {name}.yml, directly or one level down.
func NewLoader(dirs ...string) *Loader {
	return &Loader{dirs: dirs}
}

// Load returns the plan called name.
func (l *Loader) Load(name string) (Spec, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			candidates := []string{filepath.Join(dir, name+ext)}
			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			candidates = append(candidates, matches...)

			for _, path := range candidates {
				specs, err := LoadFile(path)
				if err != nil {
					continue
				}
				for _, s := range specs {
					if s.Name == name {
						return s, nil
					}
				}
			}
		}
	}
	return Spec{}, errors.NotFound("plan", name).WithDetail("dirs", l.dirs)
}
