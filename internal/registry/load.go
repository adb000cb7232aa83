package registry

import (
	_ "embed"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultData []byte

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// file mirrors the on-disk YAML layout.
type file struct {
	Triggers map[string]Entry `yaml:"triggers"`
	Effects  map[string]Entry `yaml:"effects"`
	Links    map[string]Entry `yaml:"links"`
}

// Default returns the built-in tables. The result is shared and must not be
// modified.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Parse(defaultData)
		if err != nil {
			panic(errors.Wrap(err, "embedded default registry"))
		}

		defaultRegistry = reg
	})

	return defaultRegistry
}

// Parse decodes a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode registry")
	}

	reg := New()

	for name, e := range f.Triggers {
		reg.Triggers[name] = e
	}

	for name, e := range f.Effects {
		reg.Effects[name] = e
	}

	for name, e := range f.Links {
		reg.Links[name] = e
	}

	return reg, nil
}

// Load reads a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read registry %s", path)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load registry %s", path)
	}

	return reg, nil
}

// LoadWithDefaults reads a registry file and layers it over the built-in
// tables. An empty path yields the defaults.
func LoadWithDefaults(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	override, err := Load(path)
	if err != nil {
		return nil, err
	}

	return Default().Merge(override), nil
}
