package registry

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadFile reads a complete rule set from a YAML file and validates it.
// A file never merges with the built-in defaults: a rule set is owned by its
// scoring revision, so partial overrides would make the revision string lie.
func LoadFile(path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadRegistry, path, err)
	}

	var reg Registry
	if err := k.UnmarshalWithConf("", &reg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadRegistry, path, err)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}
