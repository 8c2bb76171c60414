package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
)

// LoadPolicy reads the program policy TOML file. A missing file yields the
// built-in policy; any field left out of the file keeps its default.
func LoadPolicy(path string) (advising.Policy, error) {
	policy := advising.DefaultPolicy()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return policy, nil
	}
	if err != nil {
		return policy, fmt.Errorf("error reading policy file: %w", err)
	}

	if err := toml.Unmarshal(data, &policy); err != nil {
		return advising.DefaultPolicy(), fmt.Errorf("error decoding policy file %s: %w", path, err)
	}
	return policy.WithDefaults(), nil
}
