package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile reads TOML settings from path, applies defaults and validates them.
// An empty path yields the defaults.
func LoadFile(path string) (Settings, error) {
	var s Settings
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	s.ApplyDefaults()
	if problems := s.Validate(); len(problems) > 0 {
		return Settings{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return s, nil
}

// Encode renders settings as TOML, used by `recommender config`.
func Encode(s Settings) ([]byte, error) {
	return toml.Marshal(s)
}
