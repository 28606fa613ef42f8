package commons

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"

	"backoffice/internal/config"
)

// LoadConfig layers defaults, the YAML file at path (optional) and the environment.
// Callers that serve traffic must still run Validate.
func LoadConfig(path string) (*config.Config, error) {
	cfg := config.Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
