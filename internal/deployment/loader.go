package deployment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a deployment file (YAML or JSON) into an untyped input map.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses deployment input from YAML or JSON bytes.
func LoadFromBytes(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse deployment file: %w", err)
	}
	return raw, nil
}
