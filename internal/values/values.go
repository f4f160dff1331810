package values

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults are the built-in non-secret settings referenced by the
// provisioning templates. A values file can override any of them.
var Defaults = map[string]any{
	"hostname": "homeserver",
	"timezone": "Europe/Berlin",
	"locale":   "en_US.UTF-8",
}

// ParseFile reads a YAML values file into a flat mapping.
func ParseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading values file: %w", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing values file %s: %w", path, err)
	}

	return parsed, nil
}

// Merge combines base values with overrides (overrides take precedence).
func Merge(base, overrides map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(overrides))

	for k, v := range base {
		result[k] = v
	}
	for k, v := range overrides {
		result[k] = v
	}

	return result
}
