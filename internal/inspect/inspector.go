package inspect

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// File is a single storage file extracted from a built Ignition config,
// with its source decoded back to plain text.
type File struct {
	Path    string
	Content string
}

// Config is a parsed Ignition configuration.
type Config struct {
	raw map[string]any
}

// Load parses a built Ignition config from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ignition config: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing ignition config %s: %w", path, err)
	}

	return &Config{raw: raw}, nil
}

// Files returns every storage file with its decoded content.
func (c *Config) Files() ([]File, error) {
	storage, ok := c.raw["storage"].(map[string]any)
	if !ok {
		return nil, nil
	}
	entries, ok := storage["files"].([]any)
	if !ok {
		return nil, nil
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		file, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		path, _ := file["path"].(string)

		var source string
		if contents, ok := file["contents"].(map[string]any); ok {
			source, _ = contents["source"].(string)
		}

		content, err := DecodeSource(source)
		if err != nil {
			return nil, fmt.Errorf("decoding content of %s: %w", path, err)
		}
		files = append(files, File{Path: path, Content: content})
	}

	return files, nil
}

// DecodeSource decodes an Ignition file source. Base64 data URLs are
// decoded, plain data URLs are stripped to their payload, and anything
// else (remote URLs included) is returned as-is.
func DecodeSource(source string) (string, error) {
	if _, encoded, found := strings.Cut(source, "base64,"); found {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}

	if strings.HasPrefix(source, "data:") {
		if _, payload, found := strings.Cut(source, ","); found {
			return payload, nil
		}
	}

	return source, nil
}
