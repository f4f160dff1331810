package envfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// Merge reads a dotenv file and layers it under the given environment
// mapping. Keys already present in env win, so a checked-in .env can never
// override what the operator exported in the shell.
func Merge(path string, env map[string]string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening env file: %w", err)
	}
	defer f.Close()

	parsed, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}

	merged := make(map[string]string, len(parsed)+len(env))
	for k, v := range parsed {
		merged[k] = v
	}
	for k, v := range env {
		merged[k] = v
	}

	return merged, nil
}

// FromEnviron converts os.Environ-style "key=value" pairs into a mapping.
func FromEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		env[key] = value
	}
	return env
}
