package output

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is a single rendered file to be placed under the output root.
type Artifact struct {
	Path    string // relative to the output root
	Content []byte
	Mode    fs.FileMode
}

// WriteError wraps a filesystem failure during output, naming the path at
// fault.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write places every artifact at its relative path under root, creating
// parent directories as needed. The subtrees holding declared artifacts are
// removed first so no stale output from a previous run survives; unrelated
// files directly under root are left alone.
func Write(root string, artifacts []Artifact) ([]string, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, &WriteError{Path: root, Err: err}
	}

	for _, dir := range artifactSubtrees(artifacts) {
		target := filepath.Join(root, dir)
		if err := os.RemoveAll(target); err != nil {
			return nil, &WriteError{Path: target, Err: err}
		}
	}

	written := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		path := filepath.Join(root, artifact.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, &WriteError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, artifact.Content, artifact.Mode); err != nil {
			return written, &WriteError{Path: path, Err: err}
		}
		written = append(written, path)
	}

	return written, nil
}

// artifactSubtrees returns the unique first path elements of the artifact
// paths, in artifact order.
func artifactSubtrees(artifacts []Artifact) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, artifact := range artifacts {
		first, _, found := strings.Cut(filepath.ToSlash(artifact.Path), "/")
		if !found || seen[first] {
			continue
		}
		seen[first] = true
		dirs = append(dirs, first)
	}
	return dirs
}
