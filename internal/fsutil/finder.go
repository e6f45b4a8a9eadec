// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigNames are the file names searched for, in order, when a directory
// is given as the configuration path.
var ConfigNames = []string{"config.yml", "config.yaml", "config.hcl"}

// FindConfigFile resolves path to a configuration file. A file path is
// returned unchanged; a directory is searched for the first of ConfigNames.
func FindConfigFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range ConfigNames {
		candidate := filepath.Join(path, name)
		info, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("error accessing path %s: %w", candidate, err)
		}
		if !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no configuration file (%v) in %s: %w", ConfigNames, path, fs.ErrNotExist)
}
