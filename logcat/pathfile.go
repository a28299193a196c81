package logcat

// This file contains persistence of the collected logcat path list.
// The run command writes it after artifact collection, the verify
// command reads it back.

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// PathFileName is the default file the logcat path list is saved to.
const PathFileName = "path.yaml"

// WritePathFile saves the logcat paths to path, one block-style list
// entry per file, overwriting any previous list.
func WritePathFile(path string, logcatPaths []string) error {
	data, err := yaml.Marshal(logcatPaths)
	if err != nil {
		return fmt.Errorf("failed to marshal logcat paths: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadPathFile loads a logcat path list written by WritePathFile.
func ReadPathFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var paths []string
	if err := yaml.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return paths, nil
}
