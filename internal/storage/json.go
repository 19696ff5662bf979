// Package storage reads and writes the persisted JSON state files
// (rosters, mailing, configs). The files are pretty-printed because they
// are the source of truth between runs and operators inspect and edit
// them by hand.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile serializes v as indented JSON to path, atomically.
func WriteFile(v any, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit %s: %w", path, err)
	}
	return nil
}

// ReadFile deserializes JSON from path into v. A missing or corrupt file
// returns an error. The loaders probe with Exists first and rebuild a
// missing file from source; a corrupt file is not rebuilt, and its error
// is returned to their caller.
func ReadFile(v any, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a state file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
