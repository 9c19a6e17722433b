// Package state manages the runtime folder layout under the data path.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the canonical layout: the pebble store, janitor artifacts,
// crash dumps and scratch space all live under one data directory.
type Paths struct {
	Store   string
	Janitor string
	Crash   string
	Tmp     string
}

// Layout returns the folder layout for a data path without touching disk.
func Layout(dataPath string) Paths {
	statePath := filepath.Join(dataPath, "state")
	return Paths{
		Store:   filepath.Join(dataPath, "store"),
		Janitor: filepath.Join(statePath, "janitor"),
		Crash:   filepath.Join(statePath, "crash"),
		Tmp:     filepath.Join(statePath, "tmp"),
	}
}

// Ensure creates the layout with restrictive permissions. Symlinked or
// group-writable directories are rejected rather than repaired.
func Ensure(dataPath string) (Paths, error) {
	p := Layout(dataPath)
	for _, dir := range []string{p.Store, p.Janitor, p.Crash, p.Tmp} {
		if err := ensureDir(dir); err != nil {
			return Paths{}, err
		}
	}
	return p, nil
}

func ensureDir(dir string) error {
	if fi, err := os.Lstat(dir); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("path is a symlink: %s", dir)
		}
		if !fi.IsDir() {
			return fmt.Errorf("path exists and is not a directory: %s", dir)
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("cannot create path %s: %w", dir, err)
	}
	if fi, err := os.Lstat(dir); err == nil && fi.Mode().Perm()&0o022 != 0 {
		return fmt.Errorf("path has permissive mode (group/other write): %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".validate-*")
	if err != nil {
		return fmt.Errorf("path not writable: %s: %w", dir, err)
	}
	tmp.Close()
	_ = os.Remove(tmp.Name())
	return nil
}
