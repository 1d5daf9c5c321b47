// Package store implements the content-addressed on-disk store: the
// cache of completed artifacts, the scratch space used while building
// them, captured process output, per-day logs, and per-identity
// provenance history.
//
// The invariant the rest of the engine leans on is I2: for any cached
// identity h, cache/h exists and is complete. The store never writes
// directly into cache/h; producers write to build/h and the store
// promotes it with a single atomic rename.
package store

import (
	"os"
	"path/filepath"
)

var subdirs = []string{"cache", "build", "tmp", "stdout", "stderr", "logs", "history"}

// Store is a handle on a base directory laid out per the specification.
type Store struct {
	base string
}

// Init ensures each of the store's subdirectories exists under base. If
// base does not exist yet, it and all subdirectories are created fresh.
// If base already exists, every subdirectory must already be present -
// otherwise Init fails with a *MalformedStoreError naming the first one
// it finds missing.
func Init(base string) (*Store, error) {
	info, err := os.Stat(base)
	existed := err == nil
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if existed && !info.IsDir() {
		return nil, &MalformedStoreError{Base: base, Missing: "(base is not a directory)"}
	}
	if !existed {
		if err := os.MkdirAll(base, 0o755); err != nil {
			return nil, err
		}
	}
	for _, d := range subdirs {
		p := filepath.Join(base, d)
		st, statErr := os.Stat(p)
		switch {
		case statErr == nil && st.IsDir():
			continue
		case statErr == nil:
			return nil, &MalformedStoreError{Base: base, Missing: d}
		case os.IsNotExist(statErr):
			if existed {
				return nil, &MalformedStoreError{Base: base, Missing: d}
			}
			if err := os.MkdirAll(p, 0o755); err != nil {
				return nil, err
			}
		default:
			return nil, statErr
		}
	}
	return &Store{base: base}, nil
}

// Base returns the store's root directory.
func (s *Store) Base() string { return s.base }
