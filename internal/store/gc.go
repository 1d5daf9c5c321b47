package store

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// GC removes cache entries (and their associated build/stdout/stderr/tmp
// siblings) that are both absent from keep and have no history entry
// newer than retention. It never touches history itself (I5 stays
// append-only) and never runs implicitly - callers invoke it explicitly,
// e.g. from `wfengine store gc`.
//
// An identity with no history file at all is treated as unreferenced and
// eligible for removal; a cache entry currently referenced by a live
// Extract's parent is protected only if its own identity is in keep -
// callers building keep are expected to walk the workflow graph they
// still care about and include every Path identity an Extract depends on.
func (s *Store) GC(ctx context.Context, keep []string, retention time.Duration) ([]string, error) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, h := range keep {
		keepSet[h] = struct{}{}
	}

	entries, err := os.ReadDir(filepath.Join(s.base, "cache"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	var removed []string
	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		h := ent.Name()
		if _, ok := keepSet[h]; ok {
			continue
		}
		stale, err := s.isStale(h, now, retention)
		if err != nil {
			return removed, err
		}
		if !stale {
			continue
		}
		if err := s.removeIdentity(h); err != nil {
			return removed, err
		}
		removed = append(removed, h)
	}
	return removed, nil
}

func (s *Store) isStale(identity string, now time.Time, retention time.Duration) (bool, error) {
	f, err := os.Open(filepath.Join(s.base, "history", identity))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	return now.Sub(info.ModTime()) > retention, nil
}

func (s *Store) removeIdentity(identity string) error {
	for _, sub := range []string{"cache", "build", "tmp", "stdout", "stderr"} {
		if err := os.RemoveAll(filepath.Join(s.base, sub, identity)); err != nil {
			return err
		}
	}
	return nil
}
