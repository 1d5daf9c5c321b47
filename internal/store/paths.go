package store

import (
	"os"
	"path/filepath"

	"github.com/dagucloud/wfengine/pkg/wf"
)

// CachePath is the completed-artifact path for w. For an Extract, this
// composes the parent's cache path with the flattened segment list (I3);
// Extract owns no independent cache entry.
func (s *Store) CachePath(w wf.Workflow) string {
	if w.Kind() == wf.KindExtract {
		e := w.(wf.Extract)
		parts := append([]string{s.CachePath(e.Parent())}, e.Segments()...)
		return filepath.Join(parts...)
	}
	return filepath.Join(s.base, "cache", w.Identity())
}

// BuildPath is the in-progress artifact path for w. Undefined (and not
// meaningful to call) for Extract.
func (s *Store) BuildPath(w wf.Workflow) string {
	return filepath.Join(s.base, "build", w.Identity())
}

// TmpPath is the scratch directory for w's task. Undefined for Extract.
func (s *Store) TmpPath(w wf.Workflow) string {
	return filepath.Join(s.base, "tmp", w.Identity())
}

// StdoutPath is the captured stdout path for w. Undefined for Extract.
func (s *Store) StdoutPath(w wf.Workflow) string {
	return filepath.Join(s.base, "stdout", w.Identity())
}

// StderrPath is the captured stderr path for w. Undefined for Extract.
func (s *Store) StderrPath(w wf.Workflow) string {
	return filepath.Join(s.base, "stderr", w.Identity())
}

// HistoryPath is the provenance log path for w.
func (s *Store) HistoryPath(w wf.Workflow) string {
	return filepath.Join(s.base, "history", w.Identity())
}

// CacheExists reports whether w's cache entry is present.
func (s *Store) CacheExists(w wf.Workflow) (bool, error) {
	_, err := os.Stat(s.CachePath(w))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Promote establishes cache/h for w by atomically renaming build/h to
// cache/h. It must only be called for Value/Path workflows after their
// producer has succeeded.
func (s *Store) Promote(w wf.Workflow) error {
	return os.Rename(s.BuildPath(w), s.CachePath(w))
}

// ResetScratch removes any pre-existing stdout/h, stderr/h, build/h and
// tmp/h for w, then (re)creates tmp/h. This is step 1-2 of the
// path-workflow execution wrapper.
func (s *Store) ResetScratch(w wf.Workflow) error {
	for _, p := range []string{s.StdoutPath(w), s.StderrPath(w), s.BuildPath(w), s.TmpPath(w)} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return os.MkdirAll(s.TmpPath(w), 0o755)
}

// RemoveTmp removes w's scratch directory. Called after a successful
// promotion.
func (s *Store) RemoveTmp(w wf.Workflow) error {
	return os.RemoveAll(s.TmpPath(w))
}
