package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dagucloud/wfengine/pkg/wf"
)

func testPrim(id string) wf.Prim {
	return wf.NewPrim(id, "v1", 1, 64, func(ctx context.Context, env wf.Env) (any, error) {
		return nil, nil
	})
}

func TestCachePathForExtractComposesOnParent(t *testing.T) {
	s, err := Init(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	dir := wf.NewPath(testPrim("dir"))
	ex, err := wf.NewExtract(dir, "sub", "file")
	require.NoError(t, err)

	want := filepath.Join(s.CachePath(dir), "sub", "file")
	require.Equal(t, want, s.CachePath(ex))
}

func TestPromoteRenamesBuildToCache(t *testing.T) {
	s, err := Init(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	p := wf.NewPath(testPrim("p"))
	require.NoError(t, s.ResetScratch(p))
	require.NoError(t, os.WriteFile(s.BuildPath(p), []byte("data"), 0o644))

	require.NoError(t, s.Promote(p))

	exists, err := s.CacheExists(p)
	require.NoError(t, err)
	require.True(t, exists)

	_, err = os.Stat(s.BuildPath(p))
	require.True(t, os.IsNotExist(err))
}

func TestResetScratchRemovesStaleArtifacts(t *testing.T) {
	s, err := Init(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)

	p := wf.NewPath(testPrim("p2"))
	require.NoError(t, os.MkdirAll(s.TmpPath(p), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.TmpPath(p), "stale"), []byte("x"), 0o644))

	require.NoError(t, s.ResetScratch(p))

	entries, err := os.ReadDir(s.TmpPath(p))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRecordCreatedPanicsOnExtract(t *testing.T) {
	s, err := Init(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	dir := wf.NewPath(testPrim("dir2"))
	ex, err := wf.NewExtract(dir, "x")
	require.NoError(t, err)

	require.Panics(t, func() { _ = s.RecordCreated(ex, time.Now()) })
}
