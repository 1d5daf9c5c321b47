package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedCacheEntry(t *testing.T, s *Store, id string, historyAge time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(s.Base()+"/cache/"+id, 0o755))
	if historyAge >= 0 {
		hp := s.Base() + "/history/" + id
		require.NoError(t, os.WriteFile(hp, []byte("2020-01-01T00:00:00Z: C\n"), 0o644))
		old := time.Now().Add(-historyAge)
		require.NoError(t, os.Chtimes(hp, old, old))
	}
}

func TestGCRemovesUnkeptStaleEntries(t *testing.T) {
	s, err := Init(t.TempDir() + "/store")
	require.NoError(t, err)

	seedCacheEntry(t, s, "stale", 48*time.Hour)
	seedCacheEntry(t, s, "fresh", time.Minute)
	seedCacheEntry(t, s, "no-history", -1)

	removed, err := s.GC(context.Background(), nil, time.Hour)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"stale", "no-history"}, removed)

	_, err = os.Stat(s.Base() + "/cache/fresh")
	require.NoError(t, err)
}

func TestGCSkipsKeptEntries(t *testing.T) {
	s, err := Init(t.TempDir() + "/store")
	require.NoError(t, err)
	seedCacheEntry(t, s, "stale", 48*time.Hour)

	removed, err := s.GC(context.Background(), []string{"stale"}, time.Hour)
	require.NoError(t, err)
	require.Empty(t, removed)

	_, err = os.Stat(s.Base() + "/cache/stale")
	require.NoError(t, err)
}
