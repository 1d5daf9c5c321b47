package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitCreatesSubdirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	s, err := Init(dir)
	require.NoError(t, err)
	for _, d := range subdirs {
		info, err := os.Stat(filepath.Join(s.Base(), d))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestInitOnExistingIncompleteStoreFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cache"), 0o755))

	_, err := Init(dir)
	require.Error(t, err)
	var malformed *MalformedStoreError
	require.ErrorAs(t, err, &malformed)
}

func TestInitIsIdempotentOnCompleteStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	_, err := Init(dir)
	require.NoError(t, err)

	s2, err := Init(dir)
	require.NoError(t, err)
	require.Equal(t, dir, s2.Base())
}

func TestFormatAndParseTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := FormatTime(now)
	got, err := ParseTime(s)
	require.NoError(t, err)
	require.True(t, now.Equal(got))
}

func TestFormatZeroTimeIsDash(t *testing.T) {
	require.Equal(t, "-", FormatTime(time.Time{}))
	got, err := ParseTime("-")
	require.NoError(t, err)
	require.True(t, got.IsZero())
}
