package engcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, 24*7, cfg.GCRetentionHours)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("store_dir: /tmp/mystore\nallocator_np: 4\nlog_format: json\n"), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "/tmp/mystore", cfg.StoreDir)
	require.Equal(t, 4, cfg.AllocatorNP)
	require.Equal(t, "json", cfg.LogFormat)
}
