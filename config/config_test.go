package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-gametree/pkg/allocator"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "gametree.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, New(), cfg)
	require.NoError(t, cfg.Validate())

	require.Equal(t, allocator.DefaultChunkSize, cfg.Allocator.ChunkSize)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "gametree.db", cfg.Store.Path)
	require.Zero(t, cfg.Tree.RecordSize)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
allocator {
  diagnostics = true
  off_heap    = true
}

tree {
  record_size = 13
  fda         = true
}

store {
  path    = "/tmp/trees.db"
  timeout = "250ms"
}

log {
  level = "debug"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, &allocator.Options{
		Diagnostics: true,
		OffHeap:     true,
		ChunkSize:   allocator.DefaultChunkSize,
	}, cfg.Allocator.Options())
	require.Equal(t, 13, cfg.Tree.RecordSize)
	require.True(t, cfg.Tree.FDA)
	require.False(t, cfg.Tree.Writable)
	require.Equal(t, "debug", cfg.Log.Level)

	opts, err := cfg.Store.Options(true)
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, opts.Timeout)
	require.True(t, opts.ReadOnly)
	require.Equal(t, "/tmp/trees.db", cfg.Store.Path)
}

func TestLoadPartial(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
log {}
store {
  no_sync = true
}
`))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, NewAllocatorConfig(), cfg.Allocator)
	require.True(t, cfg.Store.NoSync)
	require.Equal(t, "10s", cfg.Store.Timeout)
	require.Equal(t, "gametree.db", cfg.Store.Path)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `allocator { chunk_size = "big" }`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `unknown { }`))
	require.Error(t, err)

	_, err = Load(writeConfig(t, `allocator { chunk_size = -1 }`))
	require.ErrorContains(t, err, "chunk_size")

	_, err = Load(writeConfig(t, `store { timeout = "soon" }`))
	require.ErrorContains(t, err, "timeout")
}
