package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heapdb.ini")
	content := `[storage]
data_dir = /var/lib/heapdb
cache_pages = 256

[lock]
retry_limit = 20

[logging]
level = debug
format = console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/heapdb", cfg.Storage.DataDir)
	require.EqualValues(t, 256, cfg.Storage.CachePages)
	require.Equal(t, 20, cfg.Lock.RetryLimit)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFillsUnsetKeysFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.ini")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\ndata_dir = /data\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data", cfg.Storage.DataDir)
	require.Equal(t, Default().Storage.CachePages, cfg.Storage.CachePages)
	require.Equal(t, Default().Lock.RetryLimit, cfg.Lock.RetryLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Defaults are valid", func(c *Config) {}, false},
		{"Empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"Zero cache pages", func(c *Config) { c.Storage.CachePages = 0 }, true},
		{"Negative cache pages", func(c *Config) { c.Storage.CachePages = -1 }, true},
		{"Zero retry limit", func(c *Config) { c.Lock.RetryLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
