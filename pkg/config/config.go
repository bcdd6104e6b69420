// Package config loads the storage engine configuration from an INI file.
package config

import (
	"gopkg.in/ini.v1"

	"heapdb/pkg/dberr"
)

// Config holds the tunables of the storage engine. Page size is deliberately
// not configurable: it is a process-wide constant baked into the on-disk
// format, and a file written with one page size cannot be read with another.
type Config struct {
	Storage StorageConfig
	Lock    LockConfig
	Logging LoggingConfig
}

type StorageConfig struct {
	// DataDir is the directory that holds table files.
	DataDir string
	// CachePages is the capacity of the page cache, in pages.
	CachePages int64
}

type LockConfig struct {
	// RetryLimit bounds the acquisition attempts before a waiter gives up.
	RetryLimit int
}

type LoggingConfig struct {
	Level      string
	OutputPath string
	Format     string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:    "data",
			CachePages: 1024,
		},
		Lock: LockConfig{
			RetryLimit: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from an INI file, filling unset keys from
// Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, dberr.Wrap(err, dberr.KindIOFailure, "Load", "config")
	}

	storage := file.Section("storage")
	cfg.Storage.DataDir = storage.Key("data_dir").MustString(cfg.Storage.DataDir)
	cfg.Storage.CachePages = storage.Key("cache_pages").MustInt64(cfg.Storage.CachePages)

	lock := file.Section("lock")
	cfg.Lock.RetryLimit = lock.Key("retry_limit").MustInt(cfg.Lock.RetryLimit)

	logging := file.Section("logging")
	cfg.Logging.Level = logging.Key("level").MustString(cfg.Logging.Level)
	cfg.Logging.OutputPath = logging.Key("output_path").MustString(cfg.Logging.OutputPath)
	cfg.Logging.Format = logging.Key("format").MustString(cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values for internal consistency.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return dberr.New(dberr.KindInvalidArgument, "storage.data_dir cannot be empty")
	}
	if c.Storage.CachePages <= 0 {
		return dberr.New(dberr.KindInvalidArgument,
			"storage.cache_pages must be positive, got %d", c.Storage.CachePages)
	}
	if c.Lock.RetryLimit <= 0 {
		return dberr.New(dberr.KindInvalidArgument,
			"lock.retry_limit must be positive, got %d", c.Lock.RetryLimit)
	}
	return nil
}
