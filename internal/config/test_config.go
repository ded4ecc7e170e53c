package config

import (
	"os"
	"path/filepath"
	"time"
)

// TestConfig returns a config suitable for testing. The catalog may point at
// a local httptest server and data files live in a fresh temp directory.
func TestConfig() *Config {
	dir, err := os.MkdirTemp("", "folio-test-")
	if err != nil {
		dir = os.TempDir()
	}

	cfg := defaultConfig()
	cfg.Catalog.HTTPTimeout = 5 * time.Second
	cfg.Catalog.UserAgent = "folio-test/1.0"
	cfg.Catalog.AllowLocal = true
	cfg.Catalog.RequestsPerSecond = 1000
	cfg.Catalog.Burst = 100
	cfg.Shelf.Path = filepath.Join(dir, "shelf.db")
	cfg.Shelf.SearchIndex = ""
	cfg.Log.Level = "off"
	cfg.Log.Path = filepath.Join(dir, "folio.log")
	return cfg
}
