package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database = DatabaseConfig{
		Path:    ":memory:",
		Timeout: 1 * time.Second,
	}
	cfg.Catalog.HTTPTimeout = 5 * time.Second
	cfg.Catalog.UserAgent = "folio-test/1.0"
	cfg.Catalog.RequestsPerSecond = 0
	cfg.Search.Engine = "basic"
	cfg.Search.IndexPath = ""
	return cfg
}
