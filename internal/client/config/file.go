package config

import (
	"github.com/themisai/themis/internal/configx"
	"github.com/themisai/themis/internal/flagx"
	"github.com/themisai/themis/internal/timex"
)

// fileConfig is the on-disk shape; only non-empty values override.
type fileConfig struct {
	APIURL         string          `json:"api_url" toml:"api_url"`
	DatabasePath   string          `json:"database_path" toml:"database_path"`
	LogLevel       string          `json:"log_level" toml:"log_level"`
	RequestTimeout *timex.Duration `json:"request_timeout" toml:"request_timeout"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics when
// the file cannot be read or parsed.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc fileConfig
	if err := configx.DecodeFile(path, &fc); err != nil {
		panic(err)
	}

	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
