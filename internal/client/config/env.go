package config

import (
	"time"

	"github.com/themisai/themis/internal/configx"
)

func parseEnv(cfg *Config) {
	if v, ok := configx.LookupEnv("THEMIS_API_URL"); ok {
		cfg.APIURL = v
	}
	if v, ok := configx.LookupEnv("THEMIS_DB"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := configx.LookupEnv("THEMIS_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := configx.LookupEnv("THEMIS_REQUEST_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
