package config

import (
	"strconv"
	"time"

	"github.com/themisai/themis/internal/configx"
)

// parseEnv reads THEMIS_* variables. DATABASE_URL, REDIS_URL and the SMTP_*
// names are accepted as fallbacks for the usual container setups.
func parseEnv(cfg *Config) {
	if v, ok := configx.LookupEnv("THEMIS_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := configx.LookupEnv("THEMIS_DATABASE_DSN", "DATABASE_URL"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := configx.LookupEnv("THEMIS_SECRET_KEY", "SECRET_KEY"); ok {
		cfg.SecretKey = v
	}
	if v, ok := configx.LookupEnv("THEMIS_S3_BUCKET"); ok {
		cfg.S3Bucket = v
	}
	if v, ok := configx.LookupEnv("THEMIS_UPLOAD_DIR", "UPLOAD_DIR"); ok {
		cfg.UploadDir = v
	}
	if v, ok := configx.LookupEnv("THEMIS_REDIS_ADDR", "REDIS_URL"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := configx.LookupEnv("THEMIS_RESET_URL"); ok {
		cfg.ResetURL = v
	}
	if v, ok := configx.LookupEnv("THEMIS_SMTP_HOST", "SMTP_HOST"); ok {
		cfg.SMTPHost = v
	}
	if v, ok := configx.LookupEnv("THEMIS_SMTP_PORT", "SMTP_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = n
		}
	}
	if v, ok := configx.LookupEnv("THEMIS_SMTP_USER", "SMTP_USER"); ok {
		cfg.SMTPUser = v
	}
	if v, ok := configx.LookupEnv("THEMIS_SMTP_PASSWORD", "SMTP_PASS"); ok {
		cfg.SMTPPassword = v
	}
	if v, ok := configx.LookupEnv("THEMIS_SMTP_FROM", "SMTP_FROM"); ok {
		cfg.SMTPFrom = v
	}
	if v, ok := configx.LookupEnv("THEMIS_SMTP_REQUIRE_TLS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SMTPRequireTLS = b
		}
	}
	if v, ok := configx.LookupEnv("THEMIS_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := configx.LookupEnv("THEMIS_ACCESS_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AccessTokenValidityDuration = d
		}
	}
}
