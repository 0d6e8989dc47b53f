package config

import (
	"github.com/themisai/themis/internal/configx"
	"github.com/themisai/themis/internal/flagx"
	"github.com/themisai/themis/internal/timex"
)

// fileConfig is the intermediate shape of the config file. Durations accept
// strings such as "15m" or integer nanoseconds.
type fileConfig struct {
	HTTPAddr                    string          `json:"http_addr" toml:"http_addr"`
	DatabaseDSN                 string          `json:"database_dsn" toml:"database_dsn"`
	SecretKey                   string          `json:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" toml:"access_token_validity_duration"`
	S3RootUser                  string          `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket" toml:"s3_bucket"`
	S3Region                    string          `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	UploadDir                   string          `json:"upload_dir" toml:"upload_dir"`
	RedisAddr                   string          `json:"redis_addr" toml:"redis_addr"`
	ResetTokenTTL               *timex.Duration `json:"reset_token_ttl" toml:"reset_token_ttl"`
	ResetURL                    string          `json:"reset_url" toml:"reset_url"`
	SMTPHost                    string          `json:"smtp_host" toml:"smtp_host"`
	SMTPPort                    int             `json:"smtp_port" toml:"smtp_port"`
	SMTPUser                    string          `json:"smtp_user" toml:"smtp_user"`
	SMTPPassword                string          `json:"smtp_password" toml:"smtp_password"`
	SMTPFrom                    string          `json:"smtp_from" toml:"smtp_from"`
	SMTPRequireTLS              *bool           `json:"smtp_require_tls" toml:"smtp_require_tls"`
	LogLevel                    string          `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config, if any. Empty
// values leave the current setting alone. Read or parse errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	var fc fileConfig
	if err := configx.DecodeFile(path, &fc); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.UploadDir, fc.UploadDir)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.ResetURL, fc.ResetURL)
	setString(&cfg.SMTPHost, fc.SMTPHost)
	setString(&cfg.SMTPUser, fc.SMTPUser)
	setString(&cfg.SMTPPassword, fc.SMTPPassword)
	setString(&cfg.SMTPFrom, fc.SMTPFrom)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.SMTPPort != 0 {
		cfg.SMTPPort = fc.SMTPPort
	}
	if fc.SMTPRequireTLS != nil {
		cfg.SMTPRequireTLS = *fc.SMTPRequireTLS
	}

	if fc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.ResetTokenTTL != nil {
		cfg.ResetTokenTTL = fc.ResetTokenTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
