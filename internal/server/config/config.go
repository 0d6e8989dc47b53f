// Package config handles configuration for the reference backend: defaults,
// an optional JSON or TOML file, environment variables and command-line flags.
package config

import "time"

// Config holds runtime settings for the Themis backend.
//
// Fields:
//   - HTTPAddr: bind address of the REST API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: object
//     storage for uploaded documents. Empty bucket stores files under UploadDir.
//   - RedisAddr: password-reset token store. Empty keeps tokens in memory.
//   - ResetTokenTTL: how long a password-reset token stays valid.
//   - ResetURL: link base mailed with reset tokens.
//   - SMTPHost / SMTPPort / SMTPUser / SMTPPassword / SMTPFrom: outgoing mail
//     for reset links. Empty host writes the links to the log instead.
//   - SMTPRequireTLS: refuse to send when the server does not offer STARTTLS.
type Config struct {
	HTTPAddr                    string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	UploadDir                   string
	RedisAddr                   string
	ResetTokenTTL               time.Duration
	ResetURL                    string
	SMTPHost                    string
	SMTPPort                    int
	SMTPUser                    string
	SMTPPassword                string
	SMTPFrom                    string
	SMTPRequireTLS              bool
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8000"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.UploadDir = "uploads"
	c.RedisAddr = ""
	c.ResetTokenTTL = 15 * time.Minute
	c.ResetURL = "http://localhost:5173/reset-password"
	c.SMTPHost = ""
	c.SMTPPort = 587
	c.SMTPUser = ""
	c.SMTPPassword = ""
	c.SMTPFrom = ""
	c.SMTPRequireTLS = true
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then the config file,
// then environment variables and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
