// Package config loads runtime configuration for the Themis terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .toml are TOML, everything else JSON.
//  3. Environment: THEMIS_API_URL, THEMIS_DB, THEMIS_LOG_LEVEL,
//     THEMIS_REQUEST_TIMEOUT (Go duration).
//  4. Command-line flags -a, -db, -l, -t.
//
// # File schema
//
//	{
//	  "api_url": "http://localhost:8000",
//	  "database_path": "themis.db",
//	  "log_level": "warn",
//	  "request_timeout": "30s"
//	}
package config
