package config

import "time"

// Config holds runtime settings of the Themis terminal client.
type Config struct {
	APIURL         string
	DatabasePath   string
	LogLevel       string
	RequestTimeout time.Duration // 0 leaves the transport default
}

func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8000"
	c.DatabasePath = "themis.db"
	c.LogLevel = "warn"
	c.RequestTimeout = 0
}

// LoadConfig applies defaults, then the config file, then environment
// variables, then flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
