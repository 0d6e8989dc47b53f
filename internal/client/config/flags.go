package config

import (
	"flag"
	"os"
	"time"

	"github.com/themisai/themis/internal/flagx"
)

// parseFlags reads the client's own flags out of os.Args:
//
//	-a string   backend base URL
//	-db string  path of the local sqlite database
//	-l string   log level (debug, info, warn, error)
//	-t int      request timeout in seconds, 0 for none
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-db", "-l", "-t"})

	fs := flag.NewFlagSet("themis", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "backend base URL")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
