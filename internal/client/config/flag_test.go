package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"-a", "http://api:9000", "-db", "x.db", "-l", "debug", "-t", "10"},
			expected: &Config{APIURL: "http://api:9000", DatabasePath: "x.db", LogLevel: "debug", RequestTimeout: 10 * time.Second}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-a", "http://api", "-x", "1"},
			expected: &Config{APIURL: "http://api"}},
		{name: "bad timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)

			cfg := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
