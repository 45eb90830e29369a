package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "bad server mode",
			mutate:  func(c *Config) { c.Server.Mode = "production" },
			wantErr: "server.mode",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database.host",
		},
		{
			name:    "missing database user",
			mutate:  func(c *Config) { c.Database.User = "" },
			wantErr: "database.user",
		},
		{
			name:    "missing redis addr",
			mutate:  func(c *Config) { c.Redis.Addr = "" },
			wantErr: "redis.addr",
		},
		{
			name:    "empty kafka brokers",
			mutate:  func(c *Config) { c.Kafka.Brokers = nil },
			wantErr: "kafka.brokers",
		},
		{
			name:    "missing kosha base url",
			mutate:  func(c *Config) { c.Registry.KOSHA.BaseURL = "" },
			wantErr: "registry.kosha.base_url",
		},
		{
			name:    "missing keco base url",
			mutate:  func(c *Config) { c.Registry.KECO.BaseURL = "" },
			wantErr: "registry.keco.base_url",
		},
		{
			name:    "negative courtesy delay",
			mutate:  func(c *Config) { c.Registry.CourtesyDelay = -1 },
			wantErr: "registry.courtesy_delay",
		},
		{
			name:    "zero batch workers",
			mutate:  func(c *Config) { c.Batch.Workers = -3 },
			wantErr: "batch.workers",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "yaml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
