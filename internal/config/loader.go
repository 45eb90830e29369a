package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "CHEMREG"

// configKeys lists every settable key. Viper only overlays environment
// variables for keys it knows about, so each one is bound explicitly.
var configKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns",
	"database.min_conns", "database.conn_max_lifetime",
	"database.conn_max_idle_time", "database.migration_path",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.min_idle_conns", "redis.dial_timeout", "redis.read_timeout",
	"redis.write_timeout", "redis.key_prefix",
	"kafka.brokers", "kafka.group_id", "kafka.batch_topic",
	"kafka.auto_offset_reset", "kafka.producer_retries",
	"opensearch.addresses", "opensearch.user", "opensearch.password",
	"opensearch.insecure_skip_verify", "opensearch.index_prefix",
	"minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.use_ssl", "minio.presign_expiry",
	"registry.kosha.base_url", "registry.kosha.service_key",
	"registry.kosha.timeout",
	"registry.keco.base_url", "registry.keco.service_key",
	"registry.keco.timeout",
	"registry.courtesy_delay", "registry.cache_ttl",
	"batch.workers", "batch.progress_ttl",
	"log.level", "log.format", "log.output",
	"metrics.namespace", "metrics.enable_process_metrics",
	"metrics.enable_go_metrics",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads configuration from the given file path, overlays environment
// variables (prefix CHEMREG_, dots replaced by underscores, e.g.
// CHEMREG_SERVER_PORT), applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds configuration from environment variables and defaults
// alone. Useful in containers where no config file is mounted.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch reloads the config file on change and invokes onChange with the new,
// validated configuration. Invalid updates are dropped and the previous
// configuration stays in effect.
func Watch(path string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad loads from path when it is non-empty, otherwise from the
// environment, and panics on any error. Intended for main().
func MustLoad(path string) *Config {
	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = Load(path)
	} else {
		cfg, err = LoadFromEnv()
	}
	if err != nil {
		panic(err)
	}
	return cfg
}
