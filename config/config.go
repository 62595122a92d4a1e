// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = "config/.env"

// NewConfig loads configuration from environment using viper with typed defaults and validation.
func NewConfig() (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "debug")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("http.request_timeout", 15*time.Second)
	v.SetDefault("http.cors_origins", "http://localhost:3000")
	v.SetDefault("http.body_limit", 15*1024*1024)

	v.SetDefault("backend.base_url", "http://localhost:3005")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.retries", 2)

	v.SetDefault("drive.client_id", "")
	v.SetDefault("drive.client_secret", "")
	v.SetDefault("drive.refresh_token", "")
	v.SetDefault("drive.token_url", "https://oauth2.googleapis.com/token")
	v.SetDefault("drive.files_url", "https://www.googleapis.com/drive/v3/files")
	v.SetDefault("drive.expiry_margin", 5*time.Minute)
	v.SetDefault("drive.timeout", 30*time.Second)
	v.SetDefault("drive.max_bytes", 25<<20)

	v.SetDefault("media.cache_backend", "memory")
	v.SetDefault("media.cache_prefix", "rifasuerte_image_cache_")
	v.SetDefault("media.cache_ttl", 7*24*time.Hour)
	v.SetDefault("media.batch_size", 5)
	v.SetDefault("media.bolt_path", "data/media.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("checkout.store", "memory")
	v.SetDefault("checkout.session_ttl", 2*time.Hour)
	v.SetDefault("checkout.purge_interval", 10*time.Minute)

	v.SetDefault("raffle.refresh_interval", 3*time.Minute)
	v.SetDefault("raffle.idle_ttl", 30*time.Minute)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db_name", "raffle_storefront_db")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.migrations_dir", "db/migrations")
	v.SetDefault("postgres.migrate_timeout", 10*time.Second)
	v.SetDefault("postgres.query_timeout", 2*time.Second)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.host",
		"server.port",
		"server.shutdown_timeout",
		"http.request_timeout",
		"http.cors_origins",
		"http.body_limit",
		"backend.base_url",
		"backend.timeout",
		"backend.retries",
		"drive.client_id",
		"drive.client_secret",
		"drive.refresh_token",
		"drive.token_url",
		"drive.files_url",
		"drive.expiry_margin",
		"drive.timeout",
		"drive.max_bytes",
		"media.cache_backend",
		"media.cache_prefix",
		"media.cache_ttl",
		"media.batch_size",
		"media.bolt_path",
		"redis.addr",
		"redis.password",
		"redis.db",
		"checkout.store",
		"checkout.session_ttl",
		"checkout.purge_interval",
		"raffle.refresh_interval",
		"raffle.idle_ttl",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.db_name",
		"postgres.ssl_mode",
		"postgres.migrations_dir",
		"postgres.migrate_timeout",
		"postgres.query_timeout",
		"postgres.max_conns",
		"postgres.min_conns",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
