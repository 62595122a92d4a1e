package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Drive    DriveConfig    `mapstructure:"drive"`
	Media    MediaConfig    `mapstructure:"media"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Raffle   RaffleConfig   `mapstructure:"raffle"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	switch c.Media.CacheBackend {
	case "memory", "redis", "bolt":
	default:
		return fmt.Errorf("media.cache_backend %q is not supported", c.Media.CacheBackend)
	}
	if c.Media.CacheBackend == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr is required for the redis media cache")
	}
	if c.Media.CacheBackend == "bolt" && c.Media.BoltPath == "" {
		return errors.New("media.bolt_path is required for the bolt media cache")
	}
	if c.Media.BatchSize <= 0 {
		return errors.New("media.batch_size must be positive")
	}
	switch c.Checkout.Store {
	case "memory":
	case "postgres":
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if c.Postgres.Host == "" {
			return errors.New("postgres.host is required")
		}
	default:
		return fmt.Errorf("checkout.store %q is not supported", c.Checkout.Store)
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    string        `mapstructure:"cors_origins"`
	BodyLimit      int           `mapstructure:"body_limit"`
}

// AllowedOrigins splits the comma separated CORS allow-list.
func (h HTTPConfig) AllowedOrigins() []string {
	parts := strings.Split(h.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// BackendConfig points at the raffle REST backend.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// DriveConfig holds the Google Drive OAuth2 credentials.
type DriveConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RefreshToken string        `mapstructure:"refresh_token"`
	TokenURL     string        `mapstructure:"token_url"`
	FilesURL     string        `mapstructure:"files_url"`
	ExpiryMargin time.Duration `mapstructure:"expiry_margin"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBytes     int64         `mapstructure:"max_bytes"`
}

// MediaConfig selects and tunes the media cache and prefetcher.
type MediaConfig struct {
	CacheBackend string        `mapstructure:"cache_backend"`
	CachePrefix  string        `mapstructure:"cache_prefix"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	BatchSize    int           `mapstructure:"batch_size"`
	BoltPath     string        `mapstructure:"bolt_path"`
}

// RedisConfig describes the redis media cache connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CheckoutConfig selects the checkout session store.
type CheckoutConfig struct {
	Store         string        `mapstructure:"store"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

// RaffleConfig tunes background raffle refresh. Raffles not viewed within
// IdleTTL stop being refreshed.
type RaffleConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}
