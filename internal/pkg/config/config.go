package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	ExpiryCheckInterval time.Duration `env:"EXPIRY_CHECK_INTERVAL, default=30s"`
}

// APIConfig points the gateway client at the Kanban backend.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8080"`
	Prefix  string        `env:"API_PREFIX"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,    default=kanban-session.db"`
	Namespace  string `env:"STORAGE_NAMESPACE, default=kanban"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kanban_web"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	switch cfg.Storage.Driver {
	case DriverSQLite, DriverRedis, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}
