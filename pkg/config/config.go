package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VEHICLESALES"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Webhook      WebhookConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VEHICLESALES_APP_ENV" default:"dev"`
	Port         string `envconfig:"VEHICLESALES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VEHICLESALES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VEHICLESALES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VEHICLESALES_DB_DSN"`
	Driver string `envconfig:"VEHICLESALES_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"VEHICLESALES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VEHICLESALES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VEHICLESALES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VEHICLESALES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MongoConfig struct {
	URI            string        `envconfig:"VEHICLESALES_MONGO_URI"`
	Database       string        `envconfig:"VEHICLESALES_MONGO_DATABASE" default:"vehicle_sales"`
	ConnectTimeout time.Duration `envconfig:"VEHICLESALES_MONGO_CONNECT_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VEHICLESALES_REDIS_URL"`
	Address      string        `envconfig:"VEHICLESALES_REDIS_ADDR"`
	Password     string        `envconfig:"VEHICLESALES_REDIS_PASSWORD"`
	DB           int           `envconfig:"VEHICLESALES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VEHICLESALES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VEHICLESALES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VEHICLESALES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VEHICLESALES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VEHICLESALES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured. The sales webhook
// idempotency guard is skipped when it was not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// CatalogConfig points the sales service at the catalog API.
type CatalogConfig struct {
	BaseURL string        `envconfig:"VEHICLESALES_CATALOG_BASE_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"VEHICLESALES_CATALOG_TIMEOUT" default:"10s"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"VEHICLESALES_WEBHOOK_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VEHICLESALES_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"VEHICLESALES_SEED_ON_BOOT" default:"false"`
}
