package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/petbazaar/petbazaar-backend/pkg/money"
)

const (
	// EnvPrefix is empty: every variable is tagged with its full name.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Config aggregates every runtime knob the binaries read from the environment.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Pricing PricingConfig
	Cart    CartConfig
	Orders  OrdersConfig
	Cron    CronConfig
	Flags   FeatureFlagsConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Pricing.Pricing(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PETBAZAAR_APP_ENV" required:"true"`
	Port         string `envconfig:"PETBAZAAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PETBAZAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PETBAZAAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN             string        `envconfig:"PETBAZAAR_DB_DSN" required:"true"`
	MaxOpenConns    int           `envconfig:"PETBAZAAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PETBAZAAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PETBAZAAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PETBAZAAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PETBAZAAR_REDIS_URL"`
	Address      string        `envconfig:"PETBAZAAR_REDIS_ADDR"`
	Password     string        `envconfig:"PETBAZAAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"PETBAZAAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PETBAZAAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PETBAZAAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PETBAZAAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PETBAZAAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PETBAZAAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PETBAZAAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PETBAZAAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PETBAZAAR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PricingConfig holds the PKR charge parameters as decimal strings.
type PricingConfig struct {
	TaxRate               string `envconfig:"PETBAZAAR_TAX_RATE" default:"0.15"`
	FreeShippingThreshold string `envconfig:"PETBAZAAR_FREE_SHIPPING_THRESHOLD_PKR" default:"5000"`
	FlatShippingFee       string `envconfig:"PETBAZAAR_FLAT_SHIPPING_FEE_PKR" default:"250"`
}

// Pricing parses the configured strings into exact decimals.
func (p PricingConfig) Pricing() (money.Pricing, error) {
	return money.NewPricing(p.TaxRate, p.FreeShippingThreshold, p.FlatShippingFee)
}

type CartConfig struct {
	// SnapshotTTL bounds how long an untouched cart snapshot survives in
	// Redis. Zero keeps snapshots forever.
	SnapshotTTL time.Duration `envconfig:"PETBAZAAR_CART_SNAPSHOT_TTL" default:"720h"`
}

type OrdersConfig struct {
	// PendingTTL is how long a pending order may sit without a transaction
	// id before the cron worker expires it.
	PendingTTL time.Duration `envconfig:"PETBAZAAR_ORDER_PENDING_TTL" default:"240h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"PETBAZAAR_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"PETBAZAAR_CRON_LOCK_TTL" default:"50m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PETBAZAAR_AUTO_MIGRATE" default:"false"`
}
