// Package config loads and validates application configuration from the
// environment. A .env file is honored in development via godotenv. All
// recognized settings are enumerated here with defaults; nothing reads the
// environment outside this package.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds process-level settings.
type AppConfig struct {
	Name            string
	Version         string
	Env             string
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string
	Encoding string
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig selects the durable cart-storage backend.
type StorageConfig struct {
	Backend string // "redis" or "memory"
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// MigrationsConfig points at the SQL migration files.
type MigrationsConfig struct {
	Dir string
}

// PricingConfig is the ruleset for totals computation.
type PricingConfig struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// CheckoutConfig holds checkout policy knobs.
type CheckoutConfig struct {
	DeliveryOffset time.Duration
}

// CORSConfig holds cross-origin settings for the browser storefront.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RateLimitConfig holds auth-endpoint rate limiting settings.
type RateLimitConfig struct {
	Enabled bool
	Rate    int64
	Window  time.Duration
	Burst   int64
}

// Config is the root configuration object, built once at startup and passed
// explicitly to every component that needs it.
type Config struct {
	App        AppConfig
	Log        LogConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	JWT        JWTConfig
	Migrations MigrationsConfig
	Pricing    PricingConfig
	Promo      map[string]decimal.Decimal
	Checkout   CheckoutConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "tees-by-shelsea"),
			Version:         getEnv("APP_VERSION", "dev"),
			Env:             getEnv("APP_ENV", "dev"),
			Port:            getEnvInt("APP_PORT", 3000),
			RequestTimeout:  getEnvDuration("APP_REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnvInt("DB_PORT", 3306),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "storefront"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "redis"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			AccessTokenTTL: getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),
		},
		Migrations: MigrationsConfig{
			Dir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Pricing: PricingConfig{
			TaxRate:               getEnvDecimal("PRICING_TAX_RATE", "0.08"),
			FreeShippingThreshold: getEnvDecimal("PRICING_FREE_SHIPPING_THRESHOLD", "50"),
			FlatShippingFee:       getEnvDecimal("PRICING_FLAT_SHIPPING_FEE", "9.99"),
		},
		Checkout: CheckoutConfig{
			DeliveryOffset: getEnvDuration("CHECKOUT_DELIVERY_OFFSET", 7*24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Request-ID"}),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", false),
			Rate:    int64(getEnvInt("RATE_LIMIT_RATE", 10)),
			Window:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Burst:   int64(getEnvInt("RATE_LIMIT_BURST", 20)),
		},
	}

	promo, err := parsePromoCodes(getEnv("PROMO_CODES", ""))
	if err != nil {
		return nil, err
	}
	cfg.Promo = promo

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPromoCodes is the static promo registry used when PROMO_CODES is
// not set.
func DefaultPromoCodes() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"WELCOME10": decimal.RequireFromString("0.10"),
		"SUMMER20":  decimal.RequireFromString("0.20"),
		"STUDENT15": decimal.RequireFromString("0.15"),
		"BULK25":    decimal.RequireFromString("0.25"),
	}
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT: %d", c.App.Port)
	}
	if c.JWT.Secret == "" && c.App.Env == "prod" {
		return fmt.Errorf("JWT_SECRET is required in prod")
	}
	if c.Storage.Backend != "redis" && c.Storage.Backend != "memory" {
		return fmt.Errorf("invalid STORAGE_BACKEND: %q", c.Storage.Backend)
	}
	one := decimal.NewFromInt(1)
	if c.Pricing.TaxRate.IsNegative() || c.Pricing.TaxRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("PRICING_TAX_RATE must be in [0,1): %s", c.Pricing.TaxRate)
	}
	if c.Pricing.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("PRICING_FREE_SHIPPING_THRESHOLD must be non-negative")
	}
	if c.Pricing.FlatShippingFee.IsNegative() {
		return fmt.Errorf("PRICING_FLAT_SHIPPING_FEE must be non-negative")
	}
	for code, rate := range c.Promo {
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return fmt.Errorf("promo code %s: discount rate must be in [0,1): %s", code, rate)
		}
	}
	return nil
}

// parsePromoCodes parses "CODE:RATE,CODE:RATE" pairs. Codes are stored
// uppercase, matching the resolver's normalization.
func parsePromoCodes(raw string) (map[string]decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPromoCodes(), nil
	}

	codes := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid PROMO_CODES entry: %q", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid promo rate in %q: %w", pair, err)
		}
		codes[strings.ToUpper(strings.TrimSpace(parts[0]))] = rate
	}
	return codes, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}
