package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int

	// ConnectRetries is how many extra pings NewPostgres attempts before giving up.
	ConnectRetries  int
	ConnectRetryGap time.Duration
}

// MinIOConfig holds object storage settings for MinIO.
// PublicURL, when set, is the base URL objects are publicly served from
// (e.g. https://bucket.s3.example.com). Without it, uploads return presigned URLs.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// RedisConfig holds cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTLSec   int
}

// AuthConfig holds token and cookie settings.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
}

// PricingConfig holds the order price rules.
type PricingConfig struct {
	TaxRate          string
	FreeShippingOver string
	ShippingFee      string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port            string
	Timezone        string
	FrontendURL     string
	BodyLimitMB     int
	PaginationLimit int
	Database        DatabaseConfig
	MinIO           MinIOConfig
	Redis           RedisConfig
	Auth            AuthConfig
	Pricing         PricingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:            getEnv("PORT", "5000"),
		Timezone:        getEnv("APP_TIMEZONE", "UTC"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		BodyLimitMB:     getEnvInt("HTTP_BODY_LIMIT_MB", 6),
		PaginationLimit: getEnvInt("PAGINATION_LIMIT", 8),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectRetries:     getEnvInt("DB_CONNECT_RETRIES", 5),
			ConnectRetryGap:    time.Duration(getEnvInt("DB_CONNECT_RETRY_GAP_MS", 2000)) * time.Millisecond,
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTLSec:   getEnvInt("CACHE_TTL_SEC", 60),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     time.Duration(getEnvInt("JWT_TTL_HOURS", 24*30)) * time.Hour,
			CookieSecure: getEnvBool("COOKIE_SECURE", true),
		},
		Pricing: PricingConfig{
			TaxRate:          getEnv("PRICING_TAX_RATE", "0.15"),
			FreeShippingOver: getEnv("PRICING_FREE_SHIPPING_OVER", "100"),
			ShippingFee:      getEnv("PRICING_SHIPPING_FEE", "10"),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
