package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	Payment   PaymentConfig
	PriceFeed PriceFeedConfig
	RateLimit RateLimitConfig
}

// PaymentConfig controls the per-reading micro-payment policy.
type PaymentConfig struct {
	// Required decides whether a reading may be ingested without a completed
	// payment. When false, readings without a payment reference are persisted
	// as deferred/unpaid.
	Required bool
	// Satoshis is the fixed policy amount charged per reading.
	Satoshis int64
	// DestinationAddress receives every reading payment.
	DestinationAddress string
	// Gateway selects the chain gateway adapter ("whatsonchain" or "dev").
	Gateway string
	// APIBaseURL and APIKey configure the WhatsOnChain-style gateway.
	APIBaseURL string
	APIKey     string
	// SignerMode selects the transaction signer ("dev" or "" for none).
	// Production key custody lives outside this service; without a signer the
	// whatsonchain send path reports signer_unavailable.
	SignerMode string
	// TimeoutSeconds bounds every outbound chain call.
	TimeoutSeconds int
}

// PriceFeedConfig configures the market exchange-rate lookup.
type PriceFeedConfig struct {
	BaseURL        string
	CoinID         string
	Currency       string
	CacheTTLSecond int
	TimeoutSeconds int
}

// RateLimitConfig configures the redis-backed ingest limiter.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	IngestRate    float64
	IngestBurst   int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "wattpay"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "wattpay"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		Payment: PaymentConfig{
			Required:           getenvBool("PAYMENT_REQUIRED", true),
			Satoshis:           getenvInt64("PAYMENT_SATOSHIS", 100),
			DestinationAddress: strings.TrimSpace(getenv("PAYMENT_DESTINATION_ADDRESS", "")),
			Gateway:            strings.ToLower(getenv("CHAIN_GATEWAY", "dev")),
			APIBaseURL:         getenv("CHAIN_API_BASE_URL", "https://api.whatsonchain.com/v1/bsv/main"),
			APIKey:             strings.TrimSpace(getenv("CHAIN_API_KEY", "")),
			SignerMode:         strings.ToLower(strings.TrimSpace(getenv("CHAIN_SIGNER", ""))),
			TimeoutSeconds:     getenvInt("CHAIN_TIMEOUT_SECONDS", 10),
		},
		PriceFeed: PriceFeedConfig{
			BaseURL:        getenv("PRICE_FEED_BASE_URL", "https://api.coingecko.com/api/v3"),
			CoinID:         getenv("PRICE_FEED_COIN_ID", "bitcoin-cash-sv"),
			Currency:       strings.ToLower(getenv("PRICE_FEED_CURRENCY", "eur")),
			CacheTTLSecond: getenvInt("PRICE_FEED_CACHE_TTL_SECONDS", 300),
			TimeoutSeconds: getenvInt("PRICE_FEED_TIMEOUT_SECONDS", 10),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: strings.TrimSpace(getenv("RATE_LIMIT_REDIS_PASSWORD", "")),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			IngestRate:    getenvFloat("RATE_LIMIT_INGEST_RATE", 5),
			IngestBurst:   getenvInt("RATE_LIMIT_INGEST_BURST", 10),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
