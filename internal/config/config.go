package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	MetricsAddr string
	LogLevel    string

	PostgresDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
	MigrateOnStart bool

	RedisAddr        string
	ListingsCacheTTL time.Duration

	// KafkaBrokers is empty when event publishing is disabled.
	KafkaBrokers []string

	JWTSecret    string
	TokenTTL     time.Duration
	AuthRequired bool

	RateLimitRPS   float64
	RateLimitBurst int

	OTLPEndpoint string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using environment", "error", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		HTTPAddr:    getEnvDefault("HTTP_ADDR", ":8080"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogLevel:    getEnvDefault("LOG_LEVEL", "info"),

		PostgresDSN:    getEnvDefault("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=rotrade sslmode=disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		MigrateOnStart: isTruthy(getEnvDefault("MIGRATE_ON_START", "true")),

		RedisAddr:        getEnvDefault("REDIS_ADDR", "localhost:6379"),
		ListingsCacheTTL: getEnvDuration("LISTINGS_CACHE_TTL", 30*time.Second),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKER")),

		JWTSecret:    getEnvDefault("JWT_SECRET", "supersecret"),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 24*time.Hour),
		AuthRequired: isTruthy(os.Getenv("AUTH_REQUIRED")),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"auth_required", cfg.AuthRequired,
	)
	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		slog.Warn("invalid integer in env, using default", "key", k, "value", v)
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("invalid number in env, using default", "key", k, "value", v)
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration in env, using default", "key", k, "value", v)
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
