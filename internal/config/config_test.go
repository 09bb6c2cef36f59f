package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKER", "AUTH_REQUIRED", "TOKEN_TTL", "RATE_LIMIT_RPS", "MIGRATE_ON_START"} {
			t.Setenv(k, "")
		}

		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.False(t, cfg.AuthRequired)
		assert.True(t, cfg.MigrateOnStart)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
		assert.Equal(t, float64(20), cfg.RateLimitRPS)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("HTTP_ADDR", ":9000")
		t.Setenv("KAFKA_BROKER", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("AUTH_REQUIRED", "yes")
		t.Setenv("TOKEN_TTL", "2h")
		t.Setenv("DB_MAX_OPEN_CONNS", "25")
		t.Setenv("MIGRATE_ON_START", "false")

		cfg := FromEnv()
		assert.Equal(t, ":9000", cfg.HTTPAddr)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.True(t, cfg.AuthRequired)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
		assert.Equal(t, 25, cfg.DBMaxOpenConns)
		assert.False(t, cfg.MigrateOnStart)
	})

	t.Run("InvalidValuesFallBack", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "many")
		t.Setenv("LISTINGS_CACHE_TTL", "soon")
		t.Setenv("RATE_LIMIT_RPS", "fast")

		cfg := FromEnv()
		assert.Equal(t, 10, cfg.DBMaxOpenConns)
		assert.Equal(t, 30*time.Second, cfg.ListingsCacheTTL)
		assert.Equal(t, float64(20), cfg.RateLimitRPS)
	})
}
