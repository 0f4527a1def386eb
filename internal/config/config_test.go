package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "APP_ENV", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SALES_STORE", "KAFKA_BROKERS",
		"KAFKA_TOPIC", "CORS_ALLOWED_ORIGINS", "DB_MAX_CONNECTIONS",
		"DB_MIN_CONNECTIONS", "DB_MAX_LIFETIME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "sales.events", cfg.Kafka.Topic)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int32(10), cfg.Pool.MaxConnections)
}

func TestLoad_PostgresFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "vendas")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/vendas?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALES_STORE", "postgres")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("SALES_STORE", "redis")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("HTTP_PORT", "abc")
	_, err = Load()
	assert.Error(t, err)
}
