package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Tipos de armazenamento de vendas suportados
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contém as configurações da aplicação
type Config struct {
	HTTPPort    string
	Env         string
	Store       string
	DatabaseURL string
	Pool        PoolConfig
	Kafka       KafkaConfig
	CORSOrigins []string
}

// PoolConfig contém os limites do pool de conexões
type PoolConfig struct {
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
}

// KafkaConfig contém o destino dos eventos de venda. Sem brokers, os eventos
// são apenas registrados no log.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled indica se há brokers configurados
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load lê a configuração das variáveis de ambiente, com valores padrão.
// O arquivo .env deve ser carregado antes por quem chama.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: databaseURL(),
		Kafka: KafkaConfig{
			Brokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "sales.events"),
		},
		CORSOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return Config{}, fmt.Errorf("HTTP_PORT inválida %q: %w", cfg.HTTPPort, err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNECTIONS", 10)
	if err != nil {
		return Config{}, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNECTIONS", 1)
	if err != nil {
		return Config{}, err
	}
	lifetime, err := getEnvInt("DB_MAX_LIFETIME", 3600)
	if err != nil {
		return Config{}, err
	}
	cfg.Pool = PoolConfig{
		MaxConnections:  int32(maxConns),
		MinConnections:  int32(minConns),
		MaxConnLifetime: time.Duration(lifetime) * time.Second,
	}

	defaultStore := StoreMemory
	if cfg.DatabaseURL != "" {
		defaultStore = StorePostgres
	}
	cfg.Store = strings.ToLower(getEnv("SALES_STORE", defaultStore))
	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("SALES_STORE=postgres exige DATABASE_URL ou DB_HOST")
		}
	default:
		return Config{}, fmt.Errorf("SALES_STORE inválido %q: use %s ou %s", cfg.Store, StoreMemory, StorePostgres)
	}

	return cfg, nil
}

// databaseURL usa DATABASE_URL ou monta a URL a partir de DB_*.
// Retorna "" quando nenhum banco foi configurado.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		host,
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "erp_vendas"),
		getEnv("DB_SSL_MODE", "disable"),
	)
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s inválido %q: %w", key, value, err)
	}
	return n, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
