package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Lock     LockConfig
	Outbox   OutboxConfig
	Gateway  GatewayConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	Issuer       string
}

// LockConfig selects the distributed lock backend. Backend "local" gives no
// cross-process guarantee and is only safe for single-instance deployments.
type LockConfig struct {
	Backend       string // "local" or "redis"
	RedisAddr     string
	RedisPassword string
	LeaseDuration time.Duration
}

type OutboxConfig struct {
	SweepInterval time.Duration
	BatchSize     int
	MaxRetries    int
	RetryBackoff  time.Duration // base of the exponential backoff
	MaxBackoff    time.Duration // cap on any single backoff interval
	ClaimTimeout  time.Duration // Processing claims older than this are requeued
}

type GatewayConfig struct {
	ChargeTimeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "givepay:givepay@tcp(localhost:3306)/givepay?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret: getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			Issuer:       getenv("JWT_ISSUER", "givehub"),
		},
		Lock: LockConfig{
			Backend:       getenv("LOCK_BACKEND", "local"),
			RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getenv("REDIS_PASSWORD", ""),
			LeaseDuration: getdur("LOCK_LEASE", 30*time.Second),
		},
		Outbox: OutboxConfig{
			SweepInterval: getdur("OUTBOX_SWEEP_INTERVAL", 5*time.Second),
			BatchSize:     getint("OUTBOX_BATCH_SIZE", 100),
			MaxRetries:    getint("OUTBOX_MAX_RETRIES", 10),
			RetryBackoff:  getdur("OUTBOX_RETRY_BACKOFF", 30*time.Second),
			MaxBackoff:    getdur("OUTBOX_MAX_BACKOFF", time.Hour),
			ClaimTimeout:  getdur("OUTBOX_CLAIM_TIMEOUT", 5*time.Minute),
		},
		Gateway: GatewayConfig{
			ChargeTimeout: getdur("GATEWAY_CHARGE_TIMEOUT", 15*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getenv("KAFKA_BROKER", "localhost:9092")},
			Topic:   getenv("KAFKA_TOPIC", "donation-payment-events"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
