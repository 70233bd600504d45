package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	BaseURL              string
	JWTSecret            string
	DBHost               string
	DBPort               string
	DBUser               string
	DBPass               string
	DBName               string
	DBNameTest           string
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	MinioHost            string
	MinioPort            string
	MinioUsername        string
	MinioPassword        string
	BucketName           string
	BucketNameTest       string
	RabbitMQURL          string
	RabbitMQPrefetch     int
	ReconcileConcurrency int
	ReconcileRate        float64
	ReconcileBurst       int
	ReconcileRetryMax    int
	ReconcileRetryDelays []time.Duration
	ReconcileSweepEvery  time.Duration
	ReconcileSweepGrace  time.Duration
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDurationList(key string, defaultValue []time.Duration) []time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// InitConfig loads configuration from the environment.
func InitConfig() {
	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(rabbitUser),
			url.PathEscape(rabbitPass),
			rabbitHost,
			rabbitPort,
			url.PathEscape(rabbitVhost),
		)
	}
	retryDelays := getEnvDurationList(
		"RECONCILE_RETRY_DELAYS",
		[]time.Duration{10 * time.Second, 30 * time.Second, 2 * time.Minute, 10 * time.Minute},
	)
	port := getEnv("PORT", "5000")
	AppConfig = Config{
		Port:                 port,
		BaseURL:              getEnv("BASE_URL", "http://localhost:"+port),
		JWTSecret:            getEnv("JWT_SECRET", "vectra-dev-secret"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "3306"),
		DBUser:               getEnv("DB_USER", "root"),
		DBPass:               getEnv("DB_PASS", "root"),
		DBName:               getEnv("DB_NAME", "vectra"),
		DBNameTest:           getEnv("DB_NAME_TEST", "vectra_test"),
		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              0,
		MinioHost:            getEnv("MINIO_HOST", "localhost"),
		MinioPort:            getEnv("MINIO_PORT", "9000"),
		MinioUsername:        getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword:        getEnv("MINIO_PASSWORD", "minioadmin"),
		BucketName:           getEnv("BUCKET_NAME", "files"),
		BucketNameTest:       getEnv("BUCKET_NAME_TEST", "files-test"),
		RabbitMQURL:          rabbitURL,
		RabbitMQPrefetch:     getEnvInt("RABBITMQ_PREFETCH", 8),
		ReconcileConcurrency: getEnvInt("RECONCILE_CONCURRENCY", 2),
		ReconcileRate:        getEnvFloat("RECONCILE_RATE", 10),
		ReconcileBurst:       getEnvInt("RECONCILE_BURST", 20),
		ReconcileRetryMax:    getEnvInt("RECONCILE_RETRY_MAX", 4),
		ReconcileRetryDelays: retryDelays,
		ReconcileSweepEvery:  getEnvDuration("RECONCILE_SWEEP_EVERY", time.Hour),
		ReconcileSweepGrace:  getEnvDuration("RECONCILE_SWEEP_GRACE", 15*time.Minute),
	}
}
