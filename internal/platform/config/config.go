package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string

	AvailabilityTimeout time.Duration
	ItemLockTTL         time.Duration
	ItemCacheTTL        time.Duration
	AuditInterval       time.Duration
	StrictLifecycle     bool
}

// Load reads .env when present and then the process environment.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "party-rental"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "party_rental"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		AvailabilityTimeout: getDuration("AVAILABILITY_TIMEOUT", 5*time.Second),
		ItemLockTTL:         getDuration("ITEM_LOCK_TTL", 10*time.Second),
		ItemCacheTTL:        getDuration("ITEM_CACHE_TTL", 5*time.Minute),
		AuditInterval:       getDuration("AUDIT_INTERVAL", 10*time.Minute),
		StrictLifecycle:     getBool("STRICT_LIFECYCLE", false),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
