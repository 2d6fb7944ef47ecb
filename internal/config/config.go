package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DBDriver     string
	DatabaseDSN  string
	ResetDB      bool
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	LogLevel     string
	LogFormat    string
	SwaggerHost  string
}

// Load builds Config from environment with sensible defaults.
// Values from an optional .env file in the working directory are applied
// first; variables already set in the environment take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/flanes?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:      getEnvBool("RESET_DB", false),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
