package configuration

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Config carries every runtime setting the application needs. It is
// built once at startup and handed to the components that use it, no
// package keeps its own copy of the environment.
type Config struct {
	Port        string
	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	AuthRatePerSecond float64
	AuthRateBurst     int

	CORSOrigins []string
	StaticDir   string
}

// LoadConfig reads the environment (and .env when present) into a Config.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("no .env file found, reading configuration from environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DB", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 7*24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPEmail:    getEnv("SMTP_EMAIL", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AuthRatePerSecond: getEnvAsFloat("AUTH_RATE_PER_SECOND", 5),
		AuthRateBurst:     getEnvAsInt("AUTH_RATE_BURST", 10),

		CORSOrigins: getEnvAsSlice("CORS_ORIGINS"),
		StaticDir:   getEnv("STATIC_DIR", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", value).Msg("invalid integer in environment, using default")
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", value).Msg("invalid number in environment, using default")
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", value).Msg("invalid duration in environment, using default")
		return fallback
	}
	return parsed
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
