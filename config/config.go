package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the ecowatch service
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins []string

	// Database configuration (officials directory, read-only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// RabbitMQ configuration
	AMQPHost               string
	AMQPPort               string
	AMQPUser               string
	AMQPPassword           string
	RabbitExchange         string
	RabbitReportRoutingKey string

	// Gemini configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	// SendGrid configuration
	SendGridAPIKey    string
	SendGridFromName  string
	SendGridFromEmail string

	// Anomaly monitor
	AnomalyEnabled       bool
	AnomalyCheckInterval time.Duration

	// Workflow
	StrictTransitions bool

	// Rate limiting for AI endpoints
	AIRateLimitPerMinute int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{"*"}),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "ecowatch"),

		AMQPHost:               getEnv("AMQP_HOST", ""),
		AMQPPort:               getEnv("AMQP_PORT", "5672"),
		AMQPUser:               getEnv("AMQP_USER", "guest"),
		AMQPPassword:           getEnv("AMQP_PASSWORD", "guest"),
		RabbitExchange:         getEnv("RABBITMQ_EXCHANGE", "ecowatch"),
		RabbitReportRoutingKey: getEnv("RABBITMQ_REPORT_ROUTING_KEY", "report.event"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeout: getDurationEnv("GEMINI_TIMEOUT", 30*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "EcoWatch"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "alerts@ecowatch.local"),

		AnomalyEnabled:       getBoolEnv("ANOMALY_ENABLED", true),
		AnomalyCheckInterval: getDurationEnv("ANOMALY_CHECK_INTERVAL", 10*time.Second),

		StrictTransitions: getBoolEnv("REPORT_STRICT_TRANSITIONS", false),

		AIRateLimitPerMinute: getIntEnv("AI_RATE_LIMIT_PER_MINUTE", 20),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// AMQPURL builds the broker URL, empty when no host is configured.
func (c *Config) AMQPURL() string {
	if c.AMQPHost == "" {
		return ""
	}
	return "amqp://" + c.AMQPUser + ":" + c.AMQPPassword + "@" + c.AMQPHost + ":" + c.AMQPPort + "/"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
