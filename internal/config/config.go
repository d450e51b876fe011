package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	MongoDBURI string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// Chapa gateway. The secret key is intentionally NOT required at startup:
	// a missing credential surfaces as a configuration error on the payment
	// operation that needs it, so the rest of the API keeps working.
	ChapaSecretKey  string
	ChapaBaseURL    string
	PaymentCurrency string

	// PublicBaseURL is used to build the callback URL Chapa calls back on.
	PublicBaseURL    string
	PaymentReturnURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	ReconcileInterval time.Duration
	ReconcileAfter    time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		MongoDBURI: os.Getenv("MONGODB_URI"),

		RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntWithDefault("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),

		ChapaSecretKey:  os.Getenv("CHAPA_SECRET_KEY"),
		ChapaBaseURL:    getEnvWithDefault("CHAPA_BASE_URL", "https://api.chapa.co/v1"),
		PaymentCurrency: getEnvWithDefault("PAYMENT_CURRENCY", "ETB"),

		PublicBaseURL:    getEnvWithDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		PaymentReturnURL: getEnvWithDefault("PAYMENT_RETURN_URL", "http://localhost:3000/payment-success"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvWithDefault("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getEnvWithDefault("EMAIL_FROM", "noreply@tripnest.app"),

		ReconcileInterval: getEnvDurationWithDefault("RECONCILE_INTERVAL", 5*time.Minute),
		ReconcileAfter:    getEnvDurationWithDefault("RECONCILE_AFTER", 15*time.Minute),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// VerifyCallbackURL is the absolute URL Chapa redirects to (or calls as a
// webhook) after a checkout attempt.
func (c *Config) VerifyCallbackURL() string {
	return c.PublicBaseURL + "/api/v1/payment-verify"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
