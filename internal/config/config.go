package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DBUrl             string
	AccessTokenSecret string
	TokenTTL          time.Duration
	PaymentSecretKey  string
	PaymentCurrency   string
	AppEnv            string
	CORSAllowOrigins  string
	SettlementTimeout time.Duration
	ReconcileAfter    time.Duration
	ReconcileInterval time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	secret, exists := os.LookupEnv("ACCESS_TOKEN_SECRET")
	if !exists || secret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}

	return &Config{
		Port:              getEnv("PORT", "5000"),
		DBUrl:             getEnv("DB_URL", ""),
		AccessTokenSecret: secret,
		TokenTTL:          getEnvDuration("TOKEN_TTL", time.Hour),
		PaymentSecretKey:  getEnv("PAYMENT_SECRET_KEY", ""),
		PaymentCurrency:   strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		AppEnv:            normalizeEnv(getEnv("APP_ENV", "production")),
		CORSAllowOrigins:  getEnv("CORS_ALLOW_ORIGINS", "*"),
		SettlementTimeout: getEnvDuration("SETTLEMENT_TIMEOUT", 10*time.Second),
		ReconcileAfter:    getEnvDuration("RECONCILE_AFTER", 5*time.Minute),
		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", time.Minute),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) PaymentsEnabled() bool {
	return c != nil && c.PaymentSecretKey != ""
}
