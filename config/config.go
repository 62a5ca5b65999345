package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects everything the process reads from the environment. It is
// built once in main and handed to the pieces that need it; nothing else in
// the codebase reads env vars directly.
type Config struct {
	Port        string
	DatabaseURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret   string
	AdminAPIKey string

	// DeliveryFee is the flat home-delivery surcharge added to amount due.
	DeliveryFee float64

	Gateway GatewayConfig
	SMTP    SMTPConfig
}

// GatewayConfig configures the hosted-page card payment gateway.
type GatewayConfig struct {
	StoreID       int
	AuthKey       string
	APIURL        string
	Mode          string // "live", or "sandbox"/"dev" for test mode
	SuccessURL    string
	FailureURL    string
	CancelURL     string
	WebhookSecret string
}

// SMTPConfig configures low-stock alert mail delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	storeID, _ := strconv.Atoi(os.Getenv("GATEWAY_STORE_ID"))

	return Config{
		Port:        envOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
		DeliveryFee: envFloat("DELIVERY_FEE", 8),
		Gateway: GatewayConfig{
			StoreID:       storeID,
			AuthKey:       os.Getenv("GATEWAY_AUTH_KEY"),
			APIURL:        os.Getenv("GATEWAY_API_URL"),
			Mode:          envOr("GATEWAY_MODE", "live"),
			SuccessURL:    os.Getenv("GATEWAY_SUCCESS_URL"),
			FailureURL:    os.Getenv("GATEWAY_FAILURE_URL"),
			CancelURL:     os.Getenv("GATEWAY_CANCEL_URL"),
			WebhookSecret: os.Getenv("GATEWAY_WEBHOOK_SECRET"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envOr("SMTP_FROM", "alerts@mediasoft.local"),
		},
	}
}

// DSN returns the postgres connection string, preferring DATABASE_URL.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
